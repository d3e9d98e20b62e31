/*
 * Copyright (c) 2014-2019 Christian Muehlhaeuser
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *	Authors:
 *		Christian Muehlhaeuser <muesli@gmail.com>
 *		Michael Wendland <michael@michiwend.com>
 *		Bjørn Erik Pedersen <bjorn.erik.pedersen@gmail.com>
 */

package smartcrop

import (
	"math"
)

// Options tunes the analysis. Start from DefaultOptions and adjust; the zero
// value is not usable.
type Options struct {
	DetailWeight float64 `mapstructure:"detailWeight" json:"detailWeight"`

	SkinColor         [3]float64 `mapstructure:"skinColor" json:"skinColor"`
	SkinBias          float64    `mapstructure:"skinBias" json:"skinBias"`
	SkinBrightnessMin float64    `mapstructure:"skinBrightnessMin" json:"skinBrightnessMin"`
	SkinBrightnessMax float64    `mapstructure:"skinBrightnessMax" json:"skinBrightnessMax"`
	SkinThreshold     float64    `mapstructure:"skinThreshold" json:"skinThreshold"`
	SkinWeight        float64    `mapstructure:"skinWeight" json:"skinWeight"`

	SaturationBrightnessMin float64 `mapstructure:"saturationBrightnessMin" json:"saturationBrightnessMin"`
	SaturationBrightnessMax float64 `mapstructure:"saturationBrightnessMax" json:"saturationBrightnessMax"`
	SaturationThreshold     float64 `mapstructure:"saturationThreshold" json:"saturationThreshold"`
	SaturationBias          float64 `mapstructure:"saturationBias" json:"saturationBias"`
	SaturationWeight        float64 `mapstructure:"saturationWeight" json:"saturationWeight"`

	// BoostWeight multiplies the weighted overlap of boost regions.
	BoostWeight float64 `mapstructure:"boostWeight" json:"boostWeight"`

	// Step is the distance between candidate positions in analysis pixels.
	Step int `mapstructure:"step" json:"step"`
	// ScaleStep is the factor applied to the scale after each sweep.
	ScaleStep float64 `mapstructure:"scaleStep" json:"scaleStep"`
	MinScale  float64 `mapstructure:"minScale" json:"minScale"`
	MaxScale  float64 `mapstructure:"maxScale" json:"maxScale"`

	EdgeRadius        float64 `mapstructure:"edgeRadius" json:"edgeRadius"`
	EdgeWeight        float64 `mapstructure:"edgeWeight" json:"edgeWeight"`
	OutsideImportance float64 `mapstructure:"outsideImportance" json:"outsideImportance"`
	RuleOfThirds      bool    `mapstructure:"ruleOfThirds" json:"ruleOfThirds"`
	// ImportanceCells is the number of cells per axis a candidate is split
	// into when weighting its content.
	ImportanceCells int `mapstructure:"importanceCells" json:"importanceCells"`
	// PriorWeight scales the preference for candidates centred on the image.
	PriorWeight float64 `mapstructure:"priorWeight" json:"priorWeight"`

	Prescale bool `mapstructure:"prescale" json:"prescale"`
	// AnalysisMaxDimension caps the longer side of the analysis raster.
	AnalysisMaxDimension int `mapstructure:"analysisMaxDimension" json:"analysisMaxDimension"`

	// Workers bounds the goroutines used per analysis. 0 means GOMAXPROCS,
	// 1 runs everything on the calling goroutine.
	Workers int `mapstructure:"workers" json:"workers"`

	// Debug attaches the score grid to the result. With DebugDir set the
	// feature channels and the top crop are also written there as PNGs.
	Debug    bool   `mapstructure:"debug" json:"debug"`
	DebugDir string `mapstructure:"debugDir" json:"debugDir"`
}

// DefaultOptions returns the options used by NewAnalyzer.
func DefaultOptions() Options {
	return Options{
		DetailWeight: 0.2,

		SkinColor:         [3]float64{0.78, 0.57, 0.44},
		SkinBias:          0.01,
		SkinBrightnessMin: 0.2,
		SkinBrightnessMax: 1.0,
		SkinThreshold:     0.8,
		SkinWeight:        1.8,

		SaturationBrightnessMin: 0.05,
		SaturationBrightnessMax: 0.9,
		SaturationThreshold:     0.4,
		SaturationBias:          0.2,
		SaturationWeight:        0.1,

		BoostWeight: 100.0,

		// step * minscale rounded down to the next power of two should be good
		Step:      8,
		ScaleStep: 0.95,
		MinScale:  0.9,
		MaxScale:  1.0,

		EdgeRadius:        0.4,
		EdgeWeight:        -20.0,
		OutsideImportance: -0.5,
		RuleOfThirds:      true,
		ImportanceCells:   8,
		PriorWeight:       0.001,

		Prescale:             true,
		AnalysisMaxDimension: 256,
	}
}

// Validate reports the first inconsistent option.
func (o Options) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"detailWeight", o.DetailWeight},
		{"skinWeight", o.SkinWeight},
		{"saturationWeight", o.SaturationWeight},
		{"boostWeight", o.BoostWeight},
		{"skinBias", o.SkinBias},
		{"saturationBias", o.SaturationBias},
		{"edgeWeight", o.EdgeWeight},
		{"edgeRadius", o.EdgeRadius},
		{"outsideImportance", o.OutsideImportance},
		{"priorWeight", o.PriorWeight},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalidConfigf("%s must be finite, got %v", f.name, f.v)
		}
	}
	switch {
	case o.Step < 1:
		return invalidConfigf("step must be at least 1, got %d", o.Step)
	case !(o.ScaleStep > 0 && o.ScaleStep < 1):
		return invalidConfigf("scaleStep must be in (0, 1), got %v", o.ScaleStep)
	case !(o.MaxScale > 0 && o.MaxScale <= 1):
		return invalidConfigf("maxScale must be in (0, 1], got %v", o.MaxScale)
	case !(o.MinScale > 0 && o.MinScale <= o.MaxScale):
		return invalidConfigf("minScale must be in (0, maxScale=%v], got %v", o.MaxScale, o.MinScale)
	case o.ImportanceCells < 1:
		return invalidConfigf("importanceCells must be at least 1, got %d", o.ImportanceCells)
	case o.Prescale && o.AnalysisMaxDimension < 1:
		return invalidConfigf("analysisMaxDimension must be at least 1 when prescaling, got %d", o.AnalysisMaxDimension)
	case o.Workers < 0:
		return invalidConfigf("workers must not be negative, got %d", o.Workers)
	case !(o.SkinThreshold < 1):
		return invalidConfigf("skinThreshold must be below 1, got %v", o.SkinThreshold)
	case !(o.SaturationThreshold < 1):
		return invalidConfigf("saturationThreshold must be below 1, got %v", o.SaturationThreshold)
	}
	return nil
}
