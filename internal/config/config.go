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

// Package config resolves the command line configuration. Values are merged
// in the order defaults, config file, SMARTCROP_* environment, flags.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/someposer/smartcrop-cli"
	"github.com/someposer/smartcrop-cli/render"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "SMARTCROP"

// Face detection models.
const (
	ModelHaar  = "haar"
	ModelYuNet = "yunet"
)

// Analysis resamplers.
const (
	ResamplerNfnt  = "nfnt"
	ResamplerXDraw = "xdraw"
)

// Unsharp configures the unsharp mask applied after resizing.
type Unsharp struct {
	Sigma     float64 `mapstructure:"sigma" json:"sigma"`
	Amount    float64 `mapstructure:"amount" json:"amount"`
	Threshold float64 `mapstructure:"threshold" json:"threshold"`
}

// Config is the resolved configuration of one invocation.
type Config struct {
	Width        int    `mapstructure:"width" json:"width"`
	Height       int    `mapstructure:"height" json:"height"`
	Quality      int    `mapstructure:"quality" json:"quality"`
	OutputFormat string `mapstructure:"outputFormat" json:"outputFormat"`
	Lossless     bool   `mapstructure:"lossless" json:"lossless"`

	FaceDetection bool   `mapstructure:"faceDetection" json:"faceDetection"`
	Model         string `mapstructure:"model" json:"model"`
	ModelPath     string `mapstructure:"modelPath" json:"modelPath"`

	Unsharp Unsharp `mapstructure:"unsharp" json:"unsharp"`

	// Resampler picks the library used to downsample before analysis.
	Resampler string `mapstructure:"resampler" json:"resampler"`

	Jobs   int    `mapstructure:"jobs" json:"jobs"`
	OutDir string `mapstructure:"outDir" json:"outDir"`

	JSONLogs bool `mapstructure:"jsonLogs" json:"jsonLogs"`

	Crop smartcrop.Options `mapstructure:",squash" json:"crop"`
}

// Default returns the built in configuration.
func Default() Config {
	r := render.DefaultOptions()
	return Config{
		Quality:      r.Quality,
		OutputFormat: r.Format,
		Model:        ModelHaar,
		Unsharp: Unsharp{
			Sigma:     r.Unsharp.Sigma,
			Amount:    r.Unsharp.Amount,
			Threshold: r.Unsharp.Threshold,
		},
		Resampler: ResamplerNfnt,
		Jobs:      1,
		Crop: smartcrop.DefaultOptions(),
	}
}

// SetDefaults registers every key with its default so environment
// variables and flags can override them.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("quality", d.Quality)
	v.SetDefault("outputFormat", d.OutputFormat)
	v.SetDefault("lossless", d.Lossless)

	v.SetDefault("faceDetection", d.FaceDetection)
	v.SetDefault("model", d.Model)
	v.SetDefault("modelPath", d.ModelPath)

	v.SetDefault("unsharp.sigma", d.Unsharp.Sigma)
	v.SetDefault("unsharp.amount", d.Unsharp.Amount)
	v.SetDefault("unsharp.threshold", d.Unsharp.Threshold)

	v.SetDefault("resampler", d.Resampler)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("outDir", d.OutDir)
	v.SetDefault("jsonLogs", d.JSONLogs)

	c := d.Crop
	v.SetDefault("detailWeight", c.DetailWeight)
	v.SetDefault("skinColor", c.SkinColor[:])
	v.SetDefault("skinBias", c.SkinBias)
	v.SetDefault("skinBrightnessMin", c.SkinBrightnessMin)
	v.SetDefault("skinBrightnessMax", c.SkinBrightnessMax)
	v.SetDefault("skinThreshold", c.SkinThreshold)
	v.SetDefault("skinWeight", c.SkinWeight)
	v.SetDefault("saturationBrightnessMin", c.SaturationBrightnessMin)
	v.SetDefault("saturationBrightnessMax", c.SaturationBrightnessMax)
	v.SetDefault("saturationThreshold", c.SaturationThreshold)
	v.SetDefault("saturationBias", c.SaturationBias)
	v.SetDefault("saturationWeight", c.SaturationWeight)
	v.SetDefault("boostWeight", c.BoostWeight)
	v.SetDefault("step", c.Step)
	v.SetDefault("scaleStep", c.ScaleStep)
	v.SetDefault("minScale", c.MinScale)
	v.SetDefault("maxScale", c.MaxScale)
	v.SetDefault("edgeRadius", c.EdgeRadius)
	v.SetDefault("edgeWeight", c.EdgeWeight)
	v.SetDefault("outsideImportance", c.OutsideImportance)
	v.SetDefault("ruleOfThirds", c.RuleOfThirds)
	v.SetDefault("importanceCells", c.ImportanceCells)
	v.SetDefault("priorWeight", c.PriorWeight)
	v.SetDefault("prescale", c.Prescale)
	v.SetDefault("analysisMaxDimension", c.AnalysisMaxDimension)
	v.SetDefault("workers", c.Workers)
	v.SetDefault("debug", c.Debug)
	v.SetDefault("debugDir", c.DebugDir)
}

// New returns a viper instance with defaults and environment binding.
// When file is not empty it is read as the config file, its type taken
// from the extension.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", file)
		}
	}
	return v, nil
}

// BindFlags binds every flag of fs whose name is a config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" {
			return
		}
		err = v.BindPFlag(f.Name, f)
	})
	return errors.Wrap(err, "binding flags")
}

// Load unmarshals v onto Default and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the CLI values and the embedded analysis options.
func (c Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return invalidf("width and height must not be negative, got %dx%d", c.Width, c.Height)
	case c.Quality < 1 || c.Quality > 100:
		return invalidf("quality must be between 1 and 100, got %d", c.Quality)
	case c.Model != ModelHaar && c.Model != ModelYuNet:
		return errors.WithHint(invalidf("unknown face detection model %q", c.Model), "use haar or yunet")
	case c.Resampler != ResamplerNfnt && c.Resampler != ResamplerXDraw:
		return errors.WithHint(invalidf("unknown resampler %q", c.Resampler), "use nfnt or xdraw")
	case c.Jobs < 1:
		return invalidf("jobs must be at least 1, got %d", c.Jobs)
	case c.Unsharp.Sigma < 0 || c.Unsharp.Amount < 0 || c.Unsharp.Threshold < 0:
		return invalidf("unsharp parameters must not be negative, got %+v", c.Unsharp)
	}
	if _, err := render.NormalizeFormat(c.OutputFormat); err != nil {
		return errors.Mark(err, smartcrop.ErrInvalidConfig)
	}
	return c.Crop.Validate()
}

// RenderOptions returns the renderer settings for the configured size.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		Width:    c.Width,
		Height:   c.Height,
		Format:   c.OutputFormat,
		Quality:  c.Quality,
		Lossless: c.Lossless,
		Unsharp: render.Unsharp{
			Sigma:     c.Unsharp.Sigma,
			Amount:    c.Unsharp.Amount,
			Threshold: c.Unsharp.Threshold,
		},
		Orientation: render.OrientationNormal,
	}
}

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(smartcrop.ErrInvalidConfig, format, args...)
}
