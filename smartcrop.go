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

/*
Package smartcrop implements a content aware image cropping library based on
Jonas Wagner's smartcrop.js https://github.com/jwagner/smartcrop.js

The analyzer works on a downsampled copy of the image. It computes edge,
skin and saturation maps, builds summed-area tables over them and then
searches crop rectangles of the requested aspect ratio over a range of
scales and positions. Each candidate is rated in constant time, so the
search costs O(pixels + candidates).
*/
package smartcrop

import (
	"image"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/someposer/smartcrop-cli/logger"
)

// Analyzer interface analyzes its struct and returns the best possible crop with the given
// width and height returns an error if invalid
type Analyzer interface {
	FindBestCrop(img image.Image, width, height int) (image.Rectangle, error)
	Analyze(img image.Image, width, height int, boosts []Boost) (*Result, error)
}

type smartcropAnalyzer struct {
	logger.Logger
	Resizer
	opts Options
}

// NewAnalyzer returns a new Analyzer using the given Resizer.
func NewAnalyzer(resizer Resizer) Analyzer {
	return NewAnalyzerWithLogger(resizer, logger.Nop())
}

// NewAnalyzerWithLogger returns a new analyzer with the given Resizer and Logger.
func NewAnalyzerWithLogger(resizer Resizer, l logger.Logger) Analyzer {
	a, _ := NewAnalyzerWithOptions(resizer, DefaultOptions(), l)
	return a
}

// NewAnalyzerWithOptions returns a new analyzer using opts. It fails with
// ErrInvalidConfig if the options are inconsistent.
func NewAnalyzerWithOptions(resizer Resizer, opts Options, l logger.Logger) (Analyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if l.Log == nil {
		l.Log = logger.Nop().Log
	}
	return &smartcropAnalyzer{Logger: l, Resizer: resizer, opts: opts}, nil
}

// FindBestCrop returns the best crop of img for width x height, in img's
// coordinate space.
func (o smartcropAnalyzer) FindBestCrop(img image.Image, width, height int) (image.Rectangle, error) {
	res, err := o.Analyze(img, width, height, nil)
	if err != nil {
		return image.Rectangle{}, err
	}
	return res.TopCrop.Rectangle().Add(img.Bounds().Min), nil
}

// Analyze runs the full analysis. Only the ratio of width and height
// matters; boosts are in source pixels relative to img's bounds origin.
func (o smartcropAnalyzer) Analyze(img image.Image, width, height int, boosts []Boost) (*Result, error) {
	if img == nil {
		return nil, invalidImagef("image is nil")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, invalidImagef("image has no pixels, bounds %v", b)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.WithHint(
			invalidConfigf("crop size must be positive, got %dx%d", width, height),
			"pass both a width and a height",
		)
	}
	if err := validateBoosts(boosts); err != nil {
		return nil, err
	}

	ratio := float64(width) / float64(height)
	maxDim := 0
	if o.opts.Prescale {
		maxDim = o.opts.AnalysisMaxDimension
	}
	aw, ah := analysisSize(b.Dx(), b.Dy(), maxDim)
	// sweeps skips scales whose crop is empty, so only the largest scale
	// decides whether anything can be searched at all
	if cw, ch := cropSize(aw, ah, ratio); chop(cw*o.opts.MaxScale) < 1 || chop(ch*o.opts.MaxScale) < 1 {
		return nil, errors.WithHint(
			invalidConfigf("aspect ratio %dx%d can't be met at maxScale %v on a %dx%d analysis raster",
				width, height, o.opts.MaxScale, aw, ah),
			"raise analysisMaxDimension or maxScale",
		)
	}

	now := time.Now()
	low, err := downsample(o.Resizer, img, maxDim)
	if err != nil {
		return nil, err
	}
	o.timed("prescale", now, "width", low.Width, "height", low.Height)

	return o.analyse(low, b.Dx(), b.Dy(), ratio, boosts)
}

func (o smartcropAnalyzer) analyse(low *Buffer, sw, sh int, ratio float64, boosts []Boost) (*Result, error) {
	workers := workerCount(o.opts.Workers)

	now := time.Now()
	ch, err := extractChannels(low, &o.opts, workers)
	if err != nil {
		return nil, err
	}
	o.timed("channels", now)

	now = time.Now()
	tables := newSignalTables(ch, &o.opts)
	scaled := scaleBoosts(boosts, float64(low.Width)/float64(sw), float64(low.Height)/float64(sh), low.Width, low.Height)
	sc := newScorer(&o.opts, tables, scaled, low.Width, low.Height)
	o.timed("tables", now, "boosts", len(scaled))

	now = time.Now()
	sws := sweeps(low.Width, low.Height, ratio, &o.opts)
	top, grid, err := selectBest(sc, sws, workers, o.opts.Debug)
	if err != nil {
		return nil, errors.Wrapf(err, "searching %d scales on a %dx%d analysis raster", len(sws), low.Width, low.Height)
	}
	o.timed("score", now, "scales", len(sws))

	o.Debugw("top candidate", "crop", top.Crop, "scale", top.Scale, "score", top.Score)

	if o.opts.Debug && o.opts.DebugDir != "" {
		if err := writeDebugImages(o.opts.DebugDir, ch, scaled, top.Crop, o.opts); err != nil {
			o.Sugar().Warnw("writing debug images failed", "error", err)
		}
	}

	return &Result{
		TopCrop: finalize(top, sw, sh, low.Width, low.Height, ratio),
		Score:   top.Score,
		Grid:    grid,
	}, nil
}
