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
	"image"
	"math"
)

// Boost is a weighted region in source image coordinates that the analyzer
// should try to keep inside the crop, e.g. a detected face.
type Boost struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// BoostProvider finds boost regions in an image. Implementations live
// outside the analyzer, see the gocv package for face detectors.
type BoostProvider interface {
	Detect(img image.Image) ([]Boost, error)
}

func validateBoosts(boosts []Boost) error {
	for i, b := range boosts {
		for _, v := range []float64{b.X, b.Y, b.Width, b.Height, b.Weight} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalidConfigf("boost %d has a non-finite field: %+v", i, b)
			}
		}
		if b.Width < 0 || b.Height < 0 {
			return invalidConfigf("boost %d has negative size %vx%v", i, b.Width, b.Height)
		}
		if b.Weight < 0 {
			return invalidConfigf("boost %d has negative weight %v", i, b.Weight)
		}
	}
	return nil
}

// boostRect is a boost mapped onto the analysis raster.
type boostRect struct {
	x0, y0, x1, y1 float64
	weight         float64
}

// scaleBoosts maps boosts by fx, fy and clips them to a w x h raster.
// Regions that end up empty or weightless are dropped.
func scaleBoosts(boosts []Boost, fx, fy float64, w, h int) []boostRect {
	var res []boostRect
	for _, b := range boosts {
		r := boostRect{
			x0:     math.Max(b.X*fx, 0),
			y0:     math.Max(b.Y*fy, 0),
			x1:     math.Min((b.X+b.Width)*fx, float64(w)),
			y1:     math.Min((b.Y+b.Height)*fy, float64(h)),
			weight: b.Weight,
		}
		if r.x1 <= r.x0 || r.y1 <= r.y0 || r.weight == 0 {
			continue
		}
		res = append(res, r)
	}
	return res
}

func (r boostRect) overlap(c Crop) float64 {
	w := math.Min(r.x1, float64(c.X+c.Width)) - math.Max(r.x0, float64(c.X))
	h := math.Min(r.y1, float64(c.Y+c.Height)) - math.Max(r.y0, float64(c.Y))
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
