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

// Result is the outcome of one analysis.
type Result struct {
	// TopCrop is the best crop in source pixels, relative to the image's
	// bounds origin.
	TopCrop Crop  `json:"topCrop"`
	Score   Score `json:"score"`
	// Grid is only set when Options.Debug is.
	Grid *Grid `json:"debugGrid,omitempty"`
}

// Grid holds the totals of every position at one scale, in analysis
// pixels. Totals is indexed [row][column], matching Y and X.
type Grid struct {
	Scale  float64     `json:"scale"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	X      []int       `json:"x"`
	Y      []int       `json:"y"`
	Totals [][]float64 `json:"totals"`
}

func newGrid(sw sweep, scored []Score) *Grid {
	cols := len(sw.xs)
	g := &Grid{
		Scale:  sw.scale,
		Width:  sw.width,
		Height: sw.height,
		X:      append([]int(nil), sw.xs...),
		Y:      append([]int(nil), sw.ys...),
		Totals: make([][]float64, len(sw.ys)),
	}
	for r := range g.Totals {
		g.Totals[r] = make([]float64, cols)
		for c := range g.Totals[r] {
			g.Totals[r][c] = scored[r*cols+c].Total
		}
	}
	return g
}

// finalize maps the winning candidate from the aw x ah analysis raster onto
// the sw x sh source. The size is derived from the candidate's scale in
// source pixels so the ratio holds to a pixel; the position is scaled per
// axis and clamped so the crop stays inside the source.
func finalize(best candidate, sw, sh, aw, ah int, ratio float64) Crop {
	maxW, _ := cropSize(sw, sh, ratio)

	w := int(chop(maxW * best.Scale))
	if w > sw {
		w = sw
	}
	h := int(math.Round(float64(w) / ratio))
	if h > sh {
		h = sh
		w = int(math.Min(math.Round(float64(h)*ratio), float64(sw)))
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	x := int(math.Round(float64(best.X) * float64(sw) / float64(aw)))
	y := int(math.Round(float64(best.Y) * float64(sh) / float64(ah)))

	return Crop{
		X:      clampInt(x, 0, sw-w),
		Y:      clampInt(y, 0, sh-h),
		Width:  w,
		Height: h,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
