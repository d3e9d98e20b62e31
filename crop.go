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

// Crop is a rectangle relative to the image origin.
type Crop struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rectangle returns c as an image.Rectangle.
func (c Crop) Rectangle() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
}

// candidate is a crop on the analysis raster.
type candidate struct {
	Crop
	Scale float64
	Score Score
}

// sweep is one scale of the search: a fixed crop size slid over the
// positions in xs and ys.
type sweep struct {
	scale  float64
	width  int
	height int
	xs     []int
	ys     []int
}

// cropSize returns the largest width x height of the given ratio that fits
// into w x h.
func cropSize(w, h int, ratio float64) (float64, float64) {
	cw := math.Min(float64(w), float64(h)*ratio)
	return cw, cw / ratio
}

func scales(opts *Options) []float64 {
	var res []float64
	for s := opts.MaxScale; s >= opts.MinScale-1e-9; s *= opts.ScaleStep {
		res = append(res, s)
	}
	return res
}

// positions returns the offsets at which size fits into total, step apart,
// plus the flush end position.
func positions(total, size, step int) []int {
	if size > total || size < 1 {
		return nil
	}
	var res []int
	p := 0
	for ; p+size <= total; p += step {
		res = append(res, p)
	}
	if last := res[len(res)-1]; last != total-size {
		res = append(res, total-size)
	}
	return res
}

func sweeps(w, h int, ratio float64, opts *Options) []sweep {
	cw, ch := cropSize(w, h, ratio)
	var res []sweep
	for _, s := range scales(opts) {
		sw := int(math.Min(chop(cw*s), float64(w)))
		sh := int(math.Min(chop(ch*s), float64(h)))
		if sw < 1 || sh < 1 {
			continue
		}
		res = append(res, sweep{
			scale:  s,
			width:  sw,
			height: sh,
			xs:     positions(w, sw, opts.Step),
			ys:     positions(h, sh, opts.Step),
		})
	}
	return res
}

func chop(x float64) float64 {
	if x < 0 {
		return math.Ceil(x)
	}
	return math.Floor(x)
}

// selectBest scores every candidate and returns the first one with the
// highest total, in scale then row-major order. Scoring is spread over
// workers; the pick itself is sequential, so the result does not depend on
// the worker count. With grid set, the totals of the last evaluated sweep
// are kept.
func selectBest(sc *scorer, sws []sweep, workers int, grid bool) (candidate, *Grid, error) {
	var (
		top   candidate
		found bool
		g     *Grid
	)

	for _, sw := range sws {
		cols := len(sw.xs)
		count := cols * len(sw.ys)
		if count == 0 {
			continue
		}

		l := sc.layout(sw.width, sw.height)
		scored := make([]Score, count)
		parallelRanges(workers, count, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				scored[i] = sc.score(Crop{
					X:      sw.xs[i%cols],
					Y:      sw.ys[i/cols],
					Width:  sw.width,
					Height: sw.height,
				}, l)
			}
		})

		for i, s := range scored {
			if !found || s.Total > top.Score.Total {
				found = true
				top = candidate{
					Crop:  Crop{X: sw.xs[i%cols], Y: sw.ys[i/cols], Width: sw.width, Height: sw.height},
					Scale: sw.scale,
					Score: s,
				}
			}
		}

		if grid {
			g = newGrid(sw, scored)
		}
	}

	if !found {
		return candidate{}, nil, ErrNoValidCrop
	}
	return top, g, nil
}
