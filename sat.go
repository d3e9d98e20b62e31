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

// summedAreaTable answers rectangle sums over a scalar map in constant time.
// sums has (w+1)*(h+1) entries; row 0 and column 0 are zero.
type summedAreaTable struct {
	w, h int
	sums []float64
}

func newSummedAreaTable(w, h int, at func(i int) float64) *summedAreaTable {
	t := &summedAreaTable{w: w, h: h, sums: make([]float64, (w+1)*(h+1))}
	stride := w + 1
	for y := 0; y < h; y++ {
		row := 0.0
		for x := 0; x < w; x++ {
			row += at(y*w + x)
			t.sums[(y+1)*stride+x+1] = t.sums[y*stride+x+1] + row
		}
	}
	return t
}

// sum returns the total over [x0, x1) x [y0, y1). Bounds are clipped.
func (t *summedAreaTable) sum(x0, y0, x1, y1 int) float64 {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > t.w {
		x1 = t.w
	}
	if y1 > t.h {
		y1 = t.h
	}
	if x0 >= x1 || y0 >= y1 {
		return 0
	}
	stride := t.w + 1
	return t.sums[y1*stride+x1] - t.sums[y0*stride+x1] - t.sums[y1*stride+x0] + t.sums[y0*stride+x0]
}

func (t *summedAreaTable) total() float64 {
	return t.sums[len(t.sums)-1]
}

// signalTables are the tables the scorer reads. They are built once per
// analysis and only read afterwards.
type signalTables struct {
	detail     *summedAreaTable
	skin       *summedAreaTable
	saturation *summedAreaTable
}

func newSignalTables(ch *Channels, opts *Options) *signalTables {
	w, h := ch.Edge.Width, ch.Edge.Height
	edge, skin, sat := ch.Edge.Pix, ch.Skin.Pix, ch.Saturation.Pix
	return &signalTables{
		detail: newSummedAreaTable(w, h, func(i int) float64 {
			return edge[i]
		}),
		skin: newSummedAreaTable(w, h, func(i int) float64 {
			return skin[i] * (edge[i] + opts.SkinBias)
		}),
		saturation: newSummedAreaTable(w, h, func(i int) float64 {
			return sat[i] * (edge[i] + opts.SaturationBias)
		}),
	}
}
