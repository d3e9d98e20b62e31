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

// Resizer scales an image to exactly width x height.
type Resizer interface {
	Resize(img image.Image, width, height uint) image.Image
}

// analysisSize returns the dimensions of the analysis raster for a source of
// w x h pixels. The longer side is capped at maxDim, the aspect ratio kept.
func analysisSize(w, h, maxDim int) (int, int) {
	long := w
	if h > long {
		long = h
	}
	if maxDim <= 0 || long <= maxDim {
		return w, h
	}
	f := float64(maxDim) / float64(long)
	aw := int(math.Round(float64(w) * f))
	ah := int(math.Round(float64(h) * f))
	if aw < 1 {
		aw = 1
	}
	if ah < 1 {
		ah = 1
	}
	return aw, ah
}

// downsample produces the analysis buffer for img. The source is left
// untouched so it can still be used at full resolution.
func downsample(resizer Resizer, img image.Image, maxDim int) (*Buffer, error) {
	if img == nil {
		return nil, invalidImagef("image is nil")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, invalidImagef("image has no pixels, bounds %v", b)
	}

	aw, ah := analysisSize(b.Dx(), b.Dy(), maxDim)
	if aw == b.Dx() && ah == b.Dy() {
		return BufferFromImage(img)
	}
	if resizer == nil {
		return nil, invalidConfigf("resizer is nil but the image needs prescaling to %dx%d", aw, ah)
	}

	low := resizer.Resize(img, uint(aw), uint(ah))
	if low == nil || low.Bounds().Dx() != aw || low.Bounds().Dy() != ah {
		var got image.Rectangle
		if low != nil {
			got = low.Bounds()
		}
		return nil, invalidImagef("resizer returned %v, want %dx%d", got, aw, ah)
	}
	return BufferFromImage(low)
}
