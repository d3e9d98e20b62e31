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

// Package xdraw provides a smartcrop.Resizer backed by golang.org/x/image/draw.
package xdraw

import (
	"image"

	"golang.org/x/image/draw"
)

// Resizer scales with one of the x/image/draw interpolators.
type Resizer struct {
	Scaler draw.Scaler
}

// NewResizer returns a Resizer using scaler.
func NewResizer(scaler draw.Scaler) Resizer {
	return Resizer{Scaler: scaler}
}

// NewDefaultResizer returns a bilinear Resizer. It is a good deal faster
// than Catmull-Rom and the analysis doesn't need the extra sharpness.
func NewDefaultResizer() Resizer {
	return NewResizer(draw.ApproxBiLinear)
}

// Resize implements smartcrop.Resizer.
func (r Resizer) Resize(img image.Image, width, height uint) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	s := r.Scaler
	if s == nil {
		s = draw.ApproxBiLinear
	}
	s.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
	return dst
}
