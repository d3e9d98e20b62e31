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
	"image/draw"
)

// Buffer is a row-major grid of samples normalised to [0, 1]. Channels is
// 1 for scalar maps, 3 for RGB and 4 for RGBA.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []float64
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidImagef("buffer dimensions must be positive, got %dx%d", width, height)
	}
	switch channels {
	case 1, 3, 4:
	default:
		return nil, invalidImagef("unsupported channel count %d, want 1, 3 or 4", channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float64, width*height*channels),
	}, nil
}

func newScalarBuffer(width, height int) *Buffer {
	return &Buffer{Width: width, Height: height, Channels: 1, Pix: make([]float64, width*height)}
}

// At returns sample c of pixel (x, y).
func (b *Buffer) At(x, y, c int) float64 {
	return b.Pix[(y*b.Width+x)*b.Channels+c]
}

// Set sets sample c of pixel (x, y).
func (b *Buffer) Set(x, y, c int, v float64) {
	b.Pix[(y*b.Width+x)*b.Channels+c] = v
}

// rgb returns the colour of pixel (x, y), repeating the only sample of a
// scalar buffer and ignoring alpha.
func (b *Buffer) rgb(x, y int) (r, g, bl float64) {
	i := (y*b.Width + x) * b.Channels
	if b.Channels == 1 {
		v := b.Pix[i]
		return v, v, v
	}
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// BufferFromImage converts img into a 3 channel buffer.
func BufferFromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, invalidImagef("image is nil")
	}
	rgba := toRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	buf, err := NewBuffer(w, h, 3)
	if err != nil {
		return nil, err
	}

	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w; x++ {
			o := (y*w + x) * 3
			buf.Pix[o] = float64(row[x*4]) / 255.0
			buf.Pix[o+1] = float64(row[x*4+1]) / 255.0
			buf.Pix[o+2] = float64(row[x*4+2]) / 255.0
		}
	}
	return buf, nil
}

// toRGBA returns img as an *image.RGBA anchored at the origin.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
