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
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// DebugImage carries debug output image and has methods for updating and writing it
type DebugImage struct {
	img          *image.RGBA
	colors       []color.RGBA
	nextColorIdx int
}

// NewDebugImage returns a black debug image of the given size.
func NewDebugImage(width, height int) *DebugImage {
	di := DebugImage{}

	di.img = image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(di.img.Pix); i += 4 {
		di.img.Pix[i] = 255
	}

	// Set up an array of colors used for debug outputs
	di.colors = []color.RGBA{
		{0, 255, 0, 255},   // edges
		{255, 0, 0, 255},   // skin
		{0, 0, 255, 255},   // saturation
		{255, 128, 0, 255}, // boosts
		{128, 0, 128, 255},
		{64, 255, 255, 255},
		{255, 64, 255, 255},
		{255, 255, 64, 255},
		{255, 255, 255, 255},
	}
	return &di
}

func (di *DebugImage) popNextColor() color.RGBA {
	c := di.colors[di.nextColorIdx]
	di.nextColorIdx++

	// Wrap around if necessary
	if di.nextColorIdx >= len(di.colors) {
		di.nextColorIdx = 0
	}
	return c
}

func scaledColorComponent(factor float64, oldComponent uint8, newComponent uint8) uint8 {
	if factor <= 0 {
		return oldComponent
	}
	return uint8(bounds(factor * float64(newComponent)))
}

func bounds(l float64) float64 {
	return math.Min(math.Max(l, 0.0), 255)
}

// AddDetected paints a scalar buffer onto the image in the next colour.
func (di *DebugImage) AddDetected(d *Buffer) {
	baseColor := di.popNextColor()

	maxX := di.img.Rect.Dx()
	maxY := di.img.Rect.Dy()
	if maxX > d.Width {
		maxX = d.Width
	}
	if maxY > d.Height {
		maxY = d.Height
	}

	for y := 0; y < maxY; y++ {
		for x := 0; x < maxX; x++ {
			v := d.At(x, y, 0)
			if v <= 0 {
				continue
			}
			c := di.img.RGBAAt(x, y)
			di.img.SetRGBA(x, y, color.RGBA{
				R: scaledColorComponent(v, c.R, baseColor.R),
				G: scaledColorComponent(v, c.G, baseColor.G),
				B: scaledColorComponent(v, c.B, baseColor.B),
				A: 255,
			})
		}
	}
}

// addBoosts outlines boost regions in the next colour.
func (di *DebugImage) addBoosts(boosts []boostRect) {
	c := di.popNextColor()
	for _, b := range boosts {
		r := image.Rect(int(b.x0), int(b.y0), int(math.Ceil(b.x1)), int(math.Ceil(b.y1))).Intersect(di.img.Rect)
		for x := r.Min.X; x < r.Max.X; x++ {
			di.img.SetRGBA(x, r.Min.Y, c)
			di.img.SetRGBA(x, r.Max.Y-1, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			di.img.SetRGBA(r.Min.X, y, c)
			di.img.SetRGBA(r.Max.X-1, y, c)
		}
	}
}

// DrawDebugCrop tints the image by the importance each pixel has for
// topCrop: green inside, red outside.
func (di *DebugImage) DrawDebugCrop(topCrop Crop, opts Options) {
	o := di.img

	width := o.Rect.Dx()
	height := o.Rect.Dy()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := o.RGBAAt(x, y)
			r8 := float64(c.R)
			g8 := float64(c.G)

			imp := opts.OutsideImportance
			if x >= topCrop.X && x < topCrop.X+topCrop.Width && y >= topCrop.Y && y < topCrop.Y+topCrop.Height {
				imp = importance(&opts,
					float64(x-topCrop.X)/float64(topCrop.Width),
					float64(y-topCrop.Y)/float64(topCrop.Height))
			}

			if imp > 0 {
				g8 += imp * 32
			} else if imp < 0 {
				r8 += imp * -64
			}

			o.SetRGBA(x, y, color.RGBA{uint8(bounds(r8)), uint8(bounds(g8)), c.B, 255})
		}
	}
}

// DebugOutput writes the image to dir/smartcrop_<debugType>.png.
func (di *DebugImage) DebugOutput(dir, debugType string) error {
	return writeImageToPng(di.img, filepath.Join(dir, "smartcrop_"+debugType+".png"))
}

func writeImageToPng(img image.Image, name string) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return errors.Wrapf(err, "creating debug directory for %s", name)
	}

	fso, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}
	defer fso.Close()

	if err := png.Encode(fso, img); err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}
	return nil
}

// writeDebugImages dumps every channel and the composite with the top crop.
func writeDebugImages(dir string, ch *Channels, boosts []boostRect, top Crop, opts Options) error {
	w, h := ch.Edge.Width, ch.Edge.Height
	composite := NewDebugImage(w, h)

	for _, c := range []struct {
		name string
		buf  *Buffer
	}{
		{"edge", ch.Edge},
		{"skin", ch.Skin},
		{"saturation", ch.Saturation},
	} {
		single := NewDebugImage(w, h)
		single.nextColorIdx = composite.nextColorIdx
		single.AddDetected(c.buf)
		if err := single.DebugOutput(dir, c.name); err != nil {
			return err
		}
		composite.AddDetected(c.buf)
	}

	composite.addBoosts(boosts)
	composite.DrawDebugCrop(top, opts)
	return composite.DebugOutput(dir, "debug")
}
