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

package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadrants(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 255}
			if x >= w/2 {
				c.R = 255
			}
			if y >= h/2 {
				c.B = 255
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNormalizeFormat(t *testing.T) {
	for in, want := range map[string]string{
		"jpg": "jpg", "JPEG": "jpg", ".png": "png", "gif": "gif",
		"tiff": "tif", "tif": "tif", "bmp": "bmp", "WebP": "webp",
	} {
		got, err := NormalizeFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "heic", "svg"} {
		_, err := NormalizeFormat(in)
		assert.Error(t, err, in)
	}
}

func TestNewValidates(t *testing.T) {
	opts := DefaultOptions()
	_, err := New(opts)
	require.NoError(t, err)

	bad := []func(*Options){
		func(o *Options) { o.Width = -1 },
		func(o *Options) { o.Quality = 0 },
		func(o *Options) { o.Quality = 101 },
		func(o *Options) { o.Orientation = 9 },
		func(o *Options) { o.Unsharp.Sigma = -1 },
		func(o *Options) { o.Format = "heic" },
	}
	for i, mutate := range bad {
		o := DefaultOptions()
		mutate(&o)
		_, err := New(o)
		assert.Error(t, err, "case %d", i)
	}
}

func TestProcessCropsAndResizes(t *testing.T) {
	img := quadrants(200, 100)
	opts := DefaultOptions()
	opts.Unsharp = Unsharp{}

	r, err := New(opts)
	require.NoError(t, err)
	out, err := r.Process(img, image.Rect(100, 0, 200, 50))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(50, 25))

	opts.Width = 40
	r, err = New(opts)
	require.NoError(t, err)
	out, err = r.Process(img, image.Rect(100, 0, 200, 50))
	require.NoError(t, err)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 20, out.Bounds().Dy())

	opts.Width, opts.Height = 30, 30
	r, err = New(opts)
	require.NoError(t, err)
	out, err = r.Process(img, image.Rect(0, 0, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 30), out.Bounds())
}

func TestProcessRejectsOutsideCrop(t *testing.T) {
	r, err := New(DefaultOptions())
	require.NoError(t, err)
	_, err = r.Process(quadrants(10, 10), image.Rect(20, 20, 30, 30))
	assert.Error(t, err)
	_, err = r.Process(nil, image.Rect(0, 0, 1, 1))
	assert.Error(t, err)
}

func TestUnsharpLeavesFlatAreas(t *testing.T) {
	img := imaging.New(16, 16, color.NRGBA{R: 90, G: 120, B: 30, A: 255})
	out := unsharp(img, DefaultOptions().Unsharp)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestUnsharpIncreasesContrast(t *testing.T) {
	img := imaging.New(16, 16, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 160, G: 160, B: 160, A: 255})
		}
	}
	out := unsharp(img, Unsharp{Sigma: 1, Amount: 1, Threshold: 0})
	assert.Less(t, out.NRGBAAt(7, 8).R, uint8(100))
	assert.Greater(t, out.NRGBAAt(8, 8).R, uint8(160))
	assert.Equal(t, uint8(255), out.NRGBAAt(8, 8).A)
	assert.Equal(t, uint8(100), out.NRGBAAt(0, 8).R)
}

func TestOrient(t *testing.T) {
	img := quadrants(4, 2)
	for o := OrientationNormal; o <= OrientationRotate90CCW; o++ {
		out := orient(img, o)
		if o >= OrientationTranspose {
			assert.Equal(t, image.Rect(0, 0, 2, 4), out.Bounds(), "orientation %d", o)
		} else {
			assert.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds(), "orientation %d", o)
		}
	}

	// top right is red, top left black
	flipped := orient(img, OrientationFlipH)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, flipped.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{A: 255}, flipped.NRGBAAt(3, 0))
}

func TestRenderEncodes(t *testing.T) {
	img := quadrants(64, 32)

	opts := DefaultOptions()
	opts.Format = "png"
	r, err := New(opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, img, image.Rect(0, 0, 32, 32)))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), decoded.Bounds())

	opts.Format = "jpg"
	r, err = New(opts)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, r.Render(&buf, img, image.Rect(0, 0, 32, 32)))
	decoded, err = imaging.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, decoded.Bounds().Dx())

	opts.Format = "webp"
	opts.Lossless = true
	r, err = New(opts)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, r.Render(&buf, img, image.Rect(32, 0, 64, 16)))
	decoded, err = webp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), decoded.Bounds())
}
