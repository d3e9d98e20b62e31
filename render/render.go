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

// Package render turns a crop rectangle into an encoded image. The steps
// run in a fixed order: crop, resize, unsharp mask, sRGB conversion,
// orientation, metadata strip, encode.
package render

import (
	"image"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
)

// Renderer produces the final image for a crop of img.
type Renderer interface {
	Render(w io.Writer, img image.Image, crop image.Rectangle) error
}

// Unsharp configures the unsharp mask. Threshold is a fraction of the full
// channel range below which differences are left alone.
type Unsharp struct {
	Sigma     float64
	Amount    float64
	Threshold float64
}

// Orientation is an EXIF orientation value, 1 to 8.
type Orientation int

// EXIF orientations.
const (
	OrientationNormal Orientation = iota + 1
	OrientationFlipH
	OrientationRotate180
	OrientationFlipV
	OrientationTranspose
	OrientationRotate90CW
	OrientationTransverse
	OrientationRotate90CCW
)

// Options configures an ImagingRenderer.
type Options struct {
	// Width and Height are the output size. If one is 0 it follows the
	// crop's aspect ratio, if both are 0 the crop is not resized.
	Width  int
	Height int

	Format   string
	Quality  int
	Lossless bool

	Unsharp     Unsharp
	Orientation Orientation
}

// DefaultOptions matches the settings of the command line tool.
func DefaultOptions() Options {
	return Options{
		Format:      "jpg",
		Quality:     90,
		Unsharp:     Unsharp{Sigma: 0.5, Amount: 1, Threshold: 0.008},
		Orientation: OrientationNormal,
	}
}

// ImagingRenderer renders with github.com/disintegration/imaging.
type ImagingRenderer struct {
	opts Options
}

var _ Renderer = (*ImagingRenderer)(nil)

// New validates opts and returns a renderer.
func New(opts Options) (*ImagingRenderer, error) {
	if opts.Width < 0 || opts.Height < 0 {
		return nil, errors.Newf("output size must not be negative, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Quality < 1 || opts.Quality > 100 {
		return nil, errors.Newf("quality must be between 1 and 100, got %d", opts.Quality)
	}
	if opts.Orientation == 0 {
		opts.Orientation = OrientationNormal
	}
	if opts.Orientation < OrientationNormal || opts.Orientation > OrientationRotate90CCW {
		return nil, errors.Newf("orientation must be between 1 and 8, got %d", opts.Orientation)
	}
	if opts.Unsharp.Sigma < 0 || opts.Unsharp.Amount < 0 || opts.Unsharp.Threshold < 0 {
		return nil, errors.Newf("unsharp parameters must not be negative, got %+v", opts.Unsharp)
	}
	f, err := NormalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	opts.Format = f
	return &ImagingRenderer{opts: opts}, nil
}

// NormalizeFormat maps a format name or file extension to one of jpg, png,
// gif, tif, bmp or webp.
func NormalizeFormat(name string) (string, error) {
	n := strings.ToLower(strings.TrimPrefix(name, "."))
	switch n {
	case "webp":
		return "webp", nil
	case "":
		return "", errors.New("output format is empty")
	}
	f, err := imaging.FormatFromExtension(n)
	if err != nil {
		return "", errors.Wrapf(err, "output format %q", name)
	}
	switch f {
	case imaging.JPEG:
		return "jpg", nil
	case imaging.PNG:
		return "png", nil
	case imaging.GIF:
		return "gif", nil
	case imaging.TIFF:
		return "tif", nil
	case imaging.BMP:
		return "bmp", nil
	}
	return "", errors.Newf("unsupported output format %q", name)
}

// Render implements Renderer.
func (r *ImagingRenderer) Render(w io.Writer, img image.Image, crop image.Rectangle) error {
	out, err := r.Process(img, crop)
	if err != nil {
		return err
	}
	return r.encode(w, out)
}

// Process runs every step except the encoding.
func (r *ImagingRenderer) Process(img image.Image, crop image.Rectangle) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}
	crop = crop.Intersect(img.Bounds())
	if crop.Empty() {
		return nil, errors.Newf("crop %v is outside the image bounds %v", crop, img.Bounds())
	}

	out := imaging.Crop(img, crop)

	if w, h := r.opts.Width, r.opts.Height; (w != 0 || h != 0) && (w != out.Rect.Dx() || h != out.Rect.Dy()) {
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	if u := r.opts.Unsharp; u.Sigma > 0 && u.Amount > 0 {
		out = unsharp(out, u)
	}

	// imaging returns 8-bit non-premultiplied sRGB, so the colour conversion
	// has already happened by now.

	out = orient(out, r.opts.Orientation)

	// nothing to strip: the encoders below write no metadata
	return out, nil
}

func (r *ImagingRenderer) encode(w io.Writer, img *image.NRGBA) error {
	var err error
	switch r.opts.Format {
	case "webp":
		err = webp.Encode(w, img, &webp.Options{Lossless: r.opts.Lossless, Quality: float32(r.opts.Quality)})
	case "jpg":
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(r.opts.Quality))
	default:
		var f imaging.Format
		f, err = imaging.FormatFromExtension(r.opts.Format)
		if err == nil {
			err = imaging.Encode(w, img, f)
		}
	}
	return errors.Wrapf(err, "encoding %s", r.opts.Format)
}

func orient(img *image.NRGBA, o Orientation) *image.NRGBA {
	switch o {
	case OrientationFlipH:
		return imaging.FlipH(img)
	case OrientationRotate180:
		return imaging.Rotate180(img)
	case OrientationFlipV:
		return imaging.FlipV(img)
	case OrientationTranspose:
		return imaging.Transpose(img)
	case OrientationRotate90CW:
		return imaging.Rotate270(img)
	case OrientationTransverse:
		return imaging.Transverse(img)
	case OrientationRotate90CCW:
		return imaging.Rotate90(img)
	}
	return img
}

// unsharp adds amount times the difference to a gaussian blur, skipping
// differences below the threshold. Alpha is kept as is.
func unsharp(img *image.NRGBA, u Unsharp) *image.NRGBA {
	blurred := imaging.Blur(img, u.Sigma)
	out := imaging.Clone(img)
	limit := u.Threshold * 255

	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			src := float64(img.Pix[i+c])
			diff := src - float64(blurred.Pix[i+c])
			if diff < limit && -diff < limit {
				continue
			}
			v := src + u.Amount*diff
			switch {
			case v < 0:
				v = 0
			case v > 255:
				v = 255
			}
			out.Pix[i+c] = uint8(v + 0.5)
		}
	}
	return out
}
