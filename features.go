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
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Channels holds the per-pixel saliency maps of an analysis buffer.
type Channels struct {
	Edge       *Buffer
	Skin       *Buffer
	Saturation *Buffer
}

func cie(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func lightnessMap(in *Buffer, workers int) *Buffer {
	out := newScalarBuffer(in.Width, in.Height)
	parallelRanges(workers, in.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < in.Width; x++ {
				out.Pix[y*in.Width+x] = cie(in.rgb(x, y))
			}
		}
	})
	return out
}

// edgeDetect is a 4-neighbour laplacian over lightness; border pixels are 0.
func edgeDetect(light *Buffer, workers int) *Buffer {
	w, h := light.Width, light.Height
	out := newScalarBuffer(w, h)
	parallelRanges(workers, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			if y == 0 || y == h-1 {
				continue
			}
			for x := 1; x < w-1; x++ {
				i := y*w + x
				c := light.Pix[i]
				l := (c - light.Pix[i-w]) +
					(c - light.Pix[i-1]) +
					(c - light.Pix[i+1]) +
					(c - light.Pix[i+w])
				out.Pix[i] = clamp01(l)
			}
		}
	})
	return out
}

func skinCol(skinColor colorful.Color, r, g, b float64) float64 {
	mag := colorful.Color{R: r, G: g, B: b}.DistanceRgb(colorful.Color{})
	if mag == 0 {
		return 0
	}
	d := colorful.Color{R: r / mag, G: g / mag, B: b / mag}.DistanceRgb(skinColor)
	return 1.0 - d
}

func skinDetect(in, light *Buffer, opts *Options, workers int) *Buffer {
	out := newScalarBuffer(in.Width, in.Height)
	skinColor := colorful.Color{R: opts.SkinColor[0], G: opts.SkinColor[1], B: opts.SkinColor[2]}
	parallelRanges(workers, in.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < in.Width; x++ {
				i := y*in.Width + x
				lightness := light.Pix[i]
				if lightness < opts.SkinBrightnessMin || lightness > opts.SkinBrightnessMax {
					continue
				}
				r, g, b := in.rgb(x, y)
				if skin := skinCol(skinColor, r, g, b); skin > opts.SkinThreshold {
					out.Pix[i] = clamp01((skin - opts.SkinThreshold) / (1.0 - opts.SkinThreshold))
				}
			}
		}
	})
	return out
}

func saturation(r, g, b float64) float64 {
	_, s, _ := colorful.Color{R: r, G: g, B: b}.Hsl()
	return s
}

func saturationDetect(in, light *Buffer, opts *Options, workers int) *Buffer {
	out := newScalarBuffer(in.Width, in.Height)
	parallelRanges(workers, in.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < in.Width; x++ {
				i := y*in.Width + x
				lightness := light.Pix[i]
				if lightness < opts.SaturationBrightnessMin || lightness > opts.SaturationBrightnessMax {
					continue
				}
				if s := saturation(in.rgb(x, y)); s > opts.SaturationThreshold {
					out.Pix[i] = clamp01((s - opts.SaturationThreshold) / (1.0 - opts.SaturationThreshold))
				}
			}
		}
	})
	return out
}

// extractChannels computes edge, skin and saturation maps of in.
func extractChannels(in *Buffer, opts *Options, workers int) (*Channels, error) {
	if in == nil || in.Width <= 0 || in.Height <= 0 {
		return nil, invalidImagef("analysis buffer is empty")
	}
	switch in.Channels {
	case 1, 3, 4:
	default:
		return nil, invalidImagef("unsupported channel count %d", in.Channels)
	}
	if len(in.Pix) != in.Width*in.Height*in.Channels {
		return nil, invalidImagef("buffer holds %d samples, want %d", len(in.Pix), in.Width*in.Height*in.Channels)
	}

	light := lightnessMap(in, workers)
	return &Channels{
		Edge:       edgeDetect(light, workers),
		Skin:       skinDetect(in, light, opts, workers),
		Saturation: saturationDetect(in, light, opts, workers),
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
