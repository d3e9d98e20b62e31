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
	"github.com/cockroachdb/errors"
)

// Errors returned by the analyzer. Use errors.Is to tell them apart; the
// wrapped message names the offending parameter and the bounds it violated.
var (
	// ErrInvalidImage means the source image is nil, empty or has a pixel
	// layout the analyzer can't read.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidConfig means the requested crop or the analyzer options are
	// inconsistent. It is returned before any analysis work is done.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNoValidCrop means no candidate rectangle fits the analysis raster.
	ErrNoValidCrop = errors.New("no valid crop")
)

func invalidImagef(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidImage, format, args...)
}

func invalidConfigf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}
