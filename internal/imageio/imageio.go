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

// Package imageio reads source images and opens output streams. A path of
// "-" stands for stdin or stdout.
package imageio

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"

	// registers the pure Go webp decoder with image.Decode
	_ "golang.org/x/image/webp"
)

// Stdio is the path denoting stdin or stdout.
const Stdio = "-"

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// Decode reads an image and applies its EXIF orientation. It returns the
// name of the detected format.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading image")
	}

	_, format, cfgErr := image.DecodeConfig(bytes.NewReader(data))
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, format, nil
	}

	if isWebP(data) {
		if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			return img, "webp", nil
		}
	}
	if cfgErr != nil {
		err = cfgErr
	}
	return nil, "", errors.Wrap(err, "decoding image")
}

// Open decodes the image at path, or stdin for "-".
func Open(path string) (image.Image, string, error) {
	if path == Stdio {
		img, format, err := Decode(stdin)
		return img, format, errors.Wrap(err, "stdin")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "can't open input file")
	}
	defer f.Close() //nolint:errcheck

	img, format, err := Decode(f)
	return img, format, errors.Wrap(err, path)
}

// Create opens path for writing, or stdout for "-". Closing the stdout
// writer is a no-op.
func Create(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "can't create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't create output file")
	}
	return f, nil
}

// Extension returns the lower case extension of path without the dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
