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

package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, format, err := Decode(bytes.NewReader(encodedPNG(t, 7, 3)))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 7, 3), img.Bounds())
}

func TestDecodeWebP(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	var buf bytes.Buffer
	require.NoError(t, webp.Encode(&buf, src, &webp.Options{Lossless: true}))

	img, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "webp", format)
	assert.Equal(t, image.Rect(0, 0, 5, 4), img.Bounds())
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)
}

func TestOpenStdin(t *testing.T) {
	old := stdin
	defer func() { stdin = old }()
	stdin = bytes.NewReader(encodedPNG(t, 2, 2))

	img, _, err := Open(Stdio)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, os.WriteFile(path, encodedPNG(t, 4, 6), 0o644))

	img, format, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 6, img.Bounds().Dy())

	_, _, err = Open(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	old := stdout
	defer func() { stdout = old }()
	var buf bytes.Buffer
	stdout = &buf

	w, err := Create(Stdio)
	require.NoError(t, err)
	_, err = w.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "hi", buf.String())

	path := filepath.Join(t.TempDir(), "nested", "out.jpg")
	w, err = Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.FileExists(t, path)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension("a/b/C.JPG"))
	assert.Equal(t, "webp", Extension("x.webp"))
	assert.Equal(t, "", Extension("noext"))
}
