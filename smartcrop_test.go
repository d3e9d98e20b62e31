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
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someposer/smartcrop-cli/logger"
	"github.com/someposer/smartcrop-cli/nfnt"
)

// Moved here and unexported to decouple the resizer implementation.
func smartCrop(img image.Image, width, height int) (image.Rectangle, error) {
	analyzer := NewAnalyzer(nfnt.NewDefaultResizer())
	return analyzer.FindBestCrop(img, width, height)
}

type SubImager interface {
	SubImage(r image.Rectangle) image.Image
}

type countingResizer struct {
	Resizer
	calls int
}

func (c *countingResizer) Resize(img image.Image, width, height uint) image.Image {
	c.calls++
	return c.Resizer.Resize(img, width, height)
}

func flatImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var (
	gray      = color.RGBA{128, 128, 128, 255}
	patchRect = image.Rect(700, 150, 900, 350)
)

// patchImage is a gray 1000x500 image with a red and blue checkerboard in
// patchRect, the only salient area.
func patchImage() *image.RGBA {
	img := flatImage(1000, 500, gray)
	for y := patchRect.Min.Y; y < patchRect.Max.Y; y++ {
		for x := patchRect.Min.X; x < patchRect.Max.X; x++ {
			if (x/20+y/20)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

func noiseImage(seed int64, w, h int) *image.RGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rnd.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func analyze(t *testing.T, opts Options, img image.Image, w, h int, boosts []Boost) *Result {
	t.Helper()
	a, err := NewAnalyzerWithOptions(nfnt.NewDefaultResizer(), opts, logger.Nop())
	require.NoError(t, err)
	res, err := a.Analyze(img, w, h, boosts)
	require.NoError(t, err)
	return res
}

func overlapArea(a, b image.Rectangle) int {
	r := a.Intersect(b)
	return r.Dx() * r.Dy()
}

func TestCrop(t *testing.T) {
	img := patchImage()

	topCrop, err := smartCrop(img, 250, 250)
	if err != nil {
		t.Fatal(err)
	}
	if !topCrop.In(img.Bounds()) {
		t.Fatalf("crop %v exceeds image bounds %v", topCrop, img.Bounds())
	}
	if topCrop.Min.X > patchRect.Min.X || topCrop.Max.X < patchRect.Max.X {
		t.Fatalf("expected crop %v to keep the patch %v", topCrop, patchRect)
	}
	if topCrop.Dx() != topCrop.Dy() {
		t.Fatalf("expected a square crop, got %v", topCrop)
	}

	sub, ok := interface{}(img).(SubImager)
	if !ok {
		t.Fatal("no SubImage support")
	}
	cropImage := sub.SubImage(topCrop)
	if cropImage.Bounds() != topCrop {
		t.Fatalf("expected sub image bounds %v, got %v", topCrop, cropImage.Bounds())
	}
}

func TestFlatImageIsCentred(t *testing.T) {
	res := analyze(t, DefaultOptions(), flatImage(1000, 500, gray), 1, 1, nil)

	assert.Equal(t, Crop{X: 250, Y: 0, Width: 500, Height: 500}, res.TopCrop)
	assert.Zero(t, res.Score.Detail)
	assert.Zero(t, res.Score.Skin)
	assert.Zero(t, res.Score.Saturation)
	assert.Zero(t, res.Score.Boost)
	assert.InDelta(t, DefaultOptions().PriorWeight, res.Score.Total, 1e-12)
}

func TestFindBestCropUsesImageCoordinates(t *testing.T) {
	big := flatImage(1200, 700, gray)
	sub := big.SubImage(image.Rect(100, 50, 1100, 550))

	rect, err := smartCrop(sub, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(350, 50, 850, 550), rect)
}

func TestCropBoundsAndRatio(t *testing.T) {
	sizes := [][2]int{{1, 1}, {16, 9}, {9, 16}, {4, 3}, {3, 1}, {250, 333}}
	for seed := int64(1); seed <= 3; seed++ {
		img := noiseImage(seed, 640+int(seed)*37, 480-int(seed)*23)
		b := img.Bounds()
		for _, s := range sizes {
			res := analyze(t, DefaultOptions(), img, s[0], s[1], nil)
			c := res.TopCrop

			require.Truef(t, c.Rectangle().In(b), "crop %+v outside %v", c, b)
			ratio := float64(s[0]) / float64(s[1])
			assert.LessOrEqualf(t, math.Abs(float64(c.Height)-float64(c.Width)/ratio), 1.0,
				"crop %+v does not match ratio %v", c, ratio)
		}
	}
}

func TestDeterminism(t *testing.T) {
	img := noiseImage(42, 800, 600)
	boosts := []Boost{{X: 100, Y: 100, Width: 120, Height: 160, Weight: 1}}

	opts := DefaultOptions()
	opts.Debug = true
	opts.Workers = 1
	sequential := analyze(t, opts, img, 3, 2, boosts)
	again := analyze(t, opts, img, 3, 2, boosts)

	opts.Workers = 7
	parallel := analyze(t, opts, img, 3, 2, boosts)

	require.NotNil(t, sequential.Grid)
	if diff := cmp.Diff(sequential, again); diff != "" {
		t.Fatalf("repeated run differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(sequential, parallel); diff != "" {
		t.Fatalf("parallel run differs (-sequential +parallel):\n%s", diff)
	}
}

func TestBoostPullsCrop(t *testing.T) {
	opts := DefaultOptions()
	opts.MinScale = 1.0
	img := patchImage()
	left := image.Rect(0, 0, 200, 200)

	plain := analyze(t, opts, img, 1, 1, nil)
	boosted := analyze(t, opts, img, 1, 1, []Boost{{X: 0, Y: 0, Width: 200, Height: 200, Weight: 1}})

	assert.GreaterOrEqual(t,
		overlapArea(boosted.TopCrop.Rectangle(), left),
		overlapArea(plain.TopCrop.Rectangle(), left))
	assert.Positive(t, overlapArea(boosted.TopCrop.Rectangle(), left))
	assert.Positive(t, boosted.Score.Boost)
}

func TestBoostInsideTopCropDoesNotLowerScore(t *testing.T) {
	img := noiseImage(7, 600, 400)
	plain := analyze(t, DefaultOptions(), img, 1, 1, nil)

	c := plain.TopCrop
	inside := Boost{X: float64(c.X + c.Width/4), Y: float64(c.Y + c.Height/4), Width: float64(c.Width / 2), Height: float64(c.Height / 2), Weight: 1}
	boosted := analyze(t, DefaultOptions(), img, 1, 1, []Boost{inside})

	assert.GreaterOrEqual(t, boosted.Score.Total, plain.Score.Total)
}

func TestBoostOutsideImageChangesNothing(t *testing.T) {
	img := patchImage()
	plain := analyze(t, DefaultOptions(), img, 1, 1, nil)
	far := analyze(t, DefaultOptions(), img, 1, 1, []Boost{{X: 2000, Y: 2000, Width: 300, Height: 300, Weight: 1e6}})

	if diff := cmp.Diff(plain, far); diff != "" {
		t.Fatalf("boost outside the image changed the result:\n%s", diff)
	}
}

func TestZeroSizeFailsBeforeAnalysis(t *testing.T) {
	r := &countingResizer{Resizer: nfnt.NewDefaultResizer()}
	a := NewAnalyzer(r)

	for _, s := range [][2]int{{0, 100}, {100, 0}, {-5, 5}, {0, 0}} {
		_, err := a.Analyze(patchImage(), s[0], s[1], nil)
		require.Error(t, err)
		assert.Truef(t, errors.Is(err, ErrInvalidConfig), "unexpected error %v", err)
	}
	assert.Equal(t, 0, r.calls)

	_, err := a.Analyze(patchImage(), 100, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)
}

func TestErrors(t *testing.T) {
	a := NewAnalyzer(nfnt.NewDefaultResizer())

	_, err := a.Analyze(nil, 10, 10, nil)
	assert.True(t, errors.Is(err, ErrInvalidImage))

	_, err = a.Analyze(image.NewRGBA(image.Rect(0, 0, 0, 10)), 10, 10, nil)
	assert.True(t, errors.Is(err, ErrInvalidImage))

	_, err = a.Analyze(patchImage(), 10000, 1, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = a.Analyze(patchImage(), 1, 1, []Boost{{Width: 10, Height: 10, Weight: -1}})
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = a.Analyze(patchImage(), 1, 1, []Boost{{Width: math.NaN(), Height: 10, Weight: 1}})
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	opts := DefaultOptions()
	opts.MinScale = 0
	_, err = NewAnalyzerWithOptions(nil, opts, logger.Nop())
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestTinyImages(t *testing.T) {
	a := NewAnalyzer(nfnt.NewDefaultResizer())
	for _, size := range []image.Point{{1, 1}, {3, 1}, {1, 3}} {
		res, err := a.Analyze(flatImage(size.X, size.Y, gray), 1, 1, nil)
		require.NoError(t, err, "%v", size)
		assert.Equal(t, 1, res.TopCrop.Width, "%v", size)
		assert.Equal(t, 1, res.TopCrop.Height, "%v", size)
	}

	_, err := a.Analyze(flatImage(3, 1, gray), 1, 2, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestNoPrescaleWithoutResizer(t *testing.T) {
	opts := DefaultOptions()
	opts.Prescale = false
	a, err := NewAnalyzerWithOptions(nil, opts, logger.Nop())
	require.NoError(t, err)

	res, err := a.Analyze(flatImage(128, 64, gray), 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, Crop{X: 32, Y: 0, Width: 64, Height: 64}, res.TopCrop)

	_, err = NewAnalyzer(nil).Analyze(flatImage(1000, 500, gray), 1, 1, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestDebugOutput(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.Debug = true
	opts.DebugDir = dir

	res := analyze(t, opts, patchImage(), 1, 1, []Boost{{X: 0, Y: 0, Width: 100, Height: 100, Weight: 1}})
	require.NotNil(t, res.Grid)
	assert.Len(t, res.Grid.Totals, len(res.Grid.Y))
	assert.Len(t, res.Grid.Totals[0], len(res.Grid.X))
	assert.InDelta(t, 0.9025, res.Grid.Scale, 1e-9)

	for _, name := range []string{"edge", "skin", "saturation", "debug"} {
		assert.FileExists(t, filepath.Join(dir, "smartcrop_"+name+".png"))
	}
}

func BenchmarkCrop(b *testing.B) {
	img := patchImage()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := smartCrop(img, 250, 250); err != nil {
			b.Error(err)
		}
	}
}

func BenchmarkEdge(b *testing.B) {
	buf, err := BufferFromImage(noiseImage(1, 256, 256))
	if err != nil {
		b.Fatal(err)
	}
	light := lightnessMap(buf, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		edgeDetect(light, 1)
	}
}
