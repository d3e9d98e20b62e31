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
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalize(t *testing.T) {
	tests := []struct {
		name   string
		best   candidate
		sw, sh int
		aw, ah int
		ratio  float64
		want   Crop
	}{
		{
			name: "full height square",
			best: candidate{Crop: Crop{X: 64, Y: 0, Width: 128, Height: 128}, Scale: 1},
			sw:   1000, sh: 500, aw: 256, ah: 128, ratio: 1,
			want: Crop{X: 250, Y: 0, Width: 500, Height: 500},
		},
		{
			name: "clamped to the right edge",
			best: candidate{Crop: Crop{X: 135, Y: 0, Width: 121, Height: 121}, Scale: 0.95},
			sw:   1000, sh: 500, aw: 256, ah: 128, ratio: 1,
			want: Crop{X: 525, Y: 0, Width: 475, Height: 475},
		},
		{
			name: "wide crop",
			best: candidate{Crop: Crop{X: 0, Y: 10, Width: 100, Height: 50}, Scale: 1},
			sw:   400, sh: 300, aw: 100, ah: 75, ratio: 2,
			want: Crop{X: 0, Y: 40, Width: 400, Height: 200},
		},
		{
			name: "tall crop",
			best: candidate{Crop: Crop{X: 3, Y: 0, Width: 30, Height: 60}, Scale: 1},
			sw:   333, sh: 200, aw: 100, ah: 60, ratio: 0.5,
			want: Crop{X: 10, Y: 0, Width: 100, Height: 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finalize(tt.best, tt.sw, tt.sh, tt.aw, tt.ah, tt.ratio)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.X+got.Width, tt.sw)
			assert.LessOrEqual(t, got.Y+got.Height, tt.sh)
			assert.LessOrEqual(t, math.Abs(float64(got.Height)-float64(got.Width)/tt.ratio), 1.0)
		})
	}
}

func TestResultJSON(t *testing.T) {
	res := Result{
		TopCrop: Crop{X: 1, Y: 2, Width: 3, Height: 4},
		Score:   Score{Detail: 0.5, Total: 1},
	}
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"topCrop": {"x": 1, "y": 2, "width": 3, "height": 4},
		"score": {"detail": 0.5, "saturation": 0, "skin": 0, "boost": 0, "total": 1}
	}`, string(b))
}
