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
	"math"
)

// Score is the breakdown of a crop's rating. Detail, Saturation and Skin are
// importance weighted sums, Boost the weighted boost overlap in analysis
// pixels. Total is what candidates are ranked by.
type Score struct {
	Detail     float64 `json:"detail"`
	Saturation float64 `json:"saturation"`
	Skin       float64 `json:"skin"`
	Boost      float64 `json:"boost"`
	Total      float64 `json:"total"`
}

func thirds(x float64) float64 {
	x = (math.Mod(x-(1.0/3.0)+1.0, 2.0)*0.5 - 0.5) * 16.0
	return math.Max(1.0-x*x, 0.0)
}

// importance weights content at the relative position (xf, yf) inside a
// crop, both in [0, 1]. The centre and the thirds lines score high, the
// border falls off.
func importance(opts *Options, xf, yf float64) float64 {
	px := math.Abs(0.5-xf) * 2.0
	py := math.Abs(0.5-yf) * 2.0

	dx := math.Max(px-1.0+opts.EdgeRadius, 0.0)
	dy := math.Max(py-1.0+opts.EdgeRadius, 0.0)
	d := (dx*dx + dy*dy) * opts.EdgeWeight

	s := 1.41 - math.Sqrt(px*px+py*py)
	if opts.RuleOfThirds {
		s += (math.Max(0.0, s+d+0.5) * 1.2) * (thirds(px) + thirds(py))
	}

	return s + d
}

// scorer rates candidates against read-only tables, so it is safe to call
// score from several goroutines.
type scorer struct {
	opts    *Options
	tables  *signalTables
	boosts  []boostRect
	width   int
	height  int
	cells   int
	weights []float64
}

func newScorer(opts *Options, tables *signalTables, boosts []boostRect, width, height int) *scorer {
	k := opts.ImportanceCells
	weights := make([]float64, k*k)
	for j := 0; j < k; j++ {
		for i := 0; i < k; i++ {
			weights[j*k+i] = importance(opts, (float64(i)+0.5)/float64(k), (float64(j)+0.5)/float64(k))
		}
	}
	return &scorer{
		opts:    opts,
		tables:  tables,
		boosts:  boosts,
		width:   width,
		height:  height,
		cells:   k,
		weights: weights,
	}
}

// cellLayout holds cell boundary offsets for one crop size.
type cellLayout struct {
	xs []int
	ys []int
}

func (s *scorer) layout(width, height int) *cellLayout {
	l := &cellLayout{xs: make([]int, s.cells+1), ys: make([]int, s.cells+1)}
	for i := 0; i <= s.cells; i++ {
		l.xs[i] = i * width / s.cells
		l.ys[i] = i * height / s.cells
	}
	return l
}

func (s *scorer) score(c Crop, l *cellLayout) Score {
	var inDetail, inSkin, inSat float64
	k := s.cells
	for j := 0; j < k; j++ {
		y0, y1 := c.Y+l.ys[j], c.Y+l.ys[j+1]
		for i := 0; i < k; i++ {
			x0, x1 := c.X+l.xs[i], c.X+l.xs[i+1]
			w := s.weights[j*k+i]
			inDetail += w * s.tables.detail.sum(x0, y0, x1, y1)
			inSkin += w * s.tables.skin.sum(x0, y0, x1, y1)
			inSat += w * s.tables.saturation.sum(x0, y0, x1, y1)
		}
	}

	x1, y1 := c.X+c.Width, c.Y+c.Height
	outside := func(t *summedAreaTable) float64 {
		return s.opts.OutsideImportance * (t.total() - t.sum(c.X, c.Y, x1, y1))
	}

	score := Score{
		Detail:     inDetail + outside(s.tables.detail),
		Skin:       inSkin + outside(s.tables.skin),
		Saturation: inSat + outside(s.tables.saturation),
	}
	for _, b := range s.boosts {
		score.Boost += b.overlap(c) * b.weight
	}

	score.Total = (score.Detail*s.opts.DetailWeight +
		score.Skin*s.opts.SkinWeight +
		score.Saturation*s.opts.SaturationWeight +
		score.Boost*s.opts.BoostWeight) / float64(c.Width) / float64(c.Height)
	score.Total += s.prior(c)
	return score
}

// prior prefers candidates centred on the raster. It is 1 for a centred
// crop and falls to 0 at the corners, scaled by PriorWeight.
func (s *scorer) prior(c Crop) float64 {
	if s.opts.PriorWeight == 0 {
		return 0
	}
	hw, hh := float64(s.width)/2, float64(s.height)/2
	cx := float64(c.X) + float64(c.Width)/2
	cy := float64(c.Y) + float64(c.Height)/2
	return s.opts.PriorWeight * (1 - math.Hypot(cx-hw, cy-hh)/math.Hypot(hw, hh))
}
