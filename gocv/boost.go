package gocv

import (
	"image"
	"math"

	"github.com/someposer/smartcrop-cli"
)

// FaceWeight is the boost weight given to every detected face.
const FaceWeight = 1.0

// faceBoost turns a detected face box into a boost region. Boxes reaching
// past the top or left edge are trimmed to the image.
func faceBoost(x, y, w, h float64) smartcrop.Boost {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	return smartcrop.Boost{
		X:      x,
		Y:      y,
		Width:  math.Max(w, 0),
		Height: math.Max(h, 0),
		Weight: FaceWeight,
	}
}

// rectBoosts converts detections on a mat. Mat coordinates already start
// at the image's bounds origin, so they are used as is.
func rectBoosts(rects []image.Rectangle) []smartcrop.Boost {
	res := make([]smartcrop.Boost, 0, len(rects))
	for _, r := range rects {
		res = append(res, faceBoost(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())))
	}
	return res
}
