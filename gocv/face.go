//go:build !ci
// +build !ci

// Package gocv provides face detectors that turn faces into smartcrop
// boost regions.
package gocv

import (
	"image"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"gocv.io/x/gocv"

	"github.com/someposer/smartcrop-cli"
	sclogger "github.com/someposer/smartcrop-cli/logger"
)

// FaceDetector finds faces with a Haar cascade.
type FaceDetector struct {
	FaceDetectionHaarCascadeFilepath string
	Logger                           sclogger.Logger
}

var _ smartcrop.BoostProvider = (*FaceDetector)(nil)

// Detect implements smartcrop.BoostProvider.
func (d *FaceDetector) Detect(img image.Image) ([]smartcrop.Boost, error) {
	if img == nil {
		return nil, errors.New("img can't be nil")
	}
	if d.FaceDetectionHaarCascadeFilepath == "" {
		return nil, errors.New("FaceDetector's FaceDetectionHaarCascadeFilepath not specified")
	}

	if _, err := os.Stat(d.FaceDetectionHaarCascadeFilepath); err != nil {
		return nil, errors.Wrap(err, "haar cascade")
	}

	classifier := gocv.NewCascadeClassifier()
	defer classifier.Close()
	if !classifier.Load(d.FaceDetectionHaarCascadeFilepath) {
		return nil, errors.Newf("FaceDetector failed loading cascade file %s", d.FaceDetectionHaarCascadeFilepath)
	}

	cvMat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "converting image")
	}
	defer cvMat.Close()

	faces := classifier.DetectMultiScale(cvMat)
	d.Logger.Debugw("Number of faces detected", "count", len(faces))

	for _, face := range faces {
		d.Logger.Debugw("Face", "x", face.Min.X, "y", face.Min.Y, "w", face.Dx(), "h", face.Dy())
	}
	return rectBoosts(faces), nil
}

// YuNetDetector finds faces with OpenCV's FaceDetectorYN and an ONNX model.
type YuNetDetector struct {
	detector gocv.FaceDetectorYN
	logger   sclogger.Logger
	mu       sync.Mutex
}

var _ smartcrop.BoostProvider = (*YuNetDetector)(nil)

// YuNetConfig configures NewYuNet.
type YuNetConfig struct {
	ModelPath        string
	ConfidenceThresh float64
	NMSThresh        float64
	TopK             int
}

// DefaultYuNetConfig returns the thresholds the model is usually run with.
func DefaultYuNetConfig(modelPath string) YuNetConfig {
	return YuNetConfig{
		ModelPath:        modelPath,
		ConfidenceThresh: 0.6,
		NMSThresh:        0.3,
		TopK:             5000,
	}
}

// NewYuNet loads the model. Close the detector when done.
func NewYuNet(cfg YuNetConfig, l sclogger.Logger) (*YuNetDetector, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model file %s", cfg.ModelPath)
	}

	// the input size is reset for every image
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		image.Pt(320, 320),
		float32(cfg.ConfidenceThresh),
		float32(cfg.NMSThresh),
		cfg.TopK,
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)
	return &YuNetDetector{detector: detector, logger: l}, nil
}

// Detect implements smartcrop.BoostProvider.
func (d *YuNetDetector) Detect(img image.Image) ([]smartcrop.Boost, error) {
	if img == nil {
		return nil, errors.New("img can't be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cvMat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "converting image")
	}
	defer cvMat.Close()

	d.detector.SetInputSize(image.Pt(cvMat.Cols(), cvMat.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	d.detector.Detect(cvMat, &faces)

	// one row per face: x, y, w, h, five landmark pairs, score
	res := make([]smartcrop.Boost, 0, faces.Rows())
	for r := 0; r < faces.Rows(); r++ {
		x := float64(faces.GetFloatAt(r, 0))
		y := float64(faces.GetFloatAt(r, 1))
		w := float64(faces.GetFloatAt(r, 2))
		h := float64(faces.GetFloatAt(r, 3))
		d.logger.Debugw("Face", "x", x, "y", y, "w", w, "h", h, "score", faces.GetFloatAt(r, 14))
		res = append(res, faceBoost(x, y, w, h))
	}
	return res, nil
}

// Close releases the model.
func (d *YuNetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}
