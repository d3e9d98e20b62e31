//go:build !ci

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

package main

import (
	"github.com/someposer/smartcrop-cli"
	"github.com/someposer/smartcrop-cli/gocv"
	"github.com/someposer/smartcrop-cli/internal/config"
	"github.com/someposer/smartcrop-cli/logger"
)

// default model files, looked up in the working directory
const (
	defaultHaarCascade = "haarcascade_frontalface_default.xml"
	defaultYuNetModel  = "face_detection_yunet_2023mar.onnx"
)

func newBoostProvider(cfg config.Config, l logger.Logger) (smartcrop.BoostProvider, func(), error) {
	if cfg.Model == config.ModelYuNet {
		path := cfg.ModelPath
		if path == "" {
			path = defaultYuNetModel
		}
		d, err := gocv.NewYuNet(gocv.DefaultYuNetConfig(path), l)
		if err != nil {
			return nil, nil, err
		}
		return d, func() { _ = d.Close() }, nil
	}

	path := cfg.ModelPath
	if path == "" {
		path = defaultHaarCascade
	}
	return &gocv.FaceDetector{FaceDetectionHaarCascadeFilepath: path, Logger: l}, func() {}, nil
}
