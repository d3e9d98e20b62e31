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
	"encoding/json"
	"image"
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/someposer/smartcrop-cli"
	"github.com/someposer/smartcrop-cli/internal/config"
	"github.com/someposer/smartcrop-cli/internal/imageio"
	"github.com/someposer/smartcrop-cli/logger"
	"github.com/someposer/smartcrop-cli/nfnt"
	"github.com/someposer/smartcrop-cli/render"
	"github.com/someposer/smartcrop-cli/xdraw"
)

type app struct {
	stdout  io.Writer
	cfgFile string

	cfg      config.Config
	log      logger.Logger
	analyzer smartcrop.Analyzer

	faces      smartcrop.BoostProvider
	closeFaces func()
}

func newApp(stdout io.Writer) *app {
	return &app{stdout: stdout, log: logger.Nop()}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smartcrop [flags] FILE [OUTPUT]",
		Short: "Content aware image cropping",
		Long: `smartcrop finds the best crop of FILE for the ratio of --width and --height
and prints it as JSON. When OUTPUT is given together with both --width and
--height the cropped image is resized and written there. Use - for stdin or
stdout; writing the image to stdout suppresses the JSON.`,
		Args:              cobra.RangeArgs(1, 2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runCrop,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (json, yaml or toml)")
	registerFlags(root.PersistentFlags(), config.Default())
	root.AddCommand(a.batchCmd())
	return root
}

func registerFlags(fs *pflag.FlagSet, d config.Config) {
	fs.Int("width", d.Width, "crop width")
	fs.Int("height", d.Height, "crop height")
	fs.Int("quality", d.Quality, "output quality for jpg and webp")
	fs.String("outputFormat", d.OutputFormat, "output format: jpg, png, gif, tif, bmp or webp")
	fs.Bool("lossless", d.Lossless, "lossless webp output")

	fs.Bool("faceDetection", d.FaceDetection, "boost detected faces")
	fs.String("model", d.Model, "face detection model: haar or yunet")
	fs.String("modelPath", d.ModelPath, "path to the haar cascade or yunet onnx model")

	fs.Float64("unsharp.sigma", d.Unsharp.Sigma, "unsharp mask radius")
	fs.Float64("unsharp.amount", d.Unsharp.Amount, "unsharp mask amount, 0 disables sharpening")
	fs.Float64("unsharp.threshold", d.Unsharp.Threshold, "unsharp mask threshold")

	fs.String("resampler", d.Resampler, "analysis downsampler: nfnt or xdraw")
	fs.Bool("jsonLogs", d.JSONLogs, "log as JSON")

	c := d.Crop
	fs.Int("step", c.Step, "distance between candidate positions in analysis pixels")
	fs.Float64("minScale", c.MinScale, "smallest candidate scale")
	fs.Float64("maxScale", c.MaxScale, "largest candidate scale")
	fs.Float64("scaleStep", c.ScaleStep, "factor between candidate scales")
	fs.Float64("boostWeight", c.BoostWeight, "weight of boost regions")
	fs.Bool("ruleOfThirds", c.RuleOfThirds, "favour content on the thirds")
	fs.Bool("prescale", c.Prescale, "analyse a downsampled copy")
	fs.Int("analysisMaxDimension", c.AnalysisMaxDimension, "longer side of the analysis raster")
	fs.Int("workers", c.Workers, "goroutines per analysis, 0 uses all CPUs")
	fs.Bool("debug", c.Debug, "debug logging and score grid in the result")
	fs.String("debugDir", c.DebugDir, "write debug images to this directory")
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if a.cfg, err = config.Load(v); err != nil {
		return err
	}
	if a.log, err = logger.New(a.cfg.Crop.Debug, a.cfg.JSONLogs); err != nil {
		return err
	}

	if a.analyzer, err = smartcrop.NewAnalyzerWithOptions(resizer(a.cfg.Resampler), a.cfg.Crop, a.log); err != nil {
		return err
	}

	if a.cfg.FaceDetection {
		faces, closeFaces, err := newBoostProvider(a.cfg, a.log)
		if err != nil {
			a.log.Sugar().Warnw("face detection disabled", "model", a.cfg.Model, "error", err)
		} else {
			a.faces, a.closeFaces = faces, closeFaces
		}
	}
	return nil
}

func resizer(name string) smartcrop.Resizer {
	if name == config.ResamplerXDraw {
		return xdraw.NewDefaultResizer()
	}
	return nfnt.NewDefaultResizer()
}

func (a *app) close() {
	if a.closeFaces != nil {
		a.closeFaces()
	}
	a.log.Sync()
}

func (a *app) runCrop(_ *cobra.Command, args []string) error {
	input, output := args[0], ""
	if len(args) > 1 {
		output = args[1]
	}

	img, _, err := imageio.Open(input)
	if err != nil {
		return err
	}
	res, err := a.crop(img)
	if err != nil {
		return errors.Wrapf(err, "cropping %s", input)
	}

	if output != imageio.Stdio {
		if err := a.printJSON(res); err != nil {
			return err
		}
	}
	if output == "" || a.cfg.Width == 0 || a.cfg.Height == 0 {
		return nil
	}
	return a.write(output, img, res)
}

// crop analyses img for the configured size, boosted by detected faces.
func (a *app) crop(img image.Image) (*smartcrop.Result, error) {
	width, height := cropDimensions(img.Bounds(), a.cfg.Width, a.cfg.Height)
	a.log.Debugw("Crop dimensions", "width", width, "height", height)
	return a.analyzer.Analyze(img, width, height, a.boosts(img))
}

func (a *app) boosts(img image.Image) []smartcrop.Boost {
	if a.faces == nil {
		return nil
	}
	boosts, err := a.faces.Detect(img)
	if err != nil {
		a.log.Sugar().Warnw("face detection failed, continuing without boosts", "error", err)
		return nil
	}
	a.log.Debugw("Faces detected", "count", len(boosts))
	return boosts
}

func (a *app) write(output string, img image.Image, res *smartcrop.Result) error {
	opts := a.cfg.RenderOptions()
	opts.Format = outputFormat(output, a.cfg.OutputFormat)
	r, err := render.New(opts)
	if err != nil {
		return err
	}

	w, err := imageio.Create(output)
	if err != nil {
		return err
	}
	rect := res.TopCrop.Rectangle().Add(img.Bounds().Min)
	if err := r.Render(w, img, rect); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "writing %s", output)
	}
	return errors.Wrapf(w.Close(), "closing %s", output)
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "writing result")
}

// cropDimensions fills in a missing crop size. With neither set the crop
// is a square of the smaller image side, with one set the other follows
// the image's aspect ratio.
func cropDimensions(b image.Rectangle, width, height int) (int, int) {
	x, y := b.Dx(), b.Dy()
	switch {
	case x <= 0 || y <= 0:
	case width == 0 && height == 0:
		if x < y {
			return x, x
		}
		return y, y
	case width == 0:
		width = int(math.Max(1, math.Round(float64(height)*float64(x)/float64(y))))
	case height == 0:
		height = int(math.Max(1, math.Round(float64(width)*float64(y)/float64(x))))
	}
	return width, height
}

// outputFormat prefers a known extension of the output file over the
// configured format. Stdout always uses the configured one.
func outputFormat(output, configured string) string {
	if output == imageio.Stdio {
		return configured
	}
	if f, err := render.NormalizeFormat(imageio.Extension(output)); err == nil {
		return f
	}
	return configured
}
