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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/someposer/smartcrop-cli"
	"github.com/someposer/smartcrop-cli/internal/config"
	"github.com/someposer/smartcrop-cli/internal/imageio"
	"github.com/someposer/smartcrop-cli/render"
)

// batchItem is one entry of the batch report.
type batchItem struct {
	Input  string            `json:"input"`
	Output string            `json:"output,omitempty"`
	Result *smartcrop.Result `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func (a *app) batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [flags] FILE...",
		Short: "Crop many images in parallel",
		Long: `batch analyses every FILE independently and prints a JSON array with one
entry per input. With --outDir each crop is rendered into that directory,
resized to --width and --height where set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runBatch,
	}
	d := config.Default()
	cmd.Flags().String("outDir", d.OutDir, "directory for the rendered crops")
	cmd.Flags().Int("jobs", d.Jobs, "images processed in parallel")
	return cmd
}

func (a *app) runBatch(_ *cobra.Command, inputs []string) error {
	if err := checkStdin(inputs); err != nil {
		return err
	}

	items := make([]batchItem, len(inputs))
	var outputs []string
	if a.cfg.OutDir != "" {
		outputs = batchOutputs(a.cfg.OutDir, inputs, a.cfg.OutputFormat)
	}

	var g errgroup.Group
	g.SetLimit(a.cfg.Jobs)
	for i, input := range inputs {
		items[i].Input = input
		if outputs != nil {
			items[i].Output = outputs[i]
		}
		g.Go(func() error {
			if err := a.batchOne(&items[i]); err != nil {
				a.log.Sugar().Errorw("batch item failed", "input", input, "error", err)
				items[i].Error = err.Error()
				items[i].Output = ""
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := a.printJSON(items); err != nil {
		return err
	}

	failed := 0
	for _, it := range items {
		if it.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return errors.Newf("%d of %d images failed", failed, len(items))
	}
	return nil
}

func (a *app) batchOne(it *batchItem) error {
	img, _, err := imageio.Open(it.Input)
	if err != nil {
		return err
	}
	res, err := a.crop(img)
	if err != nil {
		return err
	}
	it.Result = res
	if it.Output == "" {
		return nil
	}
	return a.write(it.Output, img, res)
}

// checkStdin rejects more than one "-" input, stdin can only be read once.
func checkStdin(inputs []string) error {
	n := 0
	for _, in := range inputs {
		if in == imageio.Stdio {
			n++
		}
	}
	if n > 1 {
		return errors.WithHint(
			errors.Mark(errors.Newf("stdin given %d times", n), smartcrop.ErrInvalidConfig),
			"pass - at most once",
		)
	}
	return nil
}

// batchOutputs names every rendered file after its input, with the
// extension of the configured format. Inputs sharing a base name get a
// numeric suffix, so no two inputs write the same file.
func batchOutputs(dir string, inputs []string, format string) []string {
	ext, err := render.NormalizeFormat(format)
	if err != nil {
		ext = format
	}

	used := make(map[string]bool, len(inputs))
	res := make([]string, len(inputs))
	for i, input := range inputs {
		base := filepath.Base(input)
		if input == imageio.Stdio {
			base = "stdin"
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))

		name := base + "." + ext
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s-%d.%s", base, n, ext)
		}
		used[name] = true
		res[i] = filepath.Join(dir, name)
	}
	return res
}
