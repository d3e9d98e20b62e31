package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/someposer/smartcrop-cli"
	"github.com/someposer/smartcrop-cli/internal/imageio"
	"github.com/someposer/smartcrop-cli/logger"
	"github.com/someposer/smartcrop-cli/nfnt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Please give me an argument")
		os.Exit(1)
	}

	img, _, err := imageio.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	l, err := logger.New(true, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer l.Sync()

	// debug images land next to the input
	opts := smartcrop.DefaultOptions()
	opts.Debug = true
	opts.DebugDir = filepath.Dir(os.Args[1])

	analyzer, err := smartcrop.NewAnalyzerWithOptions(nfnt.NewDefaultResizer(), opts, l)
	if err != nil {
		l.Sugar().Fatalw("invalid options", "error", err)
	}
	res, err := analyzer.Analyze(img, 300, 200, nil)
	if err != nil {
		l.Sugar().Fatalw("analysis failed", "error", err)
	}

	// The crop will have the requested aspect ratio, but you need to copy/scale it yourself
	fmt.Printf("Top crop: %+v\n", res.TopCrop)
	fmt.Printf("Score: %+v\n", res.Score)
	if g := res.Grid; g != nil {
		fmt.Printf("Grid: %d scale %.4f positions of %dx%d\n", len(g.X)*len(g.Y), g.Scale, g.Width, g.Height)
	}
}
