package render

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"blockpix/canvas"
	"blockpix/parallel"
	"blockpix/sketch"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Sketch string        `arg:"" help:"Sketch file in TOML format" type:"existingfile"`
	Output string        `help:"Destination image. Defaults to the sketch path with the extension of the output format" short:"o"`
	Format string        `help:"Output format (png, gif, jpeg, bmp, tiff). Taken from the output extension if not given"`
	Scale  int           `help:"Enlarge each pixel to a square of this side" default:"1"`
	format canvas.Format `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Scale < 1 {
		return fmt.Errorf("invalid scale: %d", c.Scale)
	}

	var err error
	switch {
	case c.Format != "":
		c.format, err = canvas.ParseFormat(c.Format)
	case c.Output != "":
		c.format, err = canvas.FormatFromPath(c.Output)
	default:
		c.format = canvas.PNG
	}
	if err != nil {
		return err
	}

	if c.Output == "" {
		c.Output = strings.TrimSuffix(c.Sketch, filepath.Ext(c.Sketch)) + c.format.Ext()
	}
	return nil
}

func (c *CLICmd) Run(workers parallel.Workers) error {
	logger := slog.Default().With("sketch", c.Sketch)

	s, err := sketch.Load(c.Sketch)
	if err != nil {
		return err
	}

	img, err := s.Render(canvas.WithLogger(logger), canvas.WithWorkers(int(workers)))
	if err != nil {
		return fmt.Errorf("could not render %q: %w", c.Sketch, err)
	}

	if err := img.SaveScaled(c.Output, c.format, c.Scale); err != nil {
		return err
	}
	logger.Info("rendered", "output", c.Output, "size", img.Grid().Side()*c.Scale,
		"blocks", img.Grid().Len(), "fills", len(s.Fills))
	return nil
}
