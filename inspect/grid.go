// Package inspect prints block grid facts without drawing anything.
package inspect

import (
	"fmt"
	"image"
	"io"

	"blockpix/grid"

	"github.com/alecthomas/kong"
)

type GridCmd struct {
	Resolution int   `arg:"" help:"Side of a block in pixels"`
	Size       int   `arg:"" help:"Requested side of the image in pixels"`
	Pixel      []int `help:"Also report the block holding this pixel" placeholder:"X,Y"`
}

func (c *GridCmd) Validate(kctx *kong.Context) error {
	if len(c.Pixel) != 0 && len(c.Pixel) != 2 {
		return fmt.Errorf("pixel must be X,Y, got %v", c.Pixel)
	}
	return nil
}

func (c *GridCmd) Run(kctx *kong.Context) error {
	return c.print(kctx.Stdout)
}

func (c *GridCmd) print(w io.Writer) error {
	g, err := grid.Build(c.Resolution, c.Size)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "resolution %d\n", g.Resolution())
	fmt.Fprintf(w, "requested  %d\n", c.Size)
	fmt.Fprintf(w, "size       %d\n", g.Side())
	fmt.Fprintf(w, "blocks     %dx%d (%d)\n", g.BlocksPerSide(), g.BlocksPerSide(), g.Len())

	if len(c.Pixel) == 0 {
		return nil
	}
	p := image.Pt(c.Pixel[0], c.Pixel[1])
	block, ok := g.BlockAt(p)
	if !ok {
		return fmt.Errorf("pixel %v is outside the %dx%d image", p, g.Side(), g.Side())
	}
	bounds, err := g.Bounds(block)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "pixel %v in block %s at %v\n", p, block, bounds)
	return nil
}
