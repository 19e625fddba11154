package inspect

import (
	"fmt"
	"io"

	"blockpix/grid"
	"blockpix/neighbor"

	"github.com/alecthomas/kong"
)

type NeighborsCmd struct {
	X          int    `arg:"" help:"Block column"`
	Y          int    `arg:"" help:"Block row"`
	Scheme     string `help:"Neighbor scheme" enum:"all,adjacent,diagonal,directional" default:"all"`
	Direction  string `help:"Direction for the directional scheme (up, down, left, right)"`
	Resolution int    `help:"Block side, with --size flags neighbors outside the grid"`
	Size       int    `help:"Requested image side, with --resolution flags neighbors outside the grid"`

	scheme    neighbor.Scheme    `kong:"-"`
	direction neighbor.Direction `kong:"-"`
}

func (c *NeighborsCmd) Validate(kctx *kong.Context) error {
	var err error
	if c.scheme, err = neighbor.ParseScheme(c.Scheme); err != nil {
		return err
	}

	switch {
	case c.scheme == neighbor.SchemeDirectional:
		if c.direction, err = neighbor.ParseDirection(c.Direction); err != nil {
			return err
		}
	case c.Direction != "":
		return fmt.Errorf("direction is only used with the directional scheme")
	}

	if (c.Resolution == 0) != (c.Size == 0) {
		return fmt.Errorf("resolution and size must be given together")
	}
	return nil
}

func (c *NeighborsCmd) Run(kctx *kong.Context) error {
	return c.print(kctx.Stdout)
}

func (c *NeighborsCmd) print(w io.Writer) error {
	var g *grid.Grid
	if c.Resolution != 0 {
		var err error
		if g, err = grid.Build(c.Resolution, c.Size); err != nil {
			return err
		}
	}

	coords, err := neighbor.Resolve(grid.Coord{X: c.X, Y: c.Y}, c.scheme, c.direction)
	if err != nil {
		return err
	}

	for _, n := range coords {
		if g != nil && !g.Contains(n) {
			fmt.Fprintf(w, "%s outside\n", n)
			continue
		}
		fmt.Fprintln(w, n)
	}
	return nil
}
