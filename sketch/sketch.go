// Package sketch reads TOML documents describing a block canvas and the
// fills to paint on it.
//
//	resolution = 10
//	size = 805
//	background = "#000000"
//	palette = "pico8"
//
//	[[fill]]
//	block = [0, 0]
//	to = [3, 3]
//	color = "#ff0303"
//
//	[[fill]]
//	block = [4, 4]
//	neighbors = "directional"
//	direction = "right"
//	skip_outside = true
//	color = "#ff0303"
package sketch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"blockpix/canvas"
	"blockpix/grid"
	"blockpix/neighbor"
	"blockpix/palette"

	"github.com/BurntSushi/toml"
)

var ErrInvalidSketch = errors.New("invalid sketch")

type Sketch struct {
	Resolution int         `toml:"resolution"`
	Size       int         `toml:"size"`
	Background *canvas.RGB `toml:"background"`
	Palette    string      `toml:"palette"`
	Fills      []Fill      `toml:"fill"`
}

// Fill paints one block, an inclusive rectangle of blocks from Block to To,
// or the neighbors of Block under the Neighbors scheme.
type Fill struct {
	Block       []int       `toml:"block"`
	To          []int       `toml:"to"`
	Neighbors   string      `toml:"neighbors"`
	Direction   string      `toml:"direction"`
	SkipOutside bool        `toml:"skip_outside"`
	Color       *canvas.RGB `toml:"color"`
}

func Load(path string) (*Sketch, error) {
	var s Sketch
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("could not read sketch %q: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("sketch %q: %w", path, err)
	}
	return &s, nil
}

func Decode(r io.Reader) (*Sketch, error) {
	var s Sketch
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("could not decode sketch: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	return &s, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("%w: unknown keys %s", ErrInvalidSketch, strings.Join(names, ", "))
}

func (s *Sketch) Validate() error {
	if s.Resolution < 1 {
		return fmt.Errorf("%w: resolution must be positive, got %d", ErrInvalidSketch, s.Resolution)
	}
	if s.Size < 1 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidSketch, s.Size)
	}
	for i, f := range s.Fills {
		if err := f.validate(); err != nil {
			return fmt.Errorf("%w: fill #%d: %w", ErrInvalidSketch, i, err)
		}
	}
	return nil
}

func (f *Fill) validate() error {
	if len(f.Block) != 2 {
		return fmt.Errorf("block must be [x, y], got %v", f.Block)
	}
	if f.To != nil && len(f.To) != 2 {
		return fmt.Errorf("to must be [x, y], got %v", f.To)
	}
	if f.Color == nil {
		return errors.New("color is required")
	}

	if f.Neighbors == "" {
		if f.Direction != "" {
			return errors.New("direction is only used with directional neighbors")
		}
		return nil
	}
	if f.To != nil {
		return errors.New("to and neighbors cannot be combined")
	}

	scheme, err := neighbor.ParseScheme(f.Neighbors)
	if err != nil {
		return err
	}
	if scheme != neighbor.SchemeDirectional {
		if f.Direction != "" {
			return errors.New("direction is only used with directional neighbors")
		}
		return nil
	}
	_, err = neighbor.ParseDirection(f.Direction)
	return err
}

// targets expands a fill into the block coordinates it paints.
func (f *Fill) targets(g *grid.Grid) ([]grid.Coord, error) {
	origin := grid.Coord{X: f.Block[0], Y: f.Block[1]}

	var blocks []grid.Coord
	switch {
	case f.Neighbors != "":
		scheme, err := neighbor.ParseScheme(f.Neighbors)
		if err != nil {
			return nil, err
		}
		var dir neighbor.Direction
		if scheme == neighbor.SchemeDirectional {
			if dir, err = neighbor.ParseDirection(f.Direction); err != nil {
				return nil, err
			}
		}
		if blocks, err = neighbor.Resolve(origin, scheme, dir); err != nil {
			return nil, err
		}
	case f.To != nil:
		return f.rect(g)
	default:
		blocks = []grid.Coord{origin}
	}

	if f.SkipOutside {
		kept := blocks[:0]
		for _, b := range blocks {
			if g.Contains(b) {
				kept = append(kept, b)
			}
		}
		blocks = kept
	}
	return blocks, nil
}

// rect expands an inclusive rectangle of blocks. Corners off the grid are
// an error unless SkipOutside is set, in which case the rectangle is clipped
// to the grid before it is walked.
func (f *Fill) rect(g *grid.Grid) ([]grid.Coord, error) {
	from := grid.Coord{X: f.Block[0], Y: f.Block[1]}
	to := grid.Coord{X: f.To[0], Y: f.To[1]}
	if !f.SkipOutside {
		for _, corner := range []grid.Coord{from, to} {
			if !g.Contains(corner) {
				return nil, fmt.Errorf("%w: %s", grid.ErrUnknownBlock, corner)
			}
		}
	}

	last := g.BlocksPerSide() - 1
	minX, maxX := max(min(from.X, to.X), 0), min(max(from.X, to.X), last)
	minY, maxY := max(min(from.Y, to.Y), 0), min(max(from.Y, to.Y), last)
	if minX > maxX || minY > maxY {
		return nil, nil
	}

	blocks := make([]grid.Coord, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			blocks = append(blocks, grid.Coord{X: x, Y: y})
		}
	}
	return blocks, nil
}

// Render builds the canvas described by s and paints its fills in order.
// Extra options are applied after the ones derived from the sketch.
func (s *Sketch) Render(opts ...canvas.Option) (*canvas.Canvas, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var base []canvas.Option
	if s.Background != nil {
		base = append(base, canvas.WithBackground(*s.Background))
	}
	if s.Palette != "" {
		pal, err := palette.Load(s.Palette)
		if err != nil {
			return nil, err
		}
		base = append(base, canvas.WithPalette(pal))
	}

	c, err := canvas.New(s.Resolution, s.Size, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	var fills []canvas.Fill
	for i := range s.Fills {
		f := &s.Fills[i]
		blocks, err := f.targets(c.Grid())
		if err != nil {
			return nil, fmt.Errorf("fill #%d: %w", i, err)
		}
		for _, b := range blocks {
			if !c.Grid().Contains(b) {
				return nil, fmt.Errorf("fill #%d: %w: %s", i, grid.ErrUnknownBlock, b)
			}
			fills = append(fills, canvas.Fill{Block: b, Color: *f.Color})
		}
	}

	if err := c.Fill(fills...); err != nil {
		return nil, err
	}
	return c, nil
}
