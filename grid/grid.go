// Package grid partitions a square raster into equally sized square blocks
// and maps each block coordinate to the raw pixels it covers.
package grid

import (
	"errors"
	"fmt"
	"image"
	"iter"
	"maps"
	"math"
)

var (
	ErrInvalidResolution = errors.New("invalid block resolution")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrUnknownBlock      = errors.New("unknown block")
)

// Limits keep the RGBA raster under 1 GiB and the block table under 4M
// entries.
const (
	MaxSide          = 1 << 14
	MaxBlocksPerSide = 1 << 11
)

// Coord addresses a block: X is the column, Y the row, both zero-based.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CorrectSize rounds requested up to the nearest multiple of resolution.
// This is the smallest size >= requested whose area is divisible by the
// area of one block.
func CorrectSize(resolution, requested int) (int, error) {
	if resolution < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	if requested < 1 {
		return 0, fmt.Errorf("%w: requested size %d", ErrInvalidDimensions, requested)
	}

	blocks := requested / resolution
	if requested%resolution != 0 {
		blocks++
	}
	if blocks > math.MaxInt/resolution {
		return 0, fmt.Errorf("%w: %d rounded to resolution %d overflows", ErrInvalidDimensions, requested, resolution)
	}

	side := blocks * resolution
	if side > MaxSide {
		return 0, fmt.Errorf("%w: side %d exceeds %d", ErrInvalidDimensions, side, MaxSide)
	}
	if blocks > MaxBlocksPerSide {
		return 0, fmt.Errorf("%w: %d blocks per side exceeds %d", ErrInvalidDimensions, blocks, MaxBlocksPerSide)
	}
	return side, nil
}

// Grid is the immutable block layout of a square raster.
type Grid struct {
	resolution int
	side       int
	perSide    int
	blocks     map[Coord]image.Rectangle
}

// Build corrects requested to fit resolution and lays out every block.
// Blocks are visited row by row with the column increasing fastest.
func Build(resolution, requested int) (*Grid, error) {
	side, err := CorrectSize(resolution, requested)
	if err != nil {
		return nil, err
	}

	perSide := side / resolution
	g := &Grid{
		resolution: resolution,
		side:       side,
		perSide:    perSide,
		blocks:     make(map[Coord]image.Rectangle, perSide*perSide),
	}

	offsetY := 0
	for y := range perSide {
		offsetX := 0
		for x := range perSide {
			g.blocks[Coord{X: x, Y: y}] = image.Rect(offsetX, offsetY, offsetX+resolution, offsetY+resolution)
			offsetX += resolution
		}
		offsetY += resolution
	}

	return g, nil
}

func (g *Grid) Resolution() int {
	return g.resolution
}

// Side is the corrected side length of the raster in pixels.
func (g *Grid) Side() int {
	return g.side
}

func (g *Grid) BlocksPerSide() int {
	return g.perSide
}

// Len is the total number of blocks.
func (g *Grid) Len() int {
	return len(g.blocks)
}

// Coords yields every block coordinate once. The order is unspecified and
// may differ between iterations; the sequence can be ranged over repeatedly.
func (g *Grid) Coords() iter.Seq[Coord] {
	return maps.Keys(g.blocks)
}

func (g *Grid) Contains(c Coord) bool {
	_, ok := g.blocks[c]
	return ok
}

// Bounds returns the raw pixel rectangle covered by the block at c.
func (g *Grid) Bounds(c Coord) (image.Rectangle, error) {
	r, ok := g.blocks[c]
	if !ok {
		return image.Rectangle{}, fmt.Errorf("%w: %s", ErrUnknownBlock, c)
	}
	return r, nil
}

// Pixels lists the raw pixel coordinates covered by the block at c, column
// by column.
func (g *Grid) Pixels(c Coord) ([]image.Point, error) {
	r, err := g.Bounds(c)
	if err != nil {
		return nil, err
	}

	pts := make([]image.Point, 0, g.resolution*g.resolution)
	for x := r.Min.X; x < r.Max.X; x++ {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			pts = append(pts, image.Point{X: x, Y: y})
		}
	}
	return pts, nil
}

// BlockAt returns the block containing the raw pixel p.
func (g *Grid) BlockAt(p image.Point) (Coord, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= g.side || p.Y >= g.side {
		return Coord{}, false
	}
	return Coord{X: p.X / g.resolution, Y: p.Y / g.resolution}, true
}
