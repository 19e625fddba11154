// Package canvas paints square blocks of pixels on a square RGBA raster.
//
// A Canvas divides its raster into a grid of blocks of resolution×resolution
// pixels. Every drawing operation addresses a whole block by its grid
// coordinate; individual pixels are never set on their own.
//
//	c, err := canvas.New(10, 800)
//	if err != nil {
//		return err
//	}
//	if err := c.FillBlock(0, 0, canvas.RGB{R: 255, G: 3, B: 3}); err != nil {
//		return err
//	}
//	return c.Save("out.png", canvas.PNG)
//
// A Canvas is not safe for concurrent use.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"iter"
	"log/slog"

	"blockpix/grid"
	"blockpix/palette"
	"blockpix/parallel"

	"golang.org/x/image/draw"
)

var (
	ErrInvalidResolution = grid.ErrInvalidResolution
	ErrUnknownBlock      = grid.ErrUnknownBlock
	ErrInvalidScale      = errors.New("invalid scale factor")
)

// Option configures a Canvas in New.
type Option func(*options)

type options struct {
	background color.Color
	palette    color.Palette
	logger     *slog.Logger
	workers    int
}

// WithBackground paints every block with col before any fill. The default
// background is transparent black.
func WithBackground(col color.Color) Option {
	return func(o *options) {
		o.background = col
	}
}

// WithPalette restricts fills to the colors of pal: every fill color is
// replaced by the perceptually closest entry.
func WithPalette(pal color.Palette) Option {
	return func(o *options) {
		o.palette = pal
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWorkers sets how many goroutines paint blocks in Fill. Values below 1
// use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

type Canvas struct {
	grid    *grid.Grid
	img     *image.RGBA
	matcher *palette.Matcher
	logger  *slog.Logger
	workers int
}

// Fill is one block to paint in a batch.
type Fill struct {
	Block grid.Coord
	Color RGB
}

// New builds the block grid for resolution and size and allocates the
// raster at the corrected size, which is size rounded up to a multiple of
// resolution.
func New(resolution, size int, opts ...Option) (*Canvas, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	g, err := grid.Build(resolution, size)
	if err != nil {
		return nil, fmt.Errorf("could not build block grid: %w", err)
	}

	c := &Canvas{
		grid:    g,
		img:     image.NewRGBA(image.Rect(0, 0, g.Side(), g.Side())),
		logger:  o.logger,
		workers: o.workers,
	}

	if o.palette != nil {
		if c.matcher, err = palette.NewMatcher(o.palette); err != nil {
			return nil, fmt.Errorf("could not use palette: %w", err)
		}
	}

	if o.background != nil {
		draw.Draw(c.img, c.img.Rect, image.NewUniform(o.background), image.Point{}, draw.Src)
	}

	if g.Side() != size {
		c.logger.Debug("image size corrected", "requested", size, "size", g.Side(), "resolution", resolution)
	}

	return c, nil
}

func (c *Canvas) Grid() *grid.Grid {
	return c.grid
}

// Image exposes the raster. Writes to it bypass block addressing.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Coords yields every block coordinate once, in no particular order.
func (c *Canvas) Coords() iter.Seq[grid.Coord] {
	return c.grid.Coords()
}

// FillBlock sets every pixel of block (x, y) to col with full opacity.
func (c *Canvas) FillBlock(x, y int, col RGB) error {
	block := grid.Coord{X: x, Y: y}
	r, err := c.grid.Bounds(block)
	if err != nil {
		return err
	}

	c.paint(r, c.snap(col))
	return nil
}

// Fill paints a batch of blocks. Every coordinate is checked first and
// nothing is painted if any of them is not on the grid. When a block appears
// more than once the last fill wins.
func (c *Canvas) Fill(fills ...Fill) error {
	last := make(map[grid.Coord]RGB, len(fills))
	for _, f := range fills {
		if !c.grid.Contains(f.Block) {
			return fmt.Errorf("%w: %s", ErrUnknownBlock, f.Block)
		}
		last[f.Block] = c.snap(f.Color)
	}

	batch := make([]Fill, 0, len(last))
	for block, col := range last {
		batch = append(batch, Fill{Block: block, Color: col})
	}

	// blocks never share pixels, so painting them concurrently is safe
	parallel.Each(c.workers, batch, func(f Fill) {
		r, _ := c.grid.Bounds(f.Block)
		c.paint(r, f.Color)
	})

	c.logger.Debug("filled blocks", "requested", len(fills), "painted", len(batch))
	return nil
}

// BlockColor reports the color of block (x, y). Blocks that were never
// filled report the background with its alpha dropped.
func (c *Canvas) BlockColor(x, y int) (RGB, error) {
	r, err := c.grid.Bounds(grid.Coord{X: x, Y: y})
	if err != nil {
		return RGB{}, err
	}
	return RGBFromColor(c.img.RGBAAt(r.Min.X, r.Min.Y)), nil
}

// Scaled returns a copy of the raster enlarged factor times with
// nearest-neighbor sampling, so block edges stay sharp. The result is
// limited to grid.MaxSide pixels per side.
func (c *Canvas) Scaled(factor int) (*image.RGBA, error) {
	side := c.grid.Side()
	if factor < 1 || factor > grid.MaxSide/side {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScale, factor)
	}

	dst := image.NewRGBA(image.Rect(0, 0, side*factor, side*factor))
	draw.NearestNeighbor.Scale(dst, dst.Rect, c.img, c.img.Rect, draw.Src, nil)
	return dst, nil
}

func (c *Canvas) snap(col RGB) RGB {
	if c.matcher == nil {
		return col
	}
	return RGBFromColor(c.matcher.Convert(col))
}

func (c *Canvas) paint(r image.Rectangle, col RGB) {
	px := [4]uint8{col.R, col.G, col.B, 0xFF}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.img.Pix[c.img.PixOffset(r.Min.X, y):c.img.PixOffset(r.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			copy(row[i:i+4], px[:])
		}
	}
}
