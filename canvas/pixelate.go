package canvas

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

var ErrEmptyImage = errors.New("source image is empty")

// FromImage turns src into a block canvas. The largest centered square of
// src is scaled down to one sample per block with Catmull-Rom filtering and
// each block is filled with its sample. Source alpha is discarded.
func FromImage(src image.Image, resolution, size int, opts ...Option) (*Canvas, error) {
	srcBounds := src.Bounds()
	if srcBounds.Empty() {
		return nil, ErrEmptyImage
	}

	c, err := New(resolution, size, opts...)
	if err != nil {
		return nil, err
	}

	crop := squareCrop(srcBounds)
	n := c.grid.BlocksPerSide()
	sample := image.NewNRGBA(image.Rect(0, 0, n, n))
	c.logger.Debug("sampling source", "crop", crop.String(), "blocks", n)
	draw.CatmullRom.Scale(sample, sample.Rect, src, crop, draw.Src, nil)

	fills := make([]Fill, 0, c.grid.Len())
	for block := range c.grid.Coords() {
		px := sample.NRGBAAt(block.X, block.Y)
		fills = append(fills, Fill{Block: block, Color: RGB{R: px.R, G: px.G, B: px.B}})
	}
	if err := c.Fill(fills...); err != nil {
		return nil, fmt.Errorf("could not fill blocks from image: %w", err)
	}

	return c, nil
}

// squareCrop trims the longer side of r evenly from both ends.
func squareCrop(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	switch {
	case w > h:
		dw := int(math.Round(float64(w-h) / 2))
		r.Min.X += dw
		r.Max.X = r.Min.X + h
	case h > w:
		dh := int(math.Round(float64(h-w) / 2))
		r.Min.Y += dh
		r.Max.Y = r.Min.Y + w
	}
	return r
}
