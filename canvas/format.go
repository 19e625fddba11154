package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

type Format string

const (
	PNG  Format = "png"
	GIF  Format = "gif"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists every format Encode can write.
var Formats = []Format{PNG, GIF, JPEG, BMP, TIFF}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case PNG, GIF, JPEG, BMP, TIFF:
		return f, nil
	case "jpg":
		return JPEG, nil
	case "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath picks the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Ext is the usual file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes the raster to w in format f.
func (c *Canvas) Encode(w io.Writer, f Format) error {
	return c.encode(w, c.img, f)
}

func (c *Canvas) encode(w io.Writer, img *image.RGBA, f Format) error {
	switch f {
	case GIF:
		if err := gif.Encode(w, c.paletted(img), nil); err != nil {
			return fmt.Errorf("could not encode GIF: %w", err)
		}
	case JPEG:
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG: %w", err)
		}
	case PNG:
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case BMP:
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case TIFF:
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	return nil
}

// paletted converts the raster for GIF. A canvas restricted to a palette
// that fits in a GIF keeps its exact colors, with a transparent entry added
// when some pixels were never painted over a transparent background.
// Anything else is quantized by the GIF encoder.
func (c *Canvas) paletted(img *image.RGBA) image.Image {
	if c.matcher == nil {
		return img
	}

	pal := c.matcher.Palette()
	for _, col := range pal {
		if _, _, _, a := col.RGBA(); a != 0xFFFF {
			return img
		}
	}

	transparent := -1
	if hasTransparent(img) {
		transparent = len(pal)
		pal = append(slices.Clip(pal), color.RGBA{})
	}
	if len(pal) > 256 {
		return img
	}

	dst := image.NewPaletted(img.Rect, pal)
	index := make(map[color.RGBA]uint8)
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			px := img.RGBAAt(x, y)
			if px.A == 0 {
				dst.SetColorIndex(x, y, uint8(transparent))
				continue
			}
			i, ok := index[px]
			if !ok {
				i = uint8(c.matcher.Index(px))
				index[px] = i
			}
			dst.SetColorIndex(x, y, i)
		}
	}
	return dst
}

func hasTransparent(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 0 {
			return true
		}
	}
	return false
}

// Save encodes the raster into path. An empty format is derived from the
// extension of path. The image is written to a temporary file next to path
// and renamed into place, so a failed save never leaves a partial file.
func (c *Canvas) Save(path string, f Format) error {
	return c.save(path, c.img, f)
}

// SaveScaled is Save for the raster enlarged factor times, see Scaled.
func (c *Canvas) SaveScaled(path string, f Format, factor int) error {
	if factor == 1 {
		return c.Save(path, f)
	}
	img, err := c.Scaled(factor)
	if err != nil {
		return err
	}
	return c.save(path, img, f)
}

func (c *Canvas) save(path string, img *image.RGBA, f Format) (err error) {
	if f == "" {
		if f, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	outFile, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", path, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination for %q: %w", path, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
			} else {
				c.logger.Debug("saved image", "path", path, "format", string(f), "size", img.Rect.Dx())
			}
		}

		if err != nil {
			if defErr := os.Remove(outFile.Name()); defErr != nil && !errors.Is(defErr, os.ErrNotExist) {
				c.logger.Error("could not remove temporary file", "name", outFile.Name(), "error", defErr)
			}
		}
	}()

	if err = c.encode(outFile, img, f); err != nil {
		return fmt.Errorf("could not save %q: %w", path, err)
	}
	if err = outFile.Chmod(0o644); err != nil {
		return fmt.Errorf("could not set permissions of temporary destination for %q: %w", path, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush temporary destination for %q: %w", path, err)
	}

	canRename = true
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
