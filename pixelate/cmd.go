package pixelate

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"blockpix/canvas"
	"blockpix/palette"
	"blockpix/parallel"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

var errDestExists = errors.New("destination file already exists")

type CLICmd struct {
	Scan       string        `help:"Source folder to scan" default:"."`
	Dest       string        `help:"Destination folder for pixelated pictures. Relative to scan dir if not absolute" default:"pixelated"`
	Resolution int           `help:"Side of a block in pixels" required:""`
	Size       int           `help:"Requested side of the output image, rounded up to a multiple of the resolution" required:""`
	Palette    string        `help:"Palette name (bw, gray4, gray16, gameboy, pico8, vga16, websafe, plan9) or PAL file in RIFF format to snap block colors to"`
	Format     string        `help:"Output format. 'same' keeps the source format when it can be written, PNG otherwise" enum:"same,png,gif,jpeg,bmp,tiff" default:"png"`
	Force      bool          `help:"Overwrite existing destination files" default:"false"`
	palette    color.Palette `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if c.Resolution < 1 {
		return fmt.Errorf("%w: %d", canvas.ErrInvalidResolution, c.Resolution)
	}
	if c.Size < 1 {
		return fmt.Errorf("invalid size: %d", c.Size)
	}

	if c.Palette != "" {
		if c.palette, err = palette.Load(c.Palette); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLICmd) Run(workers parallel.Workers) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	pool := workers.Start()
	var processedCount, skippedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		pool.Do(func() {
			logger := slog.Default().With("file", filepath.Join(c.Scan, file.Name()))
			switch err := c.pixelate(logger, file.Name()); {
			case errors.Is(err, errDestExists):
				skippedCount.Add(1)
				logger.Warn("skipping image", "error", err)
			case err != nil:
				errCount.Add(1)
				logger.Error("could not pixelate image", "error", err)
			default:
				processedCount.Add(1)
			}
		})
	}

	pool.Wait()

	processed := processedCount.Load()
	skipped := skippedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "skipped", skipped, "errors", errors,
		"total", processed+skipped+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) pixelate(logger *slog.Logger, fileName string) error {
	srcPath := filepath.Join(c.Scan, fileName)

	imgFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	img, imgType, err := image.Decode(imgFile)
	if closeErr := imgFile.Close(); closeErr != nil {
		logger.Error("could not close image", "error", closeErr)
	}
	if err != nil {
		return fmt.Errorf("could not decode image: %w", err)
	}

	format := outputFormat(c.Format, imgType)
	destPath := filepath.Join(c.Dest, strings.TrimSuffix(fileName, filepath.Ext(fileName))+format.Ext())
	if !c.Force {
		if err := checkDest(destPath); err != nil {
			return err
		}
	}

	opts := []canvas.Option{canvas.WithLogger(logger), canvas.WithWorkers(1)}
	if c.palette != nil {
		opts = append(opts, canvas.WithPalette(c.palette))
	}
	blocks, err := canvas.FromImage(img, c.Resolution, c.Size, opts...)
	if err != nil {
		return err
	}

	if err := blocks.Save(destPath, format); err != nil {
		return err
	}
	logger.Info("pixelated", "to", destPath, "size", blocks.Grid().Side(), "blocks", blocks.Grid().BlocksPerSide())
	return nil
}

// outputFormat resolves the format flag against the decoded source type.
func outputFormat(flag, imgType string) canvas.Format {
	if flag == "same" {
		flag = imgType
	}
	f, err := canvas.ParseFormat(flag)
	if err != nil {
		return canvas.PNG
	}
	return f
}

func checkDest(dest string) error {
	destFileInfo, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	if !destFileInfo.Mode().IsRegular() {
		return fmt.Errorf("cannot replace non-regular file %q: %s", dest, destFileInfo.Mode().String())
	}
	return fmt.Errorf("%w: %q", errDestExists, dest)
}
