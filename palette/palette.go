// Package palette loads fixed color palettes and snaps arbitrary colors to
// their perceptually closest entry.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	stdpalette "image/color/palette"
	"maps"
	"os"
	"slices"
	"strings"
)

var ErrEmptyPalette = errors.New("palette has no colors")

func hex(rgb ...uint32) color.Palette {
	pal := make(color.Palette, len(rgb))
	for i, v := range rgb {
		pal[i] = color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
	}
	return pal
}

func grays(n int) color.Palette {
	pal := make(color.Palette, n)
	for i := range n {
		y := uint8(i * 0xFF / (n - 1))
		pal[i] = color.RGBA{R: y, G: y, B: y, A: 0xFF}
	}
	return pal
}

var builtin = map[string]color.Palette{
	"bw":      grays(2),
	"gray4":   grays(4),
	"gray16":  grays(16),
	"gameboy": hex(0x0f380f, 0x306230, 0x8bac0f, 0x9bbc0f),
	"pico8": hex(
		0x000000, 0x1d2b53, 0x7e2553, 0x008751, 0xab5236, 0x5f574f, 0xc2c3c7, 0xfff1e8,
		0xff004d, 0xffa300, 0xffec27, 0x00e436, 0x29adff, 0x83769c, 0xff77a8, 0xffccaa,
	),
	"vga16": hex(
		0x000000, 0x0000aa, 0x00aa00, 0x00aaaa, 0xaa0000, 0xaa00aa, 0xaa5500, 0xaaaaaa,
		0x555555, 0x5555ff, 0x55ff55, 0x55ffff, 0xff5555, 0xff55ff, 0xffff55, 0xffffff,
	),
	"websafe": stdpalette.WebSafe,
	"plan9":   stdpalette.Plan9,
}

// Names lists the built-in palettes.
func Names() []string {
	return slices.Sorted(maps.Keys(builtin))
}

// Load returns the built-in palette called name, or reads name as a RIFF
// PAL file.
func Load(name string) (color.Palette, error) {
	if pal, ok := builtin[strings.ToLower(name)]; ok {
		return slices.Clone(pal), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q (built-in: %s): %w", name, strings.Join(Names(), ", "), err)
	}
	defer f.Close()

	pal, err := ReadRIFF(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette file %q: %w", name, err)
	}
	return pal, nil
}
