package sketch

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blockpix/canvas"
	"blockpix/grid"
	"blockpix/neighbor"
)

const diagonalDoc = `
resolution = 10
size = 800

[[fill]]
block = [0, 0]
color = "#ff0303"

[[fill]]
block = [1, 1]
color = "#ff0303"

[[fill]]
block = [2, 2]
color = "#ff0303"

[[fill]]
block = [3, 3]
color = "#ff0303"

[[fill]]
block = [4, 4]
color = "#ff0303"

[[fill]]
block = [4, 4]
neighbors = "directional"
direction = "right"
color = "#ff0303"
`

var quiet = canvas.WithLogger(slog.New(slog.DiscardHandler))

func render(t *testing.T, doc string) (*canvas.Canvas, error) {
	t.Helper()
	s, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	return s.Render(quiet)
}

func TestRenderDiagonal(t *testing.T) {
	c, err := render(t, diagonalDoc)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if c.Grid().Side() != 800 {
		t.Fatalf("side = %d, want 800", c.Grid().Side())
	}

	red := canvas.RGB{R: 255, G: 3, B: 3}
	painted := map[grid.Coord]bool{
		{X: 0, Y: 0}: true, {X: 1, Y: 1}: true, {X: 2, Y: 2}: true, {X: 3, Y: 3}: true, {X: 4, Y: 4}: true,
		{X: 5, Y: 5}: true, {X: 5, Y: 4}: true, {X: 5, Y: 3}: true,
	}
	for b := range c.Coords() {
		got, err := c.BlockColor(b.X, b.Y)
		if err != nil {
			t.Fatal(err)
		}
		if painted[b] && got != red {
			t.Errorf("block %s = %v, want %v", b, got, red)
		}
		if !painted[b] && got != (canvas.RGB{}) {
			t.Errorf("block %s = %v, want untouched", b, got)
		}
	}
}

func TestRenderRectAndBackground(t *testing.T) {
	c, err := render(t, `
resolution = 4
size = 15
background = "#102030"

[[fill]]
block = [2, 2]
to = [0, 1]
color = "#fff"
`)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if c.Grid().Side() != 16 {
		t.Errorf("side = %d, want 16", c.Grid().Side())
	}

	white := canvas.RGB{R: 255, G: 255, B: 255}
	for y := range 4 {
		for x := range 4 {
			got, _ := c.BlockColor(x, y)
			want := canvas.RGB{R: 0x10, G: 0x20, B: 0x30}
			if x <= 2 && y >= 1 && y <= 2 {
				want = white
			}
			if got != want {
				t.Errorf("block (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRenderNeighborsOutsideGrid(t *testing.T) {
	const edge = `
resolution = 10
size = 100

[[fill]]
block = [9, 9]
neighbors = "all"
color = "#00ff00"
`
	if _, err := render(t, edge); !errors.Is(err, grid.ErrUnknownBlock) {
		t.Errorf("Render error = %v, want %v", err, grid.ErrUnknownBlock)
	}

	c, err := render(t, edge+"skip_outside = true\n")
	if err != nil {
		t.Fatalf("Render with skip_outside error: %v", err)
	}
	green := canvas.RGB{G: 255}
	for _, b := range []grid.Coord{{X: 8, Y: 9}, {X: 9, Y: 8}, {X: 8, Y: 8}} {
		if got, _ := c.BlockColor(b.X, b.Y); got != green {
			t.Errorf("block %s = %v, want %v", b, got, green)
		}
	}
	if got, _ := c.BlockColor(9, 9); got != (canvas.RGB{}) {
		t.Errorf("origin block painted: %v", got)
	}
}

func TestRenderNeighborsOnAxisZero(t *testing.T) {
	_, err := render(t, `
resolution = 10
size = 100

[[fill]]
block = [0, 4]
neighbors = "adjacent"
color = "#00ff00"
`)
	if !errors.Is(err, neighbor.ErrInvalidCoordinate) {
		t.Errorf("Render error = %v, want %v", err, neighbor.ErrInvalidCoordinate)
	}
}

func TestRenderPalette(t *testing.T) {
	c, err := render(t, `
resolution = 2
size = 4
palette = "bw"

[[fill]]
block = [1, 1]
color = "#dddddd"
`)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got, _ := c.BlockColor(1, 1); got != (canvas.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("block (1,1) = %v, want white", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"zero resolution", "resolution = 0\nsize = 10\n"},
		{"missing size", "resolution = 2\n"},
		{"short block", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1]\ncolor = \"#fff\"\n"},
		{"missing color", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1, 1]\n"},
		{"short to", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1, 1]\nto = [1]\ncolor = \"#fff\"\n"},
		{"to with neighbors", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1, 1]\nto = [1, 1]\nneighbors = \"all\"\ncolor = \"#fff\"\n"},
		{"unknown scheme", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1, 1]\nneighbors = \"hex\"\ncolor = \"#fff\"\n"},
		{"directional without direction", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1, 1]\nneighbors = \"directional\"\ncolor = \"#fff\"\n"},
		{"stray direction", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1, 1]\ndirection = \"up\"\ncolor = \"#fff\"\n"},
		{"direction with diagonal", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1, 1]\nneighbors = \"diagonal\"\ndirection = \"up\"\ncolor = \"#fff\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if err := s.Validate(); !errors.Is(err, ErrInvalidSketch) {
				t.Errorf("Validate error = %v, want %v", err, ErrInvalidSketch)
			}
			if _, err := s.Render(quiet); !errors.Is(err, ErrInvalidSketch) {
				t.Errorf("Render error = %v, want %v", err, ErrInvalidSketch)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "resolution = 2\nsize = 4\nzoom = 3\n"},
		{"bad color", "resolution = 2\nsize = 4\n[[fill]]\nblock = [1, 1]\ncolor = \"red\"\n"},
		{"not toml", "resolution = = 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error but didn't get one")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagonal.toml")
	if err := os.WriteFile(path, []byte(diagonalDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Resolution != 10 || s.Size != 800 || len(s.Fills) != 6 {
		t.Errorf("Load = %+v", s)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want %v", err, os.ErrNotExist)
	}
}

func TestRenderUnknownPalette(t *testing.T) {
	s := &Sketch{Resolution: 2, Size: 4, Palette: filepath.Join(t.TempDir(), "nope.pal")}
	if _, err := s.Render(quiet); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Render error = %v, want %v", err, os.ErrNotExist)
	}
}

func TestRenderRectOutsideGrid(t *testing.T) {
	tests := []struct {
		name string
		to   string
	}{
		{"far corner", "[1000000, 1000000]"},
		{"max int", "[9223372036854775807, 0]"},
		{"negative", "[-3, 0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "resolution = 10\nsize = 100\n[[fill]]\nblock = [1, 0]\nto = " + tt.to + "\ncolor = \"#00ff00\"\n"
			if _, err := render(t, doc); !errors.Is(err, grid.ErrUnknownBlock) {
				t.Errorf("Render error = %v, want %v", err, grid.ErrUnknownBlock)
			}
		})
	}
}

func TestRenderRectClippedToGrid(t *testing.T) {
	tests := []struct {
		name    string
		to      string
		painted func(b grid.Coord) bool
	}{
		{"max int column", "[9223372036854775807, 0]", func(b grid.Coord) bool { return b.Y == 0 && b.X >= 1 }},
		{"far corner", "[1000000, 1000000]", func(b grid.Coord) bool { return b.X >= 1 }},
		{"negative corner", "[-5, -5]", func(b grid.Coord) bool { return b.X <= 1 && b.Y == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "resolution = 10\nsize = 100\n[[fill]]\nblock = [1, 0]\nto = " + tt.to +
				"\nskip_outside = true\ncolor = \"#00ff00\"\n"
			c, err := render(t, doc)
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}

			green := canvas.RGB{G: 255}
			for b := range c.Coords() {
				got, _ := c.BlockColor(b.X, b.Y)
				if want := tt.painted(b); (got == green) != want {
					t.Errorf("block %s = %v, painted = %v, want %v", b, got, got == green, want)
				}
			}
		})
	}
}

func TestRenderRectEntirelyOutside(t *testing.T) {
	c, err := render(t, `
resolution = 10
size = 100

[[fill]]
block = [20, 20]
to = [30, 30]
skip_outside = true
color = "#00ff00"
`)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for b := range c.Coords() {
		if got, _ := c.BlockColor(b.X, b.Y); got != (canvas.RGB{}) {
			t.Fatalf("block %s painted with %v", b, got)
		}
	}
}
