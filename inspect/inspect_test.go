package inspect

import (
	"bytes"
	"errors"
	"testing"

	"blockpix/grid"
	"blockpix/neighbor"
)

func TestGridPrint(t *testing.T) {
	tests := []struct {
		name string
		cmd  GridCmd
		want string
	}{
		{
			name: "corrected",
			cmd:  GridCmd{Resolution: 10, Size: 805},
			want: "resolution 10\nrequested  805\nsize       810\nblocks     81x81 (6561)\n",
		},
		{
			name: "pixel",
			cmd:  GridCmd{Resolution: 10, Size: 800, Pixel: []int{15, 3}},
			want: "resolution 10\nrequested  800\nsize       800\nblocks     80x80 (6400)\n" +
				"pixel (15,3) in block (1,0) at (10,0)-(20,10)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(nil); err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := tt.cmd.print(&buf); err != nil {
				t.Fatalf("print() error: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("print() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestGridErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := (&GridCmd{Resolution: 0, Size: 10}).print(&buf); !errors.Is(err, grid.ErrInvalidResolution) {
		t.Errorf("print() error = %v, want %v", err, grid.ErrInvalidResolution)
	}
	if err := (&GridCmd{Resolution: 4, Size: 8, Pixel: []int{8, 0}}).print(&buf); err == nil {
		t.Error("pixel outside the image: expected error but didn't get one")
	}
	if err := (&GridCmd{Resolution: 4, Size: 8, Pixel: []int{1}}).Validate(nil); err == nil {
		t.Error("short pixel: expected error but didn't get one")
	}
}

func TestNeighborsPrint(t *testing.T) {
	tests := []struct {
		name string
		cmd  NeighborsCmd
		want string
	}{
		{
			name: "all",
			cmd:  NeighborsCmd{X: 4, Y: 4, Scheme: "all"},
			want: "(3,4)\n(5,4)\n(4,5)\n(4,3)\n(3,5)\n(3,3)\n(5,5)\n(5,3)\n",
		},
		{
			name: "directional",
			cmd:  NeighborsCmd{X: 4, Y: 4, Scheme: "directional", Direction: "right"},
			want: "(5,5)\n(5,4)\n(5,3)\n",
		},
		{
			name: "edge of grid",
			cmd:  NeighborsCmd{X: 9, Y: 9, Scheme: "adjacent", Resolution: 10, Size: 100},
			want: "(8,9)\n(10,9) outside\n(9,10) outside\n(9,8)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(nil); err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := tt.cmd.print(&buf); err != nil {
				t.Fatalf("print() error: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("print() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNeighborsValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  NeighborsCmd
		want error
	}{
		{"unknown scheme", NeighborsCmd{X: 1, Y: 1, Scheme: "hex"}, neighbor.ErrInvalidScheme},
		{"missing direction", NeighborsCmd{X: 1, Y: 1, Scheme: "directional"}, neighbor.ErrInvalidDirection},
		{"stray direction", NeighborsCmd{X: 1, Y: 1, Scheme: "all", Direction: "up"}, nil},
		{"size without resolution", NeighborsCmd{X: 1, Y: 1, Scheme: "all", Size: 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate(nil)
			if err == nil {
				t.Fatal("expected error but didn't get one")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNeighborsAxisZero(t *testing.T) {
	cmd := NeighborsCmd{X: 0, Y: 3, Scheme: "diagonal"}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := cmd.print(&buf); !errors.Is(err, neighbor.ErrInvalidCoordinate) {
		t.Errorf("print() error = %v, want %v", err, neighbor.ErrInvalidCoordinate)
	}
	if buf.Len() != 0 {
		t.Errorf("print() wrote %q on error", buf.String())
	}
}
