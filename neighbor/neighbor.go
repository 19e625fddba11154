// Package neighbor computes the coordinates of blocks adjacent to a block.
//
// Results are not checked against any grid: a neighbor of a block on the
// far edge lies outside the grid and is still returned. Callers validate
// returned coordinates, for example with grid.Grid.Contains, before use.
//
// Blocks on column 0 or row 0 have no neighbors under any scheme and every
// query for them fails with ErrInvalidCoordinate.
package neighbor

import (
	"errors"
	"fmt"
	"strings"

	"blockpix/grid"
)

var (
	ErrInvalidCoordinate = errors.New("neighbors are undefined for blocks on column or row 0")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrInvalidScheme     = errors.New("invalid neighbor scheme")
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if strings.EqualFold(s, name) {
			return Direction(d), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func check(c grid.Coord) error {
	if c.X <= 0 || c.Y <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
	}
	return nil
}

// All returns the four orthogonal neighbors followed by the four diagonal
// ones.
func All(c grid.Coord) ([8]grid.Coord, error) {
	if err := check(c); err != nil {
		return [8]grid.Coord{}, err
	}
	x, y := c.X, c.Y
	return [8]grid.Coord{
		{X: x - 1, Y: y},
		{X: x + 1, Y: y},
		{X: x, Y: y + 1},
		{X: x, Y: y - 1},
		{X: x - 1, Y: y + 1},
		{X: x - 1, Y: y - 1},
		{X: x + 1, Y: y + 1},
		{X: x + 1, Y: y - 1},
	}, nil
}

// Adjacent returns the left, right, next-row and previous-row neighbors.
func Adjacent(c grid.Coord) ([4]grid.Coord, error) {
	if err := check(c); err != nil {
		return [4]grid.Coord{}, err
	}
	x, y := c.X, c.Y
	return [4]grid.Coord{
		{X: x - 1, Y: y},
		{X: x + 1, Y: y},
		{X: x, Y: y + 1},
		{X: x, Y: y - 1},
	}, nil
}

func Diagonal(c grid.Coord) ([4]grid.Coord, error) {
	if err := check(c); err != nil {
		return [4]grid.Coord{}, err
	}
	x, y := c.X, c.Y
	return [4]grid.Coord{
		{X: x - 1, Y: y + 1},
		{X: x - 1, Y: y - 1},
		{X: x + 1, Y: y + 1},
		{X: x + 1, Y: y - 1},
	}, nil
}

// Directional returns the three neighbors on the side of c facing d.
// Up faces increasing rows and Right faces increasing columns.
func Directional(c grid.Coord, d Direction) ([3]grid.Coord, error) {
	if err := check(c); err != nil {
		return [3]grid.Coord{}, err
	}
	x, y := c.X, c.Y
	switch d {
	case Up:
		return [3]grid.Coord{{X: x - 1, Y: y + 1}, {X: x, Y: y + 1}, {X: x + 1, Y: y + 1}}, nil
	case Down:
		return [3]grid.Coord{{X: x - 1, Y: y - 1}, {X: x, Y: y - 1}, {X: x + 1, Y: y - 1}}, nil
	case Right:
		return [3]grid.Coord{{X: x + 1, Y: y + 1}, {X: x + 1, Y: y}, {X: x + 1, Y: y - 1}}, nil
	case Left:
		return [3]grid.Coord{{X: x - 1, Y: y + 1}, {X: x - 1, Y: y}, {X: x - 1, Y: y - 1}}, nil
	}
	return [3]grid.Coord{}, fmt.Errorf("%w: %s", ErrInvalidDirection, d)
}
