package neighbor

import (
	"fmt"
	"strings"

	"blockpix/grid"
)

// Scheme selects one of the neighbor queries by name.
type Scheme string

const (
	SchemeAll         Scheme = "all"
	SchemeAdjacent    Scheme = "adjacent"
	SchemeDiagonal    Scheme = "diagonal"
	SchemeDirectional Scheme = "directional"
)

func ParseScheme(s string) (Scheme, error) {
	switch sc := Scheme(strings.ToLower(s)); sc {
	case SchemeAll, SchemeAdjacent, SchemeDiagonal, SchemeDirectional:
		return sc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScheme, s)
}

// Resolve runs the query named by scheme. d is only used by
// SchemeDirectional.
func Resolve(c grid.Coord, scheme Scheme, d Direction) ([]grid.Coord, error) {
	var (
		out []grid.Coord
		err error
	)
	switch scheme {
	case SchemeAll:
		var n [8]grid.Coord
		n, err = All(c)
		out = n[:]
	case SchemeAdjacent:
		var n [4]grid.Coord
		n, err = Adjacent(c)
		out = n[:]
	case SchemeDiagonal:
		var n [4]grid.Coord
		n, err = Diagonal(c)
		out = n[:]
	case SchemeDirectional:
		var n [3]grid.Coord
		n, err = Directional(c, d)
		out = n[:]
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidScheme, string(scheme))
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
