package palette

import (
	"image/color"
	"math"

	"blockpix/okcolor"
)

// Matcher finds the closest palette entry to a color in OkLab.
type Matcher struct {
	pal color.Palette
	lab []okcolor.Lab
}

func NewMatcher(pal color.Palette) (*Matcher, error) {
	if len(pal) == 0 {
		return nil, ErrEmptyPalette
	}

	m := &Matcher{
		pal: pal,
		lab: make([]okcolor.Lab, len(pal)),
	}
	for i, c := range pal {
		m.lab[i] = okcolor.ToLab(c)
	}
	return m, nil
}

func (m *Matcher) Palette() color.Palette {
	return m.pal
}

func (m *Matcher) Index(c color.Color) int {
	lc := okcolor.ToLab(c)
	ret, bestSum := 0, math.MaxFloat64
	for i, v := range m.lab {
		sum := lc.Distance(v)
		if sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

func (m *Matcher) Convert(c color.Color) color.Color {
	return m.pal[m.Index(c)]
}
