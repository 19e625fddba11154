package canvas

import (
	"fmt"
	"image/color"
)

// RGB is an opaque 8-bit color. Blocks are always written with full alpha.
type RGB struct {
	R, G, B uint8
}

var _ color.Color = RGB{}

func (c RGB) RGBA() (uint32, uint32, uint32, uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBFromColor drops the alpha channel of c after un-premultiplying it.
func RGBFromColor(c color.Color) RGB {
	if rgb, ok := c.(RGB); ok {
		return rgb
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ParseRGB reads "#RGB" or "#RRGGBB".
func ParseRGB(s string) (RGB, error) {
	var c RGB
	switch len(s) {
	case 4:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return RGB{}, fmt.Errorf("could not read color %q: %w", s, err)
		} else if n < 3 {
			return RGB{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
	case 7:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		if err != nil {
			return RGB{}, fmt.Errorf("could not read color %q: %w", s, err)
		} else if n < 3 {
			return RGB{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
		}
	default:
		return RGB{}, fmt.Errorf("invalid color %q, should be #RGB or #RRGGBB", s)
	}

	return c, nil
}

func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *RGB) UnmarshalText(text []byte) error {
	v, err := ParseRGB(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
