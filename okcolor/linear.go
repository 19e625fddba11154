package okcolor

import (
	"image/color"
	"math"
)

// linearRGBA holds linear light sRGB components in 0..1 with a straight
// 16-bit alpha.
type linearRGBA struct {
	R float64
	G float64
	B float64
	A uint16
}

func toLinearRGBA(c color.Color) linearRGBA {
	col := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return linearRGBA{
		R: toLinear(float64(col.R) / 0xFFFF),
		G: toLinear(float64(col.G) / 0xFFFF),
		B: toLinear(float64(col.B) / 0xFFFF),
		A: col.A,
	}
}

func toLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}
