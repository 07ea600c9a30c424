package renderer

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB color with a straight, floating-point alpha.
type Color struct {
	R, G, B uint8
	A       float32
}

// Clamp01 clamps v to [0,1]. NaN maps to 0.
func Clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RGBA builds a color from 8-bit channels; alpha is clamped.
func RGBA(r, g, b uint8, a float32) Color {
	return Color{R: r, G: g, B: b, A: Clamp01(a)}
}

// HSLA builds a color from hue in degrees (wrapped), saturation and lightness
// in [0,1] and alpha (clamped).
func HSLA(h, s, l, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if math.IsNaN(h) {
		h = 0
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: Clamp01(float32(a))}
}

// WithAlpha returns c with a new clamped alpha.
func (c Color) WithAlpha(a float32) Color {
	c.A = Clamp01(a)
	return c
}

// NRGBA converts to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(Clamp01(c.A)*255 + 0.5)}
}

// Lerp blends a toward b by t in [0,1].
func Lerp(a, b Color, t float32) Color {
	t = Clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return Color{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: a.A + (b.A-a.A)*t,
	}
}
