// Package renderer defines the drawing surface the particle fields paint on.
package renderer

// Stop is one color stop of a radial gradient. Offset runs from 0 at the
// center to 1 at the rim.
type Stop struct {
	Offset float32
	Color  Color
}

// Canvas is a 2D drawing surface measured in pixels.
type Canvas interface {
	// Size returns the drawable size.
	Size() (w, h float32)
	// Clear erases the whole surface to transparent.
	Clear()
	// Fade paints a black fill of the given alpha over the surface.
	Fade(alpha float32)
	// Gradient fills a disk with a radial gradient.
	Gradient(x, y, radius float32, stops ...Stop)
	// Circle fills a solid disk.
	Circle(x, y, radius float32, c Color)
	// Line strokes a solid segment.
	Line(x1, y1, x2, y2, width float32, c Color)
}

// GradientLine strokes a segment whose color follows stops along its length.
// Each span between consecutive stops is drawn in the mean of its two stop colors.
func GradientLine(c Canvas, x1, y1, x2, y2, width float32, stops ...Stop) {
	if len(stops) == 0 {
		return
	}
	if len(stops) == 1 {
		c.Line(x1, y1, x2, y2, width, stops[0].Color)
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if b.Offset <= a.Offset {
			continue
		}
		c.Line(
			x1+dx*a.Offset, y1+dy*a.Offset,
			x1+dx*b.Offset, y1+dy*b.Offset,
			width, Lerp(a.Color, b.Color, 0.5),
		)
	}
}

// ColorAt samples a stop list at offset t.
func ColorAt(stops []Stop, t float32) Color {
	if len(stops) == 0 {
		return Color{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return Lerp(a.Color, b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}
