package systems

import (
	"math"

	"github.com/ecoveridian/backdrop/components"
)

// Influence maps a distance to a 0-1 weight that falls off linearly to zero at threshold.
func Influence(d, threshold float32) float32 {
	if threshold <= 0 || d >= threshold {
		return 0
	}
	if d <= 0 {
		return 1
	}
	return 1 - d/threshold
}

// direction returns the unit vector from (x1,y1) to (x2,y2) and the distance.
// Coincident points yield (1, 0) so the force still has a defined heading.
func direction(x1, y1, x2, y2 float32) (ux, uy, d float32) {
	dx := x2 - x1
	dy := y2 - y1
	d = float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if d == 0 {
		return 1, 0, 0
	}
	return dx / d, dy / d, d
}

// Repel pushes the particle away from the pointer when it is within radius.
// The push scales with (radius-d)/radius.
func Repel(pos *components.Position, vel *components.Velocity, px, py, radius, gain float32) {
	ux, uy, d := direction(pos.X, pos.Y, px, py)
	if d >= radius {
		return
	}
	force := (radius - d) / radius
	vel.X -= ux * force * gain
	vel.Y -= uy * force * gain
}

// Attract pulls the particle toward the pointer when minD < d < maxD.
func Attract(pos *components.Position, vel *components.Velocity, px, py, minD, maxD, gain float32) {
	ux, uy, d := direction(pos.X, pos.Y, px, py)
	if d <= minD || d >= maxD {
		return
	}
	force := (maxD - d) / maxD
	vel.X += ux * force * gain
	vel.Y += uy * force * gain
}

// Wave returns the rest-position offset for the particle with the given creation index.
// t is seconds since mount.
func Wave(t float64, index int32, amp, stepX, stepY float32) (dx, dy float32) {
	i := float64(index)
	dx = float32(math.Sin(t+i*float64(stepX))) * amp
	dy = float32(math.Cos(t+i*float64(stepY))) * amp
	return dx, dy
}

// Restore applies a spring force toward (tx, ty).
func Restore(pos *components.Position, vel *components.Velocity, tx, ty, k float32) {
	vel.X += (tx - pos.X) * k
	vel.Y += (ty - pos.Y) * k
}

// Pulse returns the breathing scale of an energy node at time t.
func Pulse(t float64, phase float32) float32 {
	return float32(math.Sin(2*t+float64(phase)))*0.3 + 1
}
