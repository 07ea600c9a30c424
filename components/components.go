// Package components defines ECS components for the particle fields.
package components

// Position represents a particle's current position in surface pixels.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's velocity in pixels per frame.
type Velocity struct {
	X, Y float32
}

// Anchor is the rest position a particle relaxes toward.
type Anchor struct {
	X, Y float32
}

// Particle holds per-particle visual attributes.
type Particle struct {
	Size    float32 // Radius in pixels
	Opacity float32 // Base opacity, 0-1
	Hue     float32 // Hue offset in degrees (0 when the variant uses a fixed color)
	Index   int32   // Creation order within the batch

	// Pointer influence sampled before the last integration step, 0-1
	Influence float32
}
