package systems

import "github.com/ecoveridian/backdrop/components"

// ForceFunc accumulates this frame's forces into vel.
type ForceFunc func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, p *components.Particle)

// Integrate advances every particle one frame: forces, then damping, then position.
// A nil force only damps and moves.
func Integrate(s *ParticleStore, damping float32, force ForceFunc) {
	s.Each(func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, p *components.Particle) {
		if force != nil {
			force(pos, vel, anchor, p)
		}

		vel.X *= damping
		vel.Y *= damping

		pos.X += vel.X
		pos.Y += vel.Y
	})
}
