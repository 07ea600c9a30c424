package main

import (
	"math"
	"math/rand"

	"github.com/ecoveridian/backdrop/components"
	"github.com/ecoveridian/backdrop/systems"
)

// Response is the measured relaxation of one kicked particle.
type Response struct {
	Settle    int     // Frames until it stays within tolerance of rest; Frames+1 if never
	Overshoot float64 // Largest excursion past rest as a fraction of the first peak
	Peak      float64 // Largest excursion in the kick direction
}

// Simulate kicks a single resting particle along +x and records its offset from
// rest each frame, using the same store and integrator the variants run on.
func Simulate(spring, damping float32, kick float32, frames int) []float64 {
	store := systems.NewParticleStore()
	store.Reset(1, 1, 1, rand.New(rand.NewSource(1)), func(int, *rand.Rand) components.Particle {
		return components.Particle{Size: 1, Opacity: 1}
	})
	store.Each(func(_ *components.Position, vel *components.Velocity, _ *components.Anchor, _ *components.Particle) {
		vel.X = kick
	})

	restore := func(pos *components.Position, vel *components.Velocity, a *components.Anchor, _ *components.Particle) {
		systems.Restore(pos, vel, a.X, a.Y, spring)
	}

	offsets := make([]float64, frames)
	for f := range offsets {
		systems.Integrate(store, damping, restore)
		store.Each(func(pos *components.Position, _ *components.Velocity, a *components.Anchor, _ *components.Particle) {
			offsets[f] = float64(pos.X - a.X)
		})
	}
	return offsets
}

// Measure derives settle time and overshoot from per-frame offsets. tol is a
// fraction of the first peak.
func Measure(offsets []float64, tol float64) Response {
	var r Response
	var under float64
	for _, x := range offsets {
		r.Peak = max(r.Peak, x)
		under = max(under, -x)
	}
	if r.Peak <= 0 {
		return Response{Settle: len(offsets) + 1}
	}
	r.Overshoot = under / r.Peak

	band := tol * r.Peak
	last := -1
	for i, x := range offsets {
		if math.Abs(x) > band {
			last = i
		}
	}
	r.Settle = last + 1
	if last == len(offsets)-1 {
		r.Settle = len(offsets) + 1
	}
	return r
}

// Evaluator scores spring/damping pairs against a settle target.
type Evaluator struct {
	TargetFrames int     // Desired settle time
	MaxOvershoot float64 // Overshoot allowed before penalty
	Frames       int     // Simulation length
	Tolerance    float64 // Settle band as a fraction of the first peak
	Kick         float32 // Initial velocity

	lastResponse Response
}

// NewEvaluator creates an evaluator with the given targets.
func NewEvaluator(targetFrames int, maxOvershoot float64) *Evaluator {
	return &Evaluator{
		TargetFrames: targetFrames,
		MaxOvershoot: maxOvershoot,
		Frames:       targetFrames * 4,
		Tolerance:    0.02,
		Kick:         10,
	}
}

// Evaluate returns the fitness (lower is better) of spring and damping.
func (e *Evaluator) Evaluate(spring, damping float64) float64 {
	r := Measure(Simulate(float32(spring), float32(damping), e.Kick, e.Frames), e.Tolerance)
	e.lastResponse = r

	fitness := math.Abs(float64(r.Settle-e.TargetFrames)) / float64(e.TargetFrames)
	if r.Overshoot > e.MaxOvershoot {
		fitness += 10 * (r.Overshoot - e.MaxOvershoot)
	}
	return fitness
}

// LastResponse returns the response measured by the most recent Evaluate call.
func (e *Evaluator) LastResponse() Response {
	return e.lastResponse
}
