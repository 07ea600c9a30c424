package systems

import (
	"math"
	"math/rand"
)

// Trail is a short-lived glow left behind by fast pointer motion.
type Trail struct {
	X, Y    float32
	VX, VY  float32
	Life    int32
	MaxLife float32
	Size    float32
}

// Fade returns 1 - life/maxLife clamped to [0,1].
func (t *Trail) Fade() float32 {
	if t.MaxLife <= 0 {
		return 0
	}
	f := 1 - float32(t.Life)/t.MaxLife
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// TrailParams controls trail spawning and motion.
type TrailParams struct {
	SpeedThreshold float32 // Min pointer displacement per move event
	Burst          int     // Trails per qualifying event
	Jitter         float32 // Spawn position spread (full width)
	Inherit        float32 // Fraction of pointer displacement, reversed
	Spread         float32 // Random velocity spread (full width)
	LifeMin        float32
	LifeRange      float32
	SizeMin        float32
	SizeRange      float32
	Damping        float32
	MaxTrails      int
}

// TrailSystem manages pointer trails.
type TrailSystem struct {
	Trails []Trail
	params TrailParams
}

// NewTrailSystem creates an empty trail system.
func NewTrailSystem(params TrailParams) *TrailSystem {
	if params.MaxTrails < 1 {
		params.MaxTrails = 1
	}
	return &TrailSystem{
		Trails: make([]Trail, 0, params.MaxTrails),
		params: params,
	}
}

// Update ages every trail by one frame, moves it and damps its velocity.
// Trails whose life reaches maxLife are removed.
func (s *TrailSystem) Update() {
	alive := 0
	for i := range s.Trails {
		t := &s.Trails[i]

		t.Life++
		if float32(t.Life) >= t.MaxLife {
			continue
		}

		t.X += t.VX
		t.Y += t.VY

		t.VX *= s.params.Damping
		t.VY *= s.params.Damping

		s.Trails[alive] = s.Trails[i]
		alive++
	}
	s.Trails = s.Trails[:alive]
}

// Spawn emits a burst at (x, y) when the pointer moved by (dx, dy) faster than the threshold.
// Returns the number of trails added. Bursts are truncated at the cap.
func (s *TrailSystem) Spawn(x, y, dx, dy float32, rng *rand.Rand) int {
	speed := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if speed <= s.params.SpeedThreshold {
		return 0
	}

	added := 0
	for i := 0; i < s.params.Burst; i++ {
		if len(s.Trails) >= s.params.MaxTrails {
			break
		}
		s.Trails = append(s.Trails, Trail{
			X:       x + (rng.Float32()-0.5)*s.params.Jitter,
			Y:       y + (rng.Float32()-0.5)*s.params.Jitter,
			VX:      -dx*s.params.Inherit + (rng.Float32()-0.5)*s.params.Spread,
			VY:      -dy*s.params.Inherit + (rng.Float32()-0.5)*s.params.Spread,
			Life:    1,
			MaxLife: s.params.LifeMin + rng.Float32()*s.params.LifeRange,
			Size:    s.params.SizeMin + rng.Float32()*s.params.SizeRange,
		})
		added++
	}
	return added
}

// Clear removes every trail.
func (s *TrailSystem) Clear() {
	s.Trails = s.Trails[:0]
}

// Count returns the current number of live trails.
func (s *TrailSystem) Count() int {
	return len(s.Trails)
}
