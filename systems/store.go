package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/ecoveridian/backdrop/components"
)

// ParticleView is a flat copy of one particle, taken after integration.
// Drawing and link search read views instead of querying the world twice.
type ParticleView struct {
	X, Y    float32
	Size    float32
	Opacity float32
	Hue     float32
	Index   int32

	Influence float32
}

// SpawnFunc returns the visual attributes for the i-th particle of a batch.
type SpawnFunc func(i int, rng *rand.Rand) components.Particle

// ParticleStore owns the particle batch of the repulsion and flow fields.
// Each particle is one ECS entity with Position, Velocity, Anchor and Particle.
type ParticleStore struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Anchor, components.Particle]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Anchor, components.Particle]
	count  int
}

// NewParticleStore creates an empty store.
func NewParticleStore() *ParticleStore {
	s := &ParticleStore{}
	s.rebuild()
	return s
}

func (s *ParticleStore) rebuild() {
	world := ecs.NewWorld()
	s.world = world
	s.mapper = ecs.NewMap4[
		components.Position,
		components.Velocity,
		components.Anchor,
		components.Particle,
	](world)
	s.filter = ecs.NewFilter4[
		components.Position,
		components.Velocity,
		components.Anchor,
		components.Particle,
	](world)
	s.count = 0
}

// ParticleCount returns floor(w*h/density), or 0 for an empty surface.
func ParticleCount(w, h, density float64) int {
	if w <= 0 || h <= 0 || density <= 0 {
		return 0
	}
	return int(math.Floor(w * h / density))
}

// Reset discards the current batch and spawns n particles uniformly in [0,w)x[0,h).
// The rest position of each particle is its spawn position; velocity starts at zero.
func (s *ParticleStore) Reset(n int, w, h float32, rng *rand.Rand, spawn SpawnFunc) {
	s.rebuild()
	for i := 0; i < n; i++ {
		x := rng.Float32() * w
		y := rng.Float32() * h

		pos := components.Position{X: x, Y: y}
		vel := components.Velocity{}
		anchor := components.Anchor{X: x, Y: y}
		p := spawn(i, rng)
		p.Index = int32(i)

		s.mapper.NewEntity(&pos, &vel, &anchor, &p)
	}
	s.count = n
}

// Len returns the number of particles in the current batch.
func (s *ParticleStore) Len() int {
	return s.count
}

// Each calls fn for every particle with mutable component pointers.
func (s *ParticleStore) Each(fn func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, p *components.Particle)) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, anchor, p := query.Get()
		fn(pos, vel, anchor, p)
	}
}

// Snapshot appends a view of every particle to dst, ordered by creation index.
func (s *ParticleStore) Snapshot(dst []ParticleView) []ParticleView {
	dst = dst[:0]
	if cap(dst) < s.count {
		dst = make([]ParticleView, 0, s.count)
	}
	dst = dst[:s.count]

	query := s.filter.Query()
	for query.Next() {
		pos, _, _, p := query.Get()
		i := int(p.Index)
		if i < 0 || i >= len(dst) {
			continue
		}
		dst[i] = ParticleView{
			X:       pos.X,
			Y:       pos.Y,
			Size:    p.Size,
			Opacity: p.Opacity,
			Hue:     p.Hue,
			Index:   p.Index,

			Influence: p.Influence,
		}
	}
	return dst
}

// RestFunc returns the point a particle currently relaxes toward.
type RestFunc func(anchor *components.Anchor, p *components.Particle) (x, y float32)

// Displacement returns the mean and peak distance of particles from their anchors.
func (s *ParticleStore) Displacement() (mean, peak float64) {
	return s.DisplacementFrom(func(anchor *components.Anchor, _ *components.Particle) (float32, float32) {
		return anchor.X, anchor.Y
	})
}

// DisplacementFrom returns the mean and peak distance of particles from the
// rest points given by rest. Both are NaN once any position has diverged.
func (s *ParticleStore) DisplacementFrom(rest RestFunc) (mean, peak float64) {
	if s.count == 0 {
		return 0, 0
	}
	var sum float64
	query := s.filter.Query()
	for query.Next() {
		pos, _, anchor, p := query.Get()
		rx, ry := rest(anchor, p)
		dx := float64(pos.X - rx)
		dy := float64(pos.Y - ry)
		d := math.Sqrt(dx*dx + dy*dy)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			query.Close()
			return math.NaN(), math.NaN()
		}
		sum += d
		if d > peak {
			peak = d
		}
	}
	return sum / float64(s.count), peak
}
