package field

import (
	"math/rand"

	"github.com/ecoveridian/backdrop/components"
	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/systems"
)

// Repulsion is a glowing particle network that scatters away from the pointer
// and springs back to its rest layout.
type Repulsion struct {
	cfg config.RepulsionConfig

	radius  float32
	gain    float32
	spring  float32
	damping float32

	store *systems.ParticleStore
	grid  *systems.SpatialGrid
	views []systems.ParticleView
	links []systems.Link
	color renderer.Color
}

// NewRepulsion creates the repulsion variant.
func NewRepulsion(cfg config.RepulsionConfig) *Repulsion {
	return &Repulsion{
		cfg:     cfg,
		radius:  float32(cfg.Radius),
		gain:    float32(cfg.Gain),
		spring:  float32(cfg.Spring),
		damping: float32(cfg.Damping),
		store:   systems.NewParticleStore(),
		color:   renderer.RGBA(uint8(cfg.Color[0]), uint8(cfg.Color[1]), uint8(cfg.Color[2]), 1),
	}
}

func (r *Repulsion) Name() string { return "repulsion" }

func (r *Repulsion) Reset(ctx *Context) {
	n := systems.ParticleCount(float64(ctx.Width), float64(ctx.Height), r.cfg.Density)
	sizeMin, sizeRange := float32(r.cfg.SizeMin), float32(r.cfg.SizeRange)
	opMin, opRange := float32(r.cfg.OpacityMin), float32(r.cfg.OpacityRange)

	r.store.Reset(n, ctx.Width, ctx.Height, ctx.Rand, func(_ int, rng *rand.Rand) components.Particle {
		return components.Particle{
			Size:    sizeMin + rng.Float32()*sizeRange,
			Opacity: opMin + rng.Float32()*opRange,
		}
	})
	r.grid = systems.NewSpatialGrid(ctx.Width, ctx.Height, float32(r.cfg.Links.Distance))
	r.views = r.store.Snapshot(r.views)
	r.links = r.links[:0]
}

func (r *Repulsion) PointerMoved(*Context) {}

func (r *Repulsion) Step(ctx *Context) {
	ptr := ctx.Pointer
	systems.Integrate(r.store, r.damping, func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, _ *components.Particle) {
		if ptr.Active {
			systems.Repel(pos, vel, ptr.X, ptr.Y, r.radius, r.gain)
		}
		systems.Restore(pos, vel, anchor.X, anchor.Y, r.spring)
	})

	r.views = r.store.Snapshot(r.views)
	if r.grid != nil {
		r.grid.Rebuild(r.views)
		r.links = r.grid.LinksInto(r.links[:0], r.views, float32(r.cfg.Links.Distance))
	}
}

func (r *Repulsion) Draw(c renderer.Canvas, _ *Context) {
	c.Clear()

	maxDist := float32(r.cfg.Links.Distance)
	linkOpacity := float32(r.cfg.Links.Opacity)
	linkWidth := float32(r.cfg.Links.Width)
	glowScale := float32(r.cfg.GlowScale)
	coreScale := float32(r.cfg.CoreScale)
	base := r.color

	k := 0
	for i := range r.views {
		p := &r.views[i]
		o := p.Opacity

		c.Gradient(p.X, p.Y, p.Size*glowScale,
			renderer.Stop{Offset: 0, Color: base.WithAlpha(o)},
			renderer.Stop{Offset: 0.5, Color: base.WithAlpha(o * 0.3)},
			renderer.Stop{Offset: 1, Color: base.WithAlpha(0)},
		)
		c.Circle(p.X, p.Y, p.Size*coreScale, base.WithAlpha(o*1.2))

		for ; k < len(r.links) && r.links[k].I == i; k++ {
			l := r.links[k]
			q := &r.views[l.J]
			alpha := (1 - l.Dist/maxDist) * linkOpacity
			c.Line(p.X, p.Y, q.X, q.Y, linkWidth, base.WithAlpha(alpha))
		}
	}
}

func (r *Repulsion) Population() int { return r.store.Len() }

// Displacement reports how far particles sit from their rest positions.
func (r *Repulsion) Displacement() (mean, peak float64) { return r.store.Displacement() }

// Params exposes the force constants.
func (r *Repulsion) Params() []Param {
	return []Param{
		{Name: "radius", Value: &r.radius, Min: 50, Max: 500},
		{Name: "gain", Value: &r.gain, Min: 0, Max: 5},
		{Name: "spring", Value: &r.spring, Min: 0.001, Max: 0.2},
		{Name: "damping", Value: &r.damping, Min: 0.5, Max: 0.99},
	}
}
