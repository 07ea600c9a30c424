package field

import (
	"math/rand"

	"github.com/ecoveridian/backdrop/components"
	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/systems"
)

// Flow is a drifting wave of particles drawn toward the pointer.
// Rest positions sway with a per-particle phase and colors shift near the pointer.
type Flow struct {
	cfg config.FlowConfig

	minDistance float32
	radius      float32
	gain        float32
	spring      float32
	damping     float32
	waveAmp     float32
	waveTime    float64 // Clock of the last step; rest points sway with it

	store *systems.ParticleStore
	grid  *systems.SpatialGrid
	views []systems.ParticleView
	links []systems.Link
}

// NewFlow creates the attraction/flow variant.
func NewFlow(cfg config.FlowConfig) *Flow {
	return &Flow{
		cfg:         cfg,
		minDistance: float32(cfg.MinDistance),
		radius:      float32(cfg.Radius),
		gain:        float32(cfg.Gain),
		spring:      float32(cfg.Spring),
		damping:     float32(cfg.Damping),
		waveAmp:     float32(cfg.WaveAmp),
		store:       systems.NewParticleStore(),
	}
}

func (f *Flow) Name() string { return "flow" }

func (f *Flow) Reset(ctx *Context) {
	n := systems.ParticleCount(float64(ctx.Width), float64(ctx.Height), f.cfg.Density)
	sizeMin, sizeRange := float32(f.cfg.SizeMin), float32(f.cfg.SizeRange)
	opMin, opRange := float32(f.cfg.OpacityMin), float32(f.cfg.OpacityRange)
	jitter := float32(f.cfg.HueJitter)

	f.store.Reset(n, ctx.Width, ctx.Height, ctx.Rand, func(_ int, rng *rand.Rand) components.Particle {
		return components.Particle{
			Size:    sizeMin + rng.Float32()*sizeRange,
			Opacity: opMin + rng.Float32()*opRange,
			Hue:     (rng.Float32()*2 - 1) * jitter,
		}
	})
	f.grid = systems.NewSpatialGrid(ctx.Width, ctx.Height, float32(f.cfg.Links.Distance))
	f.views = f.store.Snapshot(f.views)
	f.links = f.links[:0]
	f.waveTime = ctx.Time
}

func (f *Flow) PointerMoved(*Context) {}

func (f *Flow) Step(ctx *Context) {
	ptr := ctx.Pointer
	f.waveTime = ctx.Time

	systems.Integrate(f.store, f.damping, func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, p *components.Particle) {
		// Color and glow follow the distance seen by the force
		p.Influence = ctx.influence(pos.X, pos.Y, f.radius)
		if ptr.Active {
			systems.Attract(pos, vel, ptr.X, ptr.Y, f.minDistance, f.radius, f.gain)
		}
		rx, ry := f.rest(anchor, p)
		systems.Restore(pos, vel, rx, ry, f.spring)
	})

	f.views = f.store.Snapshot(f.views)
	if f.grid != nil {
		f.grid.Rebuild(f.views)
		f.links = f.grid.LinksInto(f.links[:0], f.views, float32(f.cfg.Links.Distance))
	}
}

func (f *Flow) Draw(c renderer.Canvas, ctx *Context) {
	c.Clear()

	maxDist := float32(f.cfg.Links.Distance)
	linkOpacity := float32(f.cfg.Links.Opacity)
	linkWidth := float32(f.cfg.Links.Width)
	boost := float32(f.cfg.Links.Boost)

	k := 0
	for i := range f.views {
		p := &f.views[i]
		o := p.Opacity

		infl := p.Influence
		hue := f.cfg.BaseHue + float64(p.Hue) + float64(infl)*f.cfg.HueShift
		glow := p.Size * (3 + 2*infl)

		c.Gradient(p.X, p.Y, glow,
			renderer.Stop{Offset: 0, Color: renderer.HSLA(hue, 0.85, 0.65, float64(o))},
			renderer.Stop{Offset: 0.4, Color: renderer.HSLA(hue, 0.85, 0.65, float64(o*0.4))},
			renderer.Stop{Offset: 1, Color: renderer.HSLA(hue, 0.85, 0.65, 0)},
		)
		c.Circle(p.X, p.Y, p.Size*0.6, renderer.HSLA(hue, 0.9, 0.75, float64(o*1.3)))

		for ; k < len(f.links) && f.links[k].I == i; k++ {
			l := f.links[k]
			q := &f.views[l.J]
			li := ctx.influence((p.X+q.X)/2, (p.Y+q.Y)/2, f.radius)
			alpha := float64((1 - l.Dist/maxDist) * linkOpacity * (1 + li*boost))

			end := renderer.HSLA(hue, 0.85, 0.65, alpha)
			renderer.GradientLine(c, p.X, p.Y, q.X, q.Y, linkWidth,
				renderer.Stop{Offset: 0, Color: end},
				renderer.Stop{Offset: 0.5, Color: renderer.HSLA(hue+10, 0.85, 0.65, alpha*1.2)},
				renderer.Stop{Offset: 1, Color: end},
			)
		}
	}
}

func (f *Flow) Population() int { return f.store.Len() }

// Displacement reports how far particles sit from their swaying rest points.
func (f *Flow) Displacement() (mean, peak float64) { return f.store.DisplacementFrom(f.rest) }

// rest is the anchor offset by the wave at the last step's clock.
func (f *Flow) rest(anchor *components.Anchor, p *components.Particle) (x, y float32) {
	wx, wy := systems.Wave(f.waveTime, p.Index, f.waveAmp, float32(f.cfg.WaveStepX), float32(f.cfg.WaveStepY))
	return anchor.X + wx, anchor.Y + wy
}

// Params exposes the force constants.
func (f *Flow) Params() []Param {
	return []Param{
		{Name: "radius", Value: &f.radius, Min: 50, Max: 600},
		{Name: "gain", Value: &f.gain, Min: 0, Max: 5},
		{Name: "spring", Value: &f.spring, Min: 0.001, Max: 0.2},
		{Name: "damping", Value: &f.damping, Min: 0.5, Max: 0.99},
		{Name: "wave", Value: &f.waveAmp, Min: 0, Max: 10},
	}
}
