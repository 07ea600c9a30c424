package field

import (
	"math"

	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/systems"
)

// Energy is a network of pulsing nodes joined by flowing beams.
// Fast pointer motion sheds fading trails. Frames fade instead of clearing.
type Energy struct {
	cfg config.EnergyConfig

	beamInfluence float32
	nodeInfluence float32
	fadeAlpha     float32

	nodes  []systems.EnergyNode
	trails *systems.TrailSystem
}

// NewEnergy creates the node network variant.
func NewEnergy(cfg config.EnergyConfig) *Energy {
	tc := cfg.Trail
	return &Energy{
		cfg:           cfg,
		beamInfluence: float32(cfg.BeamInfluence),
		nodeInfluence: float32(cfg.NodeInfluence),
		fadeAlpha:     float32(cfg.FadeAlpha),
		trails: systems.NewTrailSystem(systems.TrailParams{
			SpeedThreshold: float32(tc.SpeedThreshold),
			Burst:          tc.Burst,
			Jitter:         float32(tc.Jitter),
			Inherit:        float32(tc.Inherit),
			Spread:         float32(tc.Spread),
			LifeMin:        float32(tc.LifeMin),
			LifeRange:      float32(tc.LifeRange),
			SizeMin:        float32(tc.SizeMin),
			SizeRange:      float32(tc.SizeRange),
			Damping:        float32(tc.Damping),
			MaxTrails:      tc.MaxTrails,
		}),
	}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Reset(ctx *Context) {
	n := systems.NodeCount(float64(ctx.Width), e.cfg.BaseNodes, e.cfg.WidthPerNode)
	e.nodes = systems.BuildNodes(n, ctx.Width, ctx.Height, ctx.Rand, systems.NodeParams{
		RadiusMin:   float32(e.cfg.RadiusMin),
		RadiusRange: float32(e.cfg.RadiusRange),
		MaxLinks:    e.cfg.MaxLinks,
	})
	e.trails.Clear()
}

// PointerMoved sheds a burst of trails when the pointer moved fast enough.
func (e *Energy) PointerMoved(ctx *Context) {
	dx, dy := ctx.Pointer.Delta()
	e.trails.Spawn(ctx.Pointer.X, ctx.Pointer.Y, dx, dy, ctx.Rand)
}

func (e *Energy) Step(*Context) {
	e.trails.Update()
}

func (e *Energy) Draw(c renderer.Canvas, ctx *Context) {
	c.Fade(e.fadeAlpha)

	t := ctx.Time
	baseHue := e.cfg.BaseHue
	segments := max(e.cfg.BeamSegments, 1)

	// Beams
	for i := range e.nodes {
		node := &e.nodes[i]
		flowSpeed := t*2 + float64(i)*0.5

		for _, j := range node.Links {
			target := &e.nodes[j]
			dx := target.X - node.X
			dy := target.Y - node.Y
			infl := float64(ctx.influence((node.X+target.X)/2, (node.Y+target.Y)/2, e.beamInfluence))
			hue := baseHue + infl*30

			for s := 0; s < segments; s++ {
				f := float64(s) / float64(segments)
				flow := (math.Sin(flowSpeed+f*math.Pi*4) + 1) / 2
				x := node.X + dx*float32(f)
				y := node.Y + dy*float32(f)

				size := float32((3 + flow*4) * (1 + infl))
				opacity := (0.3 + flow*0.5) * (1 + infl*0.5)

				c.Gradient(x, y, size*3,
					renderer.Stop{Offset: 0, Color: renderer.HSLA(hue, 0.9, 0.7, opacity)},
					renderer.Stop{Offset: 0.5, Color: renderer.HSLA(hue, 0.9, 0.65, opacity*0.3)},
					renderer.Stop{Offset: 1, Color: renderer.HSLA(hue, 0.9, 0.6, 0)},
				)
				c.Circle(x, y, size*0.5, renderer.HSLA(hue+10, 0.95, 0.85, opacity*1.5))
			}
		}
	}

	// Nodes
	for i := range e.nodes {
		node := &e.nodes[i]
		pulse := systems.Pulse(t, node.Phase)
		infl := ctx.influence(node.X, node.Y, e.nodeInfluence)
		radius := node.Radius * pulse * (1 + infl*0.5)
		hue := baseHue + float64(infl)*25

		for ring := 3; ring > 0; ring-- {
			c.Gradient(node.X, node.Y, radius*float32(ring)*0.7,
				renderer.Stop{Offset: 0, Color: renderer.HSLA(hue, 0.85, 0.65, 0.15*float64(ring))},
				renderer.Stop{Offset: 1, Color: renderer.HSLA(hue, 0.85, 0.6, 0)},
			)
		}
		c.Gradient(node.X, node.Y, radius*0.6,
			renderer.Stop{Offset: 0, Color: renderer.HSLA(hue+15, 0.95, 0.85, 0.9)},
			renderer.Stop{Offset: 0.7, Color: renderer.HSLA(hue, 0.9, 0.7, 0.7)},
			renderer.Stop{Offset: 1, Color: renderer.HSLA(hue, 0.85, 0.6, 0.3)},
		)
	}

	// Trails
	for i := range e.trails.Trails {
		tr := &e.trails.Trails[i]
		fade := float64(tr.Fade())
		hue := 270 - fade*30
		c.Gradient(tr.X, tr.Y, tr.Size*4,
			renderer.Stop{Offset: 0, Color: renderer.HSLA(hue, 0.9, 0.75, fade*0.9)},
			renderer.Stop{Offset: 0.5, Color: renderer.HSLA(hue, 0.9, 0.65, fade*0.4)},
			renderer.Stop{Offset: 1, Color: renderer.HSLA(hue, 0.9, 0.55, 0)},
		)
	}
}

func (e *Energy) Population() int { return len(e.nodes) + e.trails.Count() }

// Nodes returns the node network.
func (e *Energy) Nodes() []systems.EnergyNode { return e.nodes }

// Trails returns the trail system.
func (e *Energy) Trails() *systems.TrailSystem { return e.trails }

// Params exposes the pointer influence radii.
func (e *Energy) Params() []Param {
	return []Param{
		{Name: "beam radius", Value: &e.beamInfluence, Min: 50, Max: 800},
		{Name: "node radius", Value: &e.nodeInfluence, Min: 50, Max: 800},
		{Name: "fade", Value: &e.fadeAlpha, Min: 0.01, Max: 0.5},
	}
}
