package field

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoveridian/backdrop/components"
	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/renderer"
	"github.com/ecoveridian/backdrop/systems"
)

func newVariant(t *testing.T, name string) Variant {
	t.Helper()
	v, err := New(name, config.Default())
	require.NoError(t, err)
	return v
}

func mountContext(w, h float32) *Context {
	ctx := NewContext(42)
	ctx.Width, ctx.Height = w, h
	ctx.DT = 1.0 / 60
	return ctx
}

func TestNewUnknownVariant(t *testing.T) {
	_, err := New("plasma", config.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownVariant))
	assert.Equal(t, "unknown variant: plasma", err.Error())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"repulsion", "flow", "energy"}, Names())
	for _, name := range Names() {
		assert.Equal(t, name, newVariant(t, name).Name())
	}
}

func TestMovePointer(t *testing.T) {
	ctx := mountContext(100, 100)
	assert.False(t, ctx.Pointer.Active)

	ctx.MovePointer(10, 20)
	assert.True(t, ctx.Pointer.Active)
	dx, dy := ctx.Pointer.Delta()
	assert.Zero(t, dx, "first event has no displacement")
	assert.Zero(t, dy)

	ctx.MovePointer(13, 24)
	dx, dy = ctx.Pointer.Delta()
	assert.Equal(t, float32(3), dx)
	assert.Equal(t, float32(4), dy)
	assert.Equal(t, float32(10), ctx.Pointer.PrevX)
}

func TestPopulationGrowsWithSurface(t *testing.T) {
	sizes := [][2]float32{{320, 240}, {375, 812}, {800, 600}, {1280, 800}, {1920, 1080}, {2560, 1440}}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			v := newVariant(t, name)
			prev := -1
			for _, sz := range sizes {
				v.Reset(mountContext(sz[0], sz[1]))
				n := v.Population()
				assert.GreaterOrEqual(t, n, prev, "population shrank at %v", sz)
				assert.Less(t, n, 1000, "population unbounded at %v", sz)
				prev = n
			}
		})
	}
}

func TestPopulationCounts(t *testing.T) {
	ctx := mountContext(1280, 800)

	v := newVariant(t, "repulsion")
	v.Reset(ctx)
	assert.Equal(t, 128, v.Population())

	v = newVariant(t, "flow")
	v.Reset(ctx)
	assert.Equal(t, 146, v.Population())

	v = newVariant(t, "energy")
	v.Reset(ctx)
	assert.Equal(t, 18, v.Population())
}

// TestAlphaStaysInRange drives every variant with extreme pointer motion and
// checks every alpha reaching the canvas.
func TestAlphaStaysInRange(t *testing.T) {
	moves := [][2]float32{
		{400, 300}, {401, 300}, {-5000, 9000}, {1e6, -1e6}, {400, 300},
		{0, 0}, {799, 599}, {400.5, 300.5}, {-1e4, 300}, {400, 300},
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			v := newVariant(t, name)
			ctx := mountContext(800, 600)
			v.Reset(ctx)
			rec := renderer.NewRecorder(800, 600)

			for frame := 0; frame < 120; frame++ {
				m := moves[frame%len(moves)]
				ctx.MovePointer(m[0], m[1])
				v.PointerMoved(ctx)

				ctx.Time += ctx.DT
				ctx.Frame++
				v.Step(ctx)

				rec.Reset()
				v.Draw(rec, ctx)
				require.NotEmpty(t, rec.Calls)
				for _, a := range rec.Alphas() {
					require.False(t, math.IsNaN(float64(a)), "NaN alpha at frame %d", frame)
					require.GreaterOrEqual(t, a, float32(0))
					require.LessOrEqual(t, a, float32(1))
				}
			}
			assert.InDelta(t, 2.0, ctx.Time, 1e-9, "clock advanced through the run")
		})
	}
}

func TestResizeKeepsEntitiesInBounds(t *testing.T) {
	for _, name := range []string{"repulsion", "flow"} {
		t.Run(name, func(t *testing.T) {
			v := newVariant(t, name)
			ctx := mountContext(1920, 1080)
			v.Reset(ctx)

			// Scatter the field with the pointer before shrinking
			ctx.MovePointer(960, 540)
			for i := 0; i < 30; i++ {
				v.Step(ctx)
			}

			ctx.Width, ctx.Height = 640, 360
			v.Reset(ctx)

			var views []struct{ X, Y float32 }
			switch f := v.(type) {
			case *Repulsion:
				for _, p := range f.views {
					views = append(views, struct{ X, Y float32 }{p.X, p.Y})
				}
			case *Flow:
				for _, p := range f.views {
					views = append(views, struct{ X, Y float32 }{p.X, p.Y})
				}
			}
			require.Len(t, views, v.Population())
			for _, p := range views {
				assert.GreaterOrEqual(t, p.X, float32(0))
				assert.Less(t, p.X, float32(640))
				assert.GreaterOrEqual(t, p.Y, float32(0))
				assert.Less(t, p.Y, float32(360))
			}
		})
	}

	t.Run("energy", func(t *testing.T) {
		e := NewEnergy(config.Default().Energy)
		ctx := mountContext(1920, 1080)
		e.Reset(ctx)

		ctx.MovePointer(100, 100)
		ctx.MovePointer(200, 200)
		e.PointerMoved(ctx)
		require.NotZero(t, e.Trails().Count())

		ctx.Width, ctx.Height = 640, 360
		e.Reset(ctx)
		assert.Zero(t, e.Trails().Count(), "reset drops live trails")
		assert.Len(t, e.Nodes(), 15)
		for _, n := range e.Nodes() {
			assert.Less(t, n.X, float32(640))
			assert.Less(t, n.Y, float32(360))
		}
	})
}

func TestFlowSettlesTowardSwayingRest(t *testing.T) {
	f := NewFlow(config.Default().Flow)
	ctx := mountContext(800, 600)
	f.Reset(ctx)

	f.store.Each(func(pos *components.Position, vel *components.Velocity, _ *components.Anchor, _ *components.Particle) {
		pos.X += 60
		pos.Y -= 40
		vel.X = 5
	})

	step := func() (mean, peak float64) {
		ctx.Time += ctx.DT
		ctx.Frame++
		f.Step(ctx)
		return f.Displacement()
	}

	peaks := make([]float64, 4)
	for w := range peaks {
		for i := 0; i < 40; i++ {
			_, peak := step()
			peaks[w] = math.Max(peaks[w], peak)
		}
	}
	for i := 1; i < len(peaks); i++ {
		assert.Less(t, peaks[i], peaks[i-1], "window %d did not shrink: %v", i, peaks)
	}
	assert.Less(t, peaks[len(peaks)-1], 0.5)

	// Long after the kick only the tracking lag behind the wave remains
	var mean float64
	for i := 0; i < 440; i++ {
		mean, _ = step()
	}
	assert.Less(t, mean, 0.25)
}

func TestFlowInfluenceSampledBeforeStep(t *testing.T) {
	f := NewFlow(config.Default().Flow)
	ctx := mountContext(800, 600)
	f.Reset(ctx)

	before := append([]systems.ParticleView(nil), f.views...)
	ctx.MovePointer(400, 300)
	f.Step(ctx)

	touched := 0
	for i, p := range f.views {
		want := influenceAt(400-before[i].X, 300-before[i].Y, f.radius)
		assert.InDelta(t, want, p.Influence, 1e-6, "particle %d", i)
		if want > 0 {
			touched++
		}
	}
	assert.NotZero(t, touched)
}

func TestInactivePointerHasNoInfluence(t *testing.T) {
	cfg := config.Default()
	r := NewRepulsion(cfg.Repulsion)
	ctx := mountContext(800, 600)
	r.Reset(ctx)

	for i := 0; i < 100; i++ {
		r.Step(ctx)
	}
	mean, peak := r.Displacement()
	assert.Zero(t, mean)
	assert.Zero(t, peak)

	// The same frames with an active pointer do move particles
	ctx.MovePointer(400, 300)
	for i := 0; i < 10; i++ {
		r.Step(ctx)
	}
	_, peak = r.Displacement()
	assert.Greater(t, peak, 0.0)
}

func TestRepulsionDrawCalls(t *testing.T) {
	r := NewRepulsion(config.Default().Repulsion)
	ctx := mountContext(800, 600)
	r.Reset(ctx)
	r.Step(ctx)

	rec := renderer.NewRecorder(800, 600)
	r.Draw(rec, ctx)

	n := r.Population()
	assert.Equal(t, 1, rec.Count(renderer.OpClear))
	assert.Equal(t, n, rec.Count(renderer.OpGradient))
	assert.Equal(t, n, rec.Count(renderer.OpCircle))
	assert.Equal(t, len(r.links), rec.Count(renderer.OpLine))
	assert.Zero(t, len(r.links)%2, "links are drawn from both ends")

	for _, call := range rec.Calls {
		if call.Op != renderer.OpCircle {
			continue
		}
		assert.Equal(t, [3]uint8{93, 95, 239}, [3]uint8{call.Color.R, call.Color.G, call.Color.B})
	}
}

func TestEnergyDrawStartsWithFade(t *testing.T) {
	e := NewEnergy(config.Default().Energy)
	ctx := mountContext(1280, 800)
	e.Reset(ctx)
	e.Step(ctx)

	rec := renderer.NewRecorder(1280, 800)
	e.Draw(rec, ctx)

	require.NotEmpty(t, rec.Calls)
	assert.Equal(t, renderer.OpFade, rec.Calls[0].Op)
	assert.InDelta(t, 0.08, rec.Calls[0].Alpha, 1e-6)
	assert.Zero(t, rec.Count(renderer.OpClear))

	links := 0
	for _, n := range e.Nodes() {
		links += len(n.Links)
	}
	// 20 beam glows per link plus 3 rings and a core per node
	assert.Equal(t, links*20+len(e.Nodes())*4, rec.Count(renderer.OpGradient))
	assert.Equal(t, links*20, rec.Count(renderer.OpCircle))
}

func TestEnergyTrailSpawning(t *testing.T) {
	e := NewEnergy(config.Default().Energy)
	ctx := mountContext(800, 600)
	e.Reset(ctx)

	ctx.MovePointer(100, 100)
	e.PointerMoved(ctx)
	assert.Zero(t, e.Trails().Count(), "first move has no speed")

	ctx.MovePointer(101, 101)
	e.PointerMoved(ctx)
	assert.Zero(t, e.Trails().Count(), "slow move")

	ctx.MovePointer(120, 101)
	e.PointerMoved(ctx)
	assert.Equal(t, 3, e.Trails().Count())
}

func TestParams(t *testing.T) {
	for _, name := range Names() {
		v := newVariant(t, name)
		tun, ok := v.(Tunable)
		require.True(t, ok, "%s is not tunable", name)
		for _, p := range tun.Params() {
			require.NotNil(t, p.Value)
			assert.Less(t, p.Min, p.Max)
		}
	}
}
