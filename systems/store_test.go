package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoveridian/backdrop/components"
)

func plainSpawn(i int, rng *rand.Rand) components.Particle {
	return components.Particle{Size: 1.5 + rng.Float32()*3, Opacity: 0.3 + rng.Float32()*0.7}
}

func TestParticleCount(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		density float64
		want    int
	}{
		{"phone", 375, 812, 8000, 38},
		{"laptop", 1280, 800, 8000, 128},
		{"desktop", 1920, 1080, 8000, 259},
		{"flow desktop", 1920, 1080, 7000, 296},
		{"empty", 0, 800, 8000, 0},
		{"negative", -10, 800, 8000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParticleCount(tt.w, tt.h, tt.density))
		})
	}
}

func TestParticleCountMonotonic(t *testing.T) {
	prev := 0
	for w := 100.0; w <= 3840; w += 37 {
		n := ParticleCount(w, w*0.6, 8000)
		assert.GreaterOrEqual(t, n, prev, "count shrank at width %v", w)
		prev = n
	}
	// A 4K surface stays well inside what a frame can draw
	assert.Less(t, ParticleCount(3840, 2160, 8000), 1100)
}

func TestParticleStoreReset(t *testing.T) {
	s := NewParticleStore()
	rng := rand.New(rand.NewSource(1))

	s.Reset(50, 640, 480, rng, plainSpawn)
	require.Equal(t, 50, s.Len())

	views := s.Snapshot(nil)
	require.Len(t, views, 50)
	for i, v := range views {
		assert.Equal(t, int32(i), v.Index)
		assert.GreaterOrEqual(t, v.X, float32(0))
		assert.Less(t, v.X, float32(640))
		assert.GreaterOrEqual(t, v.Y, float32(0))
		assert.Less(t, v.Y, float32(480))
		assert.GreaterOrEqual(t, v.Size, float32(1.5))
		assert.Less(t, v.Size, float32(4.5))
	}

	s.Each(func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, _ *components.Particle) {
		assert.Equal(t, pos.X, anchor.X)
		assert.Equal(t, pos.Y, anchor.Y)
		assert.Zero(t, vel.X)
		assert.Zero(t, vel.Y)
	})

	// A second reset replaces the batch entirely
	s.Reset(10, 100, 100, rng, plainSpawn)
	assert.Equal(t, 10, s.Len())
	views = s.Snapshot(views)
	require.Len(t, views, 10)
	for _, v := range views {
		assert.Less(t, v.X, float32(100))
		assert.Less(t, v.Y, float32(100))
	}
}

// windowedPeak integrates frames times and returns the peak displacement per window.
func windowedPeak(s *ParticleStore, damping, k float32, windows, frames int) []float64 {
	restore := func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, _ *components.Particle) {
		Restore(pos, vel, anchor.X, anchor.Y, k)
	}
	peaks := make([]float64, windows)
	for w := 0; w < windows; w++ {
		for f := 0; f < frames; f++ {
			Integrate(s, damping, restore)
			_, peak := s.Displacement()
			if peak > peaks[w] {
				peaks[w] = peak
			}
		}
	}
	return peaks
}

func TestIntegrateSettlesWithoutPointer(t *testing.T) {
	tests := []struct {
		name    string
		damping float32
		k       float32
	}{
		{"repulsion", 0.92, 0.03},
		{"flow", 0.9, 0.04},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewParticleStore()
			s.Reset(20, 800, 600, rand.New(rand.NewSource(7)), plainSpawn)

			// Kick every particle off its rest position
			s.Each(func(pos *components.Position, vel *components.Velocity, _ *components.Anchor, _ *components.Particle) {
				pos.X += 60
				pos.Y -= 40
				vel.X = 5
			})

			peaks := windowedPeak(s, tt.damping, tt.k, 5, 40)
			for i := 1; i < len(peaks); i++ {
				assert.Less(t, peaks[i], peaks[i-1], "window %d did not shrink: %v", i, peaks)
			}
			assert.Less(t, peaks[len(peaks)-1], 1.0)
		})
	}
}

func TestIntegrateBoundedUnderPointer(t *testing.T) {
	s := NewParticleStore()
	s.Reset(30, 800, 600, rand.New(rand.NewSource(3)), plainSpawn)

	// Pointer parked in the middle of the field for a long time
	force := func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, _ *components.Particle) {
		Repel(pos, vel, 400, 300, 250, 1.2)
		Restore(pos, vel, anchor.X, anchor.Y, 0.03)
	}
	for i := 0; i < 2000; i++ {
		Integrate(s, 0.92, force)
	}

	_, peak := s.Displacement()
	// Spring balances the capped push well before this
	assert.Less(t, peak, 300.0)
}

func TestDisplacementReportsDivergence(t *testing.T) {
	s := NewParticleStore()
	s.Reset(10, 800, 600, rand.New(rand.NewSource(5)), plainSpawn)

	s.Each(func(pos *components.Position, _ *components.Velocity, _ *components.Anchor, _ *components.Particle) {
		pos.X++
	})

	// Spring far outside the stable range grows the error without bound
	force := func(pos *components.Position, vel *components.Velocity, anchor *components.Anchor, _ *components.Particle) {
		Restore(pos, vel, anchor.X, anchor.Y, 5)
	}
	for i := 0; i < 200; i++ {
		Integrate(s, 0.92, force)
	}

	mean, peak := s.Displacement()
	assert.True(t, math.IsNaN(mean), "mean = %v", mean)
	assert.True(t, math.IsNaN(peak), "peak = %v", peak)
}

func TestDisplacementFromRestFunc(t *testing.T) {
	s := NewParticleStore()
	s.Reset(4, 800, 600, rand.New(rand.NewSource(9)), plainSpawn)

	shifted := func(anchor *components.Anchor, _ *components.Particle) (float32, float32) {
		return anchor.X + 3, anchor.Y + 4
	}
	mean, peak := s.DisplacementFrom(shifted)
	assert.InDelta(t, 5, mean, 1e-5)
	assert.InDelta(t, 5, peak, 1e-5)

	s.Each(func(pos *components.Position, _ *components.Velocity, _ *components.Anchor, _ *components.Particle) {
		pos.X += 3
		pos.Y += 4
	})
	mean, peak = s.DisplacementFrom(shifted)
	assert.InDelta(t, 0, mean, 1e-4)
	assert.InDelta(t, 0, peak, 1e-4)
}
