package telemetry

import "math"

// Collector accumulates per-frame samples and events and produces WindowStats.
type Collector struct {
	windowSec    float64
	windowStart  uint64
	startTime    float64
	pointerMoves int
	resizes      int

	// Per-frame mean displacement and the window peak
	displacement []float64
	peak         float64
}

// NewCollector creates a collector with windows of windowSec simulated seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 5
	}
	return &Collector{windowSec: windowSec}
}

// RecordPointerMove counts a pointer move event.
func (c *Collector) RecordPointerMove() {
	c.pointerMoves++
}

// RecordResize counts a surface resize.
func (c *Collector) RecordResize() {
	c.resizes++
}

// RecordFrame adds one frame's displacement sample. A NaN peak sticks for the window.
func (c *Collector) RecordFrame(meanDisp, peakDisp float64) {
	c.displacement = append(c.displacement, meanDisp)
	if math.IsNaN(peakDisp) || peakDisp > c.peak {
		c.peak = peakDisp
	}
}

// ShouldFlush reports whether the window starting at the last flush has elapsed.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.startTime >= c.windowSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(frame uint64, simTime float64, variant string, population int) WindowStats {
	sum := Summarize(c.displacement)
	stats := WindowStats{
		WindowStartFrame: c.windowStart,
		WindowEndFrame:   frame,
		SimTimeSec:       simTime,
		Variant:          variant,
		Population:       population,
		PointerMoves:     c.pointerMoves,
		Resizes:          c.resizes,
		DisplacementMean: sum.Mean,
		DisplacementStd:  sum.Std,
		DisplacementP50:  sum.P50,
		DisplacementP90:  sum.P90,
		DisplacementPeak: c.peak,
	}

	c.windowStart = frame
	c.startTime = simTime
	c.pointerMoves = 0
	c.resizes = 0
	c.displacement = c.displacement[:0]
	c.peak = 0

	return stats
}
