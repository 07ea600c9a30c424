package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for one window of frames.
type WindowStats struct {
	WindowStartFrame uint64  `csv:"-"`
	WindowEndFrame   uint64  `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`
	Variant          string  `csv:"variant"`

	// Population at window end
	Population int `csv:"population"`

	// Events during the window
	PointerMoves int `csv:"pointer_moves"`
	Resizes      int `csv:"resizes"`

	// Distance from rest positions, sampled once per frame
	DisplacementMean float64 `csv:"disp_mean"`
	DisplacementStd  float64 `csv:"disp_std"`
	DisplacementP50  float64 `csv:"disp_p50"`
	DisplacementP90  float64 `csv:"disp_p90"`
	DisplacementPeak float64 `csv:"disp_peak"`
}

// Summary holds mean, spread and quantiles of a sample.
type Summary struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Summarize computes a Summary. The input is not modified.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Summary{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
		Max:  sorted[len(sorted)-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("variant", s.Variant),
		slog.Int("population", s.Population),
		slog.Int("pointer_moves", s.PointerMoves),
		slog.Int("resizes", s.Resizes),
		slog.Float64("disp_mean", s.DisplacementMean),
		slog.Float64("disp_std", s.DisplacementStd),
		slog.Float64("disp_p50", s.DisplacementP50),
		slog.Float64("disp_p90", s.DisplacementP90),
		slog.Float64("disp_peak", s.DisplacementPeak),
	)
}
