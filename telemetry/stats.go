package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`
	Ticks           int   `csv:"ticks"`

	// Population at window end
	Particles int `csv:"particles"`

	// Events during window
	Links       int `csv:"links"`
	Collisions  int `csv:"collisions"`
	Reflections int `csv:"reflections"`

	// Links per tick
	LinksMean float64 `csv:"links_mean"`
	LinksStd  float64 `csv:"links_std"`

	// Mean opacity over every link drawn in the window
	OpacityMean float64 `csv:"opacity_mean"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Describe computes mean, standard deviation and empirical deciles of
// values. values is not modified. An empty sample yields zeros; a single
// value has zero deviation.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("ticks", s.Ticks),
		slog.Int("particles", s.Particles),
		slog.Int("links", s.Links),
		slog.Int("collisions", s.Collisions),
		slog.Int("reflections", s.Reflections),
		slog.Float64("links_mean", s.LinksMean),
		slog.Float64("links_std", s.LinksStd),
		slog.Float64("opacity_mean", s.OpacityMean),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"particles", s.Particles,
		"links", s.Links,
		"collisions", s.Collisions,
		"reflections", s.Reflections,
		"links_mean", s.LinksMean,
		"opacity_mean", s.OpacityMean,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
	)
}
