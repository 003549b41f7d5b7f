package game

import (
	"log/slog"

	"github.com/pthm-cable/plexus/telemetry"
)

const phaseTelemetry = telemetry.PhaseTelemetry

// flushTelemetry checks if the stats window should be flushed and writes it.
func (g *Game) flushTelemetry() {
	tick := g.field.Ticks()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	g.speeds = g.field.Speeds(g.speeds[:0])
	stats := g.collector.Flush(tick, g.speeds)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
