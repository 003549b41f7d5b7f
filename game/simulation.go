package game

import "github.com/pthm-cable/plexus/field"

// UpdateHeadless advances one tick without rendering.
func (g *Game) UpdateHeadless() {
	g.step(field.Discard)
}

// step runs one timed field tick on surface and feeds telemetry.
func (g *Game) step(surface field.Surface) {
	g.perfCollector.StartTick()
	stats := g.field.Tick(surface)

	g.perfCollector.StartPhase(phaseTelemetry)
	g.last = stats
	g.collector.Record(stats)
	if g.blipper != nil {
		g.blipper.Collisions(stats.Collisions)
	}
	g.flushTelemetry()
	g.perfCollector.EndTick()
}
