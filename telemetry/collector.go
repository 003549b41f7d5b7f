// Package telemetry aggregates per-frame field statistics and timing.
package telemetry

import "github.com/pthm-cable/plexus/field"

// Collector accumulates frame stats within tick windows and produces
// WindowStats.
type Collector struct {
	windowTicks int64

	// Current window tracking
	windowStartTick int64

	// Counters for current window
	links       int
	collisions  int
	reflections int
	opacitySum  float64
	linksByTick []float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int64(windowTicks),
		linksByTick: make([]float64, 0, windowTicks),
	}
}

// Record adds one frame to the current window.
func (c *Collector) Record(fs field.FrameStats) {
	c.links += fs.Links
	c.collisions += fs.Collisions
	c.reflections += fs.Reflections
	c.opacitySum += fs.OpacitySum
	c.linksByTick = append(c.linksByTick, float64(fs.Links))
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// speeds are the particle speeds at currentTick.
func (c *Collector) Flush(currentTick int64, speeds []float64) WindowStats {
	links := Describe(c.linksByTick)
	speed := Describe(speeds)

	var opacityMean float64
	if c.links > 0 {
		opacityMean = c.opacitySum / float64(c.links)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Ticks:           len(c.linksByTick),

		Particles: len(speeds),

		Links:       c.links,
		Collisions:  c.collisions,
		Reflections: c.reflections,

		LinksMean:   links.Mean,
		LinksStd:    links.Std,
		OpacityMean: opacityMean,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.links = 0
	c.collisions = 0
	c.reflections = 0
	c.opacitySum = 0
	c.linksByTick = c.linksByTick[:0]

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
