package systems

import (
	"math"

	"github.com/pthm-cable/plexus/components"
)

// Pointer holds the pointer state read by particle updates.
type Pointer struct {
	X, Y            float64
	Active          bool
	InfluenceRadius float64
	StepScale       float64
}

// Repel nudges pos away from the pointer when it is inside the influence
// radius. The push grows as the particle gets closer. It reports whether a
// nudge was applied.
func (ptr *Pointer) Repel(pos *components.Position) bool {
	dx := ptr.X - pos.X
	dy := ptr.Y - pos.Y
	dist := math.Hypot(dx, dy)

	// At zero distance there is no direction to push along.
	if dist == 0 || dist >= ptr.InfluenceRadius {
		return false
	}

	force := ptr.InfluenceRadius / dist * ptr.StepScale
	angle := math.Atan2(dy, dx)
	pos.X -= math.Cos(angle) * force
	pos.Y -= math.Sin(angle) * force
	return true
}
