// Package components defines the ECS components a particle is made of.
package components

import "math"

// Position is a particle center in surface pixels.
type Position struct {
	X, Y float64
}

// Velocity is a particle displacement in pixels per tick.
type Velocity struct {
	X, Y float64
}

// Speed returns the velocity magnitude.
func (v Velocity) Speed() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance between two positions.
func Distance(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
