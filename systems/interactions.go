package systems

import (
	"math"
	"slices"
)

// LinkOpacity returns the connective line opacity for two centers dist
// apart: 1 at zero, falling linearly to 0 at maxDist and beyond.
func LinkOpacity(dist, maxDist float64) float64 {
	if dist >= maxDist {
		return 0
	}
	if dist <= 0 {
		return 1
	}
	return 1 - dist/maxDist
}

// InteractionStats summarizes one pairwise pass.
type InteractionStats struct {
	Links      int
	Collisions int
	OpacitySum float64
}

// InteractionSystem evaluates every unordered particle pair: it draws
// connective lines for close pairs and bounces touching pairs.
type InteractionSystem struct {
	maxDistance float64
	collisions  bool
	drawLinks   bool

	// Optional candidate pruning. Pairs are still visited in (i, j) order.
	grid       *SpatialGrid
	reach      float64
	candidates []int
}

// NewInteractionSystem creates a full-scan interaction system.
func NewInteractionSystem(maxDistance float64, collisions bool) *InteractionSystem {
	return &InteractionSystem{
		maxDistance: maxDistance,
		collisions:  collisions,
		drawLinks:   true,
	}
}

// UseGrid enables candidate pruning. reach must cover both the link distance
// and the largest touching distance.
func (s *InteractionSystem) UseGrid(grid *SpatialGrid, reach float64) {
	s.grid = grid
	s.reach = reach
}

// SetDrawLinks toggles connective line rendering. Collisions are unaffected.
func (s *InteractionSystem) SetDrawLinks(on bool) {
	s.drawLinks = on
}

// DrawLinks reports whether connective lines are rendered.
func (s *InteractionSystem) DrawLinks() bool {
	return s.drawLinks
}

// Resize updates the grid for a new surface size.
func (s *InteractionSystem) Resize(w, h float64) {
	if s.grid != nil {
		s.grid.Resize(w, h)
	}
}

// Update runs the pairwise pass over particles. surface may be nil when no
// drawing is wanted.
func (s *InteractionSystem) Update(particles []Particle, surface Surface) InteractionStats {
	return s.pass(particles, surface, s.collisions)
}

// Draw strokes the connective lines of particles without collision response.
func (s *InteractionSystem) Draw(particles []Particle, surface Surface) InteractionStats {
	return s.pass(particles, surface, false)
}

func (s *InteractionSystem) pass(particles []Particle, surface Surface, collide bool) InteractionStats {
	var stats InteractionStats

	if s.grid == nil {
		for i := range particles {
			for j := i + 1; j < len(particles); j++ {
				s.interact(particles[i], particles[j], surface, collide, &stats)
			}
		}
		return stats
	}

	s.grid.Clear()
	for i, p := range particles {
		s.grid.Insert(i, p.Pos.X, p.Pos.Y)
	}

	for i, p := range particles {
		s.candidates = s.grid.QueryInto(s.candidates[:0], p.Pos.X, p.Pos.Y, s.reach)
		slices.Sort(s.candidates)
		for _, j := range s.candidates {
			if j <= i {
				continue
			}
			s.interact(p, particles[j], surface, collide, &stats)
		}
	}
	return stats
}

func (s *InteractionSystem) interact(a, b Particle, surface Surface, collide bool, stats *InteractionStats) {
	dist := math.Hypot(a.Pos.X-b.Pos.X, a.Pos.Y-b.Pos.Y)

	if s.drawLinks && dist < s.maxDistance {
		opacity := LinkOpacity(dist, s.maxDistance)
		stats.Links++
		stats.OpacitySum += opacity
		if surface != nil {
			surface.StrokeLine(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y, opacity)
		}
	}

	if collide && a.Intersects(b) {
		Bounce(a, b)
		stats.Collisions++
	}
}
