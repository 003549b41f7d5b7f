package systems

import (
	"math"
	"math/rand"
	"slices"
	"testing"
)

type line struct {
	x1, y1, x2, y2, alpha float64
}

type lineRecorder struct {
	lines []line
}

func (r *lineRecorder) FillCircle(x, y, radius float64) {}

func (r *lineRecorder) StrokeLine(x1, y1, x2, y2, alpha float64) {
	r.lines = append(r.lines, line{x1, y1, x2, y2, alpha})
}

func TestLinkOpacity(t *testing.T) {
	const maxDist = 200

	if got := LinkOpacity(0, maxDist); got != 1 {
		t.Errorf("LinkOpacity(0) = %f, want 1", got)
	}
	if got := LinkOpacity(maxDist, maxDist); got != 0 {
		t.Errorf("LinkOpacity(max) = %f, want 0", got)
	}
	if got := LinkOpacity(250, maxDist); got != 0 {
		t.Errorf("LinkOpacity(beyond max) = %f, want 0", got)
	}
	if got := LinkOpacity(50, maxDist); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("LinkOpacity(50) = %f, want 0.75", got)
	}

	prev := LinkOpacity(0, maxDist)
	for d := 1.0; d <= maxDist; d++ {
		cur := LinkOpacity(d, maxDist)
		if cur > prev {
			t.Fatalf("opacity increased from %f to %f at distance %f", prev, cur, d)
		}
		prev = cur
	}
}

func TestInteractionLinks(t *testing.T) {
	particles := []Particle{
		makeParticle(0, 0, 1, 1, 5),
		makeParticle(100, 0, 1, 1, 5),
		makeParticle(400, 0, 1, 1, 5),
	}
	rec := &lineRecorder{}
	sys := NewInteractionSystem(200, false)

	stats := sys.Update(particles, rec)

	if stats.Links != 1 || len(rec.lines) != 1 {
		t.Fatalf("expected exactly one link, got stats=%d lines=%v", stats.Links, rec.lines)
	}
	got := rec.lines[0]
	want := line{0, 0, 100, 0, 0.5}
	if got != want {
		t.Errorf("line = %+v, want %+v", got, want)
	}
	if stats.Collisions != 0 {
		t.Errorf("collisions = %d with collisions disabled", stats.Collisions)
	}
}

func TestInteractionLinksDisabled(t *testing.T) {
	particles := []Particle{
		makeParticle(0, 0, 1, 1, 5),
		makeParticle(8, 0, -1, 1, 5),
	}
	rec := &lineRecorder{}
	sys := NewInteractionSystem(200, true)
	sys.SetDrawLinks(false)

	stats := sys.Update(particles, rec)

	if len(rec.lines) != 0 || stats.Links != 0 {
		t.Errorf("expected no lines with links disabled, got %v", rec.lines)
	}
	if stats.Collisions != 1 {
		t.Errorf("collisions = %d, want 1", stats.Collisions)
	}
}

func TestInteractionCollisionFlipsPair(t *testing.T) {
	a := makeParticle(50, 50, 1, 2, 10)
	b := makeParticle(65, 50, -3, 0.5, 10)
	c := makeParticle(150, 150, 1, 1, 10)
	sys := NewInteractionSystem(10, true)

	stats := sys.Update([]Particle{a, b, c}, nil)

	if stats.Collisions != 1 {
		t.Fatalf("collisions = %d, want 1", stats.Collisions)
	}
	if a.Vel.X != -1 || a.Vel.Y != -2 || b.Vel.X != 3 || b.Vel.Y != -0.5 {
		t.Errorf("pair not flipped: a=%v b=%v", *a.Vel, *b.Vel)
	}
	if c.Vel.X != 1 || c.Vel.Y != 1 {
		t.Errorf("bystander flipped: %v", *c.Vel)
	}
}

// TestInteractionGridMatchesFullScan verifies candidate pruning does not
// change the observed lines or collision response.
func TestInteractionGridMatchesFullScan(t *testing.T) {
	const w, h = 800, 600
	params := ParticleParams{MinRadius: 5, RadiusJitter: 10, VelocityRange: 3, VelocityBias: 0.5}

	spawn := func() []Particle {
		rng := rand.New(rand.NewSource(99))
		ps := make([]Particle, 120)
		for i := range ps {
			p, err := NewParticle(rng, w, h, params)
			if err != nil {
				t.Fatal(err)
			}
			ps[i] = p
		}
		return ps
	}

	full := spawn()
	pruned := spawn()

	fullSys := NewInteractionSystem(120, true)
	gridSys := NewInteractionSystem(120, true)
	reach := math.Max(120, 2*params.MaxRadius()+IntersectTolerance)
	gridSys.UseGrid(NewSpatialGrid(w, h, 60), reach)

	for tick := 0; tick < 200; tick++ {
		fullRec := &lineRecorder{}
		gridRec := &lineRecorder{}

		fullStats := fullSys.Update(full, fullRec)
		gridStats := gridSys.Update(pruned, gridRec)

		if fullStats != gridStats {
			t.Fatalf("tick %d: stats differ: full=%+v grid=%+v", tick, fullStats, gridStats)
		}
		if !slices.Equal(fullRec.lines, gridRec.lines) {
			t.Fatalf("tick %d: line sequences differ (%d vs %d)", tick, len(fullRec.lines), len(gridRec.lines))
		}

		for i := range full {
			full[i].Update(w, h, nil)
			pruned[i].Update(w, h, nil)
			if *full[i].Pos != *pruned[i].Pos || *full[i].Vel != *pruned[i].Vel {
				t.Fatalf("tick %d: particle %d diverged", tick, i)
			}
		}
	}
}

func TestInteractionDrawSkipsCollisions(t *testing.T) {
	a := makeParticle(50, 50, 1, 2, 10)
	b := makeParticle(65, 50, -3, 0.5, 10)
	rec := &lineRecorder{}
	sys := NewInteractionSystem(200, true)

	stats := sys.Draw([]Particle{a, b}, rec)

	if stats.Collisions != 0 {
		t.Errorf("collisions = %d, want 0 from a draw-only pass", stats.Collisions)
	}
	if a.Vel.X != 1 || b.Vel.X != -3 {
		t.Errorf("draw pass changed velocities: a=%v b=%v", *a.Vel, *b.Vel)
	}
	if len(rec.lines) != 1 {
		t.Errorf("lines = %d, want 1", len(rec.lines))
	}
}
