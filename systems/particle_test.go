package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/plexus/components"
)

var testParams = ParticleParams{
	MinRadius:     15,
	RadiusJitter:  10,
	VelocityRange: 2,
	VelocityBias:  0.5,
}

func makeParticle(x, y, vx, vy, r float64) Particle {
	return Particle{
		Pos:  &components.Position{X: x, Y: y},
		Vel:  &components.Velocity{X: vx, Y: vy},
		Body: &components.Body{Radius: r},
	}
}

func TestNewParticleSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const w, h = 640, 480

	for i := 0; i < 1000; i++ {
		p, err := NewParticle(rng, w, h, testParams)
		if err != nil {
			t.Fatalf("NewParticle error: %v", err)
		}

		r := p.Body.Radius
		if r < testParams.MinRadius || r >= testParams.MaxRadius() {
			t.Fatalf("radius %f outside [%f, %f)", r, testParams.MinRadius, testParams.MaxRadius())
		}
		if p.Pos.X < r || p.Pos.X > w-r || p.Pos.Y < r || p.Pos.Y > h-r {
			t.Fatalf("position (%f, %f) lets circle of radius %f leave %dx%d", p.Pos.X, p.Pos.Y, r, w, h)
		}
		for _, v := range []float64{p.Vel.X, p.Vel.Y} {
			mag := math.Abs(v)
			if mag < testParams.VelocityBias || mag > testParams.VelocityRange+testParams.VelocityBias {
				t.Fatalf("velocity component %f outside bias floor / range", v)
			}
		}
	}
}

func TestNewParticleInvalidBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	params := ParticleParams{MinRadius: 30, VelocityRange: 1}

	tests := []struct {
		name string
		w, h float64
	}{
		{"too narrow", 50, 200},
		{"too short", 200, 59},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParticle(rng, tc.w, tc.h, params)
			if !errors.Is(err, ErrInvalidBounds) {
				t.Errorf("NewParticle(%g, %g) error = %v, want ErrInvalidBounds", tc.w, tc.h, err)
			}
		})
	}

	// Exactly one diameter wide is a valid, zero-span surface.
	p, err := NewParticle(rng, 60, 60, params)
	if err != nil {
		t.Fatalf("NewParticle(60, 60) error: %v", err)
	}
	if p.Pos.X != 30 || p.Pos.Y != 30 {
		t.Errorf("expected particle pinned at (30, 30), got (%f, %f)", p.Pos.X, p.Pos.Y)
	}
}

func TestResetPositionKeepsVelocityAndRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := makeParticle(10, 10, 1.5, -2, 5)

	p.ResetPosition(rng, 300, 100)

	if p.Vel.X != 1.5 || p.Vel.Y != -2 || p.Body.Radius != 5 {
		t.Errorf("reset changed velocity or radius: vel=(%f,%f) r=%f", p.Vel.X, p.Vel.Y, p.Body.Radius)
	}
	if p.Pos.X < 5 || p.Pos.X > 295 || p.Pos.Y < 5 || p.Pos.Y > 95 {
		t.Errorf("reset position (%f, %f) out of bounds", p.Pos.X, p.Pos.Y)
	}
}

func TestUpdateContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const w, h = 200, 150

	particles := make([]Particle, 50)
	for i := range particles {
		p, err := NewParticle(rng, w, h, ParticleParams{MinRadius: 5, RadiusJitter: 10, VelocityRange: 6, VelocityBias: 0.5})
		if err != nil {
			t.Fatal(err)
		}
		particles[i] = p
	}

	for tick := 0; tick < 500; tick++ {
		for _, p := range particles {
			p.Update(w, h, nil)
			r := p.Body.Radius
			if p.Pos.X < r || p.Pos.X > w-r || p.Pos.Y < r || p.Pos.Y > h-r {
				t.Fatalf("tick %d: particle at (%f, %f) r=%f escaped", tick, p.Pos.X, p.Pos.Y, r)
			}
		}
	}
}

func TestUpdateReflection(t *testing.T) {
	tests := []struct {
		name           string
		x, y, vx, vy   float64
		want           Reflection
		wantX, wantY   float64
		wantVX, wantVY float64
	}{
		{"free flight", 50, 50, 2, -1, 0, 52, 49, 2, -1},
		{"left wall", 11, 50, -3, 1, ReflectX, 10, 51, 3, 1},
		{"right wall", 89, 50, 3, 1, ReflectX, 90, 51, -3, 1},
		{"top wall", 50, 11, 1, -4, ReflectY, 51, 10, 1, 4},
		{"bottom wall", 50, 89, 1, 4, ReflectY, 51, 90, 1, -4},
		{"corner", 89, 89, 2, 2, ReflectX | ReflectY, 90, 90, -2, -2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := makeParticle(tc.x, tc.y, tc.vx, tc.vy, 10)
			got := p.Update(100, 100, nil)

			if got != tc.want {
				t.Errorf("reflection = %b, want %b", got, tc.want)
			}
			if p.Pos.X != tc.wantX || p.Pos.Y != tc.wantY {
				t.Errorf("position = (%f, %f), want (%f, %f)", p.Pos.X, p.Pos.Y, tc.wantX, tc.wantY)
			}
			if p.Vel.X != tc.wantVX || p.Vel.Y != tc.wantVY {
				t.Errorf("velocity = (%f, %f), want (%f, %f)", p.Vel.X, p.Vel.Y, tc.wantVX, tc.wantVY)
			}
		})
	}
}

func TestUpdateSurfaceNarrowerThanParticle(t *testing.T) {
	p := makeParticle(20, 20, 1, 1, 30)
	refl := p.Update(40, 100, nil)

	if refl.Has(ReflectX) {
		t.Error("degenerate axis should not report a reflection")
	}
	if p.Pos.X != 20 {
		t.Errorf("expected particle centered at x=20, got %f", p.Pos.X)
	}
}

func TestIntersectsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		a, _ := NewParticle(rng, 120, 120, testParams)
		b, _ := NewParticle(rng, 120, 120, testParams)
		if a.Intersects(b) != b.Intersects(a) {
			t.Fatalf("intersects not symmetric for %v/%v and %v/%v", *a.Pos, *a.Body, *b.Pos, *b.Body)
		}
	}
}

func TestIntersectsTolerance(t *testing.T) {
	a := makeParticle(0, 0, 0, 0, 10)
	tests := []struct {
		name string
		x    float64
		want bool
	}{
		{"overlapping", 15, true},
		{"touching", 20, true},
		{"within tolerance", 21, true},
		{"apart", 21.5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := makeParticle(tc.x, 0, 0, 0, 10)
			if got := a.Intersects(b); got != tc.want {
				t.Errorf("Intersects at distance %f = %v, want %v", tc.x, got, tc.want)
			}
		})
	}
}

func TestBounceFlipsBothAxes(t *testing.T) {
	a := makeParticle(0, 0, 1, -2, 5)
	b := makeParticle(5, 0, -3, 4, 5)

	Bounce(a, b)

	if a.Vel.X != -1 || a.Vel.Y != 2 || b.Vel.X != 3 || b.Vel.Y != -4 {
		t.Errorf("unexpected velocities after bounce: a=%v b=%v", *a.Vel, *b.Vel)
	}
}

type circleRecorder struct {
	circles [][3]float64
}

func (r *circleRecorder) FillCircle(x, y, radius float64) {
	r.circles = append(r.circles, [3]float64{x, y, radius})
}

func (r *circleRecorder) StrokeLine(x1, y1, x2, y2, alpha float64) {}

func TestDrawDoesNotMutate(t *testing.T) {
	p := makeParticle(40, 30, 1, 1, 8)
	rec := &circleRecorder{}

	p.Draw(rec)

	if len(rec.circles) != 1 || rec.circles[0] != [3]float64{40, 30, 8} {
		t.Errorf("unexpected draw calls: %v", rec.circles)
	}
	if p.Pos.X != 40 || p.Pos.Y != 30 {
		t.Error("draw mutated position")
	}
}
