// Package systems implements particle motion and pairwise interactions.
package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/plexus/components"
	"github.com/pthm-cable/plexus/config"
)

// IntersectTolerance is added to the sum of radii when testing contact.
const IntersectTolerance = 1.0

// ErrInvalidBounds is returned when a particle cannot fit inside the surface.
var ErrInvalidBounds = errors.New("particle does not fit surface")

// Surface is the drawing capability a driver provides.
type Surface interface {
	FillCircle(x, y, radius float64)
	StrokeLine(x1, y1, x2, y2, alpha float64)
}

// Reflection names the axes clamped by a boundary reflection.
type Reflection uint8

const (
	ReflectX Reflection = 1 << iota
	ReflectY
)

// Has reports whether axis was reflected.
func (r Reflection) Has(axis Reflection) bool {
	return r&axis != 0
}

// ParticleParams holds the sampling ranges for new particles.
type ParticleParams struct {
	MinRadius     float64
	RadiusJitter  float64
	VelocityRange float64
	VelocityBias  float64
}

// ParamsFromConfig extracts sampling ranges from the particles config.
func ParamsFromConfig(cfg config.ParticlesConfig) ParticleParams {
	return ParticleParams{
		MinRadius:     cfg.MinRadius,
		RadiusJitter:  cfg.RadiusJitter,
		VelocityRange: cfg.VelocityRange,
		VelocityBias:  cfg.VelocityBias,
	}
}

// MaxRadius returns the exclusive upper bound of sampled radii.
func (p ParticleParams) MaxRadius() float64 {
	return p.MinRadius + p.RadiusJitter
}

// Particle is a view over one particle's components. The pointers refer to
// storage owned by the caller (usually the ECS world).
type Particle struct {
	Pos  *components.Position
	Vel  *components.Velocity
	Body *components.Body
}

// NewParticle samples a particle that fits inside a w x h surface.
func NewParticle(rng *rand.Rand, w, h float64, params ParticleParams) (Particle, error) {
	pos, vel, body, err := SampleParticle(rng, w, h, params)
	if err != nil {
		return Particle{}, err
	}
	return Particle{Pos: &pos, Vel: &vel, Body: &body}, nil
}

// SampleParticle samples radius, position and velocity as component values.
func SampleParticle(rng *rand.Rand, w, h float64, params ParticleParams) (components.Position, components.Velocity, components.Body, error) {
	body := components.Body{Radius: params.MinRadius + rng.Float64()*params.RadiusJitter}
	if body.Radius <= 0 {
		return components.Position{}, components.Velocity{}, body, fmt.Errorf("%w: radius %g", ErrInvalidBounds, body.Radius)
	}
	if body.Diameter() > w || body.Diameter() > h {
		return components.Position{}, components.Velocity{}, body,
			fmt.Errorf("%w: radius %g in %gx%g", ErrInvalidBounds, body.Radius, w, h)
	}

	pos := samplePosition(rng, w, h, body.Radius)
	vel := components.Velocity{
		X: sampleSpeed(rng, params.VelocityRange, params.VelocityBias),
		Y: sampleSpeed(rng, params.VelocityRange, params.VelocityBias),
	}
	return pos, vel, body, nil
}

// samplePosition keeps the whole circle inside the surface. An axis too
// short for the circle centers it instead.
func samplePosition(rng *rand.Rand, w, h, r float64) components.Position {
	return components.Position{
		X: sampleAxis(rng, w, r),
		Y: sampleAxis(rng, h, r),
	}
}

func sampleAxis(rng *rand.Rand, bound, r float64) float64 {
	span := bound - 2*r
	if span < 0 {
		return bound / 2
	}
	return r + rng.Float64()*span
}

// sampleSpeed draws from [-rng, rng) and pushes the value away from zero.
func sampleSpeed(rng *rand.Rand, span, bias float64) float64 {
	v := (2*rng.Float64() - 1) * span
	if v > 0 {
		return v + bias
	}
	return v - bias
}

// ResetPosition resamples the position only; velocity and radius are kept.
func (p Particle) ResetPosition(rng *rand.Rand, w, h float64) {
	*p.Pos = samplePosition(rng, w, h, p.Body.Radius)
}

// Update applies pointer repulsion, advances by velocity and reflects off
// the surface edges. It returns the axes that were clamped.
func (p Particle) Update(w, h float64, pointer *Pointer) Reflection {
	if pointer != nil && pointer.Active {
		pointer.Repel(p.Pos)
	}

	p.Pos.X += p.Vel.X
	p.Pos.Y += p.Vel.Y

	var refl Reflection
	if reflectAxis(&p.Pos.X, &p.Vel.X, p.Body.Radius, w) {
		refl |= ReflectX
	}
	if reflectAxis(&p.Pos.Y, &p.Vel.Y, p.Body.Radius, h) {
		refl |= ReflectY
	}
	return refl
}

// reflectAxis clamps pos to [r, bound-r] and turns vel back inward when the
// edge was crossed.
func reflectAxis(pos, vel *float64, r, bound float64) bool {
	lo, hi := r, bound-r
	if hi < lo {
		*pos = bound / 2
		return false
	}
	switch {
	case *pos < lo:
		*pos = lo
		*vel = math.Abs(*vel)
		return true
	case *pos > hi:
		*pos = hi
		*vel = -math.Abs(*vel)
		return true
	}
	return false
}

// Draw fills the particle's circle on the surface.
func (p Particle) Draw(s Surface) {
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Body.Radius)
}

// Intersects reports whether two particles touch, within IntersectTolerance.
func (p Particle) Intersects(o Particle) bool {
	return Intersects(*p.Pos, *p.Body, *o.Pos, *o.Body)
}

// Intersects reports whether two circles touch, within IntersectTolerance.
func Intersects(pa components.Position, ba components.Body, pb components.Position, bb components.Body) bool {
	return components.Distance(pa, pb) <= ba.Radius+bb.Radius+IntersectTolerance
}

// Bounce reverses both velocity components of both particles.
// This is a visual effect, not momentum exchange.
func Bounce(a, b Particle) {
	a.Vel.X, a.Vel.Y = -a.Vel.X, -a.Vel.Y
	b.Vel.X, b.Vel.Y = -b.Vel.X, -b.Vel.Y
}
