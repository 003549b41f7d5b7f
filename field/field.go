// Package field drives a fixed population of particles on one surface.
package field

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/plexus/components"
	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/systems"
)

// ErrPlacementFailed is returned when non-overlapping placement runs out of
// attempts.
var ErrPlacementFailed = errors.New("particle placement failed")

// Surface is the drawing capability a driver provides.
type Surface = systems.Surface

type discard struct{}

func (discard) FillCircle(x, y, radius float64)          {}
func (discard) StrokeLine(x1, y1, x2, y2, alpha float64) {}

// Discard is a Surface that draws nothing, for headless runs.
var Discard Surface = discard{}

// Phase names reported to a Profiler during Tick.
const (
	PhaseInbox        = "inbox"
	PhaseInteractions = "interactions"
	PhaseParticles    = "particles"
)

// Profiler receives phase boundaries during Tick.
type Profiler interface {
	StartPhase(phase string)
}

// State is the Field lifecycle state.
type State uint8

const (
	Idle   State = iota // constructed, not yet ticked
	Active              // ticked at least once
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// FrameStats summarizes one tick.
type FrameStats struct {
	Tick        int64
	Links       int
	Collisions  int
	Reflections int
	OpacitySum  float64
}

// Field owns the particles of one surface and runs the per-frame pipeline.
type Field struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Body]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Body]

	entities []ecs.Entity       // creation order, drives pair scans
	views    []systems.Particle // refreshed each tick from the mapper

	cfg    config.Config
	params systems.ParticleParams
	rng    *rand.Rand

	width, height float64

	pointer        systems.Pointer
	pointerEnabled bool

	interactions *systems.InteractionSystem
	profiler     Profiler

	state State
	tick  int64

	inboxMu sync.Mutex
	inbox   []Event
	spare   []Event
}

type spawn struct {
	pos  components.Position
	vel  components.Velocity
	body components.Body
}

// New creates a Field of cfg.Particles.Count particles on a width x height
// surface. A nil rng seeds from the clock. Configuration and placement
// errors are returned before any particle exists.
func New(width, height float64, cfg config.Config, rng *rand.Rand) (*Field, error) {
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	maxDiameter := 2 * cfg.Derived.MaxRadius
	if maxDiameter > width || maxDiameter > height {
		return nil, fmt.Errorf("%w: radius up to %g in %gx%g", systems.ErrInvalidBounds, cfg.Derived.MaxRadius, width, height)
	}

	world := ecs.NewWorld()
	f := &Field{
		world:  world,
		mapper: ecs.NewMap3[components.Position, components.Velocity, components.Body](world),
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Body](world),
		cfg:    cfg,
		params: systems.ParamsFromConfig(cfg.Particles),
		rng:    rng,
		width:  width,
		height: height,
		pointer: systems.Pointer{
			InfluenceRadius: cfg.Pointer.InfluenceRadius,
			StepScale:       cfg.Pointer.StepScale,
		},
		pointerEnabled: cfg.Pointer.Enabled,
		interactions:   systems.NewInteractionSystem(cfg.Links.MaxDistance, cfg.Collision.Enabled),
	}

	if cfg.Spatial.Enabled {
		reach := math.Max(cfg.Links.MaxDistance, maxDiameter+systems.IntersectTolerance)
		f.interactions.UseGrid(systems.NewSpatialGrid(width, height, cfg.Derived.GridCellSize), reach)
	}

	spawns, err := f.place()
	if err != nil {
		return nil, err
	}

	f.entities = make([]ecs.Entity, len(spawns))
	for i := range spawns {
		s := &spawns[i]
		f.entities[i] = f.mapper.NewEntity(&s.pos, &s.vel, &s.body)
	}
	f.views = make([]systems.Particle, len(f.entities))
	f.refreshViews()

	return f, nil
}

// place samples a full particle set with the configured policy.
func (f *Field) place() ([]spawn, error) {
	count := f.cfg.Particles.Count
	spawns := make([]spawn, 0, count)

	if f.cfg.Derived.Placement != config.PlacementNonOverlapping {
		for len(spawns) < count {
			s, err := f.sample()
			if err != nil {
				return nil, err
			}
			spawns = append(spawns, s)
		}
		return spawns, nil
	}

	maxAttempts := f.cfg.Particles.MaxPlacementAttempts
	for len(spawns) < count {
		placed := false
		for attempt := 0; attempt < maxAttempts; attempt++ {
			s, err := f.sample()
			if err != nil {
				return nil, err
			}
			if !overlapsAny(s, spawns) {
				spawns = append(spawns, s)
				placed = true
				break
			}
		}
		if !placed {
			return nil, fmt.Errorf("%w: placed %d of %d particles, %d attempts each",
				ErrPlacementFailed, len(spawns), count, maxAttempts)
		}
	}
	return spawns, nil
}

func (f *Field) sample() (spawn, error) {
	pos, vel, body, err := systems.SampleParticle(f.rng, f.width, f.height, f.params)
	if err != nil {
		return spawn{}, fmt.Errorf("sampling particle: %w", err)
	}
	return spawn{pos: pos, vel: vel, body: body}, nil
}

func overlapsAny(s spawn, placed []spawn) bool {
	for i := range placed {
		if systems.Intersects(s.pos, s.body, placed[i].pos, placed[i].body) {
			return true
		}
	}
	return false
}

// refreshViews rebinds particle views to the current component storage.
func (f *Field) refreshViews() {
	for i, e := range f.entities {
		pos, vel, body := f.mapper.Get(e)
		f.views[i] = systems.Particle{Pos: pos, Vel: vel, Body: body}
	}
}

// Reset resamples radius, position and velocity of every particle in place.
// On error the current particles are left untouched.
func (f *Field) Reset() error {
	spawns, err := f.place()
	if err != nil {
		return err
	}
	f.refreshViews()
	for i, p := range f.views {
		*p.Pos = spawns[i].pos
		*p.Vel = spawns[i].vel
		*p.Body = spawns[i].body
	}
	return nil
}

// Resize stores new surface dimensions and repositions every particle.
// Dimensions are raised to the largest particle diameter if smaller.
func (f *Field) Resize(w, h float64) {
	minExtent := 2 * f.cfg.Derived.MaxRadius
	f.width = math.Max(w, minExtent)
	f.height = math.Max(h, minExtent)

	f.interactions.Resize(f.width, f.height)
	f.refreshViews()
	for _, p := range f.views {
		p.ResetPosition(f.rng, f.width, f.height)
	}
}

// Tick applies queued events, runs the pairwise pass, then draws and
// updates each particle in order. Draw uses the pre-update position.
func (f *Field) Tick(surface Surface) FrameStats {
	f.startPhase(PhaseInbox)
	f.drainInbox()
	f.state = Active
	f.refreshViews()

	f.startPhase(PhaseInteractions)
	ist := f.interactions.Update(f.views, surface)

	f.startPhase(PhaseParticles)
	var ptr *systems.Pointer
	if f.pointerEnabled {
		ptr = &f.pointer
	}
	reflections := 0
	for _, p := range f.views {
		p.Draw(surface)
		if p.Update(f.width, f.height, ptr) != 0 {
			reflections++
		}
	}

	f.tick++
	return FrameStats{
		Tick:        f.tick,
		Links:       ist.Links,
		Collisions:  ist.Collisions,
		Reflections: reflections,
		OpacitySum:  ist.OpacitySum,
	}
}

// Draw renders the current frame without advancing it: no events are
// applied, no particle moves and no pair bounces.
func (f *Field) Draw(surface Surface) {
	f.refreshViews()
	f.interactions.Draw(f.views, surface)
	for _, p := range f.views {
		p.Draw(surface)
	}
}

func (f *Field) startPhase(phase string) {
	if f.profiler != nil {
		f.profiler.StartPhase(phase)
	}
}

// SetProfiler installs a phase profiler; nil disables profiling.
func (f *Field) SetProfiler(p Profiler) {
	f.profiler = p
}

// SetDrawLinks toggles connective line rendering.
func (f *Field) SetDrawLinks(on bool) {
	f.interactions.SetDrawLinks(on)
}

// DrawLinks reports whether connective lines are rendered.
func (f *Field) DrawLinks() bool {
	return f.interactions.DrawLinks()
}

// Speeds appends the speed of every particle to dst, in storage order.
func (f *Field) Speeds(dst []float64) []float64 {
	query := f.filter.Query()
	for query.Next() {
		_, vel, _ := query.Get()
		dst = append(dst, vel.Speed())
	}
	return dst
}

// Particle returns a view of the i-th particle in creation order.
func (f *Field) Particle(i int) systems.Particle {
	pos, vel, body := f.mapper.Get(f.entities[i])
	return systems.Particle{Pos: pos, Vel: vel, Body: body}
}

// Len returns the particle count.
func (f *Field) Len() int { return len(f.entities) }

// Width returns the current surface width.
func (f *Field) Width() float64 { return f.width }

// Height returns the current surface height.
func (f *Field) Height() float64 { return f.height }

// State returns the lifecycle state.
func (f *Field) State() State { return f.state }

// Ticks returns the number of completed ticks.
func (f *Field) Ticks() int64 { return f.tick }

// Pointer returns a copy of the pointer state.
func (f *Field) Pointer() systems.Pointer { return f.pointer }

// PointerEnabled reports whether pointer repulsion is configured.
func (f *Field) PointerEnabled() bool { return f.pointerEnabled }
