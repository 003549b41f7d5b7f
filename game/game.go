// Package game drives the particle field in a raylib window or headless.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/plexus/audio"
	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/field"
	"github.com/pthm-cable/plexus/palette"
	"github.com/pthm-cable/plexus/renderer"
	"github.com/pthm-cable/plexus/telemetry"
	"github.com/pthm-cable/plexus/ui"
)

// Title is the window title.
const Title = "Plexus"

// Options configures a Game.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
	Sound     bool
}

// Game holds the complete driver state around one Field.
type Game struct {
	cfg   *config.Config
	field *field.Field

	// Rendering (nil when headless)
	canvas    *renderer.Canvas
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	speeds        []float64

	blipper *audio.Blipper

	// State
	headless     bool
	paused       bool
	showPerf     bool
	speed        int // ticks per frame
	last         field.FrameStats
	screenWidth  float32
	screenHeight float32
}

// NewGameWithOptions creates a game. In graphical mode the raylib window
// must already be open.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	width := float32(cfg.Screen.Width)
	height := float32(cfg.Screen.Height)

	f, err := field.New(float64(width), float64(height), *cfg, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, fmt.Errorf("creating field: %w", err)
	}

	g := &Game{
		cfg:           cfg,
		field:         f,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:     telemetry.NewCollector(cfg.Telemetry.WindowTicks),
		logStats:      opts.LogStats,
		speeds:        make([]float64, 0, f.Len()),
		headless:      opts.Headless,
		speed:         1,
		screenWidth:   width,
		screenHeight:  height,
	}
	f.SetProfiler(g.perfCollector)

	if !opts.Headless {
		pal, err := palette.New(cfg.Render, float64(width), float64(height))
		if err != nil {
			return nil, err
		}
		g.canvas = renderer.NewCanvas(pal, cfg.Links.Width)
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(int32(width)-170, 10, 160)
		g.perfPanel = ui.NewPerfPanel(10, 100)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if opts.Sound {
		g.blipper = audio.NewBlipper(cfg.Audio)
		if err := g.blipper.Initialize(); err != nil {
			// Non-fatal, the field runs without sound
			slog.Warn("audio initialization failed", "error", err)
			g.blipper = nil
		}
	}

	return g, nil
}

// Unload releases audio and flushes output files.
func (g *Game) Unload() {
	if g.blipper != nil {
		g.blipper.Cleanup()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of completed field ticks.
func (g *Game) Tick() int64 {
	return g.field.Ticks()
}

// Field returns the driven field.
func (g *Game) Field() *field.Field {
	return g.field
}
