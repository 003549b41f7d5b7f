package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plexus/telemetry"
	"github.com/pthm-cable/plexus/ui"
)

const controlsLegend = "SPACE pause | R reset | L links | P perf | H panel | </> speed | drag to repel"

var perfPhases = []string{
	telemetry.PhaseInbox,
	telemetry.PhaseInteractions,
	telemetry.PhaseParticles,
	telemetry.PhaseTelemetry,
}

// Update processes input. Field ticks happen in Draw, where the canvas is
// bound.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()
}

// Draw renders one frame. Unless paused it advances the field by the
// current speed; only the final tick is drawn.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	g.canvas.Clear()
	if g.paused {
		g.field.Draw(g.canvas)
	} else {
		for i := 1; i < g.speed; i++ {
			g.UpdateHeadless()
		}
		g.step(g.canvas)
	}

	g.drawUI()
}

func (g *Game) drawUI() {
	g.hud.Draw(ui.HUDData{
		Title:      Title,
		Particles:  g.field.Len(),
		Tick:       g.field.Ticks(),
		Speed:      g.speed,
		FPS:        rl.GetFPS(),
		Links:      g.last.Links,
		Collisions: g.last.Collisions,
		Paused:     g.paused,
	})

	if g.showPerf {
		stats := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseAvg: stats.PhaseAvg,
			Phases:   perfPhases,
			Total:    stats.AvgTickDuration,
		})
	}

	result := g.controls.Draw(ui.ControlsState{
		Paused: g.paused,
		Links:  g.field.DrawLinks(),
		Speed:  g.speed,
	})
	if result.TogglePause {
		g.paused = !g.paused
	}
	if result.Reset {
		g.reset()
	}
	if result.ToggleLinks {
		g.field.SetDrawLinks(!g.field.DrawLinks())
	}
	g.speed = result.Speed

	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
}
