package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plexus/field"
	"github.com/pthm-cable/plexus/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.field.SetDrawLinks(!g.field.DrawLinks())
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.controls.Toggle()
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.speed > 1 {
		g.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.speed < ui.MaxSpeed {
		g.speed++
	}

	g.handlePointer()
}

// handlePointer forwards the left mouse button to the field as pointer
// events. Presses over the controls panel are left to raygui.
func (g *Game) handlePointer() {
	pos := rl.GetMousePosition()
	x, y := float64(pos.X), float64(pos.Y)

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if !g.controls.Contains(pos.X, pos.Y) {
			g.field.Send(field.PointerDown{X: x, Y: y})
		}
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		g.field.Send(field.PointerMove{X: x, Y: y})
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		g.field.Send(field.PointerUp{})
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.field.Send(field.Resize{W: float64(w), H: float64(h)})
	g.canvas.Resize(float64(w), float64(h))
	g.controls.SetPosition(int32(w)-170, 10)
}

func (g *Game) reset() {
	if err := g.field.Reset(); err != nil {
		slog.Error("failed to reset field", "error", err)
	}
}
