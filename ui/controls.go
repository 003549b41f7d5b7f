package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSpeed is the largest ticks-per-frame multiplier offered.
const MaxSpeed = 8

// ControlsState is the state the controls panel displays and edits.
type ControlsState struct {
	Paused bool
	Links  bool
	Speed  int
}

// ControlsResult reports which controls were used this frame.
type ControlsResult struct {
	TogglePause bool
	Reset       bool
	ToggleLinks bool
	Speed       int
}

// ControlsPanel renders the raygui panel with pause, reset, links and speed
// controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies over the panel, so pointer
// input there is not forwarded to the field.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, c.bounds())
}

func (c *ControlsPanel) bounds() rl.Rectangle {
	t := c.renderer.Theme
	height := t.Padding*3 + t.LineHeight + 4*(t.ButtonHeight+4) + t.LineHeight
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(height)}
}

// Draw renders the panel and returns the controls used this frame.
func (c *ControlsPanel) Draw(state ControlsState) ControlsResult {
	result := ControlsResult{Speed: state.Speed}
	if !c.visible {
		return result
	}

	r := c.renderer
	t := r.Theme
	b := c.bounds()
	r.DrawPanel(c.x, c.y, c.width, int32(b.Height))

	x := float32(c.x + t.Padding)
	y := r.DrawSectionHeader(c.x+t.Padding, c.y+t.Padding, "Controls") + 4
	w := float32(c.width - 2*t.Padding)
	h := float32(t.ButtonHeight)

	button := func(label string) bool {
		pressed := gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: w, Height: h}, label)
		y += t.ButtonHeight + 4
		return pressed
	}

	result.TogglePause = button(toggleText(state.Paused, "Resume", "Pause"))
	result.Reset = button("Reset")
	result.ToggleLinks = button(toggleText(state.Links, "Hide Links", "Show Links"))

	rl.DrawText("Speed", int32(x), y, t.FontSize, t.LabelColor)
	y += t.LineHeight
	speed := gui.SliderBar(
		rl.Rectangle{X: x, Y: float32(y), Width: w - 30, Height: h - 8},
		"", fmt.Sprintf("%dx", state.Speed),
		float32(state.Speed), 1, MaxSpeed,
	)
	result.Speed = clampSpeed(int(speed + 0.5))

	return result
}

func clampSpeed(s int) int {
	if s < 1 {
		return 1
	}
	if s > MaxSpeed {
		return MaxSpeed
	}
	return s
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
