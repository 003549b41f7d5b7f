// Package renderer draws the particle field with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/plexus/palette"
)

// Canvas is a raylib-backed particle surface. Calls must happen between
// rl.BeginDrawing and rl.EndDrawing.
type Canvas struct {
	palette   *palette.Palette
	lineWidth float32
	stroke    rl.Color
	clear     rl.Color
}

// NewCanvas creates a canvas that colors through p.
func NewCanvas(p *palette.Palette, lineWidth float64) *Canvas {
	if lineWidth <= 0 {
		lineWidth = 1
	}
	return &Canvas{
		palette:   p,
		lineWidth: float32(lineWidth),
		stroke:    toRL(p.Stroke(), 1),
		clear:     toRL(p.Background(), 1),
	}
}

// Clear fills the whole frame with the background color.
func (c *Canvas) Clear() {
	rl.ClearBackground(c.clear)
}

// Resize updates the gradient extent.
func (c *Canvas) Resize(w, h float64) {
	c.palette.Resize(w, h)
}

// FillCircle draws a filled particle circle.
func (c *Canvas) FillCircle(x, y, radius float64) {
	center := rl.Vector2{X: float32(x), Y: float32(y)}
	rl.DrawCircleV(center, float32(radius), toRL(c.palette.FillAt(x, y), 1))
}

// StrokeLine draws a connective line at the given opacity.
func (c *Canvas) StrokeLine(x1, y1, x2, y2, alpha float64) {
	rl.DrawLineEx(
		rl.Vector2{X: float32(x1), Y: float32(y1)},
		rl.Vector2{X: float32(x2), Y: float32(y2)},
		c.lineWidth,
		rl.Fade(c.stroke, float32(alpha)),
	)
}

func toRL(col colorful.Color, alpha float64) rl.Color {
	r, g, b, a := palette.RGBA8(col, alpha)
	return rl.Color{R: r, G: g, B: b, A: a}
}
