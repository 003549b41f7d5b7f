// Package palette maps particle positions to fill colors.
package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/plexus/config"
)

// Palette resolves fill, stroke and background colors for a surface.
type Palette struct {
	fill       string
	stops      []colorful.Color
	solid      colorful.Color
	stroke     colorful.Color
	background colorful.Color
	hueScale   float64

	width, height float64
}

// New parses the render config for a width x height surface.
func New(cfg config.RenderConfig, width, height float64) (*Palette, error) {
	p := &Palette{fill: cfg.Fill, hueScale: cfg.HueScale}

	var err error
	if p.solid, err = parseHex("render.solid_color", cfg.SolidColor); err != nil {
		return nil, err
	}
	if p.stroke, err = parseHex("render.stroke", cfg.Stroke); err != nil {
		return nil, err
	}
	if p.background, err = parseHex("render.background", cfg.Background); err != nil {
		return nil, err
	}
	for i, hex := range cfg.Gradient {
		c, err := parseHex(fmt.Sprintf("render.gradient[%d]", i), hex)
		if err != nil {
			return nil, err
		}
		p.stops = append(p.stops, c)
	}
	if p.fill == config.FillGradient && len(p.stops) == 0 {
		return nil, fmt.Errorf("render.gradient needs at least one color stop")
	}

	p.Resize(width, height)
	return p, nil
}

func parseHex(field, hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parsing %s %q: %w", field, hex, err)
	}
	return c, nil
}

// Resize updates the extent the diagonal gradient spans.
func (p *Palette) Resize(width, height float64) {
	p.width, p.height = width, height
}

// FillAt returns the fill color of a circle centered at (x, y).
func (p *Palette) FillAt(x, y float64) colorful.Color {
	switch p.fill {
	case config.FillHue:
		return colorful.Hsl(math.Mod(math.Abs(x*p.hueScale), 360), 1, 0.5)
	case config.FillGradient:
		return p.gradientAt(x, y)
	default:
		return p.solid
	}
}

// gradientAt projects (x, y) onto the top-left to bottom-right diagonal and
// interpolates between evenly spaced stops.
func (p *Palette) gradientAt(x, y float64) colorful.Color {
	if len(p.stops) == 1 {
		return p.stops[0]
	}
	lenSq := p.width*p.width + p.height*p.height
	t := 0.0
	if lenSq > 0 {
		t = (x*p.width + y*p.height) / lenSq
	}
	t = math.Max(0, math.Min(1, t))

	seg := t * float64(len(p.stops)-1)
	i := int(seg)
	if i >= len(p.stops)-1 {
		return p.stops[len(p.stops)-1]
	}
	return p.stops[i].BlendRgb(p.stops[i+1], seg-float64(i)).Clamped()
}

// Stroke returns the connective line color.
func (p *Palette) Stroke() colorful.Color { return p.stroke }

// Background returns the clear color.
func (p *Palette) Background() colorful.Color { return p.background }

// RGBA8 converts a color and an opacity in [0, 1] to 8-bit channels.
func RGBA8(c colorful.Color, alpha float64) (r, g, b, a uint8) {
	r, g, b = c.Clamped().RGB255()
	alpha = math.Max(0, math.Min(1, alpha))
	return r, g, b, uint8(math.Round(alpha * 255))
}

// Over composites c at opacity alpha onto dst, for surfaces without
// blending.
func Over(dst, c colorful.Color, alpha float64) colorful.Color {
	alpha = math.Max(0, math.Min(1, alpha))
	return dst.BlendRgb(c, alpha).Clamped()
}
