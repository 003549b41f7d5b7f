// Package terminal rasterizes the particle field into terminal cells.
package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/palette"
)

// Glyphs written for particle bodies and connective lines.
const (
	BodyRune = '█'
	LinkRune = '·'
)

// CellWriter is the part of tcell.Screen a Surface flushes into.
type CellWriter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellLink
	cellBody
)

type cell struct {
	kind  cellKind
	alpha float64 // strongest link opacity seen this frame
	color colorful.Color
}

// Surface is a field surface backed by a cols x rows cell buffer. Surface
// coordinates are pixels; each cell covers cellW x cellH pixels.
type Surface struct {
	palette      *palette.Palette
	cellW, cellH float64
	cols, rows   int
	cells        []cell
	bg           tcell.Style
}

// NewSurface creates a surface for a cols x rows terminal.
func NewSurface(p *palette.Palette, cfg config.TerminalConfig, cols, rows int) *Surface {
	s := &Surface{
		palette: p,
		cellW:   math.Max(cfg.CellWidth, 1),
		cellH:   math.Max(cfg.CellHeight, 1),
		bg:      tcell.StyleDefault.Background(toTcell(p.Background())),
	}
	s.Resize(cols, rows)
	return s
}

// Resize reallocates the buffer for a new terminal size.
func (s *Surface) Resize(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	size := s.cols * s.rows
	if cap(s.cells) < size {
		s.cells = make([]cell, size)
	} else {
		s.cells = s.cells[:size]
	}
	w, h := s.PixelSize()
	s.palette.Resize(w, h)
	s.Clear()
}

// PixelSize returns the surface extent in pixels.
func (s *Surface) PixelSize() (w, h float64) {
	return float64(s.cols) * s.cellW, float64(s.rows) * s.cellH
}

// CellCenter maps a terminal cell to the pixel at its center.
func (s *Surface) CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * s.cellW, (float64(row) + 0.5) * s.cellH
}

// Clear empties every cell.
func (s *Surface) Clear() {
	clear(s.cells)
}

func (s *Surface) at(col, row int) *cell {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return nil
	}
	return &s.cells[row*s.cols+col]
}

// FillCircle marks every cell whose center lies inside the circle. A
// circle smaller than a cell still marks the cell holding its center.
func (s *Surface) FillCircle(x, y, radius float64) {
	color := s.palette.FillAt(x, y)
	c0, c1 := int(math.Floor((x-radius)/s.cellW)), int(math.Floor((x+radius)/s.cellW))
	r0, r1 := int(math.Floor((y-radius)/s.cellH)), int(math.Floor((y+radius)/s.cellH))

	marked := false
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cx, cy := s.CellCenter(col, row)
			if math.Hypot(cx-x, cy-y) > radius {
				continue
			}
			if c := s.at(col, row); c != nil {
				*c = cell{kind: cellBody, color: color}
				marked = true
			}
		}
	}
	if !marked {
		if c := s.at(int(math.Floor(x/s.cellW)), int(math.Floor(y/s.cellH))); c != nil {
			*c = cell{kind: cellBody, color: color}
		}
	}
}

// StrokeLine walks the cells between the endpoints with Bresenham's
// algorithm. Bodies are never overwritten by links.
func (s *Surface) StrokeLine(x1, y1, x2, y2, alpha float64) {
	col, row := int(math.Floor(x1/s.cellW)), int(math.Floor(y1/s.cellH))
	endCol, endRow := int(math.Floor(x2/s.cellW)), int(math.Floor(y2/s.cellH))

	dx := abs(endCol - col)
	dy := -abs(endRow - row)
	sx, sy := sign(endCol-col), sign(endRow-row)
	e := dx + dy

	for {
		s.link(col, row, alpha)
		if col == endCol && row == endRow {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			col += sx
		}
		if e2 <= dx {
			e += dx
			row += sy
		}
	}
}

func (s *Surface) link(col, row int, alpha float64) {
	c := s.at(col, row)
	if c == nil || c.kind == cellBody || alpha <= c.alpha {
		return
	}
	c.kind = cellLink
	c.alpha = alpha
	c.color = palette.Over(s.palette.Background(), s.palette.Stroke(), alpha)
}

// Flush writes every cell to w.
func (s *Surface) Flush(w CellWriter) {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			c := s.cells[row*s.cols+col]
			switch c.kind {
			case cellBody:
				w.SetContent(col, row, BodyRune, nil, s.bg.Foreground(toTcell(c.color)))
			case cellLink:
				w.SetContent(col, row, LinkRune, nil, s.bg.Foreground(toTcell(c.color)))
			default:
				w.SetContent(col, row, ' ', nil, s.bg)
			}
		}
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
