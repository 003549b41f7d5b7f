package systems

import (
	"slices"
	"testing"
)

func TestSpatialGridQuery(t *testing.T) {
	g := NewSpatialGrid(300, 300, 100)

	g.Insert(0, 50, 50)   // cell (0,0)
	g.Insert(1, 150, 50)  // cell (1,0)
	g.Insert(2, 250, 250) // cell (2,2)
	g.Insert(3, 120, 180) // cell (1,1)

	tests := []struct {
		name   string
		x, y   float64
		radius float64
		want   []int
	}{
		{"single cell", 10, 10, 5, []int{0}},
		{"neighbouring cells", 99, 99, 30, []int{0, 1, 3}},
		{"whole grid", 150, 150, 200, []int{0, 1, 2, 3}},
		{"far corner", 290, 290, 10, []int{2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := g.QueryInto(nil, tc.x, tc.y, tc.radius)
			slices.Sort(got)
			if !slices.Equal(got, tc.want) {
				t.Errorf("QueryInto(%f, %f, %f) = %v, want %v", tc.x, tc.y, tc.radius, got, tc.want)
			}
		})
	}
}

func TestSpatialGridClampsOutOfRange(t *testing.T) {
	g := NewSpatialGrid(100, 100, 50)
	g.Insert(0, -20, -20)
	g.Insert(1, 500, 500)

	if got := g.QueryInto(nil, 0, 0, 1); !slices.Equal(got, []int{0}) {
		t.Errorf("expected out-of-range insert clamped to first cell, got %v", got)
	}
	if got := g.QueryInto(nil, 100, 100, 1); !slices.Equal(got, []int{1}) {
		t.Errorf("expected out-of-range insert clamped to last cell, got %v", got)
	}
}

func TestSpatialGridClearAndResize(t *testing.T) {
	g := NewSpatialGrid(100, 100, 50)
	g.Insert(0, 10, 10)
	g.Clear()
	if got := g.QueryInto(nil, 10, 10, 100); len(got) != 0 {
		t.Errorf("expected empty grid after Clear, got %v", got)
	}

	g.Resize(400, 100)
	g.Insert(5, 390, 50)
	if got := g.QueryInto(nil, 380, 50, 5); !slices.Equal(got, []int{5}) {
		t.Errorf("expected index in resized grid, got %v", got)
	}
}
