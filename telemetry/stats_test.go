package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/plexus/field"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty slice", []float64{}, Distribution{}},
		{"single element", []float64{5}, Distribution{Mean: 5, P10: 5, P50: 5, P90: 5}},
		{"deciles", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, Distribution{Mean: 5.5, Std: 3.02765, P10: 1, P50: 5, P90: 9}},
		{"constant", []float64{2, 2, 2, 2}, Distribution{Mean: 2, P10: 2, P50: 2, P90: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.values)
			for _, f := range []struct {
				label     string
				got, want float64
			}{
				{"mean", got.Mean, tt.want.Mean},
				{"std", got.Std, tt.want.Std},
				{"p10", got.P10, tt.want.P10},
				{"p50", got.P50, tt.want.P50},
				{"p90", got.P90, tt.want.P90},
			} {
				if math.Abs(f.got-f.want) > 0.001 {
					t.Errorf("%s = %v, want %v", f.label, f.got, f.want)
				}
			}
		})
	}
}

func TestDescribeDoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Describe(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(3)

	frames := []field.FrameStats{
		{Tick: 1, Links: 2, Collisions: 1, Reflections: 0, OpacitySum: 1.0},
		{Tick: 2, Links: 4, Collisions: 0, Reflections: 2, OpacitySum: 2.0},
		{Tick: 3, Links: 0, Collisions: 1, Reflections: 1, OpacitySum: 0},
	}
	for _, fs := range frames {
		if c.ShouldFlush(fs.Tick - 1) {
			t.Fatalf("flush due before tick %d", fs.Tick)
		}
		c.Record(fs)
	}
	if !c.ShouldFlush(3) {
		t.Fatal("expected flush after window")
	}

	s := c.Flush(3, []float64{1, 2, 3})

	if s.WindowStartTick != 0 || s.WindowEndTick != 3 || s.Ticks != 3 {
		t.Errorf("window bounds = %d..%d (%d ticks)", s.WindowStartTick, s.WindowEndTick, s.Ticks)
	}
	if s.Links != 6 || s.Collisions != 2 || s.Reflections != 3 {
		t.Errorf("counters = %d/%d/%d, want 6/2/3", s.Links, s.Collisions, s.Reflections)
	}
	if math.Abs(s.LinksMean-2) > 1e-9 {
		t.Errorf("links mean = %v, want 2", s.LinksMean)
	}
	if math.Abs(s.OpacityMean-0.5) > 1e-9 {
		t.Errorf("opacity mean = %v, want 0.5", s.OpacityMean)
	}
	if s.Particles != 3 || math.Abs(s.SpeedMean-2) > 1e-9 {
		t.Errorf("speed stats = %d particles, mean %v", s.Particles, s.SpeedMean)
	}

	if c.ShouldFlush(4) {
		t.Error("window not restarted after flush")
	}
	next := c.Flush(6, nil)
	if next.Links != 0 || next.Ticks != 0 || next.WindowStartTick != 3 {
		t.Errorf("counters not reset: %+v", next)
	}
}
