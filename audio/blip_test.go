package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/plexus/config"
)

func TestBlipStreamsDecayingTone(t *testing.T) {
	rate := beep.SampleRate(44100)
	s := NewBlip(660, 10*time.Millisecond, rate)
	total := rate.N(10 * time.Millisecond)

	samples := make([][2]float64, total+50)
	n, ok := s.Stream(samples)
	if !ok || n != total {
		t.Fatalf("Stream = %d, %v; want %d, true", n, ok, total)
	}
	for i := 0; i < n; i++ {
		if math.Abs(samples[i][0]) > 1 || samples[i][0] != samples[i][1] {
			t.Fatalf("sample %d invalid: %v", i, samples[i])
		}
	}

	n, ok = s.Stream(samples)
	if ok || n != 0 {
		t.Errorf("exhausted Stream = %d, %v; want 0, false", n, ok)
	}
	if s.Err() != nil {
		t.Errorf("unexpected error: %v", s.Err())
	}
}

func TestBlipperRateLimit(t *testing.T) {
	b := NewBlipper(config.AudioConfig{Frequency: 660, DurationMS: 30, MinIntervalMS: 80})
	clock := time.Unix(0, 0)
	b.now = func() time.Time { return clock }

	tests := []struct {
		name       string
		advance    time.Duration
		collisions int
		want       bool
	}{
		{"no collisions", 0, 0, false},
		{"first collision", 0, 3, true},
		{"inside interval", 50 * time.Millisecond, 1, false},
		{"after interval", 40 * time.Millisecond, 1, true},
		{"immediately after", 0, 2, false},
	}
	for _, tt := range tests {
		clock = clock.Add(tt.advance)
		if got := b.Collisions(tt.collisions); got != tt.want {
			t.Errorf("%s: Collisions(%d) = %v, want %v", tt.name, tt.collisions, got, tt.want)
		}
	}
}
