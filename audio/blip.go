// Package audio plays a short tone when particles collide.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/plexus/config"
)

const sampleRate = beep.SampleRate(48000)

// Blipper plays a decaying sine blip for collisions, at most once per
// minimum interval.
type Blipper struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	freq        float64
	duration    time.Duration
	minInterval time.Duration
	last        time.Time
	now         func() time.Time
	initialized bool
}

// NewBlipper creates a blipper from audio settings. Call Initialize before
// Blip produces sound.
func NewBlipper(cfg config.AudioConfig) *Blipper {
	return &Blipper{
		mixer:       &beep.Mixer{},
		freq:        cfg.Frequency,
		duration:    time.Duration(cfg.DurationMS) * time.Millisecond,
		minInterval: time.Duration(cfg.MinIntervalMS) * time.Millisecond,
		now:         time.Now,
	}
}

// Initialize opens the speaker and starts the mixer.
func (b *Blipper) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Cleanup silences the mixer.
func (b *Blipper) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	b.initialized = false
}

// Collisions plays one blip if n > 0 and the minimum interval has passed.
// It reports whether a blip was started.
func (b *Blipper) Collisions(n int) bool {
	if n <= 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.minInterval {
		return false
	}
	b.last = now

	if !b.initialized {
		return true
	}
	tone := &effects.Volume{
		Streamer: NewBlip(b.freq, b.duration, sampleRate),
		Base:     2,
		Volume:   -1,
	}
	speaker.Lock()
	b.mixer.Add(tone)
	speaker.Unlock()
	return true
}

// blip is a sine tone with a linear decay envelope.
type blip struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// NewBlip returns a finite streamer of a decaying sine tone.
func NewBlip(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &blip{
		freq:     freq,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (s *blip) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, i > 0
		}
		env := 1 - float64(s.position)/float64(s.duration)
		val := math.Sin(2*math.Pi*s.phase) * env

		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *blip) Err() error { return nil }
