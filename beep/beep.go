// Package beep plays short cue tones when a recording starts, stops, or hears
// nothing.
package beep

import (
	"math"
	"sync/atomic"
	"time"
)

type Cue int

const (
	CueStart Cue = iota
	CueStop
	CueSilence
)

const sampleRate = 44100

type tone struct {
	freq   float64
	volume float64
	decay  float64
	dur    time.Duration
	// repeat plays the tick again after gap.
	repeat bool
	gap    time.Duration
}

var tones = map[Cue]tone{
	CueStart:   {freq: 1200, volume: 0.5, decay: 60, dur: 200 * time.Millisecond},
	CueStop:    {freq: 900, volume: 0.5, decay: 40, dur: 200 * time.Millisecond},
	CueSilence: {freq: 350, volume: 0.6, decay: 30, dur: 80 * time.Millisecond, repeat: true, gap: 50 * time.Millisecond},
}

var disabled atomic.Bool

// Disable silences every later Play call.
func Disable() { disabled.Store(true) }

func frames(d time.Duration) int {
	return int(math.Round(d.Seconds() * sampleRate))
}

func tick(t tone) []float32 {
	out := make([]float32, frames(t.dur))
	for i := range out {
		at := float64(i) / sampleRate
		env := math.Exp(-at * t.decay)
		out[i] = float32(math.Sin(2*math.Pi*t.freq*at) * t.volume * env)
	}
	return out
}

// Samples renders c as mono float32 at 44.1 kHz.
func Samples(c Cue) []float32 {
	t, ok := tones[c]
	if !ok {
		return nil
	}
	s := tick(t)
	if !t.repeat {
		return s
	}
	out := make([]float32, 0, 2*len(s)+frames(t.gap))
	out = append(out, s...)
	out = append(out, make([]float32, frames(t.gap))...)
	return append(out, s...)
}

// Play starts c in the background. Playback failures are ignored.
func Play(c Cue) {
	if disabled.Load() {
		return
	}
	go play(Samples(c))
}
