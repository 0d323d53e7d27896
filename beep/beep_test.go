package beep

import (
	"math"
	"testing"
)

func TestSamplesLength(t *testing.T) {
	tests := []struct {
		cue  Cue
		want int
	}{
		{CueStart, 8820},
		{CueStop, 8820},
		{CueSilence, 2*3528 + 2205},
	}
	for _, tt := range tests {
		if got := len(Samples(tt.cue)); got != tt.want {
			t.Errorf("cue %d: %d samples, want %d", tt.cue, got, tt.want)
		}
	}
	if Samples(Cue(99)) != nil {
		t.Error("unknown cue rendered samples")
	}
}

func TestSamplesDecayAndRange(t *testing.T) {
	s := Samples(CueStart)
	peak := func(from, to int) float64 {
		var p float64
		for _, v := range s[from:to] {
			p = max(p, math.Abs(float64(v)))
		}
		return p
	}
	if head, tail := peak(0, 441), peak(len(s)-441, len(s)); tail >= head/10 {
		t.Errorf("tail peak %.4f not well below head peak %.4f", tail, head)
	}
	for i, v := range s {
		if v > 0.5 || v < -0.5 {
			t.Fatalf("sample %d = %v exceeds volume", i, v)
		}
	}
}

func TestSilenceCueHasGap(t *testing.T) {
	s := Samples(CueSilence)
	gapStart := 3528
	for i := gapStart; i < gapStart+2205; i++ {
		if s[i] != 0 {
			t.Fatalf("sample %d in gap = %v", i, s[i])
		}
	}
}
