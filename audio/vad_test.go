package audio

import (
	"errors"
	"math"
	"testing"
)

func hum(rate uint32, ms int, freq, amp, offset float64) []float32 {
	n := int(rate) * ms / 1000
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(offset + amp*math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func newTestVAD(t *testing.T) *VAD {
	t.Helper()
	v, err := NewVAD()
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestVADSilence(t *testing.T) {
	v := newTestVAD(t)
	if err := v.Process(make([]float32, 3200), 16000); err != nil {
		t.Fatal(err)
	}
	if v.VoiceDetected() {
		t.Error("expected no voice on silence")
	}
	if total, speech := v.Stats(); total != 10 || speech != 0 {
		t.Errorf("Stats() = %d, %d, want 10 frames, 0 speech", total, speech)
	}
	if !v.LastVoiceTime().IsZero() {
		t.Error("expected zero LastVoiceTime on silence")
	}
}

func TestVADNativeRates(t *testing.T) {
	for _, rate := range []uint32{8000, 16000, 32000, 48000} {
		v := newTestVAD(t)
		// 100 ms is five 20 ms frames at any accepted rate.
		if err := v.Process(make([]float32, rate/10), rate); err != nil {
			t.Fatalf("%d Hz: %v", rate, err)
		}
		if total, _ := v.Stats(); total != 5 {
			t.Errorf("%d Hz: %d frames, want 5", rate, total)
		}
	}
}

func TestVADResamplesOddRates(t *testing.T) {
	v := newTestVAD(t)
	// 210 ms at 44.1 kHz in chunks that do not line up with frames.
	silence := make([]float32, 9261)
	for i := 0; i < len(silence); i += 37 {
		if err := v.Process(silence[i:min(i+37, len(silence))], 44100); err != nil {
			t.Fatal(err)
		}
	}
	if total, _ := v.Stats(); total != 10 {
		t.Errorf("%d frames, want 10", total)
	}
	if v.VoiceDetected() {
		t.Error("expected no voice on silence with odd chunks")
	}
}

func TestVADRejectsLowRate(t *testing.T) {
	v := newTestVAD(t)
	if err := v.Process(make([]float32, 400), 4000); !errors.Is(err, ErrUnsupportedRate) {
		t.Fatalf("err = %v, want ErrUnsupportedRate", err)
	}
	if _, err := SpeechRatio(make([]float32, 400), 4000); !errors.Is(err, ErrUnsupportedRate) {
		t.Fatalf("SpeechRatio err = %v, want ErrUnsupportedRate", err)
	}
}

func TestHasSpeechTickWithoutFrames(t *testing.T) {
	v := newTestVAD(t)
	v.Process(make([]float32, 100), 16000) // under one frame
	if v.HasSpeechTick() {
		t.Error("tick without frames reported speech")
	}
}

func TestVADReset(t *testing.T) {
	v := newTestVAD(t)
	v.Process(hum(16000, 200, 440, 0.5, 0), 16000)
	v.Reset()
	if v.VoiceDetected() {
		t.Error("expected no voice after reset")
	}
	if !v.LastVoiceTime().IsZero() {
		t.Error("expected zero LastVoiceTime after reset")
	}
}

// Steady low-frequency noise is loud enough to pass a level threshold but is
// not speech.
func TestSteadyHumIsMostlySilent(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		rate    uint32
	}{
		{"dc offset", hum(48000, 3000, 0, 0, 0.05), 48000},
		{"mains hum", hum(48000, 3000, 50, 0.015, 0.02), 48000},
		{"mains hum 44.1k", hum(44100, 3000, 50, 0.015, 0.02), 44100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if RMS(tt.samples) < 0.01 {
				t.Fatalf("test signal too quiet: RMS %v", RMS(tt.samples))
			}
			ratio, err := SpeechRatio(tt.samples, tt.rate)
			if err != nil {
				t.Fatal(err)
			}
			if ratio >= speechMinRatio {
				t.Errorf("SpeechRatio = %.2f, want below %.2f", ratio, speechMinRatio)
			}
			if !MostlySilent(tt.samples, tt.rate) {
				t.Error("steady hum not reported as mostly silent")
			}
		})
	}
}

func TestSpeechRatioEmpty(t *testing.T) {
	got, err := SpeechRatio(nil, 16000)
	if err != nil || got != 0 {
		t.Errorf("SpeechRatio(nil) = %v, %v", got, err)
	}
	if !MostlySilent(make([]float32, 16000), 16000) {
		t.Error("all-zero recording not reported as mostly silent")
	}
}
