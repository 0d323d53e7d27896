package audio

import "testing"

func pttMonitor() *SilenceMonitor {
	return NewSilenceMonitor(func() bool { return false })
}

func toggleMonitor() *SilenceMonitor {
	return NewSilenceMonitor(func() bool { return true })
}

func feedN(m *SilenceMonitor, speech bool, n int) SilenceEvent {
	var last SilenceEvent
	for i := 0; i < n; i++ {
		last = m.Tick(speech)
	}
	return last
}

func TestSilenceWarnAfter8s(t *testing.T) {
	m := pttMonitor()
	for i := 0; i < 79; i++ {
		if ev := m.Tick(false); ev != SilenceNone {
			t.Fatalf("unexpected event at tick %d: %s", i, ev)
		}
	}
	if ev := m.Tick(false); ev != SilenceWarn {
		t.Fatalf("expected warn at tick 80, got %s", ev)
	}
}

func TestSilenceWarnClearsOnSpeech(t *testing.T) {
	m := pttMonitor()
	feedN(m, false, 80)

	for i := 0; i < 80; i++ {
		if m.Tick(true) == SilenceWarnClear {
			return
		}
	}
	t.Fatal("expected clear after sustained speech")
}

func TestWarnStaysDuringSparseNoise(t *testing.T) {
	m := pttMonitor()
	feedN(m, false, 80)

	for i := 0; i < 80; i++ {
		if ev := m.Tick(i%10 == 0); ev == SilenceWarnClear {
			t.Fatalf("10%% speech cleared the warning at tick %d", i)
		}
	}
}

func TestToggleAutoCloseBeatsRepeat(t *testing.T) {
	m := toggleMonitor()
	for i := 0; i < 400; i++ {
		ev := m.Tick(false)
		if ev == SilenceAutoClose {
			if i < 299 {
				t.Fatalf("auto-close too early at tick %d", i)
			}
			return
		}
		if i >= 299 && ev == SilenceRepeat {
			t.Fatalf("repeat fired at tick %d instead of auto-close", i)
		}
	}
	t.Fatal("expected auto-close within 400 ticks")
}

func TestNoAutoCloseInPTT(t *testing.T) {
	m := pttMonitor()
	warns := 0
	for i := 0; i < 400; i++ {
		switch m.Tick(false) {
		case SilenceAutoClose, SilenceRepeat:
			t.Fatalf("toggle-only event in PTT mode at tick %d", i)
		case SilenceWarn:
			warns++
		}
	}
	if warns != 1 {
		t.Fatalf("expected exactly 1 warn, got %d", warns)
	}
}

func TestRMS(t *testing.T) {
	if got := RMS([]float32{0.5, -0.5, 0.5, -0.5}); got != 0.5 {
		t.Errorf("RMS = %v, want 0.5", got)
	}
	if got := RMS(nil); got != 0 {
		t.Errorf("RMS(nil) = %v", got)
	}
}
