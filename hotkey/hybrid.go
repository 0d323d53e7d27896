package hotkey

import (
	"sync/atomic"
	"time"
)

type Mode string

const (
	ModePTT    Mode = "ptt"
	ModeToggle Mode = "toggle"
)

// StartEvent signals that a recording should begin. The mode is provisional:
// a press held past the threshold becomes push-to-talk.
type StartEvent struct {
	Mode Mode
}

// Hybrid turns one key combination into tap-to-toggle and hold-to-talk.
// A tap starts a recording that the next press stops; a hold records until
// release.
type Hybrid struct {
	startCh  chan StartEvent
	stopCh   chan struct{}
	cancelCh chan struct{}
	toggle   atomic.Bool
}

// NewHybrid drives hk. Presses longer than longPress are push-to-talk.
func NewHybrid(hk Hotkey, longPress time.Duration) *Hybrid {
	h := &Hybrid{
		startCh:  make(chan StartEvent, 1),
		stopCh:   make(chan struct{}, 1),
		cancelCh: make(chan struct{}, 1),
	}
	go h.run(hk, longPress)
	return h
}

func (h *Hybrid) Start() <-chan StartEvent { return h.startCh }

// StopChan fires when the current recording should end, in either mode.
func (h *Hybrid) StopChan() <-chan struct{} { return h.stopCh }

// IsToggle reports whether the current recording was started by a tap.
func (h *Hybrid) IsToggle() bool { return h.toggle.Load() }

// Cancel returns a toggled recording to idle after the caller stopped it by
// other means, so the next press starts rather than stops.
func (h *Hybrid) Cancel() { notify(h.cancelCh) }

type hybridState int

const (
	stIdle hybridState = iota
	stToggleRecording
)

func (h *Hybrid) run(hk Hotkey, longPress time.Duration) {
	state := stIdle
	for {
		switch state {
		case stIdle:
			<-hk.Keydown()
			// Drop a Cancel that raced with a stop we already sent.
			select {
			case <-h.cancelCh:
			default:
			}
			h.toggle.Store(false)
			h.startCh <- StartEvent{Mode: ModeToggle}
			timer := time.NewTimer(longPress)
			select {
			case <-timer.C:
				<-hk.Keyup()
				notify(h.stopCh)
			case <-hk.Keyup():
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				h.toggle.Store(true)
				state = stToggleRecording
			}
		case stToggleRecording:
			select {
			case <-hk.Keydown():
				<-hk.Keyup()
				notify(h.stopCh)
			case <-h.cancelCh:
			}
			h.toggle.Store(false)
			state = stIdle
		}
	}
}
