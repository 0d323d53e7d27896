package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"
)

const (
	vadMode     = 3
	vadFrameMs  = 20
	vadDebounce = 3 // consecutive speech frames to confirm voice
	vadMinRate  = 8000

	// Share of frames in a tick that must be speech.
	speechFrameRatio = 0.10
)

var ErrUnsupportedRate = errors.New("sample rate too low for voice detection")

// VAD runs WebRTC voice activity detection over captured mono float audio.
// Native rates the detector accepts are fed as-is; others are averaged down to
// 16 kHz (or 8 kHz below that).
type VAD struct {
	vad *webrtcvad.VAD

	mu         sync.Mutex
	rate       uint32
	target     int
	frameBytes int
	step       float64
	acc        float64
	sum        float64
	n          int
	buf        []byte

	voiceDetected bool
	lastVoiceTime time.Time
	speechRun     int
	totalFrames   int
	speechFrames  int
	tickTotal     int
	tickSpeech    int
}

func NewVAD() (*VAD, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	if err := v.SetMode(vadMode); err != nil {
		return nil, err
	}
	return &VAD{vad: v}, nil
}

func detectorRate(rate uint32) int {
	switch rate {
	case 8000, 16000, 32000, 48000:
		return int(rate)
	}
	if rate > 16000 {
		return 16000
	}
	return 8000
}

func (p *VAD) configure(rate uint32) error {
	if rate == p.rate {
		return nil
	}
	if rate < vadMinRate {
		return fmt.Errorf("%w: %d Hz", ErrUnsupportedRate, rate)
	}
	p.rate = rate
	p.target = detectorRate(rate)
	p.frameBytes = p.target * vadFrameMs / 1000 * 2
	p.step = float64(rate) / float64(p.target)
	p.acc, p.sum, p.n = 0, 0, 0
	p.buf = p.buf[:0]
	return nil
}

func toPCM16(s float64) uint16 {
	s = max(-1, min(1, s))
	return uint16(int16(math.Round(s * math.MaxInt16)))
}

// Process feeds samples captured at rate. Partial frames carry over to the
// next call.
func (p *VAD) Process(samples []float32, rate uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.configure(rate); err != nil {
		return err
	}
	for _, s := range samples {
		if p.step == 1 {
			p.buf = binary.LittleEndian.AppendUint16(p.buf, toPCM16(float64(s)))
			continue
		}
		p.sum += float64(s)
		p.n++
		p.acc++
		if p.acc >= p.step {
			p.buf = binary.LittleEndian.AppendUint16(p.buf, toPCM16(p.sum/float64(p.n)))
			p.acc -= p.step
			p.sum, p.n = 0, 0
		}
	}

	for len(p.buf) >= p.frameBytes {
		frame := p.buf[:p.frameBytes]
		active, err := p.vad.Process(p.target, frame)
		p.buf = p.buf[p.frameBytes:]
		if err != nil {
			continue
		}
		p.totalFrames++
		if active {
			p.speechFrames++
			p.speechRun++
			if p.voiceDetected {
				p.lastVoiceTime = time.Now()
			} else if p.speechRun >= vadDebounce {
				p.voiceDetected = true
				p.lastVoiceTime = time.Now()
			}
		} else {
			p.speechRun = 0
		}
	}
	return nil
}

func (p *VAD) VoiceDetected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voiceDetected
}

func (p *VAD) LastVoiceTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastVoiceTime
}

func (p *VAD) Stats() (total, speech int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalFrames, p.speechFrames
}

// HasSpeechTick reports whether enough frames since the previous call were
// speech. Drives SilenceMonitor.Tick.
func (p *VAD) HasSpeechTick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.totalFrames - p.tickTotal
	s := p.speechFrames - p.tickSpeech
	p.tickTotal, p.tickSpeech = p.totalFrames, p.speechFrames
	if t == 0 {
		return false
	}
	return float64(s)/float64(t) >= speechFrameRatio
}

func (p *VAD) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = p.buf[:0]
	p.acc, p.sum, p.n = 0, 0, 0
	p.voiceDetected = false
	p.lastVoiceTime = time.Time{}
	p.speechRun = 0
}

// SpeechRatio is the share of TickInterval windows in a finished recording
// that the detector hears as speech. Empty input yields 0.
func SpeechRatio(samples []float32, sampleRate uint32) (float64, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	v, err := NewVAD()
	if err != nil {
		return 0, err
	}
	win := int(uint64(sampleRate) * uint64(TickInterval) / uint64(time.Second))
	if win == 0 {
		return 0, fmt.Errorf("%w: %d Hz", ErrUnsupportedRate, sampleRate)
	}
	total, speech := 0, 0
	for pos := 0; pos < len(samples); pos += win {
		end := min(pos+win, len(samples))
		if err := v.Process(samples[pos:end], sampleRate); err != nil {
			return 0, err
		}
		total++
		if v.HasSpeechTick() {
			speech++
		}
	}
	return float64(speech) / float64(total), nil
}

// MostlySilent reports whether a finished recording falls below the speech
// ratio that triggers a live warning. Recordings the detector cannot judge
// are not reported.
func MostlySilent(samples []float32, sampleRate uint32) bool {
	ratio, err := SpeechRatio(samples, sampleRate)
	if err != nil {
		return false
	}
	return ratio < speechMinRatio
}
