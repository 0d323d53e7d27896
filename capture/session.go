// Package capture records one microphone stream at a time into a mono float
// buffer.
package capture

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"clawvoice/audio"
	"clawvoice/encoder"
)

var (
	ErrAlreadyRecording     = errors.New("already recording")
	ErrNotRecording         = errors.New("not recording")
	ErrStreamNotInitialized = errors.New("recording stream not initialized")
	ErrMissingSampleRate    = errors.New("recording sample rate missing")
)

// Recording is the drained result of a session.
type Recording struct {
	Samples    []float32
	SampleRate uint32
}

func (r Recording) Duration() time.Duration {
	if r.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(r.Samples)) * time.Second / time.Duration(r.SampleRate)
}

// Session is the process-wide capture state. The recording flag alone decides
// Start/Stop exclusivity. The buffer, stream and rate each have their own lock
// and no two are held at once.
type Session struct {
	catalog *audio.Catalog
	ctx     audio.Context

	recording atomic.Bool
	level     atomic.Uint32 // float32 bits, RMS of the latest callback
	tap       atomic.Pointer[Tap]

	samplesMu sync.Mutex
	samples   []float32

	streamMu sync.Mutex
	stream   audio.Stream

	rateMu     sync.Mutex
	sampleRate *uint32
}

// Tap receives each converted mono chunk on the audio thread.
type Tap func(mono []float32, sampleRate uint32)

func NewSession(ctx audio.Context) *Session {
	return &Session{ctx: ctx, catalog: audio.NewCatalog(ctx)}
}

// Start opens the selected device (empty selector means the OS default) in
// its native format and begins buffering. On any failure the session is left
// idle.
func (s *Session) Start(selector string) error {
	if !s.recording.CompareAndSwap(false, true) {
		return ErrAlreadyRecording
	}
	if err := s.start(selector); err != nil {
		s.discard()
		s.recording.Store(false)
		return err
	}
	return nil
}

func (s *Session) start(selector string) error {
	device, err := s.catalog.Resolve(selector)
	if err != nil {
		return err
	}

	stream, err := s.ctx.Open(device)
	if err != nil {
		return fmt.Errorf("opening %q: %w", device.Name, err)
	}
	cfg := stream.Config()
	if !cfg.Format.Supported() {
		stream.Close()
		return fmt.Errorf("%w: %s", audio.ErrUnsupportedSampleFormat, cfg.Format)
	}

	s.samplesMu.Lock()
	s.samples = s.samples[:0]
	s.samplesMu.Unlock()
	s.level.Store(0)

	rate := cfg.SampleRate
	s.rateMu.Lock()
	s.sampleRate = &rate
	s.rateMu.Unlock()

	s.streamMu.Lock()
	s.stream = stream
	s.streamMu.Unlock()

	if err := stream.Start(s.callback(cfg)); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}
	return nil
}

// callback converts outside the lock so the real-time thread only holds it to
// append.
func (s *Session) callback(cfg audio.StreamConfig) audio.DataCallback {
	return func(data []byte, _ uint32) {
		mono := audio.FirstChannel(data, cfg.Format, cfg.Channels)
		if len(mono) == 0 {
			return
		}
		s.level.Store(math.Float32bits(float32(audio.RMS(mono))))

		s.samplesMu.Lock()
		s.samples = append(s.samples, mono...)
		s.samplesMu.Unlock()

		if tap := s.tap.Load(); tap != nil {
			(*tap)(mono, cfg.SampleRate)
		}
	}
}

// SetTap installs fn to see captured audio as it arrives. nil removes it.
func (s *Session) SetTap(fn Tap) {
	if fn == nil {
		s.tap.Store(nil)
		return
	}
	s.tap.Store(&fn)
}

func (s *Session) discard() {
	s.streamMu.Lock()
	stream := s.stream
	s.stream = nil
	s.streamMu.Unlock()
	if stream != nil {
		stream.Close()
	}

	s.samplesMu.Lock()
	s.samples = nil
	s.samplesMu.Unlock()

	s.rateMu.Lock()
	s.sampleRate = nil
	s.rateMu.Unlock()
}

// StopRecording closes the stream and drains what was captured. Zero frames
// is a valid recording.
func (s *Session) StopRecording() (Recording, error) {
	if !s.recording.Swap(false) {
		return Recording{}, ErrNotRecording
	}

	s.streamMu.Lock()
	stream := s.stream
	s.stream = nil
	s.streamMu.Unlock()
	if stream == nil {
		return Recording{}, ErrStreamNotInitialized
	}
	// No callback runs once Close returns, so the drain below is complete.
	stream.Close()

	s.samplesMu.Lock()
	samples := s.samples
	s.samples = nil
	s.samplesMu.Unlock()

	s.rateMu.Lock()
	rate := s.sampleRate
	s.sampleRate = nil
	s.rateMu.Unlock()
	if rate == nil {
		return Recording{}, ErrMissingSampleRate
	}

	return Recording{Samples: samples, SampleRate: *rate}, nil
}

// Stop ends the recording and returns it as a WAV file.
func (s *Session) Stop() ([]byte, error) {
	rec, err := s.StopRecording()
	if err != nil {
		return nil, err
	}
	return encoder.EncodeWAV(rec.Samples, rec.SampleRate)
}

func (s *Session) Recording() bool {
	return s.recording.Load()
}

// Level is the RMS of the most recent callback, 0 when idle.
func (s *Session) Level() float64 {
	if !s.recording.Load() {
		return 0
	}
	return float64(math.Float32frombits(s.level.Load()))
}

// Captured is the number of frames buffered so far.
func (s *Session) Captured() int {
	s.samplesMu.Lock()
	defer s.samplesMu.Unlock()
	return len(s.samples)
}

// StreamConfig is the native configuration of the open stream. ok is false
// while idle.
func (s *Session) StreamConfig() (cfg audio.StreamConfig, ok bool) {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()
	if s.stream == nil {
		return audio.StreamConfig{}, false
	}
	return s.stream.Config(), true
}
