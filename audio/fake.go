package audio

import (
	"errors"
	"sync"
	"time"
)

const fakeChunkFrames = 1024

var errFakeClosed = errors.New("fake stream closed")

// FakeContext is an in-memory backend for tests and offline replay.
type FakeContext struct {
	mu         sync.Mutex
	devices    []DeviceInfo
	def        *DeviceInfo
	config     StreamConfig
	devicesErr error
	defaultErr error
	openErr    error
	startErr   error
	streams    []*FakeStream

	// replay, when set, is pushed into every stream on Start.
	replay   []float32
	realtime bool
}

func NewFakeContext(devices ...DeviceInfo) *FakeContext {
	return &FakeContext{
		devices: devices,
		config:  StreamConfig{Format: FormatF32, Channels: 1, SampleRate: 48000},
	}
}

// NewReplayContext serves one device whose stream plays back samples.
// With realtime set, chunks are paced at the sample rate; otherwise Start
// delivers everything before returning.
func NewReplayContext(samples []float32, sampleRate uint32, realtime bool) *FakeContext {
	dev := DeviceInfo{ID: "replay", Name: "Replay"}
	f := NewFakeContext(dev)
	f.def = &dev
	f.config = StreamConfig{Format: FormatF32, Channels: 1, SampleRate: sampleRate}
	f.replay = samples
	f.realtime = realtime
	return f
}

func (f *FakeContext) SetDefault(d *DeviceInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.def = d
}

func (f *FakeContext) SetStreamConfig(c StreamConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config = c
}

// FailDevices makes every enumeration fail with err.
func (f *FakeContext) FailDevices(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devicesErr = err
}

func (f *FakeContext) FailDefault(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defaultErr = err
}

func (f *FakeContext) FailOpen(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openErr = err
}

func (f *FakeContext) FailStart(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startErr = err
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.devicesErr != nil {
		return nil, f.devicesErr
	}
	return append([]DeviceInfo(nil), f.devices...), nil
}

func (f *FakeContext) DefaultDevice() (*DeviceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.defaultErr != nil {
		return nil, f.defaultErr
	}
	if f.def == nil {
		return nil, nil
	}
	d := *f.def
	return &d, nil
}

func (f *FakeContext) Open(device DeviceInfo) (Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	s := &FakeStream{
		Device:   device,
		config:   f.config,
		startErr: f.startErr,
		replay:   f.replay,
		realtime: f.realtime,
		done:     make(chan struct{}),
	}
	f.streams = append(f.streams, s)
	return s, nil
}

func (f *FakeContext) Close() {}

// LastStream returns the most recently opened stream, or nil.
func (f *FakeContext) LastStream() *FakeStream {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.streams) == 0 {
		return nil
	}
	return f.streams[len(f.streams)-1]
}

type FakeStream struct {
	Device DeviceInfo

	config   StreamConfig
	startErr error
	replay   []float32
	realtime bool

	mu      sync.Mutex
	cb      DataCallback
	started bool
	closed  bool
	stopCh  chan struct{}
	feed    sync.WaitGroup
	done    chan struct{}
}

func (s *FakeStream) Config() StreamConfig { return s.config }

func (s *FakeStream) Start(cb DataCallback) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errFakeClosed
	}
	s.cb = cb
	s.started = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if s.replay != nil {
		s.feed.Add(1)
		if s.realtime {
			go s.play()
		} else {
			s.play()
		}
	}
	return nil
}

func (s *FakeStream) play() {
	defer s.feed.Done()
	defer close(s.done)

	interval := time.Duration(fakeChunkFrames) * time.Second / time.Duration(max(s.config.SampleRate, 1))
	for pos := 0; pos < len(s.replay); {
		end := min(pos+fakeChunkFrames, len(s.replay))
		s.PushFloat32(s.replay[pos:end])
		pos = end
		if !s.realtime {
			continue
		}
		select {
		case <-s.stopCh:
			return
		case <-time.After(interval):
		}
	}
}

// Done is closed once a replay stream has delivered all its samples.
func (s *FakeStream) Done() <-chan struct{} { return s.done }

// Push delivers native-format bytes to the callback as the backend would.
// It is a no-op before Start and after Close.
func (s *FakeStream) Push(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.closed || s.cb == nil {
		return
	}
	frames := uint32(0)
	if w := s.config.Format.BytesPerSample() * int(s.config.Channels); w > 0 {
		frames = uint32(len(data) / w)
	}
	s.cb(data, frames)
}

func (s *FakeStream) PushFloat32(samples []float32) {
	s.Push(Float32Bytes(samples))
}

func (s *FakeStream) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *FakeStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *FakeStream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cb = nil
	if s.stopCh != nil {
		close(s.stopCh)
	}
	s.mu.Unlock()
	s.feed.Wait()
}
