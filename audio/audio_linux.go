//go:build linux

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

type pulseContext struct {
	client *pulse.Client
}

func NewContext() (Context, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseContext{client: c}, nil
}

func (p *pulseContext) Devices() ([]DeviceInfo, error) {
	sources, err := p.client.ListSources()
	if err != nil {
		return nil, fmt.Errorf("pulse list sources: %w", err)
	}
	devices := make([]DeviceInfo, 0, len(sources))
	for _, s := range sources {
		devices = append(devices, DeviceInfo{
			ID:   s.ID(),
			Name: s.Name(),
		})
	}
	return devices, nil
}

func (p *pulseContext) DefaultDevice() (*DeviceInfo, error) {
	s, err := p.client.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("pulse default source: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	return &DeviceInfo{ID: s.ID(), Name: s.Name()}, nil
}

func (p *pulseContext) Open(device DeviceInfo) (Stream, error) {
	source, err := p.client.SourceByID(device.ID)
	if err != nil {
		return nil, fmt.Errorf("pulse source %q: %w", device.ID, err)
	}

	channels := recordChannels(source.Channels())
	return &pulseStream{
		client: p.client,
		source: source,
		config: StreamConfig{
			Format:     FormatF32,
			Channels:   channels,
			SampleRate: uint32(source.SampleRate()),
		},
	}, nil
}

// recordChannels is the layout recorded from a source: stereo for any
// multi-channel map, else mono.
func recordChannels(m proto.ChannelMap) uint32 {
	if len(m) > 1 {
		return 2
	}
	return 1
}

func (p *pulseContext) Close() {
	p.client.Close()
}

type pulseStream struct {
	client   *pulse.Client
	source   *pulse.Source
	config   StreamConfig
	callback atomic.Pointer[DataCallback]

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func (s *pulseStream) Config() StreamConfig {
	return s.config
}

func (s *pulseStream) Start(cb DataCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callback.Store(&cb)

	channels := int(s.config.Channels)
	writer := pulse.Float32Writer(func(buf []float32) (int, error) {
		if len(buf) == 0 {
			return 0, nil
		}
		cb := s.callback.Load()
		if cb == nil {
			return len(buf), nil
		}
		data := make([]byte, len(buf)*4)
		for i, v := range buf {
			binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
		}
		(*cb)(data, uint32(len(buf)/channels))
		return len(buf), nil
	})

	layout := pulse.RecordMono
	if channels == 2 {
		layout = pulse.RecordStereo
	}
	stream, err := s.client.NewRecord(writer,
		layout,
		pulse.RecordSource(s.source),
		pulse.RecordSampleRate(int(s.config.SampleRate)),
		pulse.RecordLatency(0.05),
	)
	if err != nil {
		s.callback.Store(nil)
		return fmt.Errorf("pulse record: %w", err)
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		stream.Start()
		<-s.stop
		stream.Stop()
		stream.Close()
	}()

	return nil
}

func (s *pulseStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback.Store(nil)
	if s.stop != nil {
		select {
		case <-s.stop:
		default:
			close(s.stop)
		}
		<-s.done
	}
}
