//go:build !linux

package audio

import (
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

type malgoContext struct {
	ctx *malgo.AllocatedContext
}

func NewContext() (Context, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	return &malgoContext{ctx: ctx}, nil
}

func (m *malgoContext) Devices() ([]DeviceInfo, error) {
	devices, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	result := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		result = append(result, DeviceInfo{
			ID:   hex.EncodeToString(d.ID[:]),
			Name: d.Name(),
		})
	}
	return result, nil
}

func (m *malgoContext) DefaultDevice() (*DeviceInfo, error) {
	devices, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	for _, d := range devices {
		if d.IsDefault != 0 {
			return &DeviceInfo{ID: hex.EncodeToString(d.ID[:]), Name: d.Name()}, nil
		}
	}
	return nil, nil
}

func (m *malgoContext) Open(device DeviceInfo) (Stream, error) {
	idBytes, err := hex.DecodeString(device.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid device ID: %w", err)
	}
	var devID malgo.DeviceID
	copy(devID[:], idBytes)

	// Zero format, channels and rate ask miniaudio for the device's native
	// configuration.
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatUnknown
	deviceConfig.Capture.Channels = 0
	deviceConfig.SampleRate = 0
	deviceConfig.Capture.DeviceID = devID.Pointer()

	s := &malgoStream{}
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, data []byte, frameCount uint32) {
			if cb := s.callback.Load(); cb != nil {
				(*cb)(data, frameCount)
			}
		},
	}

	dev, err := malgo.InitDevice(m.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("malgo init device: %w", err)
	}
	s.device = dev
	s.config = StreamConfig{
		Format:     fromMalgoFormat(dev.CaptureFormat()),
		Channels:   dev.CaptureChannels(),
		SampleRate: dev.SampleRate(),
	}
	return s, nil
}

func (m *malgoContext) Close() {
	_ = m.ctx.Uninit()
	m.ctx.Free()
}

func fromMalgoFormat(f malgo.FormatType) SampleFormat {
	switch f {
	case malgo.FormatU8:
		return FormatU8
	case malgo.FormatS16:
		return FormatI16
	case malgo.FormatS24:
		return FormatI24
	case malgo.FormatS32:
		return FormatI32
	case malgo.FormatF32:
		return FormatF32
	}
	return FormatUnknown
}

type malgoStream struct {
	device   *malgo.Device
	config   StreamConfig
	callback atomic.Pointer[DataCallback]
	once     sync.Once
}

func (s *malgoStream) Config() StreamConfig {
	return s.config
}

func (s *malgoStream) Start(cb DataCallback) error {
	s.callback.Store(&cb)
	if err := s.device.Start(); err != nil {
		s.callback.Store(nil)
		return fmt.Errorf("malgo start: %w", err)
	}
	return nil
}

func (s *malgoStream) Close() {
	s.once.Do(func() {
		s.callback.Store(nil)
		_ = s.device.Stop()
		s.device.Uninit()
	})
}
