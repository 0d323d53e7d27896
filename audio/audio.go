package audio

import "strings"

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"sony wh-", "sony wf-",
	"jabra", "galaxy buds", "pixel buds", "powerbeats",
	"jbl ", "sennheiser momentum", "plantronics",
	"tozo", "anker soundcore", "skullcandy",
	"bluetooth", " bt ", " bt)", " bt]",
}

// IsBluetooth reports whether a device name looks like a Bluetooth headset.
// Those usually fall back to a narrowband profile while the mic is open.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DataCallback receives interleaved frames in the stream's native format.
// It runs on the backend's real-time thread and must not block.
type DataCallback func(data []byte, frameCount uint32)

// StreamConfig is what the backend negotiated with the device.
type StreamConfig struct {
	Format     SampleFormat
	Channels   uint32
	SampleRate uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

// Context is an audio backend connection.
type Context interface {
	Devices() ([]DeviceInfo, error)
	// DefaultDevice returns nil without error when the OS has no default input.
	DefaultDevice() (*DeviceInfo, error)
	// Open prepares a capture stream in the device's native configuration.
	// No data is delivered until Start.
	Open(device DeviceInfo) (Stream, error)
	Close()
}

type Stream interface {
	Config() StreamConfig
	Start(cb DataCallback) error
	// Close stops the stream. No callback runs after Close returns.
	Close()
}
