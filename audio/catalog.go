package audio

import (
	"errors"
	"fmt"

	"clawvoice/log"
)

var (
	ErrDeviceEnumeration       = errors.New("device enumeration failed")
	ErrNoDefaultDevice         = errors.New("no default input device available")
	ErrDeviceNotFound          = errors.New("input device not found")
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")
)

// InputDevice is one entry of an enumeration. It has no identity beyond the
// backend's current device list.
type InputDevice struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	IsDefault bool   `json:"isDefault"`
}

// Catalog answers device questions against a backend Context.
type Catalog struct {
	ctx Context
}

func NewCatalog(ctx Context) *Catalog {
	return &Catalog{ctx: ctx}
}

// ListInputDevices enumerates capture devices and marks the OS default. A
// device is the default if its ID matches, or failing that its name matches:
// some backends report unstable IDs but stable names.
//
// Any backend error fails the whole enumeration, including one device with
// unreadable metadata.
func (c *Catalog) ListInputDevices() ([]InputDevice, error) {
	devices, err := c.ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceEnumeration, err)
	}

	// A failed default lookup only means nothing gets marked.
	def, err := c.ctx.DefaultDevice()
	if err != nil {
		log.Debugf("default device lookup failed: %v", err)
	}

	entries := make([]InputDevice, 0, len(devices))
	for _, d := range devices {
		entries = append(entries, InputDevice{
			Name:      d.Name,
			ID:        d.ID,
			IsDefault: isDefault(d, def),
		})
	}
	return entries, nil
}

func isDefault(d DeviceInfo, def *DeviceInfo) bool {
	if def == nil {
		return false
	}
	if def.ID != "" && d.ID == def.ID {
		return true
	}
	return def.Name != "" && d.Name == def.Name
}

// ResolveDevice finds a device by ID, then by display name.
func (c *Catalog) ResolveDevice(selector string) (DeviceInfo, error) {
	devices, err := c.ctx.Devices()
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("%w: %v", ErrDeviceEnumeration, err)
	}
	for _, d := range devices {
		if d.ID == selector {
			return d, nil
		}
	}
	for _, d := range devices {
		if d.Name == selector {
			return d, nil
		}
	}
	return DeviceInfo{}, fmt.Errorf("%w: %q", ErrDeviceNotFound, selector)
}

func (c *Catalog) DefaultDevice() (DeviceInfo, error) {
	def, err := c.ctx.DefaultDevice()
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("%w: %v", ErrNoDefaultDevice, err)
	}
	if def == nil {
		return DeviceInfo{}, ErrNoDefaultDevice
	}
	return *def, nil
}

// Resolve picks the device for a selector; empty means the OS default.
func (c *Catalog) Resolve(selector string) (DeviceInfo, error) {
	if selector == "" {
		return c.DefaultDevice()
	}
	return c.ResolveDevice(selector)
}
