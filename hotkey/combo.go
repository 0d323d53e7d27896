package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCombo = errors.New("invalid hotkey combination")

// Combo is a modifier set plus one key, written like "Ctrl+Shift+Space".
// Key is canonical: "Space", "A".."Z", "0".."9" or "F1".."F12".
type Combo struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Key   string
}

func canonicalKey(k string) (string, bool) {
	up := strings.ToUpper(k)
	switch {
	case up == "SPACE":
		return "Space", true
	case len(up) == 1 && (up[0] >= 'A' && up[0] <= 'Z' || up[0] >= '0' && up[0] <= '9'):
		return up, true
	case len(up) >= 2 && up[0] == 'F':
		var n int
		if _, err := fmt.Sscanf(up[1:], "%d", &n); err == nil && n >= 1 && n <= 12 && fmt.Sprint(n) == up[1:] {
			return up, true
		}
	}
	return "", false
}

func ParseCombo(s string) (Combo, error) {
	var c Combo
	parts := strings.Split(s, "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == len(parts)-1 {
			key, ok := canonicalKey(p)
			if !ok {
				return Combo{}, fmt.Errorf("%w: unsupported key %q in %q", ErrInvalidCombo, p, s)
			}
			c.Key = key
			break
		}
		switch strings.ToLower(p) {
		case "ctrl", "control":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		case "alt", "option":
			c.Alt = true
		default:
			return Combo{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidCombo, p, s)
		}
	}
	if !c.Ctrl && !c.Shift && !c.Alt {
		return Combo{}, fmt.Errorf("%w: %q needs at least one modifier", ErrInvalidCombo, s)
	}
	return c, nil
}

func (c Combo) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if c.Shift {
		parts = append(parts, "Shift")
	}
	if c.Alt {
		parts = append(parts, "Alt")
	}
	return strings.Join(append(parts, c.Key), "+")
}
