package clipboard

import (
	"fmt"
	"time"

	cb "github.com/atotto/clipboard"
)

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	return cb.WriteAll(text)
}

// verifyTimeout bounds clipboard tools that hang without a display server.
var verifyTimeout = 3 * time.Second

// Verify writes a marker, reads it back, and restores the previous contents.
func Verify() (string, error) {
	type result struct {
		msg string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		prev, prevErr := cb.ReadAll()
		marker := fmt.Sprintf("clawvoice-doctor-%d", time.Now().UnixNano())
		if err := cb.WriteAll(marker); err != nil {
			ch <- result{err: fmt.Errorf("clipboard write failed: %w", err)}
			return
		}
		got, err := cb.ReadAll()
		if prevErr == nil {
			cb.WriteAll(prev)
		}
		if err != nil {
			ch <- result{err: fmt.Errorf("clipboard read failed: %w", err)}
			return
		}
		if got != marker {
			ch <- result{err: fmt.Errorf("clipboard mismatch: wrote %q, got %q", marker, got)}
			return
		}
		ch <- result{msg: "clipboard write/read verified"}
	}()

	select {
	case r := <-ch:
		return r.msg, r.err
	case <-time.After(verifyTimeout):
		return "", fmt.Errorf("clipboard timed out (no clipboard tool or display server?)")
	}
}

// Unsupported reports whether no clipboard backend exists on this system.
func Unsupported() bool {
	return cb.Unsupported
}
