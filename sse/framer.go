package sse

import (
	"bytes"
	"strings"
)

var separator = []byte("\n\n")

// Framer reassembles events from arbitrarily split chunks of one response
// stream. It is not safe for concurrent use and has no reset: use a new
// Framer per stream.
type Framer struct {
	buf     []byte
	skipped int
	lastErr error
}

func NewFramer() *Framer {
	return &Framer{}
}

// Feed appends chunk and returns every event completed by it, in order.
// Blocks that fail to parse are dropped. After Feed returns the buffer holds at
// most one incomplete block.
func (f *Framer) Feed(chunk []byte) []Event {
	f.buf = append(f.buf, chunk...)

	var events []Event
	start := 0
	for {
		i := bytes.Index(f.buf[start:], separator)
		if i < 0 {
			break
		}
		// Decode only whole blocks so a code point split across chunks
		// survives.
		block := strings.ToValidUTF8(string(f.buf[start:start+i]), "\uFFFD")
		start += i + len(separator)

		ev, err := ParseBlock(block)
		if err != nil {
			f.skipped++
			f.lastErr = err
			continue
		}
		events = append(events, ev)
	}

	if start > 0 {
		n := copy(f.buf, f.buf[start:])
		f.buf = f.buf[:n]
	}
	return events
}

func (f *Framer) FeedString(chunk string) []Event {
	return f.Feed([]byte(chunk))
}

// Skipped is the number of blocks dropped as malformed so far.
func (f *Framer) Skipped() int {
	return f.skipped
}

// LastError is why the most recent block was dropped, or nil.
func (f *Framer) LastError() error {
	return f.lastErr
}

// Pending is the number of buffered bytes of an incomplete block.
func (f *Framer) Pending() int {
	return len(f.buf)
}
