package sse

import (
	"context"
	"errors"
	"io"
)

const DefaultChunkSize = 4096

type PumpStats struct {
	Chunks  int
	Bytes   int64
	Events  int
	Skipped int
	// Pending is the size of the trailing incomplete block, which is dropped.
	Pending int
}

// Pump reads a response body in chunks of at most chunkSize, frames it with
// a fresh Framer and calls dispatch for each event in stream order. It returns
// at EOF, on a read error, or when ctx is done.
func Pump(ctx context.Context, r io.Reader, chunkSize int, dispatch func(Event)) (PumpStats, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	framer := NewFramer()
	var stats PumpStats
	buf := make([]byte, chunkSize)

	finish := func(err error) (PumpStats, error) {
		stats.Skipped = framer.Skipped()
		stats.Pending = framer.Pending()
		return stats, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		n, err := r.Read(buf)
		if n > 0 {
			stats.Chunks++
			stats.Bytes += int64(n)
			for _, ev := range framer.Feed(buf[:n]) {
				stats.Events++
				dispatch(ev)
			}
		}
		if errors.Is(err, io.EOF) {
			return finish(nil)
		}
		if err != nil {
			return finish(err)
		}
	}
}
