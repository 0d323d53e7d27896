// Package shutdown turns interrupt signals into channel closes and context
// cancellation.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// Notify relays interrupt signals to ch.
func Notify(ch chan os.Signal) {
	signal.Notify(ch, signals...)
}

// Requested returns a channel closed on the first interrupt. release stops
// listening; the channel then never closes.
func Requested() (<-chan struct{}, func()) {
	sigCh := make(chan os.Signal, 1)
	Notify(sigCh)
	req := make(chan struct{})
	quit := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			close(req)
		case <-quit:
		}
	}()
	var once sync.Once
	return req, func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(quit)
		})
	}
}

// Context is cancelled on the first interrupt or when parent is done.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}
