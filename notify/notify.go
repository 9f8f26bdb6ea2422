// Package notify fans hedge-run events out to the configured sinks.
package notify

import (
	"context"
	"log"
)

// Notifier receives one human-readable line per hedge event.
type Notifier interface {
	Notify(ctx *context.Context, message string) error
}

// Log writes events to the process log.
type Log struct{}

func (Log) Notify(ctx *context.Context, message string) error {
	log.Println(message)
	return nil
}

// Multi delivers to every sink, keeping the first error after trying all
// of them.
type Multi []Notifier

func (m Multi) Notify(ctx *context.Context, message string) error {
	var firstErr error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
