// Package backend defines the interface implemented by the event backends.
package backend

import (
	"context"

	"github.com/atcvoice/radio-registry/internal/events"
)

// EventHandler handles the events received by a backend.
type EventHandler interface {
	Handle(ctx context.Context, typ events.Type, payload []byte) error
}

// Backend defines the interface of an event backend.
type Backend interface {
	// Close closes the backend.
	Close() error
}
