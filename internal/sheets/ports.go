package sheets

import (
	"context"
	"errors"
)

// ErrNotFound is returned by SlotReader.Get when the slot has never been
// written.
var ErrNotFound = errors.New("slot not found")

// Ports for outbound adapters.
type (
	// SlotReader reads one named string value from a durable key-value store.
	SlotReader interface {
		Get(ctx context.Context, key string) (string, error)
	}

	// SlotWriter replaces the whole value of a named slot.
	SlotWriter interface {
		Set(ctx context.Context, key, value string) error
	}

	SlotStore interface {
		SlotReader
		SlotWriter
	}

	// SlotInspector reports on the store itself rather than on one slot.
	SlotInspector interface {
		Ping(ctx context.Context) error
		Keys(ctx context.Context) ([]string, error)
	}
)
