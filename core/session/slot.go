package session

import (
	"context"

	"github.com/pkg/errors"
)

// ErrEmptySlot is returned by Slot.Load when nothing is persisted.
var ErrEmptySlot = errors.New("session slot is empty")

// Slot is a single durable key holding a persisted session record.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	// Delete removes the record. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
}

// SlotFactory returns the Slot stored under key.
type SlotFactory func(key string) Slot
