// Package memslot keeps session slots in process memory.
package memslot

import (
	"context"
	"sync"

	"github.com/trezcool/koperasi/core/session"
)

// Store holds every slot of a process.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Slot returns the slot stored under key. It satisfies session.SlotFactory.
func (s *Store) Slot(key string) session.Slot {
	return slot{store: s, key: key}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

type slot struct {
	store *Store
	key   string
}

func (sl slot) Load(context.Context) ([]byte, error) {
	sl.store.mu.RLock()
	defer sl.store.mu.RUnlock()
	data, ok := sl.store.data[sl.key]
	if !ok {
		return nil, session.ErrEmptySlot
	}
	return append([]byte(nil), data...), nil
}

func (sl slot) Save(_ context.Context, data []byte) error {
	sl.store.mu.Lock()
	defer sl.store.mu.Unlock()
	sl.store.data[sl.key] = append([]byte(nil), data...)
	return nil
}

func (sl slot) Delete(context.Context) error {
	sl.store.mu.Lock()
	defer sl.store.mu.Unlock()
	delete(sl.store.data, sl.key)
	return nil
}
