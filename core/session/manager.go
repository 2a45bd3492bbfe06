package session

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
)

// Manager keeps one Store per client session, each persisted under "<prefix>:<sid>".
//
// Every Get must be paired with a Release. A released Store without a principal
// is dropped at once, an authenticated one once it has been idle for
// Options.IdleTimeout. A dropped session is restored from its slot on next use.
type Manager struct {
	verifier  auth.CredentialVerifier
	newSlot   SlotFactory
	logger    core.Logger
	opts      Options
	keyPrefix string
	now       func() time.Time

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

type entry struct {
	store    Store
	restore  sync.Once
	refs     int
	lastSeen time.Time
}

func NewManager(verifier auth.CredentialVerifier, newSlot SlotFactory, logger core.Logger, keyPrefix string, opts Options) *Manager {
	return &Manager{
		verifier:  verifier,
		newSlot:   newSlot,
		logger:    logger,
		opts:      opts,
		keyPrefix: keyPrefix,
		now:       time.Now,
		entries:   make(map[string]*entry),
	}
}

// Key returns the slot key of a session id.
func (m *Manager) Key(sid string) string {
	return m.keyPrefix + ":" + sid
}

// Get returns the Store of sid, restoring it from its slot the first time it is seen.
func (m *Manager) Get(ctx context.Context, sid string) Store {
	m.mu.Lock()
	now := m.now()
	m.sweep(now)
	e, ok := m.entries[sid]
	if !ok {
		e = &entry{store: NewStore(m.verifier, m.newSlot(m.Key(sid)), m.logger, m.opts)}
		m.entries[sid] = e
	}
	e.refs++
	e.lastSeen = now
	m.mu.Unlock()

	// slot I/O runs outside the manager lock; callers of the same sid wait for it
	e.restore.Do(func() { e.store.Restore(ctx) })
	return e.store
}

// Release ends a use of the Store of sid returned by Get.
func (m *Manager) Release(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sid]
	if !ok {
		return
	}
	if e.refs > 0 {
		e.refs--
	}
	e.lastSeen = m.now()
	if e.refs > 0 {
		return
	}
	if snap := e.store.Snapshot(); !snap.IsAuthenticated() && !snap.Busy {
		delete(m.entries, sid)
	}
}

// sweep drops the unused stores idle for longer than the idle timeout.
// It runs at most once per timeout. m.mu must be held.
func (m *Manager) sweep(now time.Time) {
	idle := m.opts.IdleTimeout
	if idle <= 0 || now.Sub(m.lastSweep) < idle {
		return
	}
	m.lastSweep = now
	for sid, e := range m.entries {
		if e.refs == 0 && now.Sub(e.lastSeen) > idle {
			delete(m.entries, sid)
		}
	}
}

// Lookup returns the Store of sid only if it is already loaded.
func (m *Manager) Lookup(sid string) (Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[sid]; ok {
		return e.store, true
	}
	return nil, false
}

// Forget drops the in-memory Store of sid. Its slot is left untouched.
func (m *Manager) Forget(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sid)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
