package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
)

// ErrLoginInProgress is returned by TryLogin while another login runs on the same session.
var ErrLoginInProgress = errors.New("a login is already in progress")

// State of a session.
type State int

const (
	StateUnknown State = iota // not restored yet
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Snapshot is a consistent view of a session.
type Snapshot struct {
	State     State
	Principal *auth.Principal
	Busy      bool // a login is in flight
}

func (s Snapshot) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.Principal != nil
}

// Store owns the authentication lifecycle of one session.
// The Principal can only change through Restore, Login and Logout.
type Store interface {
	// Restore loads the persisted Principal, if any. Corrupt records are discarded.
	Restore(ctx context.Context)
	// Login verifies the credentials and on success stores and persists the Principal.
	// On failure the session is left unchanged. Login never returns an error.
	Login(ctx context.Context, email, password string) bool
	// TryLogin is Login that refuses to start while another login is in flight.
	TryLogin(ctx context.Context, email, password string) (bool, error)
	// Logout clears the Principal and its persisted record. It is idempotent.
	Logout(ctx context.Context)

	Current() (auth.Principal, bool)
	State() State
	Snapshot() Snapshot
}

type Options struct {
	// Latency simulates the identity provider round trip before verification.
	Latency time.Duration
	// IdleTimeout is how long a Manager keeps an unused authenticated store in memory.
	// Zero keeps it until Forget.
	IdleTimeout time.Duration
}

type store struct {
	verifier auth.CredentialVerifier
	slot     Slot
	logger   core.Logger
	opts     Options

	mu        sync.RWMutex
	state     State
	principal *auth.Principal
	inflight  int
}

var _ Store = (*store)(nil)

// NewStore returns an empty session in the StateUnknown state. Call Restore to load the persisted record.
func NewStore(verifier auth.CredentialVerifier, slot Slot, logger core.Logger, opts Options) Store {
	return &store{
		verifier: verifier,
		slot:     slot,
		logger:   logger,
		opts:     opts,
	}
}

func (s *store) Restore(ctx context.Context) {
	data, err := s.slot.Load(ctx)
	if err != nil {
		if errors.Cause(err) != ErrEmptySlot {
			s.logger.Error("loading session", errors.Wrap(err, "loading session slot"))
		}
		s.set(StateUnauthenticated, nil)
		return
	}

	p, err := auth.DecodePrincipal(data)
	if err != nil {
		s.logger.Debug("discarding corrupt session", err)
		if err = s.slot.Delete(ctx); err != nil {
			s.logger.Error("deleting corrupt session", errors.Wrap(err, "deleting session slot"))
		}
		s.set(StateUnauthenticated, nil)
		return
	}
	s.set(StateAuthenticated, &p)
}

func (s *store) Login(ctx context.Context, email, password string) bool {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
	return s.login(ctx, email, password)
}

func (s *store) TryLogin(ctx context.Context, email, password string) (bool, error) {
	s.mu.Lock()
	if s.inflight > 0 {
		s.mu.Unlock()
		return false, ErrLoginInProgress
	}
	s.inflight++
	s.mu.Unlock()
	return s.login(ctx, email, password), nil
}

// login runs with an in-flight slot reserved by the caller and releases it.
func (s *store) login(ctx context.Context, email, password string) bool {
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	if err := s.wait(ctx); err != nil {
		return false
	}

	p, err := s.verify(ctx, email, password)
	if err != nil {
		if errors.Cause(err) != auth.ErrInvalidCredentials && errors.Cause(err) != ctx.Err() {
			s.logger.Error("login failed", errors.Wrap(err, "verifying credentials"))
		}
		return false
	}

	// the caller is gone: drop the result
	if ctx.Err() != nil {
		return false
	}

	data, err := p.Encode()
	if err != nil {
		s.logger.Error("login failed", errors.Wrap(err, "encoding principal"))
		return false
	}
	s.set(StateAuthenticated, &p)

	if err = s.slot.Save(ctx, data); err != nil {
		s.logger.Error("persisting session", errors.Wrap(err, "saving session slot"), p)
	}
	return true
}

func (s *store) Logout(ctx context.Context) {
	s.set(StateUnauthenticated, nil)
	if err := s.slot.Delete(ctx); err != nil {
		s.logger.Error("deleting session", errors.Wrap(err, "deleting session slot"))
	}
}

func (s *store) Current() (auth.Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return auth.Principal{}, false
	}
	return *s.principal, true
}

func (s *store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{State: s.state, Busy: s.inflight > 0}
	if s.principal != nil {
		p := *s.principal
		snap.Principal = &p
	}
	return snap
}

func (s *store) set(state State, p *auth.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.principal = p
}

func (s *store) wait(ctx context.Context) error {
	if s.opts.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.opts.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// verify shields the store from a misbehaving verifier.
func (s *store) verify(ctx context.Context, email, password string) (p auth.Principal, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("credential verifier panicked: %v", r)
		}
	}()

	p, err = s.verifier.Verify(ctx, email, password)
	if err != nil {
		return auth.Principal{}, err
	}
	if err = p.Validate(); err != nil {
		return auth.Principal{}, errors.Wrap(err, "verifier returned an invalid principal")
	}
	return p, nil
}
