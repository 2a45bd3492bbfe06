package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/tests"
)

type fakeSlot struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
	deletes int
}

func (s *fakeSlot) Load(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.data == nil {
		return nil, ErrEmptySlot
	}
	return append([]byte(nil), s.data...), nil
}

func (s *fakeSlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *fakeSlot) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	s.data = nil
	return nil
}

type verifierFunc func(ctx context.Context, email, password string) (auth.Principal, error)

func (f verifierFunc) Verify(ctx context.Context, email, password string) (auth.Principal, error) {
	return f(ctx, email, password)
}

func newStore(t *testing.T, slot Slot, verifier ...auth.CredentialVerifier) Store {
	var v auth.CredentialVerifier = testutil.NewVerifier(t)
	if len(verifier) > 0 {
		v = verifier[0]
	}
	return NewStore(v, slot, testutil.NewLogger(), Options{})
}

func TestStore_initialState(t *testing.T) {
	st := newStore(t, new(fakeSlot))
	assert.Equal(t, StateUnknown, st.State())
	_, ok := st.Current()
	assert.False(t, ok)
	assert.False(t, st.Snapshot().IsAuthenticated())
}

func TestStore_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantOK   bool
		wantRole auth.Role
	}{
		{name: "central admin", email: "admin@example.com", password: "password", wantOK: true, wantRole: auth.RoleAdminCentral},
		{name: "branch admin", email: "branch@example.com", password: "password", wantOK: true, wantRole: auth.RoleAdminBranch},
		{name: "member", email: "member@example.com", password: "password", wantOK: true, wantRole: auth.RoleMember},
		{name: "wrong password", email: "member@example.com", password: "passw0rd"},
		{name: "unknown email", email: "ghost@example.com", password: "password"},
		{name: "empty", email: "", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := new(fakeSlot)
			st := newStore(t, slot)
			st.Restore(context.Background())

			if got := st.Login(context.Background(), tt.email, tt.password); got != tt.wantOK {
				t.Fatalf("Login() = %v; want %v", got, tt.wantOK)
			}

			p, ok := st.Current()
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, StateUnauthenticated, st.State())
				assert.Nil(t, slot.data)
				return
			}
			assert.Equal(t, StateAuthenticated, st.State())
			assert.Equal(t, tt.wantRole, p.Role)
			if p.Role == auth.RoleAdminBranch {
				assert.NotEmpty(t, p.Branch)
			} else {
				assert.Empty(t, p.Branch)
			}

			persisted, err := auth.DecodePrincipal(slot.data)
			require.NoError(t, err)
			assert.Equal(t, p, persisted)
		})
	}
}

func TestStore_Login_failureLeavesSessionUnchanged(t *testing.T) {
	slot := new(fakeSlot)
	st := newStore(t, slot)
	st.Restore(context.Background())
	require.True(t, st.Login(context.Background(), "member@example.com", "password"))
	before := st.Snapshot()
	data := append([]byte(nil), slot.data...)

	assert.False(t, st.Login(context.Background(), "admin@example.com", "wrong"))
	assert.Equal(t, before, st.Snapshot())
	assert.Equal(t, data, slot.data)
}

func TestStore_Login_verifierFailures(t *testing.T) {
	tests := []struct {
		name     string
		verifier verifierFunc
	}{
		{
			name: "error",
			verifier: func(context.Context, string, string) (auth.Principal, error) {
				return auth.Principal{}, errors.New("connection refused")
			},
		},
		{
			name: "panic",
			verifier: func(context.Context, string, string) (auth.Principal, error) {
				panic("boom")
			},
		},
		{
			name: "invalid principal",
			verifier: func(context.Context, string, string) (auth.Principal, error) {
				return auth.Principal{ID: "9", Name: "X", Email: "x@x.io", Role: auth.RoleAdminBranch}, nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := new(fakeSlot)
			st := newStore(t, slot, tt.verifier)
			st.Restore(context.Background())

			assert.False(t, st.Login(context.Background(), "admin@example.com", "password"))
			assert.Equal(t, StateUnauthenticated, st.State())
			assert.Nil(t, slot.data)
		})
	}
}

func TestStore_Login_cancelledDiscardsResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	verifier := verifierFunc(func(context.Context, string, string) (auth.Principal, error) {
		cancel() // the caller goes away while the request is in flight
		return testutil.Principal(t, auth.RoleMember), nil
	})

	slot := new(fakeSlot)
	st := newStore(t, slot, verifier)
	st.Restore(context.Background())

	assert.False(t, st.Login(ctx, "member@example.com", "password"))
	assert.Equal(t, StateUnauthenticated, st.State())
	assert.Nil(t, slot.data)
}

func TestStore_Login_latency(t *testing.T) {
	st := NewStore(testutil.NewVerifier(t), new(fakeSlot), testutil.NewLogger(), Options{Latency: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, st.Login(ctx, "member@example.com", "password"))
	assert.False(t, st.Snapshot().Busy)
}

func TestStore_Login_busy(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	verifier := verifierFunc(func(context.Context, string, string) (auth.Principal, error) {
		close(entered)
		<-release
		return testutil.Principal(t, auth.RoleMember), nil
	})
	st := newStore(t, new(fakeSlot), verifier)

	done := make(chan bool)
	go func() { done <- st.Login(context.Background(), "member@example.com", "password") }()

	<-entered
	assert.True(t, st.Snapshot().Busy)
	close(release)
	assert.True(t, <-done)
	assert.False(t, st.Snapshot().Busy)
}

func TestStore_Login_persistFailure(t *testing.T) {
	slot := &fakeSlot{saveErr: errors.New("disk full")}
	st := newStore(t, slot)
	assert.True(t, st.Login(context.Background(), "member@example.com", "password"))
	assert.Equal(t, StateAuthenticated, st.State())
}

func TestStore_Logout(t *testing.T) {
	slot := new(fakeSlot)
	st := newStore(t, slot)
	st.Restore(context.Background())
	require.True(t, st.Login(context.Background(), "admin@example.com", "password"))

	st.Logout(context.Background())
	_, ok := st.Current()
	assert.False(t, ok)
	assert.Equal(t, StateUnauthenticated, st.State())
	assert.Nil(t, slot.data)
	once := st.Snapshot()

	// idempotent
	st.Logout(context.Background())
	assert.Equal(t, once, st.Snapshot())
	assert.Nil(t, slot.data)
}

func TestStore_Logout_withoutSession(t *testing.T) {
	st := newStore(t, new(fakeSlot))
	st.Restore(context.Background())
	st.Logout(context.Background())
	assert.Equal(t, StateUnauthenticated, st.State())
}

func TestStore_Restore(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		slot := new(fakeSlot)
		first := newStore(t, slot)
		first.Restore(context.Background())
		require.True(t, first.Login(context.Background(), "branch@example.com", "password"))
		want, _ := first.Current()

		// restart
		second := newStore(t, slot)
		second.Restore(context.Background())
		got, ok := second.Current()
		require.True(t, ok)
		assert.Equal(t, StateAuthenticated, second.State())
		assert.Equal(t, want, got)
	})

	tests := []struct {
		name        string
		slot        *fakeSlot
		wantDeletes int
	}{
		{name: "empty", slot: new(fakeSlot)},
		{name: "not json", slot: &fakeSlot{data: []byte("{not json")}, wantDeletes: 1},
		{name: "unknown role", slot: &fakeSlot{data: []byte(`{"id":"1","name":"A","email":"a@x.io","role":"root"}`)}, wantDeletes: 1},
		{name: "branch admin without branch", slot: &fakeSlot{data: []byte(`{"id":"2","name":"B","email":"b@x.io","role":"admin_branch"}`)}, wantDeletes: 1},
		{name: "load error", slot: &fakeSlot{loadErr: errors.New("i/o timeout")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newStore(t, tt.slot)
			st.Restore(context.Background())

			assert.Equal(t, StateUnauthenticated, st.State())
			_, ok := st.Current()
			assert.False(t, ok)
			assert.Equal(t, tt.wantDeletes, tt.slot.deletes)
		})
	}
}

func TestStore_TryLogin_busy(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	verifier := verifierFunc(func(context.Context, string, string) (auth.Principal, error) {
		close(entered)
		<-release
		return testutil.Principal(t, auth.RoleMember), nil
	})
	st := newStore(t, new(fakeSlot), verifier)

	done := make(chan bool)
	go func() {
		ok, err := st.TryLogin(context.Background(), "member@example.com", "password")
		assert.NoError(t, err)
		done <- ok
	}()
	<-entered

	ok, err := st.TryLogin(context.Background(), "admin@example.com", "password")
	assert.False(t, ok)
	assert.Equal(t, ErrLoginInProgress, err)

	close(release)
	assert.True(t, <-done)
	p, _ := st.Current()
	assert.Equal(t, auth.RoleMember, p.Role)

	// the slot is free again
	ok, err = st.TryLogin(context.Background(), "member@example.com", "nope")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_TryLogin_concurrent(t *testing.T) {
	release := make(chan struct{})
	verifier := verifierFunc(func(context.Context, string, string) (auth.Principal, error) {
		<-release
		return testutil.Principal(t, auth.RoleMember), nil
	})
	st := newStore(t, new(fakeSlot), verifier)

	const n = 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		busy  int
		start = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := st.TryLogin(context.Background(), "member@example.com", "password"); err == ErrLoginInProgress {
				mu.Lock()
				busy++
				mu.Unlock()
			}
		}()
	}
	close(start)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return busy == n-1
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, n-1, busy)
}

func newManager(t *testing.T, slots map[string]*fakeSlot, opts Options) *Manager {
	var mu sync.Mutex
	factory := func(key string) Slot {
		mu.Lock()
		defer mu.Unlock()
		if _, ok := slots[key]; !ok {
			slots[key] = new(fakeSlot)
		}
		return slots[key]
	}
	return NewManager(testutil.NewVerifier(t), factory, testutil.NewLogger(), "user", opts)
}

func TestManager(t *testing.T) {
	slots := make(map[string]*fakeSlot)
	m := newManager(t, slots, Options{})
	ctx := context.Background()

	st := m.Get(ctx, "abc")
	assert.Equal(t, StateUnauthenticated, st.State())
	assert.Same(t, st, m.Get(ctx, "abc"))
	require.True(t, st.Login(ctx, "member@example.com", "password"))
	assert.NotNil(t, slots["user:abc"].data)
	m.Release("abc")
	m.Release("abc")

	// other sessions are independent
	other := m.Get(ctx, "xyz")
	assert.Equal(t, StateUnauthenticated, other.State())
	m.Release("xyz")

	// a forgotten session is restored from its slot
	m.Forget("abc")
	_, ok := m.Lookup("abc")
	assert.False(t, ok)
	restored := m.Get(ctx, "abc")
	assert.Equal(t, StateAuthenticated, restored.State())
	m.Release("abc")
	assert.Equal(t, 1, m.Len())
}

func TestManager_Release(t *testing.T) {
	m := newManager(t, make(map[string]*fakeSlot), Options{})
	ctx := context.Background()

	// anonymous sessions are not kept once released
	for i := 0; i < 1000; i++ {
		sid := fmt.Sprintf("anon-%d", i)
		m.Get(ctx, sid)
		m.Release(sid)
	}
	assert.Zero(t, m.Len())

	// a store in use is kept until its last user releases it
	m.Get(ctx, "abc")
	m.Get(ctx, "abc")
	m.Release("abc")
	assert.Equal(t, 1, m.Len())
	m.Release("abc")
	assert.Zero(t, m.Len())

	// an authenticated store is kept
	st := m.Get(ctx, "abc")
	require.True(t, st.Login(ctx, "member@example.com", "password"))
	m.Release("abc")
	assert.Equal(t, 1, m.Len())

	// a logged out store is dropped on release
	st = m.Get(ctx, "abc")
	st.Logout(ctx)
	m.Release("abc")
	assert.Zero(t, m.Len())

	m.Release("unknown")
	assert.Zero(t, m.Len())
}

func TestManager_idleEviction(t *testing.T) {
	slots := make(map[string]*fakeSlot)
	m := newManager(t, slots, Options{IdleTimeout: time.Hour})
	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for _, sid := range []string{"a", "b", "c"} {
		st := m.Get(ctx, sid)
		require.True(t, st.Login(ctx, "member@example.com", "password"))
		m.Release(sid)
	}
	held := m.Get(ctx, "held")
	require.True(t, held.Login(ctx, "admin@example.com", "password"))
	assert.Equal(t, 4, m.Len())

	now = now.Add(30 * time.Minute)
	m.Get(ctx, "b")
	m.Release("b")
	assert.Equal(t, 4, m.Len())

	// a and c expired, b was used recently, held is still in use
	now = now.Add(45 * time.Minute)
	m.Get(ctx, "b")
	m.Release("b")
	assert.Equal(t, 2, m.Len())
	_, ok := m.Lookup("a")
	assert.False(t, ok)
	_, ok = m.Lookup("held")
	assert.True(t, ok)

	// the persisted record outlives the in-memory store
	assert.Equal(t, StateAuthenticated, m.Get(ctx, "a").State())
	m.Release("a")

	// once the record is gone, the session is anonymous again
	slots["user:c"].data = nil
	assert.Equal(t, StateUnauthenticated, m.Get(ctx, "c").State())
	m.Release("c")
}

type blockingSlot struct {
	fakeSlot
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSlot) Load(ctx context.Context) ([]byte, error) {
	close(s.entered)
	<-s.release
	return s.fakeSlot.Load(ctx)
}

func TestManager_Get_restoreOutsideLock(t *testing.T) {
	slow := &blockingSlot{entered: make(chan struct{}), release: make(chan struct{})}
	factory := func(key string) Slot {
		if key == "user:slow" {
			return slow
		}
		return new(fakeSlot)
	}
	m := NewManager(testutil.NewVerifier(t), factory, testutil.NewLogger(), "user", Options{})
	ctx := context.Background()

	restored := make(chan Store)
	go func() { restored <- m.Get(ctx, "slow") }()
	<-slow.entered

	fast := make(chan Store)
	go func() { fast <- m.Get(ctx, "fast") }()
	select {
	case st := <-fast:
		assert.Equal(t, StateUnauthenticated, st.State())
	case <-time.After(time.Second):
		t.Fatal("Get() blocked by the restore of another session")
	}

	close(slow.release)
	assert.Equal(t, StateUnauthenticated, (<-restored).State())
}
