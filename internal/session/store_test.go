package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearscrub-admin/internal/domain"
)

var errBadCredentials = errors.New("invalid credentials")

var demoIdentity = domain.Identity{ID: "1", Email: "demo@clearscrub.io", Name: "Demo User"}

type fakeAuthenticator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, email, password string) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.Identity{}, f.err
	}
	if email == demoIdentity.Email && password == "demo123" {
		return demoIdentity, nil
	}
	return domain.Identity{}, errBadCredentials
}

type recordingObserver struct {
	mu       sync.Mutex
	restores []string
	signIns  []error
	signOuts int
}

func (o *recordingObserver) ObserveRestore(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.restores = append(o.restores, outcome)
}

func (o *recordingObserver) ObserveSignIn(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.signIns = append(o.signIns, err)
}

func (o *recordingObserver) ObserveSignOut() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.signOuts++
}

// gatedSlot bloquea Load hasta que se cierre release.
type gatedSlot struct {
	*MemorySlot
	release chan struct{}
}

func newGatedSlot() *gatedSlot {
	return &gatedSlot{MemorySlot: NewMemorySlot(), release: make(chan struct{})}
}

func (s *gatedSlot) Load(ctx context.Context) ([]byte, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.MemorySlot.Load(ctx)
}

type brokenSlot struct {
	loadErr error
	saveErr error
}

func (s brokenSlot) Load(context.Context) ([]byte, error) { return nil, s.loadErr }
func (s brokenSlot) Save(context.Context, []byte) error   { return s.saveErr }
func (s brokenSlot) Clear(context.Context) error          { return s.saveErr }

func restoredStore(t *testing.T, slot Slot) *Store {
	t.Helper()
	store := NewStore(nil, slot, &fakeAuthenticator{}, nil)
	store.Restore(context.Background())
	return store
}

func TestStoreStartsLoading(t *testing.T) {
	store := NewStore(nil, NewMemorySlot(), &fakeAuthenticator{}, nil)

	assert.Equal(t, domain.SessionLoading, store.State())
	_, ok := store.CurrentIdentity()
	assert.False(t, ok)
}

func TestRestoreEmptySlotIsUnauthenticated(t *testing.T) {
	observer := &recordingObserver{}
	store := NewStore(nil, NewMemorySlot(), &fakeAuthenticator{}, observer)

	state := store.Restore(context.Background())

	assert.Equal(t, domain.SessionUnauthenticated, state)
	_, ok := store.CurrentIdentity()
	assert.False(t, ok)
	assert.Equal(t, []string{"empty"}, observer.restores)
}

func TestSignInDemoUserPersistsSnapshot(t *testing.T) {
	slot := NewMemorySlot()
	store := restoredStore(t, slot)

	identity, err := store.SignIn(context.Background(), "demo@clearscrub.io", "demo123")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", identity.Name)
	assert.Equal(t, domain.SessionAuthenticated, store.State())

	current, ok := store.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, demoIdentity, current)

	data, err := slot.Load(context.Background())
	require.NoError(t, err)
	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, demoIdentity, decoded)
}

func TestRestoreRoundTripsPersistedIdentity(t *testing.T) {
	slot := NewMemorySlot()
	first := restoredStore(t, slot)
	_, err := first.SignIn(context.Background(), "demo@clearscrub.io", "demo123")
	require.NoError(t, err)

	second := restoredStore(t, slot)

	assert.Equal(t, domain.SessionAuthenticated, second.State())
	current, ok := second.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, demoIdentity, current)
}

func TestSignInFailureLeavesSessionUnchanged(t *testing.T) {
	slot := NewMemorySlot()
	store := restoredStore(t, slot)

	_, err := store.SignIn(context.Background(), "demo@clearscrub.io", "wrong")
	require.ErrorIs(t, err, errBadCredentials)
	assert.Equal(t, domain.SessionUnauthenticated, store.State())
	_, err = slot.Load(context.Background())
	assert.ErrorIs(t, err, ErrSlotEmpty)

	_, err = store.SignIn(context.Background(), "demo@clearscrub.io", "demo123")
	require.NoError(t, err)

	_, err = store.SignIn(context.Background(), "other@clearscrub.io", "nope")
	require.ErrorIs(t, err, errBadCredentials)
	current, ok := store.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, demoIdentity, current)
}

func TestSignInPropagatesCollaboratorErrors(t *testing.T) {
	unreachable := errors.New("backend unreachable")
	observer := &recordingObserver{}
	store := NewStore(nil, NewMemorySlot(), &fakeAuthenticator{err: unreachable}, observer)
	store.Restore(context.Background())

	_, err := store.SignIn(context.Background(), "demo@clearscrub.io", "demo123")

	require.ErrorIs(t, err, unreachable)
	assert.Equal(t, domain.SessionUnauthenticated, store.State())
	require.Len(t, observer.signIns, 1)
	assert.ErrorIs(t, observer.signIns[0], unreachable)
}

func TestSignInKeepsIdentityWhenPersistFails(t *testing.T) {
	slot := brokenSlot{loadErr: ErrSlotEmpty, saveErr: errors.New("disk full")}
	store := restoredStore(t, slot)

	identity, err := store.SignIn(context.Background(), "demo@clearscrub.io", "demo123")

	require.NoError(t, err)
	assert.Equal(t, demoIdentity, identity)
	assert.Equal(t, domain.SessionAuthenticated, store.State())
}

func TestSignOutIsIdempotent(t *testing.T) {
	slot := NewMemorySlot()
	observer := &recordingObserver{}
	store := NewStore(nil, slot, &fakeAuthenticator{}, observer)
	store.Restore(context.Background())
	_, err := store.SignIn(context.Background(), "demo@clearscrub.io", "demo123")
	require.NoError(t, err)

	store.SignOut(context.Background())
	store.SignOut(context.Background())

	assert.Equal(t, domain.SessionUnauthenticated, store.State())
	_, ok := store.CurrentIdentity()
	assert.False(t, ok)
	_, err = slot.Load(context.Background())
	assert.ErrorIs(t, err, ErrSlotEmpty)
	assert.Equal(t, 2, observer.signOuts)
}

func TestSignOutIgnoresSlotErrors(t *testing.T) {
	store := restoredStore(t, brokenSlot{loadErr: ErrSlotEmpty, saveErr: errors.New("gone")})

	store.SignOut(context.Background())

	assert.Equal(t, domain.SessionUnauthenticated, store.State())
}

func TestRestoreDiscardsCorruptSnapshot(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"id":`,
		"missing name":   `{"id":"1","email":"demo@clearscrub.io"}`,
		"unknown field":  `{"id":"1","email":"demo@clearscrub.io","name":"Demo User","role":"admin"}`,
		"wrong type":     `{"id":1,"email":"demo@clearscrub.io","name":"Demo User"}`,
		"trailing value": `{"id":"1","email":"demo@clearscrub.io","name":"Demo User"} {}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			slot := NewMemorySlot()
			require.NoError(t, slot.Save(context.Background(), []byte(raw)))
			observer := &recordingObserver{}
			store := NewStore(nil, slot, &fakeAuthenticator{}, observer)

			state := store.Restore(context.Background())

			assert.Equal(t, domain.SessionUnauthenticated, state)
			_, err := slot.Load(context.Background())
			assert.ErrorIs(t, err, ErrSlotEmpty)
			assert.Equal(t, []string{"corrupt"}, observer.restores)
		})
	}
}

func TestRestoreSlotReadErrorIsUnauthenticated(t *testing.T) {
	observer := &recordingObserver{}
	store := NewStore(nil, brokenSlot{loadErr: errors.New("connection refused")}, &fakeAuthenticator{}, observer)

	state := store.Restore(context.Background())

	assert.Equal(t, domain.SessionUnauthenticated, state)
	assert.Equal(t, []string{"error"}, observer.restores)
}

func TestRestoreRunsOnce(t *testing.T) {
	slot := NewMemorySlot()
	observer := &recordingObserver{}
	store := NewStore(nil, slot, &fakeAuthenticator{}, observer)
	store.Restore(context.Background())

	data, err := EncodeSnapshot(demoIdentity)
	require.NoError(t, err)
	require.NoError(t, slot.Save(context.Background(), data))

	assert.Equal(t, domain.SessionUnauthenticated, store.Restore(context.Background()))
	assert.Len(t, observer.restores, 1)
}

func TestAwaitTimesOutWhileLoading(t *testing.T) {
	slot := newGatedSlot()
	store := NewStore(nil, slot, &fakeAuthenticator{}, nil)
	go store.Restore(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	state, err := store.Await(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.SessionLoading, state)

	close(slot.release)
	select {
	case <-store.Ready():
	case <-time.After(time.Second):
		t.Fatal("restore did not finish")
	}
	state, err = store.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SessionUnauthenticated, state)
}

func TestSignInWaitsForRestore(t *testing.T) {
	slot := newGatedSlot()
	store := NewStore(nil, slot, &fakeAuthenticator{}, nil)
	go store.Restore(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := store.SignIn(context.Background(), "demo@clearscrub.io", "demo123")
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("sign-in finished before restore")
	case <-time.After(20 * time.Millisecond):
	}

	close(slot.release)
	require.NoError(t, <-done)
	assert.Equal(t, domain.SessionAuthenticated, store.State())
}

func TestSignOutDuringRestoreWins(t *testing.T) {
	slot := newGatedSlot()
	data, err := EncodeSnapshot(demoIdentity)
	require.NoError(t, err)
	require.NoError(t, slot.Save(context.Background(), data))

	store := NewStore(nil, slot, &fakeAuthenticator{}, nil)
	finished := make(chan struct{})
	go func() {
		store.Restore(context.Background())
		close(finished)
	}()

	// El Load ya esta bloqueado; el signOut borra el slot y fija el estado.
	store.SignOut(context.Background())
	close(slot.release)
	<-finished

	assert.Equal(t, domain.SessionUnauthenticated, store.State())
	_, ok := store.CurrentIdentity()
	assert.False(t, ok)
}

func TestSyncAdoptsSlotChanges(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	store := restoredStore(t, slot)

	data, err := EncodeSnapshot(demoIdentity)
	require.NoError(t, err)
	require.NoError(t, slot.Save(ctx, data))
	assert.Equal(t, domain.SessionAuthenticated, store.Sync(ctx))
	identity, ok := store.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, demoIdentity, identity)

	require.NoError(t, slot.Clear(ctx))
	assert.Equal(t, domain.SessionUnauthenticated, store.Sync(ctx))
	_, ok = store.CurrentIdentity()
	assert.False(t, ok)
}

func TestSyncClearsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	store := restoredStore(t, slot)
	_, err := store.SignIn(ctx, "demo@clearscrub.io", "demo123")
	require.NoError(t, err)

	require.NoError(t, slot.Save(ctx, []byte("{not json")))
	assert.Equal(t, domain.SessionUnauthenticated, store.Sync(ctx))
	_, err = slot.Load(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

func TestSyncKeepsStateWhenSlotUnreadable(t *testing.T) {
	ctx := context.Background()
	slot := &flakySlot{MemorySlot: NewMemorySlot()}
	store := restoredStore(t, slot)
	_, err := store.SignIn(ctx, "demo@clearscrub.io", "demo123")
	require.NoError(t, err)

	slot.loadErr = errors.New("connection refused")
	assert.Equal(t, domain.SessionAuthenticated, store.Sync(ctx))
}

func TestSyncKeepsIdentityWhenPersistFailed(t *testing.T) {
	ctx := context.Background()
	store := restoredStore(t, brokenSlot{loadErr: ErrSlotEmpty, saveErr: errors.New("disk full")})
	_, err := store.SignIn(ctx, "demo@clearscrub.io", "demo123")
	require.NoError(t, err)

	assert.Equal(t, domain.SessionAuthenticated, store.Sync(ctx))
}

func TestSyncWhileLoadingDoesNotBlock(t *testing.T) {
	store := NewStore(nil, newGatedSlot(), &fakeAuthenticator{}, nil)
	assert.Equal(t, domain.SessionLoading, store.Sync(context.Background()))
}

// flakySlot falla Load mientras loadErr no sea nil.
type flakySlot struct {
	*MemorySlot
	loadErr error
}

func (s *flakySlot) Load(ctx context.Context) ([]byte, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemorySlot.Load(ctx)
}
