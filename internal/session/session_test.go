// ABOUTME: Tests for the observable session store
// ABOUTME: Covers round-trip, idempotent clear, observer fan-out, and storage failures

package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next(t *testing.T, ch <-chan Session) Session {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "session stream closed")
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session")
	}
	return Session{}
}

func TestStore_SaveThenObserve(t *testing.T) {
	store, err := Open(NewMemoryBackend(Session{}))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Save(ctx, "t1", "u1"))

	got := next(t, store.Observe(ctx))
	assert.Equal(t, Session{Token: "t1", Username: "u1"}, got)
}

func TestStore_ClearThenObserve(t *testing.T) {
	store, err := Open(NewMemoryBackend(Session{Token: "t1", Username: "u1"}))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Clear(ctx))

	got := next(t, store.Observe(ctx))
	assert.Equal(t, Session{}, got)
	assert.False(t, got.Active())
}

func TestStore_ClearTwice(t *testing.T) {
	backend := NewMemoryBackend(Session{Token: "t1", Username: "u1"})
	store, err := Open(backend)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, Session{}, store.Current())

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, Session{}, store.Current())

	persisted, _ := backend.Load()
	assert.Equal(t, Session{}, persisted)
}

func TestStore_ObserversReceiveChangesInOrder(t *testing.T) {
	store, err := Open(NewMemoryBackend(Session{}))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := store.Observe(ctx)
	b := store.Observe(ctx)
	assert.Equal(t, Session{}, next(t, a))
	assert.Equal(t, Session{}, next(t, b))

	require.NoError(t, store.Save(ctx, "t1", "alice"))
	assert.Equal(t, "t1", next(t, a).Token)
	assert.Equal(t, "t1", next(t, b).Token)

	require.NoError(t, store.Clear(ctx))
	assert.False(t, next(t, a).Active())
	assert.False(t, next(t, b).Active())
}

func TestStore_SaveRejectsIncompleteSession(t *testing.T) {
	backend := NewMemoryBackend(Session{})
	store, err := Open(backend)
	require.NoError(t, err)

	err = store.Save(context.Background(), "", "alice")
	assert.ErrorIs(t, err, ErrIncompleteSession)

	err = store.Save(context.Background(), "tok", "")
	assert.ErrorIs(t, err, ErrIncompleteSession)

	assert.Equal(t, 0, backend.Writes())
}

func TestStore_StorageErrorLeavesValueUnchanged(t *testing.T) {
	backend := NewMemoryBackend(Session{Token: "old", Username: "bob"})
	store, err := Open(backend)
	require.NoError(t, err)

	diskFull := errors.New("disk full")
	backend.FailWith(diskFull)

	err = store.Save(context.Background(), "new", "bob")
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "save", storageErr.Op)
	assert.ErrorIs(t, err, diskFull)

	assert.Equal(t, "old", store.Current().Token)
}

func TestStore_CanceledContext(t *testing.T) {
	backend := NewMemoryBackend(Session{})
	store, err := Open(backend)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, "t", "u"), context.Canceled)
	assert.Equal(t, 0, backend.Writes())
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(NewFileBackend(dir))
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "tok1", "alice"))

	reopened, err := Open(NewFileBackend(dir))
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "tok1", Username: "alice"}, reopened.Current())
}

func TestStore_SyncSeesWriteFromAnotherStore(t *testing.T) {
	dir := t.TempDir()
	watcher, err := Open(NewFileBackend(dir))
	require.NoError(t, err)
	writer, err := Open(NewFileBackend(dir))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := watcher.Observe(ctx)
	assert.False(t, next(t, ch).Active())

	require.NoError(t, writer.Save(ctx, "tok1", "alice"))
	require.NoError(t, watcher.Sync(ctx))

	assert.Equal(t, Session{Token: "tok1", Username: "alice"}, next(t, ch))
	assert.Equal(t, "alice", watcher.Current().Username)
}

func TestStore_SyncUnchangedPublishesNothing(t *testing.T) {
	store, err := Open(NewMemoryBackend(Session{Token: "t", Username: "u"}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := store.Observe(ctx)
	next(t, ch)

	require.NoError(t, store.Sync(ctx))
	select {
	case s := <-ch:
		t.Fatalf("unexpected update %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStore_FollowPicksUpExternalClear(t *testing.T) {
	dir := t.TempDir()
	watcher, err := Open(NewFileBackend(dir))
	require.NoError(t, err)
	require.NoError(t, watcher.Save(context.Background(), "tok1", "alice"))
	other, err := Open(NewFileBackend(dir))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := watcher.Observe(ctx)
	assert.True(t, next(t, ch).Active())
	go watcher.Follow(ctx, 10*time.Millisecond)

	require.NoError(t, other.Clear(context.Background()))

	assert.False(t, next(t, ch).Active())
	assert.False(t, watcher.Current().Active())
}

func TestStore_SyncLoadFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(NewFileBackend(dir))
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "tok1", "alice"))

	// A directory where the file should be makes ReadFile fail
	backend := NewFileBackend(dir)
	require.NoError(t, os.Remove(backend.Path()))
	require.NoError(t, os.Mkdir(backend.Path(), 0700))

	var storageErr *StorageError
	assert.ErrorAs(t, store.Sync(context.Background()), &storageErr)
	assert.Equal(t, "alice", store.Current().Username)
}
