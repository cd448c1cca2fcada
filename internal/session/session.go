// ABOUTME: Observable session store holding the bearer token and username
// ABOUTME: Single writer for the persisted session; every change is broadcast to observers

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/CleanMatyx/ApiRestCoffee/internal/watch"
)

// ErrIncompleteSession is returned when Save is called without a token or username
var ErrIncompleteSession = errors.New("session requires both token and username")

// Session is the persisted authentication state. Empty fields mean absent.
type Session struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
}

// Active reports whether the session carries a usable token
func (s Session) Active() bool {
	return s.Token != ""
}

// StorageError wraps a persistence failure
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("session storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Backend persists a Session as one unit
type Backend interface {
	Load() (Session, error)
	Store(Session) error
}

// Store is the observable session store
type Store struct {
	backend Backend
	writeMu sync.Mutex
	value   *watch.Value[Session]
}

// Open loads the persisted session from backend
func Open(backend Backend) (*Store, error) {
	s, err := backend.Load()
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return &Store{
		backend: backend,
		value:   watch.New(s),
	}, nil
}

// Observe streams the current session followed by every change, in write order.
// The channel is closed when ctx is done.
func (st *Store) Observe(ctx context.Context) <-chan Session {
	return st.value.Subscribe(ctx)
}

// Current returns the latest session
func (st *Store) Current() Session {
	return st.value.Get()
}

// Save persists token and username together
func (st *Store) Save(ctx context.Context, token, username string) error {
	if token == "" || username == "" {
		return ErrIncompleteSession
	}
	return st.write(ctx, "save", Session{Token: token, Username: username})
}

// Clear removes the persisted session. Clearing an empty session is a no-op.
func (st *Store) Clear(ctx context.Context) error {
	return st.write(ctx, "clear", Session{})
}

// Sync reloads the persisted value and publishes it if another process
// changed it. A failed load leaves the value unchanged.
func (st *Store) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	st.writeMu.Lock()
	defer st.writeMu.Unlock()

	s, err := st.backend.Load()
	if err != nil {
		return &StorageError{Op: "load", Err: err}
	}
	if s == st.value.Get() {
		return nil
	}
	st.value.Set(s)
	slog.Debug("Session changed on disk", "username", s.Username, "active", s.Active())
	return nil
}

// Follow calls Sync every interval until ctx is done
func (st *Store) Follow(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := st.Sync(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("Session reload failed", "error", err)
			}
		}
	}
}

func (st *Store) write(ctx context.Context, op string, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	st.writeMu.Lock()
	defer st.writeMu.Unlock()

	if err := st.backend.Store(s); err != nil {
		slog.Error("Session write failed", "op", op, "error", err)
		return &StorageError{Op: op, Err: err}
	}
	st.value.Set(s)
	slog.Debug("Session updated", "op", op, "username", s.Username, "active", s.Active())
	return nil
}
