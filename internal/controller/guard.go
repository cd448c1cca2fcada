// ABOUTME: Shared fetch policy for screen controllers
// ABOUTME: Generation tagging, connectivity gate, and failure classification with session expiry

package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/connectivity"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
)

// Repository is the data access the controllers need
type Repository interface {
	FetchCoffees(ctx context.Context, token string) ([]client.CoffeeItem, error)
	FetchCoffee(ctx context.Context, token string, id int) (*client.CoffeeItem, error)
	FetchComments(ctx context.Context, token string, coffeeID int) ([]client.CommentItem, error)
	Login(ctx context.Context, creds client.Credentials) (*client.LoginResponse, error)
	AddComment(ctx context.Context, token string, comment client.CommentItem) error
	SessionStream(ctx context.Context) <-chan session.Session
	CurrentSession() session.Session
	Logout(ctx context.Context) error
}

// guard owns the generation counter of one screen. A fetch result is applied
// only when its generation is still the newest and its context is live.
type guard struct {
	repo    Repository
	network connectivity.Checker

	mu  sync.Mutex
	gen uint64
}

func newGuard(repo Repository, network connectivity.Checker) guard {
	if network == nil {
		network = connectivity.Always(true)
	}
	return guard{repo: repo, network: network}
}

// session returns the current session or ErrNoSession
func (g *guard) session() (session.Session, error) {
	s := g.repo.CurrentSession()
	if !s.Active() {
		return s, ErrNoSession
	}
	return s, nil
}

// online gates a request on the connectivity check
func (g *guard) online(ctx context.Context) error {
	if !g.network.HasNetwork(ctx) {
		return ErrOffline
	}
	return nil
}

// begin starts a new generation, superseding any fetch in flight
func (g *guard) begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	return g.gen
}

// apply runs fn if gen is current and ctx is live
func (g *guard) apply(ctx context.Context, gen uint64, fn func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if gen != g.gen {
		slog.Debug("Dropping stale result", "generation", gen, "current", g.gen)
		return ErrSuperseded
	}
	fn()
	return nil
}

// fail classifies a fetch failure. A 401 clears the session that issued the
// request; anything else leaves state alone.
func (g *guard) fail(ctx context.Context, op, token string, err error) error {
	if ctx.Err() != nil {
		return err
	}

	if IsUnauthorized(err) {
		return g.expire(ctx, token, err)
	}

	// The session may have changed while the request was in flight
	if !g.repo.CurrentSession().Active() {
		return fmt.Errorf("%w: %s failed: %v", ErrNoSession, op, err)
	}

	slog.Warn("Fetch failed", "op", op, "error", err)
	return &TransientFetchError{Op: op, Err: err}
}

// expire clears the session if it still holds token. A newer login is left alone.
func (g *guard) expire(ctx context.Context, token string, cause error) error {
	if g.repo.CurrentSession().Token != token {
		slog.Info("Ignoring 401 for a replaced session")
		return &SessionExpiredError{Err: cause}
	}

	slog.Info("Session expired, clearing stored session")
	if err := g.repo.Logout(ctx); err != nil {
		return &SessionExpiredError{Err: errors.Join(cause, err)}
	}
	return &SessionExpiredError{Err: cause}
}
