// ABOUTME: Controller for the coffee list screen
// ABOUTME: Drives the login state machine and the session-gated coffee list

package controller

import (
	"context"
	"errors"
	"log/slog"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/connectivity"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
	"github.com/CleanMatyx/ApiRestCoffee/internal/watch"
)

// unknownError is shown when a login error carries no message
const unknownError = "unknown error"

// Catalog is the controller behind the coffee list
type Catalog struct {
	guard
	state   *watch.Value[LoginState]
	coffees *watch.Value[[]client.CoffeeItem]
}

// NewCatalog creates a controller. A nil checker means always online.
func NewCatalog(repo Repository, network connectivity.Checker) *Catalog {
	return &Catalog{
		guard:   newGuard(repo, network),
		state:   watch.New(Idle()),
		coffees: watch.New[[]client.CoffeeItem](nil),
	}
}

// State returns the current login state
func (c *Catalog) State() LoginState {
	return c.state.Get()
}

// States streams login state transitions
func (c *Catalog) States(ctx context.Context) <-chan LoginState {
	return c.state.Subscribe(ctx)
}

// Coffees returns the displayed coffee list
func (c *Catalog) Coffees() []client.CoffeeItem {
	return c.coffees.Get()
}

// Login moves to Loading, then to Success or Error. The repository persists
// the session before Success is published.
func (c *Catalog) Login(ctx context.Context, username, password string) LoginState {
	c.state.Set(Loading())

	resp, err := c.repo.Login(ctx, client.Credentials{Username: username, Password: password})
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = unknownError
		}
		slog.Info("Login failed", "username", username, "error", err)
		st := Failed(msg)
		c.state.Set(st)
		return st
	}

	st := Succeeded(resp)
	c.state.Set(st)
	return st
}

// Logout clears the session and returns to Idle whatever happened before.
// A storage failure is reported after the transition.
func (c *Catalog) Logout(ctx context.Context) error {
	err := c.repo.Logout(ctx)
	c.begin()
	c.coffees.Set(nil)
	c.state.Set(Idle())
	if err != nil {
		slog.Error("Logout failed to clear session", "error", err)
	}
	return err
}

// Refresh fetches the coffee list with the current session
func (c *Catalog) Refresh(ctx context.Context) ([]client.CoffeeItem, error) {
	s, err := c.session()
	if err != nil {
		return nil, err
	}
	return c.FetchCoffees(ctx, s.Token)
}

// FetchCoffees fetches with token and replaces the displayed list on success.
// A 401 clears the session and returns SessionExpiredError; other failures
// return TransientFetchError and keep the displayed list.
func (c *Catalog) FetchCoffees(ctx context.Context, token string) ([]client.CoffeeItem, error) {
	if err := c.online(ctx); err != nil {
		return nil, err
	}

	gen := c.begin()
	coffees, err := c.repo.FetchCoffees(ctx, token)
	if err != nil {
		err = c.fail(ctx, "list coffees", token, err)
		var expired *SessionExpiredError
		if errors.As(err, &expired) {
			c.onExpired(gen)
		}
		return nil, err
	}

	if err := c.apply(ctx, gen, func() { c.coffees.Set(coffees) }); err != nil {
		return nil, err
	}
	return coffees, nil
}

// onExpired empties the list and returns to Idle unless a newer fetch owns the screen
func (c *Catalog) onExpired(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.coffees.Set(nil)
	c.state.Set(Idle())
}

// Outcome is one reaction to a session change
type Outcome struct {
	Session session.Session
	Coffees []client.CoffeeItem
	Err     error
}

// Watch follows the session stream and refreshes the list on every change.
// An absent session is reported as ErrNoSession. Returns when ctx is done.
func (c *Catalog) Watch(ctx context.Context, fn func(Outcome)) {
	for s := range c.repo.SessionStream(ctx) {
		if !s.Active() {
			fn(Outcome{Session: s, Err: ErrNoSession})
			continue
		}

		coffees, err := c.FetchCoffees(ctx, s.Token)
		if ctx.Err() != nil {
			return
		}
		fn(Outcome{Session: s, Coffees: coffees, Err: err})
	}
}
