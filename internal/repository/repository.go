// ABOUTME: Repository composing the API client and the session store
// ABOUTME: Sole owner of login persistence; every other call is a one-shot delegation

package repository

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
	"log/slog"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
)

// API is the remote coffee catalog
type API interface {
	ListCoffees(ctx context.Context, token string) ([]client.CoffeeItem, error)
	GetCoffee(ctx context.Context, token string, id int) (*client.CoffeeItem, error)
	ListComments(ctx context.Context, token string, coffeeID int) ([]client.CommentItem, error)
	PostComment(ctx context.Context, token string, comment client.CommentItem) (*client.CommentItem, error)
	Login(ctx context.Context, creds client.Credentials) (*client.LoginResponse, error)
}

// SessionStore persists and broadcasts the session
type SessionStore interface {
	Observe(ctx context.Context) <-chan session.Session
	Current() session.Session
	Save(ctx context.Context, token, username string) error
	Clear(ctx context.Context) error
}

// AuthError means the server did not grant a session
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "login failed: " + e.Message
}

// Repository is a stateless facade over the API and the session store
type Repository struct {
	api      API
	sessions SessionStore
}

// New creates a repository. One instance is shared by every screen.
func New(api API, sessions SessionStore) *Repository {
	return &Repository{api: api, sessions: sessions}
}

// FetchCoffees returns the coffee list for token
func (r *Repository) FetchCoffees(ctx context.Context, token string) ([]client.CoffeeItem, error) {
	return r.api.ListCoffees(ctx, token)
}

// FetchCoffee returns a single coffee
func (r *Repository) FetchCoffee(ctx context.Context, token string, id int) (*client.CoffeeItem, error) {
	return r.api.GetCoffee(ctx, token, id)
}

// FetchComments returns the comments of a coffee
func (r *Repository) FetchComments(ctx context.Context, token string, coffeeID int) ([]client.CommentItem, error) {
	return r.api.ListComments(ctx, token, coffeeID)
}

// Login authenticates and persists the session. Token presence alone decides
// success; a response without a token is an AuthError whatever its ok flag.
func (r *Repository) Login(ctx context.Context, creds client.Credentials) (*client.LoginResponse, error) {
	resp, err := r.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no token in login response"
		}
		slog.Info("Login rejected", "username", creds.Username, "ok", resp.OK)
		return nil, &AuthError{Message: msg}
	}

	username := resp.Username
	if username == "" {
		username = creds.Username
		resp.Username = username
	}
	if err := r.sessions.Save(ctx, resp.Token, username); err != nil {
		return nil, err
	}

	slog.Info("Login succeeded", "username", username)
	return resp, nil
}

// AddComment posts a comment. The created item is not returned; callers
// refresh the list instead.
func (r *Repository) AddComment(ctx context.Context, token string, comment client.CommentItem) error {
	_, err := r.api.PostComment(ctx, token, comment)
	return err
}

// SessionStream re-exports the session store's observer
func (r *Repository) SessionStream(ctx context.Context) <-chan session.Session {
	return r.sessions.Observe(ctx)
}

// CurrentSession returns the latest session
func (r *Repository) CurrentSession() session.Session {
	return r.sessions.Current()
}

// Logout clears the persisted session
func (r *Repository) Logout(ctx context.Context) error {
	return r.sessions.Clear(ctx)
}
