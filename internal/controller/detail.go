// ABOUTME: Controller for the coffee detail screen
// ABOUTME: Loads one coffee with its comments and submits new comments with refresh-after-write

package controller

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/connectivity"
	"github.com/CleanMatyx/ApiRestCoffee/internal/watch"
)

// Detail is the controller behind one coffee and its comments
type Detail struct {
	guard
	coffeeID int
	coffee   *watch.Value[*client.CoffeeItem]
	comments *watch.Value[[]client.CommentItem]
}

// NewDetail creates a controller for coffeeID. A nil checker means always online.
func NewDetail(repo Repository, network connectivity.Checker, coffeeID int) *Detail {
	return &Detail{
		guard:    newGuard(repo, network),
		coffeeID: coffeeID,
		coffee:   watch.New[*client.CoffeeItem](nil),
		comments: watch.New[[]client.CommentItem](nil),
	}
}

// CoffeeID returns the coffee this controller shows
func (d *Detail) CoffeeID() int {
	return d.coffeeID
}

// Coffee returns the displayed coffee, nil before the first load
func (d *Detail) Coffee() *client.CoffeeItem {
	return d.coffee.Get()
}

// Comments returns the displayed comments
func (d *Detail) Comments() []client.CommentItem {
	return d.comments.Get()
}

// Load fetches the coffee and its comments concurrently. Both are applied
// together or not at all.
func (d *Detail) Load(ctx context.Context) error {
	s, err := d.session()
	if err != nil {
		return err
	}
	if err := d.online(ctx); err != nil {
		return err
	}

	gen := d.begin()

	var (
		coffee                *client.CoffeeItem
		comments              []client.CommentItem
		coffeeErr, commentErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		coffee, coffeeErr = d.repo.FetchCoffee(ctx, s.Token, d.coffeeID)
		return coffeeErr
	})
	g.Go(func() error {
		comments, commentErr = d.repo.FetchComments(ctx, s.Token, d.coffeeID)
		return commentErr
	})

	if err := g.Wait(); err != nil {
		op, cause := "get coffee", coffeeErr
		// A 401 on either call expires the session
		if cause == nil || (IsUnauthorized(commentErr) && !IsUnauthorized(coffeeErr)) {
			op, cause = "list comments", commentErr
		}
		return d.fail(ctx, op, s.Token, cause)
	}

	return d.apply(ctx, gen, func() {
		d.coffee.Set(coffee)
		d.comments.Set(comments)
	})
}

// RefreshComments refetches the comment list only
func (d *Detail) RefreshComments(ctx context.Context) ([]client.CommentItem, error) {
	s, err := d.session()
	if err != nil {
		return nil, err
	}
	if err := d.online(ctx); err != nil {
		return nil, err
	}
	return d.fetchComments(ctx, s.Token)
}

func (d *Detail) fetchComments(ctx context.Context, token string) ([]client.CommentItem, error) {
	gen := d.begin()
	comments, err := d.repo.FetchComments(ctx, token, d.coffeeID)
	if err != nil {
		return nil, d.fail(ctx, "list comments", token, err)
	}
	if err := d.apply(ctx, gen, func() { d.comments.Set(comments) }); err != nil {
		return nil, err
	}
	return comments, nil
}

// SubmitComment posts text as the current user and then refetches the
// comment list. The server list replaces the displayed one; nothing is
// appended locally. A 401 on the post expires the session; other post
// failures return SubmitError.
func (d *Detail) SubmitComment(ctx context.Context, text string) ([]client.CommentItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	s, err := d.session()
	if err != nil {
		return nil, err
	}
	if s.Username == "" {
		return nil, ErrNoSession
	}
	if err := d.online(ctx); err != nil {
		return nil, err
	}

	comment := client.CommentItem{ID: 0, CoffeeID: d.coffeeID, User: s.Username, Text: text}
	if err := d.repo.AddComment(ctx, s.Token, comment); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if IsUnauthorized(err) {
			return nil, d.expire(ctx, s.Token, err)
		}
		slog.Warn("Comment submission failed", "coffee_id", d.coffeeID, "error", err)
		return nil, &SubmitError{Err: err}
	}

	slog.Info("Comment submitted", "coffee_id", d.coffeeID, "user", s.Username)

	return d.fetchComments(ctx, s.Token)
}
