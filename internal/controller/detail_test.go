// ABOUTME: Tests for the coffee detail controller
// ABOUTME: Covers concurrent load, refresh-after-write submission, and 401 handling on post

package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/connectivity"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
)

func TestDetail_Load(t *testing.T) {
	h := newHarness(t, signedIn)
	d := NewDetail(h.repo, nil, 1)

	require.NoError(t, d.Load(context.Background()))

	assert.Equal(t, 1, d.CoffeeID())
	require.NotNil(t, d.Coffee())
	assert.Equal(t, "Latte", d.Coffee().Name)
	require.Len(t, d.Comments(), 1)
	assert.Equal(t, "bob", d.Comments()[0].User)
}

func TestDetail_LoadWithoutComments(t *testing.T) {
	h := newHarness(t, signedIn)
	d := NewDetail(h.repo, nil, 2)

	require.NoError(t, d.Load(context.Background()))
	assert.Empty(t, d.Comments())
	assert.NotNil(t, d.Comments())
}

func TestDetail_LoadWithoutSession(t *testing.T) {
	h := newHarness(t, session.Session{})
	d := NewDetail(h.repo, nil, 1)

	assert.ErrorIs(t, d.Load(context.Background()), ErrNoSession)
	assert.Equal(t, 0, h.api.count("GET /coffee/1"))
}

func TestDetail_LoadUnauthorizedOnComments(t *testing.T) {
	h := newHarness(t, signedIn)
	h.api.failWith("GET /comments/1", http.StatusUnauthorized)
	d := NewDetail(h.repo, nil, 1)

	err := d.Load(context.Background())

	var expired *SessionExpiredError
	require.ErrorAs(t, err, &expired)
	assert.False(t, h.store.Current().Active())
	assert.Nil(t, d.Coffee())
}

func TestDetail_LoadUnauthorizedOnCoffee(t *testing.T) {
	h := newHarness(t, signedIn)
	h.api.failWith("GET /coffee/1", http.StatusUnauthorized)
	d := NewDetail(h.repo, nil, 1)

	err := d.Load(context.Background())

	var expired *SessionExpiredError
	require.ErrorAs(t, err, &expired)
	var httpErr *client.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "get coffee", httpErr.Op)
	assert.False(t, h.store.Current().Active())
	assert.Nil(t, d.Coffee())
	assert.Nil(t, d.Comments())
}

func TestDetail_RevokedTokenExpiresListAndDetail(t *testing.T) {
	h := newHarness(t, session.Session{})
	ctx := context.Background()
	c := NewCatalog(h.repo, nil)

	st := c.Login(ctx, "carol", "secret")
	require.Equal(t, StatusSuccess, st.Status)
	token := st.Response.Token

	// The same token serves the list and a single coffee
	coffees, err := c.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, coffees, 2)
	d := NewDetail(h.repo, nil, coffees[0].ID)
	require.NoError(t, d.Load(ctx))
	assert.Equal(t, "Latte", d.Coffee().Name)

	h.api.revoke(token)

	var expired *SessionExpiredError
	require.ErrorAs(t, d.Load(ctx), &expired)
	assert.False(t, h.store.Current().Active())

	_, err = c.FetchCoffees(ctx, token)
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, 2, h.api.count("GET /coffee"))
	assert.Equal(t, 2, h.api.count("GET /coffee/1"))
}

func TestDetail_LoadNotFoundIsTransient(t *testing.T) {
	h := newHarness(t, signedIn)
	d := NewDetail(h.repo, nil, 42)

	err := d.Load(context.Background())

	var transient *TransientFetchError
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, "get coffee", transient.Op)
	assert.True(t, h.store.Current().Active())
}

func TestDetail_SubmitCommentRefreshesFromServer(t *testing.T) {
	h := newHarness(t, signedIn)
	d := NewDetail(h.repo, nil, 1)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))

	comments, err := d.SubmitComment(ctx, "  great crema  ")
	require.NoError(t, err)

	require.Len(t, comments, 2)
	added := comments[1]
	assert.Equal(t, "great crema", added.Text)
	assert.Equal(t, "alice", added.User)
	assert.Equal(t, 1, added.CoffeeID)
	// Server-assigned id proves the list came back from the server
	assert.Equal(t, 101, added.ID)
	assert.Equal(t, comments, d.Comments())
	assert.Equal(t, 1, h.api.count("POST /comments"))
	assert.Equal(t, 2, h.api.count("GET /comments/1"))
}

func TestDetail_SubmitEmptyComment(t *testing.T) {
	h := newHarness(t, signedIn)
	d := NewDetail(h.repo, nil, 1)

	_, err := d.SubmitComment(context.Background(), "   \n\t")

	assert.ErrorIs(t, err, ErrEmptyComment)
	assert.Equal(t, 0, h.api.count("POST /comments"))
}

func TestDetail_SubmitWithoutSession(t *testing.T) {
	h := newHarness(t, session.Session{})
	d := NewDetail(h.repo, nil, 1)

	_, err := d.SubmitComment(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, 0, h.api.count("POST /comments"))
}

func TestDetail_SubmitOffline(t *testing.T) {
	h := newHarness(t, signedIn)
	d := NewDetail(h.repo, connectivity.Always(false), 1)

	_, err := d.SubmitComment(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrOffline)
	assert.Equal(t, 0, h.api.count("POST /comments"))
}

func TestDetail_SubmitUnauthorizedClearsSession(t *testing.T) {
	h := newHarness(t, signedIn)
	h.api.failWith("POST /comments", http.StatusUnauthorized)
	d := NewDetail(h.repo, nil, 1)

	_, err := d.SubmitComment(context.Background(), "hello")

	var expired *SessionExpiredError
	require.ErrorAs(t, err, &expired)
	assert.False(t, h.store.Current().Active())
	assert.Equal(t, 0, h.api.count("GET /comments/1"))
}

func TestDetail_SubmitServerErrorKeepsSession(t *testing.T) {
	h := newHarness(t, signedIn)
	d := NewDetail(h.repo, nil, 1)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))
	before := d.Comments()

	h.api.failWith("POST /comments", http.StatusInternalServerError)
	_, err := d.SubmitComment(ctx, "hello")

	var submit *SubmitError
	require.ErrorAs(t, err, &submit)
	assert.Equal(t, KindSubmit, KindOf(err))
	assert.Equal(t, signedIn, h.store.Current())
	assert.Equal(t, before, d.Comments())
}

func TestDetail_RefreshComments(t *testing.T) {
	h := newHarness(t, signedIn)
	d := NewDetail(h.repo, nil, 1)

	comments, err := d.RefreshComments(context.Background())

	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Nil(t, d.Coffee())
}
