// ABOUTME: Coffee catalog resources and the five API operations
// ABOUTME: Maps wire field names (coffee_name, idCoffee, usuario) onto Go types

package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// CoffeeItem is a coffee as returned by GET /coffee
type CoffeeItem struct {
	ID           int    `json:"id"`
	Name         string `json:"coffee_name"`
	Description  string `json:"coffee_desc"`
	CommentCount int    `json:"comments"`
}

// CommentItem is a comment on a coffee. ID is 0 until the server assigns one.
type CommentItem struct {
	ID       int    `json:"id"`
	CoffeeID int    `json:"idCoffee"`
	User     string `json:"user"`
	Text     string `json:"comment"`
}

// Credentials are sent to POST /login and never stored
type Credentials struct {
	Username string `json:"usuario"`
	Password string `json:"password"`
}

// LoginResponse is the login reply. Username is not on the wire; Login copies
// it from the credentials.
type LoginResponse struct {
	OK       bool   `json:"ok"`
	Token    string `json:"token,omitempty"`
	Message  string `json:"message,omitempty"`
	Username string `json:"-"`
}

// ListCoffees calls GET /coffee
func (c *Client) ListCoffees(ctx context.Context, token string) ([]CoffeeItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/coffee", token, nil)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, "list coffees", req)
	if err != nil {
		return nil, err
	}

	coffees := []CoffeeItem{}
	if err := decode(data, &coffees); err != nil {
		return nil, err
	}
	return coffees, nil
}

// GetCoffee calls GET /coffee/{id}
func (c *Client) GetCoffee(ctx context.Context, token string, id int) (*CoffeeItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/coffee/%d", id), token, nil)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, "get coffee", req)
	if err != nil {
		return nil, err
	}

	var coffee CoffeeItem
	if err := decode(data, &coffee); err != nil {
		return nil, err
	}
	return &coffee, nil
}

// ListComments calls GET /comments/{coffeeID}
func (c *Client) ListComments(ctx context.Context, token string, coffeeID int) ([]CommentItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/comments/%d", coffeeID), token, nil)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, "list comments", req)
	if err != nil {
		return nil, err
	}

	comments := []CommentItem{}
	if err := decode(data, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// PostComment calls POST /comments. A 2xx reply without a body returns the
// submitted comment as-is.
func (c *Client) PostComment(ctx context.Context, token string, comment CommentItem) (*CommentItem, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/comments", token, comment)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, "post comment", req)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &comment, nil
	}

	var created CommentItem
	if err := decode(data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Login calls POST /login. No bearer token is sent.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/login", "", creds)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, "login", req)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyResponse
	}

	var resp LoginResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	resp.Username = creds.Username
	return &resp, nil
}
