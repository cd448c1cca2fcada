// ABOUTME: Tests for 401 classification and error kinds
// ABOUTME: Status code wins over message text; word boundaries avoid port numbers

package controller

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/repository"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
)

func TestIsUnauthorized(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status 401", &client.HTTPError{Op: "list coffees", StatusCode: 401}, true},
		{"wrapped status 401", fmt.Errorf("outer: %w", &client.HTTPError{StatusCode: 401}), true},
		{"status 403", &client.HTTPError{Op: "list coffees", StatusCode: 403}, false},
		{"status 500 with 401 in body", &client.HTTPError{StatusCode: 500, Body: "upstream said 401"}, false},
		{"message 401", errors.New("HTTP 401 from proxy"), true},
		{"message unauthorized", errors.New("Unauthorized"), true},
		{"port 4010", errors.New("dial tcp 127.0.0.1:4010: connection refused"), false},
		{"unrelated", errors.New("timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnauthorized(tt.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"no session", ErrNoSession, KindNoSession},
		{"wrapped no session", fmt.Errorf("%w: list coffees failed", ErrNoSession), KindNoSession},
		{"expired", &SessionExpiredError{Err: errors.New("401")}, KindSessionExpired},
		{"auth", &repository.AuthError{Message: "bad credentials"}, KindAuth},
		{"offline", ErrOffline, KindOffline},
		{"empty comment", ErrEmptyComment, KindInvalidInput},
		{"superseded", ErrSuperseded, KindCanceled},
		{"canceled", fmt.Errorf("request canceled: %w", context.Canceled), KindCanceled},
		{"storage", &session.StorageError{Op: "save", Err: errors.New("disk full")}, KindStorage},
		{"submit", &SubmitError{Err: errors.New("500")}, KindSubmit},
		{"transient", &TransientFetchError{Op: "list coffees", Err: errors.New("500")}, KindTransient},
		{"other", errors.New("boom"), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "session_expired", KindSessionExpired.String())
	assert.Equal(t, "offline", KindOffline.String())
	assert.Equal(t, "other", Kind(99).String())
}

func TestErrorMessages(t *testing.T) {
	cause := &client.HTTPError{Op: "list coffees", StatusCode: 401}

	expired := &SessionExpiredError{Err: cause}
	assert.Contains(t, expired.Error(), "session expired")
	assert.ErrorIs(t, expired, cause)

	transient := &TransientFetchError{Op: "get coffee", Err: errors.New("boom")}
	assert.Equal(t, "get coffee failed: boom", transient.Error())

	submit := &SubmitError{Err: errors.New("boom")}
	assert.Equal(t, "comment not sent: boom", submit.Error())
}
