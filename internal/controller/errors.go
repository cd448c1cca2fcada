// ABOUTME: Error taxonomy for session-aware fetches
// ABOUTME: Classifies failures as session-expired, transient, or submission errors

package controller

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/repository"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
)

var (
	// ErrNoSession means there is no token; the caller should prompt for login
	ErrNoSession = errors.New("no active session")
	// ErrOffline means the connectivity check failed and no request was sent
	ErrOffline = errors.New("no network connection")
	// ErrEmptyComment rejects a blank comment before it reaches the server
	ErrEmptyComment = errors.New("comment text is empty")
	// ErrSuperseded means a newer fetch started before this one finished
	ErrSuperseded = errors.New("result superseded by a newer request")
)

// unauthorizedPattern is matched against error text when no status code is
// available. Kept for servers and proxies that only report 401 in the message.
var unauthorizedPattern = regexp.MustCompile(`(?i)\b(401|unauthorized)\b`)

// SessionExpiredError means an authenticated call was rejected with 401 and
// the session has been cleared
type SessionExpiredError struct {
	Err error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Err)
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Err
}

// TransientFetchError is any other fetch failure. Session and displayed data
// are left as they were.
type TransientFetchError struct {
	Op  string
	Err error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// SubmitError is a failed comment post that was not an auth failure
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("comment not sent: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is an HTTP 401. The status code is
// checked first; message matching is a fallback.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == 401
	}

	return unauthorizedPattern.MatchString(err.Error())
}

// Kind is the presentation-level category of an error
type Kind int

const (
	KindNone Kind = iota
	KindNoSession
	KindSessionExpired
	KindAuth
	KindOffline
	KindTransient
	KindSubmit
	KindInvalidInput
	KindCanceled
	KindStorage
	KindOther
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNoSession:
		return "no_session"
	case KindSessionExpired:
		return "session_expired"
	case KindAuth:
		return "auth"
	case KindOffline:
		return "offline"
	case KindTransient:
		return "transient"
	case KindSubmit:
		return "submit"
	case KindInvalidInput:
		return "invalid_input"
	case KindCanceled:
		return "canceled"
	case KindStorage:
		return "storage"
	default:
		return "other"
	}
}

// KindOf classifies err for display
func KindOf(err error) Kind {
	var (
		expired   *SessionExpiredError
		transient *TransientFetchError
		submit    *SubmitError
		auth      *repository.AuthError
		storage   *session.StorageError
	)

	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &expired):
		return KindSessionExpired
	case errors.Is(err, ErrNoSession):
		return KindNoSession
	case errors.As(err, &auth):
		return KindAuth
	case errors.Is(err, ErrOffline):
		return KindOffline
	case errors.Is(err, ErrEmptyComment):
		return KindInvalidInput
	case errors.Is(err, ErrSuperseded), errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &storage):
		return KindStorage
	case errors.As(err, &submit):
		return KindSubmit
	case errors.As(err, &transient):
		return KindTransient
	default:
		return KindOther
	}
}
