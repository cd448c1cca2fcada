// ABOUTME: Login state machine values shared by the CLI and the TUI
// ABOUTME: Idle -> Loading -> Success | Error, and back to Idle on logout

package controller

import "github.com/CleanMatyx/ApiRestCoffee/internal/client"

// LoginStatus tags a LoginState
type LoginStatus int

const (
	StatusIdle LoginStatus = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns the string representation of a LoginStatus
func (s LoginStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// LoginState is a tagged variant: Response is set only for StatusSuccess and
// Message only for StatusError.
type LoginState struct {
	Status   LoginStatus
	Response *client.LoginResponse
	Message  string
}

// Idle is the initial state and the state after logout
func Idle() LoginState {
	return LoginState{Status: StatusIdle}
}

// Loading is set while a login request is in flight
func Loading() LoginState {
	return LoginState{Status: StatusLoading}
}

// Succeeded wraps a login response carrying a token
func Succeeded(resp *client.LoginResponse) LoginState {
	return LoginState{Status: StatusSuccess, Response: resp}
}

// Failed carries a user-facing message
func Failed(message string) LoginState {
	return LoginState{Status: StatusError, Message: message}
}
