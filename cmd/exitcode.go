// ABOUTME: Exit codes and error reporting shared by all commands
// ABOUTME: Maps controller error kinds onto process exit codes

package cmd

import (
	"fmt"
	"io"

	"github.com/CleanMatyx/ApiRestCoffee/internal/controller"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitSession = 3
)

// exitCodeFor maps an operation error to an exit code
func exitCodeFor(err error) int {
	switch controller.KindOf(err) {
	case controller.KindNone:
		return exitOK
	case controller.KindNoSession, controller.KindSessionExpired:
		return exitSession
	case controller.KindOffline, controller.KindInvalidInput:
		return exitUsage
	default:
		return exitFailed
	}
}

// errorHint is printed under the error to tell the user what to do next
func errorHint(err error) string {
	switch controller.KindOf(err) {
	case controller.KindNoSession:
		return "Run 'coffee login' to sign in."
	case controller.KindSessionExpired:
		return "Your session expired. Run 'coffee login' to sign in again."
	case controller.KindOffline:
		return "Check your network connection, or pass --skip-network-check."
	default:
		return ""
	}
}

// reportError writes err in the selected output format and returns the exit code
func reportError(w io.Writer, err error) int {
	code := exitCodeFor(err)
	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{
			"error": err.Error(),
			"kind":  controller.KindOf(err).String(),
		})
		return code
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
	return code
}
