// ABOUTME: Login and logout commands
// ABOUTME: Drives the login state machine and persists the session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CleanMatyx/ApiRestCoffee/internal/controller"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/icons"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/login"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/styles"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session",
	Long: `Log in to the coffee API. The token and username are saved in the config
directory and reused by every other command until logout or expiry.

Without --username and --password an interactive form is shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		username, password := loginUsername, loginPassword
		if (username == "" || password == "") && isTerminal(os.Stdin) {
			var err error
			username, password, err = login.Prompt(username, password)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(exitUsage)
			}
		}

		execute(func(ctx context.Context, d *deps, w io.Writer) int {
			return runLogin(ctx, d, w, username, password)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runLogout)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")
}

// loginResultJSON is the --json shape of the login command
type loginResultJSON struct {
	Status   string `json:"status"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

// runLogin runs the login state machine and returns exit code
func runLogin(ctx context.Context, d *deps, w io.Writer, username, password string) int {
	if err := login.ValidateUsername(username); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}

	catalog := controller.NewCatalog(d.repo, d.network)
	st := catalog.Login(ctx, username, password)

	result := loginResultJSON{Status: st.Status.String(), Message: st.Message}
	if st.Response != nil {
		result.Username = st.Response.Username
	}

	if IsJSONOutput() {
		writeJSON(w, result)
	} else if st.Status == controller.StatusSuccess {
		fmt.Fprintln(w, styles.StatusOK.Render(icons.CheckOK.String()+" Logged in as "+result.Username))
	} else {
		fmt.Fprintf(w, "Error: %s\n", st.Message)
	}

	if st.Status != controller.StatusSuccess {
		return exitFailed
	}
	return exitOK
}

// runLogout clears the session and returns exit code
func runLogout(ctx context.Context, d *deps, w io.Writer) int {
	catalog := controller.NewCatalog(d.repo, d.network)
	if err := catalog.Logout(ctx); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]bool{"logged_in": false})
	} else {
		fmt.Fprintln(w, "Logged out.")
	}
	return exitOK
}

// isTerminal reports whether f is an interactive terminal
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
