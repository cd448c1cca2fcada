// ABOUTME: Whoami command for the coffee CLI
// ABOUTME: Shows the user of the saved session

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runWhoami)
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami prints the saved username and returns exit code
func runWhoami(ctx context.Context, d *deps, w io.Writer) int {
	s := d.repo.CurrentSession()

	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{
			"logged_in": s.Active(),
			"username":  s.Username,
		})
	} else if s.Active() {
		fmt.Fprintln(w, s.Username)
	} else {
		fmt.Fprintln(w, "Not logged in. Run 'coffee login' to sign in.")
	}

	if !s.Active() {
		return exitSession
	}
	return exitOK
}
