// ABOUTME: Browse command starts the interactive catalog browser
// ABOUTME: Logs go to a file in the config directory while the TUI owns the screen

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/CleanMatyx/ApiRestCoffee/internal/logger"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runBrowse)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// runBrowse runs the TUI until the user quits or ctx is canceled
func runBrowse(ctx context.Context, d *deps, w io.Writer) int {
	f, err := logger.OpenFile(d.cfg.ConfigDir)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailed
	}
	defer f.Close()
	logger.Init(f, d.cfg.LogLevel, d.cfg.LogFormat)

	go d.store.Follow(ctx, sessionPollInterval)

	if err := tui.Run(ctx, d.repo, d.network); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailed
	}
	return exitOK
}
