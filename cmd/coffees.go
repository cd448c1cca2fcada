// ABOUTME: Coffees command lists the catalog
// ABOUTME: With --watch it follows the saved session and relists on every change

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/CleanMatyx/ApiRestCoffee/internal/controller"
)

var watchCoffees bool

var coffeesCmd = &cobra.Command{
	Use:   "coffees",
	Short: "List the coffees in the catalog",
	Long: `List every coffee in the catalog with its comment count.

With --watch the command keeps running and prints the list again whenever the
saved session changes, for example after 'coffee login' in another terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps, w io.Writer) int {
			if watchCoffees {
				return runCoffeesWatch(ctx, d, w)
			}
			return runCoffees(ctx, d, w)
		})
	},
}

func init() {
	rootCmd.AddCommand(coffeesCmd)
	coffeesCmd.Flags().BoolVarP(&watchCoffees, "watch", "w", false, "Keep running and relist on session changes")
}

// runCoffees lists coffees once and returns exit code
func runCoffees(ctx context.Context, d *deps, w io.Writer) int {
	catalog := controller.NewCatalog(d.repo, d.network)
	coffees, err := catalog.Refresh(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, coffees)
	} else {
		fmt.Fprintln(w, formatCoffeesHuman(coffees))
	}
	return exitOK
}

// runCoffeesWatch prints one outcome per session change until ctx is done
func runCoffeesWatch(ctx context.Context, d *deps, w io.Writer) int {
	go d.store.Follow(ctx, sessionPollInterval)

	catalog := controller.NewCatalog(d.repo, d.network)
	catalog.Watch(ctx, func(o controller.Outcome) {
		if o.Err != nil {
			reportError(w, o.Err)
			return
		}
		if IsJSONOutput() {
			writeJSON(w, o.Coffees)
			return
		}
		fmt.Fprintf(w, "[%s] %s\n", time.Now().Format("15:04:05"), o.Session.Username)
		fmt.Fprintln(w, formatCoffeesHuman(o.Coffees))
	})
	return exitOK
}
