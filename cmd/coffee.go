// ABOUTME: Coffee, comments, and comment commands
// ABOUTME: Show one coffee with its comments and post new comments

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CleanMatyx/ApiRestCoffee/internal/controller"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/icons"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/styles"
)

var coffeeCmd = &cobra.Command{
	Use:   "coffee <id>",
	Short: "Show a coffee and its comments",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustCoffeeID(args[0])
		execute(func(ctx context.Context, d *deps, w io.Writer) int {
			return runCoffee(ctx, d, w, id)
		})
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments <id>",
	Short: "List the comments on a coffee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustCoffeeID(args[0])
		execute(func(ctx context.Context, d *deps, w io.Writer) int {
			return runComments(ctx, d, w, id)
		})
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <id> <text>...",
	Short: "Post a comment on a coffee",
	Long: `Post a comment as the logged in user. The remaining arguments are joined
with spaces. On success the refreshed comment list is printed.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustCoffeeID(args[0])
		text := strings.Join(args[1:], " ")
		execute(func(ctx context.Context, d *deps, w io.Writer) int {
			return runComment(ctx, d, w, id, text)
		})
	},
}

func init() {
	rootCmd.AddCommand(coffeeCmd)
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(commentCmd)
}

// parseCoffeeID accepts positive integer ids only
func parseCoffeeID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid coffee id %q: must be a positive integer", s)
	}
	return id, nil
}

func mustCoffeeID(s string) int {
	id, err := parseCoffeeID(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
	return id
}

// runCoffee loads a coffee with its comments and returns exit code
func runCoffee(ctx context.Context, d *deps, w io.Writer, id int) int {
	detail := controller.NewDetail(d.repo, d.network, id)
	if err := detail.Load(ctx); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, coffeeJSON{Coffee: detail.Coffee(), Comments: detail.Comments()})
	} else {
		fmt.Fprintln(w, formatCoffeeHuman(detail.Coffee(), detail.Comments()))
	}
	return exitOK
}

// runComments lists the comments on one coffee and returns exit code
func runComments(ctx context.Context, d *deps, w io.Writer, id int) int {
	detail := controller.NewDetail(d.repo, d.network, id)
	comments, err := detail.RefreshComments(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, comments)
	} else {
		fmt.Fprintln(w, formatCommentsHuman(comments))
	}
	return exitOK
}

// runComment posts text and prints the refreshed list
func runComment(ctx context.Context, d *deps, w io.Writer, id int, text string) int {
	detail := controller.NewDetail(d.repo, d.network, id)
	comments, err := detail.SubmitComment(ctx, text)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, comments)
		return exitOK
	}
	fmt.Fprintln(w, styles.StatusOK.Render(icons.CheckOK.String()+" Comment posted"))
	fmt.Fprintln(w, formatCommentsHuman(comments))
	return exitOK
}
