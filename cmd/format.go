// ABOUTME: Human-readable formatting for catalog output
// ABOUTME: Renders coffees and comments with the shared lipgloss styles

package cmd

import (
	"fmt"
	"strings"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/icons"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/styles"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/textutil"
)

// formatCoffeesHuman formats the coffee list as a table
func formatCoffeesHuman(coffees []client.CoffeeItem) string {
	if len(coffees) == 0 {
		return "No coffees in the catalog."
	}

	nameWidth := len("NAME")
	for _, c := range coffees {
		if n := len([]rune(c.Name)); n > nameWidth {
			nameWidth = n
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-4s  %-*s  %s\n", "ID", nameWidth, "NAME", "COMMENTS"))
	for _, c := range coffees {
		sb.WriteString(fmt.Sprintf("%-4d  %-*s  %d\n", c.ID, nameWidth, c.Name, c.CommentCount))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatCommentsHuman formats comments one per line, oldest first
func formatCommentsHuman(comments []client.CommentItem) string {
	if len(comments) == 0 {
		return styles.Subtitle.Render("No comments yet.")
	}

	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, fmt.Sprintf("%s %s: %s", icons.Comment.String(), styles.Author.Render(c.User), c.Text))
	}
	return strings.Join(lines, "\n")
}

// formatCoffeeHuman formats one coffee with its comments
func formatCoffeeHuman(coffee *client.CoffeeItem, comments []client.CommentItem) string {
	var sb strings.Builder
	sb.WriteString(styles.ValueStyle.Render(fmt.Sprintf("%s %s", icons.Coffee.String(), coffee.Name)))
	sb.WriteString(fmt.Sprintf(" (#%d)\n", coffee.ID))
	if desc := textutil.PlainText(coffee.Description); desc != "" {
		sb.WriteString(desc)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Comments (%d):\n", len(comments)))
	sb.WriteString(formatCommentsHuman(comments))
	return sb.String()
}

// coffeeJSON is the --json shape of the coffee command
type coffeeJSON struct {
	Coffee   *client.CoffeeItem   `json:"coffee"`
	Comments []client.CommentItem `json:"comments"`
}
