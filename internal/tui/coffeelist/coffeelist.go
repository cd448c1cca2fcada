// ABOUTME: Coffee list component for the catalog screen
// ABOUTME: Renders coffees with comment counts and tracks the cursor

package coffeelist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/icons"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/styles"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/textutil"
)

// List displays the coffee catalog
type List struct {
	coffees []client.CoffeeItem
	loaded  bool
	cursor  int
	width   int
	height  int
}

// New creates an empty list
func New(width, height int) *List {
	return &List{width: width, height: height}
}

// SetCoffees replaces the displayed coffees, keeping the cursor in range
func (l *List) SetCoffees(coffees []client.CoffeeItem) {
	l.coffees = coffees
	l.loaded = true
	if l.cursor >= len(coffees) {
		l.cursor = max(0, len(coffees)-1)
	}
}

// Clear empties the list and returns it to the loading state
func (l *List) Clear() {
	l.coffees = nil
	l.loaded = false
	l.cursor = 0
}

// Len returns the number of coffees shown
func (l *List) Len() int {
	return len(l.coffees)
}

// SetSize updates the list dimensions
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Up moves the cursor up
func (l *List) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Down moves the cursor down
func (l *List) Down() {
	if l.cursor < len(l.coffees)-1 {
		l.cursor++
	}
}

// Selected returns the coffee under the cursor, or nil when empty
func (l *List) Selected() *client.CoffeeItem {
	if len(l.coffees) == 0 {
		return nil
	}
	c := l.coffees[l.cursor]
	return &c
}

// View renders the list
func (l *List) View() string {
	if !l.loaded {
		return "Loading coffees..."
	}
	if len(l.coffees) == 0 {
		return styles.Subtitle.Render("No coffees in the catalog")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Coffees (%d)", icons.Coffee.String(), len(l.coffees))))
	sb.WriteString("\n")

	descWidth := l.width - 6
	if descWidth < 20 {
		descWidth = 20
	}

	start, end := l.window()
	for i := start; i < end; i++ {
		c := l.coffees[i]
		prefix := "  "
		nameStyle := styles.Item
		if i == l.cursor {
			prefix = styles.Selected.Render("> ")
			nameStyle = styles.Selected
		}
		sb.WriteString(prefix + nameStyle.Render(c.Name) + "  " + styles.CommentBadge(c.CommentCount) + "\n")
		desc := textutil.Truncate(textutil.PlainText(c.Description), descWidth)
		if desc != "" {
			sb.WriteString("    " + styles.Subtitle.Render(desc) + "\n")
		}
	}

	return lipgloss.NewStyle().Width(l.width).Render(strings.TrimRight(sb.String(), "\n"))
}

// window returns the slice of rows that fits the height around the cursor
func (l *List) window() (int, int) {
	// Two lines per row plus the title
	rows := (l.height - 2) / 2
	if rows <= 0 || rows >= len(l.coffees) {
		return 0, len(l.coffees)
	}
	start := l.cursor - rows/2
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > len(l.coffees) {
		end = len(l.coffees)
		start = end - rows
	}
	return start, end
}
