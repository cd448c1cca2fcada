// ABOUTME: Coffee detail view with comments and a comment input box
// ABOUTME: Renders one coffee, its comments, and a bubbles text input

package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/icons"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/styles"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/textutil"
)

// CommentLimit caps the length of a comment typed in the box
const CommentLimit = 500

// SubmitMsg is sent when the user presses enter in the comment box
type SubmitMsg struct {
	Text string
}

// View displays a coffee with its comments
type View struct {
	coffee   *client.CoffeeItem
	comments []client.CommentItem
	input    textinput.Model
	width    int
	height   int
}

// New creates a detail view. The coffee is filled in once loaded.
func New(width, height int) *View {
	ti := textinput.New()
	ti.Placeholder = "Write a comment and press Enter"
	ti.CharLimit = CommentLimit
	ti.Prompt = icons.Comment.String() + " "
	ti.Width = inputWidth(width)

	return &View{input: ti, width: width, height: height}
}

func inputWidth(width int) int {
	if width-8 < 20 {
		return 20
	}
	return width - 8
}

// SetCoffee sets the coffee shown in the header
func (v *View) SetCoffee(c *client.CoffeeItem) {
	v.coffee = c
}

// SetComments replaces the comment list
func (v *View) SetComments(comments []client.CommentItem) {
	v.comments = comments
}

// SetSize updates the view dimensions
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = inputWidth(width)
}

// Focus activates the comment box
func (v *View) Focus() tea.Cmd {
	return v.input.Focus()
}

// Blur deactivates the comment box
func (v *View) Blur() {
	v.input.Blur()
}

// Focused reports whether the comment box has focus
func (v *View) Focused() bool {
	return v.input.Focused()
}

// ClearInput empties the comment box after a successful submit
func (v *View) ClearInput() {
	v.input.SetValue("")
}

// Input returns the text typed so far
func (v *View) Input() string {
	return v.input.Value()
}

// Update forwards input to the comment box. Enter emits SubmitMsg.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter && v.input.Focused() {
		text := v.input.Value()
		return v, func() tea.Msg { return SubmitMsg{Text: text} }
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the coffee, comments, and input box
func (v *View) View() string {
	if v.coffee == nil {
		return "Loading coffee..."
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Coffee.String() + " " + v.coffee.Name))
	sb.WriteString("\n")
	if desc := textutil.PlainText(v.coffee.Description); desc != "" {
		sb.WriteString(lipgloss.NewStyle().Width(v.width - 4).Render(desc))
		sb.WriteString("\n\n")
	}

	sb.WriteString(styles.ValueStyle.Render(fmt.Sprintf("Comments (%d)", len(v.comments))))
	sb.WriteString("\n")
	if len(v.comments) == 0 {
		sb.WriteString(styles.Subtitle.Render("No comments yet. Be the first!"))
		sb.WriteString("\n")
	}
	for _, c := range v.visibleComments() {
		sb.WriteString(styles.Author.Render(icons.User.String()+" "+c.User) + "  " + c.Text + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(v.input.View())
	return sb.String()
}

// visibleComments returns the newest comments that fit the height
func (v *View) visibleComments() []client.CommentItem {
	// Title, description, comment header, and input box
	room := v.height - 8
	if room <= 0 || room >= len(v.comments) {
		return v.comments
	}
	return v.comments[len(v.comments)-room:]
}
