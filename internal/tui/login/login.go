// ABOUTME: Login form as a bubbletea model and as a blocking prompt
// ABOUTME: Uses huh inputs for username and password with local validation

package login

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/icons"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/styles"
)

// ErrUsernameRequired is the validation error for a blank username
var ErrUsernameRequired = errors.New("username is required")

// SubmittedMsg is sent when the user completes the form
type SubmittedMsg struct {
	Username string
	Password string
}

// CancelledMsg is sent when the form is cancelled
type CancelledMsg struct{}

// Form collects credentials as a bubbletea model
type Form struct {
	form   *huh.Form
	notice string
	width  int

	username string
	password string
}

// Theme returns the huh theme used by every credentials form
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	gray := lipgloss.Color("#9CA3AF")
	light := lipgloss.Color("#E5E7EB")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Accent)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(light)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// ValidateUsername rejects a blank username
func ValidateUsername(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrUsernameRequired
	}
	return nil
}

// New creates a login form prefilled with username. notice is shown above
// the form, e.g. after a session expired.
func New(username, notice string) *Form {
	f := &Form{username: username, notice: notice}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	return huh.NewForm(fields(&f.username, &f.password)).
		WithTheme(Theme()).
		WithShowHelp(false)
}

func fields(username, password *string) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Placeholder("usuario").
			CharLimit(64).
			Value(username).
			Validate(ValidateUsername),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password),
	).Title("Sign in").
		Description("Log in to browse coffees and comments")
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		submitted := SubmittedMsg{Username: strings.TrimSpace(f.username), Password: f.password}
		return f, func() tea.Msg { return submitted }
	}

	return f, cmd
}

// SetNotice replaces the message shown above the form
func (f *Form) SetNotice(notice string) {
	f.notice = notice
}

// Reset clears the password and rebuilds the form for another attempt
func (f *Form) Reset(notice string) tea.Cmd {
	f.password = ""
	f.notice = notice
	f.form = f.build()
	return f.form.Init()
}

// Username returns the username typed so far
func (f *Form) Username() string {
	return f.username
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	if f.notice != "" {
		sb.WriteString(styles.StatusWarning.Render(icons.Warning.String() + " " + f.notice))
		sb.WriteString("\n\n")
	}
	sb.WriteString(f.form.View())
	return sb.String()
}

// Prompt runs a blocking credentials form on the terminal. Fields already
// known are prefilled.
func Prompt(username, password string) (string, string, error) {
	form := huh.NewForm(fields(&username, &password)).WithTheme(Theme())
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(username), password, nil
}
