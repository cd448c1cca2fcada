// ABOUTME: Root bubbletea model for the coffee browser
// ABOUTME: Manages login, catalog, and detail screens on top of the controllers

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/connectivity"
	"github.com/CleanMatyx/ApiRestCoffee/internal/controller"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/coffeelist"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/detail"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/icons"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/login"
	"github.com/CleanMatyx/ApiRestCoffee/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenCoffees
	ScreenDetail
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width for the frame
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

const (
	sessionExpiredNotice = "Your session expired. Please log in again."
	sessionEndedNotice   = "Your session ended. Please log in again."
)

// sessionChangedMsg carries one value from the session stream
type sessionChangedMsg struct {
	session session.Session
}

// loginDoneMsg is sent when a login attempt finishes
type loginDoneMsg struct {
	state controller.LoginState
}

// coffeesLoadedMsg is sent when the coffee list fetch finishes
type coffeesLoadedMsg struct {
	coffees []client.CoffeeItem
	err     error
}

// detailLoadedMsg is sent when a coffee and its comments are loaded
type detailLoadedMsg struct {
	ctl *controller.Detail
	err error
}

// commentSentMsg is sent when a comment submission and refresh finish
type commentSentMsg struct {
	ctl      *controller.Detail
	comments []client.CommentItem
	err      error
}

// logoutDoneMsg is sent when logout finishes
type logoutDoneMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	ctx     context.Context
	catalog *controller.Catalog
	repo     controller.Repository
	network  connectivity.Checker
	sessions <-chan session.Session

	screen     Screen
	width      int
	height     int
	busy       bool
	notice     string
	noticeErr  bool
	lastUpdate time.Time

	// Child models
	loginForm  *login.Form
	list       *coffeelist.List
	detailView *detail.View
	detailCtl  *controller.Detail
	spinner    spinner.Model
}

// New creates a new TUI application. Requests run under ctx.
func New(ctx context.Context, repo controller.Repository, network connectivity.Checker) *App {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	a := &App{
		ctx:     ctx,
		catalog: controller.NewCatalog(repo, network),
		repo:     repo,
		network:  network,
		sessions: repo.SessionStream(ctx),
		list:     coffeelist.New(minTerminalWidth-panelPadding, 20),
		spinner:  sp,
	}

	if repo.CurrentSession().Active() {
		a.screen = ScreenCoffees
	} else {
		a.screen = ScreenLogin
		a.loginForm = login.New(repo.CurrentSession().Username, "")
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return tea.Batch(a.loginForm.Init(), a.waitForSession())
	}
	return tea.Batch(a.startBusy(a.loadCoffees()), a.waitForSession())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetSize(a.contentWidth(), a.contentHeight())
		if a.detailView != nil {
			a.detailView.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.screen == ScreenLogin && a.loginForm != nil {
			return a.updateLogin(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenCoffees:
			return a.updateCoffees(msg)
		case ScreenDetail:
			return a.updateDetail(msg)
		}

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case login.SubmittedMsg:
		a.notice = ""
		return a, a.startBusy(a.login(msg.Username, msg.Password))

	case login.CancelledMsg:
		return a, tea.Quit

	case loginDoneMsg:
		a.busy = false
		if msg.state.Status != controller.StatusSuccess {
			return a, a.loginForm.Reset(msg.state.Message)
		}
		slog.Info("Logged in", "username", msg.state.Response.Username)
		a.loginForm = nil
		a.screen = ScreenCoffees
		a.list.Clear()
		return a, a.startBusy(a.loadCoffees())

	case sessionChangedMsg:
		return a, tea.Batch(a.onSessionChanged(msg.session), a.waitForSession())

	case coffeesLoadedMsg:
		if a.screen != ScreenCoffees {
			return a, nil
		}
		a.busy = false
		if msg.err != nil {
			return a, a.handleError(msg.err)
		}
		a.list.SetCoffees(msg.coffees)
		a.lastUpdate = time.Now()
		a.notice = ""
		return a, nil

	case detailLoadedMsg:
		if msg.ctl != a.detailCtl {
			return a, nil
		}
		a.busy = false
		if msg.err != nil {
			return a, a.handleError(msg.err)
		}
		a.detailView.SetCoffee(msg.ctl.Coffee())
		a.detailView.SetComments(msg.ctl.Comments())
		a.lastUpdate = time.Now()
		return a, nil

	case detail.SubmitMsg:
		if a.detailCtl == nil || a.busy {
			return a, nil
		}
		return a, a.startBusy(a.submitComment(a.detailCtl, msg.Text))

	case commentSentMsg:
		if msg.ctl != a.detailCtl {
			return a, nil
		}
		a.busy = false
		if msg.err != nil {
			return a, a.handleError(msg.err)
		}
		a.detailView.ClearInput()
		a.detailView.SetComments(msg.comments)
		a.lastUpdate = time.Now()
		a.setNotice("Comment sent", false)
		return a, nil

	case logoutDoneMsg:
		a.busy = false
		a.showLogin("")
		if msg.err != nil {
			a.setNotice("Logged out, but the saved session could not be removed: "+msg.err.Error(), true)
		}
		return a, a.loginForm.Init()

	default:
		// Forward unknown messages to the login form (needed for huh form internals)
		if a.screen == ScreenLogin && a.loginForm != nil {
			return a.updateLogin(msg)
		}
		if a.screen == ScreenDetail && a.detailView != nil {
			var cmd tea.Cmd
			a.detailView, cmd = a.detailView.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginForm == nil || a.busy {
		return a, nil
	}
	model, cmd := a.loginForm.Update(msg)
	a.loginForm = model.(*login.Form)
	return a, cmd
}

func (a *App) updateCoffees(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		a.list.Up()
	case "down", "j":
		a.list.Down()
	case "r":
		if !a.busy {
			return a, a.startBusy(a.loadCoffees())
		}
	case "enter":
		if c := a.list.Selected(); c != nil {
			return a, a.openDetail(*c)
		}
	case "l":
		if !a.busy {
			return a, a.startBusy(a.logout())
		}
	}
	return a, nil
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.detailView.Blur()
		a.detailView = nil
		a.detailCtl = nil
		a.busy = false
		a.notice = ""
		a.screen = ScreenCoffees
		return a, nil
	case "ctrl+r":
		if !a.busy {
			return a, a.startBusy(a.loadDetail(a.detailCtl))
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.detailView, cmd = a.detailView.Update(msg)
	return a, cmd
}

// openDetail switches to the detail screen for c and starts loading it
func (a *App) openDetail(c client.CoffeeItem) tea.Cmd {
	a.detailCtl = controller.NewDetail(a.repo, a.network, c.ID)
	a.detailView = detail.New(a.contentWidth(), a.contentHeight())
	a.screen = ScreenDetail
	a.notice = ""
	return tea.Batch(a.detailView.Focus(), a.startBusy(a.loadDetail(a.detailCtl)))
}

// showLogin returns to the login screen with notice
func (a *App) showLogin(notice string) {
	username := a.repo.CurrentSession().Username
	if a.loginForm != nil {
		username = a.loginForm.Username()
	}
	a.loginForm = login.New(username, notice)
	a.screen = ScreenLogin
	a.detailView = nil
	a.detailCtl = nil
	a.list.Clear()
	a.notice = ""
}

// onSessionChanged follows logins and logouts made outside this screen, such
// as a 401 that cleared the session or another process writing the file
func (a *App) onSessionChanged(s session.Session) tea.Cmd {
	switch {
	case !s.Active() && a.screen != ScreenLogin:
		slog.Info("Session ended, returning to login")
		a.busy = false
		a.showLogin(sessionEndedNotice)
		return a.loginForm.Init()
	case s.Active() && a.screen == ScreenLogin && !a.busy:
		slog.Info("Session started elsewhere", "username", s.Username)
		a.loginForm = nil
		a.screen = ScreenCoffees
		a.list.Clear()
		return a.startBusy(a.loadCoffees())
	}
	return nil
}

// handleError routes a failed operation by kind
func (a *App) handleError(err error) tea.Cmd {
	kind := controller.KindOf(err)
	slog.Warn("Operation failed", "kind", kind.String(), "error", err)

	switch kind {
	case controller.KindSessionExpired, controller.KindNoSession:
		a.showLogin(sessionExpiredNotice)
		return a.loginForm.Init()
	case controller.KindCanceled:
		return nil
	case controller.KindOffline:
		a.setNotice("No network connection. Check your connection and try again.", true)
	case controller.KindInvalidInput:
		a.setNotice("Write something before sending.", true)
	default:
		a.setNotice(err.Error(), true)
	}
	return nil
}

func (a *App) setNotice(msg string, isErr bool) {
	a.notice = msg
	a.noticeErr = isErr
}

// startBusy shows the spinner while cmd runs
func (a *App) startBusy(cmd tea.Cmd) tea.Cmd {
	a.busy = true
	return tea.Batch(a.spinner.Tick, cmd)
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenCoffees:
		content = styles.ActivePanel.Width(a.contentWidth()).Render(a.list.View())
	case ScreenDetail:
		content = a.viewDetail()
	}

	if line := a.statusLine(); line != "" {
		content += "\n" + line
	}
	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.loginForm == nil {
		return ""
	}
	return styles.Panel.Width(a.contentWidth()).Render(a.loginForm.View())
}

func (a *App) viewDetail() string {
	if a.detailView == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.detailView.View())
}

// statusLine renders the spinner or the current notice
func (a *App) statusLine() string {
	if a.busy {
		return a.spinner.View() + " " + styles.Subtitle.Render("Working...")
	}
	if a.notice == "" {
		return ""
	}
	if a.noticeErr {
		return styles.StatusCritical.Render(icons.Critical.String() + " " + a.notice)
	}
	return styles.StatusOK.Render(icons.CheckOK.String() + " " + a.notice)
}

// frameWidth returns the width used by header and footer
func (a *App) frameWidth() int {
	// Use width-1 to prevent wrapping on terminals that reserve the last column
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// contentWidth calculates the width for the main panel
func (a *App) contentWidth() int {
	return a.frameWidth() - panelPadding
}

// contentHeight calculates the height available inside the main panel
func (a *App) contentHeight() int {
	// Header, footer, panel border and padding, status line
	h := a.height - 9
	if h < 6 {
		h = 6
	}
	return h
}

// renderHeader creates the header bar with app branding and the signed in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.Coffee.String(), titleStyle.Render("Coffee Catalog"))

	rightText := ""
	if s := a.repo.CurrentSession(); s.Active() && a.screen != ScreenLogin {
		rightText = " " + contextStyle.Render(icons.User.String()+" "+s.Username) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// shortcuts lists the keys for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case ScreenCoffees:
		return []string{"↑↓ Navigate", "Enter Open", "r Refresh", "l Logout", "q Quit"}
	case ScreenDetail:
		return []string{"Enter Send", "ctrl+r Reload", "Esc Back"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := styles.KeyStyle
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenLogin {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlainText) - lipgloss.Width(rightPlainText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// waitForSession creates a command that delivers the next session value
func (a *App) waitForSession() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-a.sessions
		if !ok {
			return nil
		}
		return sessionChangedMsg{session: s}
	}
}

// login creates a command that runs the login state machine
func (a *App) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{state: a.catalog.Login(a.ctx, username, password)}
	}
}

// loadCoffees creates a command to fetch the coffee list
func (a *App) loadCoffees() tea.Cmd {
	return func() tea.Msg {
		coffees, err := a.catalog.Refresh(a.ctx)
		return coffeesLoadedMsg{coffees: coffees, err: err}
	}
}

// loadDetail creates a command to fetch a coffee and its comments
func (a *App) loadDetail(ctl *controller.Detail) tea.Cmd {
	return func() tea.Msg {
		return detailLoadedMsg{ctl: ctl, err: ctl.Load(a.ctx)}
	}
}

// submitComment creates a command that posts a comment and refetches the list
func (a *App) submitComment(ctl *controller.Detail, text string) tea.Cmd {
	return func() tea.Msg {
		comments, err := ctl.SubmitComment(a.ctx, text)
		return commentSentMsg{ctl: ctl, comments: comments, err: err}
	}
}

// logout creates a command that clears the session
func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		return logoutDoneMsg{err: a.catalog.Logout(a.ctx)}
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done
func Run(ctx context.Context, repo controller.Repository, network connectivity.Checker) error {
	app := New(ctx, repo, network)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
