// Package browse implements the full-screen school browser. It is a
// bubbletea program with three screens: login, the guarded school list, and
// a school detail pane. Session broadcasts drive screen switching, so a
// logout or token teardown anywhere in the process drops the UI back to the
// login screen.
package browse

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"insider/cmd/insider/ui"
	"insider/internal/api"
	"insider/internal/schools"
	"insider/internal/session"
	"insider/internal/store"
)

type screen int

const (
	screenLogin screen = iota
	screenList
	screenDetail
)

// Deps is the application wiring the browser needs.
type Deps struct {
	Client   *api.Client
	Session  *session.Store
	Guard    *session.Guard
	Cache    *store.Cache
	CacheTTL time.Duration
}

// Model is the top-level bubbletea model.
type Model struct {
	deps  Deps
	theme ui.Theme

	screen screen
	width  int
	height int
	status string
	errMsg string

	// Login screen
	emailInput    textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	loggingIn     bool

	// School list
	schoolList list.Model
	loaded     bool

	// Detail pane
	detail   viewport.Model
	selected *api.School
	summary  string

	// Session broadcasts
	snapshots <-chan session.Snapshot
	unsub     func()
}

// schoolItem adapts an api.School to the bubbles list.
type schoolItem struct {
	school api.School
}

func (i schoolItem) Title() string { return i.school.SchoolName }
func (i schoolItem) Description() string {
	desc := i.school.Conference
	if sports := schools.SportsOf(i.school); len(sports) > 0 {
		if desc != "" {
			desc += "  "
		}
		for n, s := range sports {
			if n > 0 {
				desc += "/"
			}
			desc += s
		}
	}
	if desc == "" {
		desc = "no programs listed"
	}
	return desc
}
func (i schoolItem) FilterValue() string { return i.school.SchoolName }

// New builds the browser model. The starting screen depends on whether a
// token is already stored.
func New(deps Deps) Model {
	theme := ui.DetectTheme()

	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Accent).BorderForeground(theme.Accent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Muted).BorderForeground(theme.Accent)

	schoolList := list.New(nil, delegate, 0, 0)
	schoolList.Title = "Schools"
	schoolList.SetShowStatusBar(false)

	start := screenLogin
	if deps.Session.Tokens().Token() != "" {
		start = screenList
	}

	snapshots, unsub := deps.Session.Subscribe()

	return Model{
		deps:          deps,
		theme:         theme,
		screen:        start,
		emailInput:    email,
		passwordInput: password,
		schoolList:    schoolList,
		detail:        viewport.New(0, 0),
		snapshots:     snapshots,
		unsub:         unsub,
	}
}

// Init kicks off the session watch and, when already logged in, the
// optimistic school load plus background token validation.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForSnapshot(m.snapshots), textinput.Blink}
	if m.screen == screenList {
		// Optimistic rendering: show the list immediately, validate behind it.
		_ = m.deps.Guard.Allow(context.Background())
		cmds = append(cmds, m.loadSchools())
	}
	return tea.Batch(cmds...)
}

// Close releases the session subscription.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}
