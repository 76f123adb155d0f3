package browse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"insider/internal/api"
	"insider/internal/logging"
	"insider/internal/session"
)

// Messages

type snapshotMsg struct {
	snap session.Snapshot
	ok   bool
}

type schoolsMsg struct {
	schools   []api.School
	fromCache bool
	err       error
}

type loginMsg struct {
	name string
	err  error
}

type detailMsg struct {
	school  *api.School
	summary string
	err     error
}

// waitForSnapshot delivers the next session broadcast as a message. It is
// re-armed after every receive.
func waitForSnapshot(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		return snapshotMsg{snap: snap, ok: ok}
	}
}

func (m Model) loadSchools() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if deps.Cache != nil && !deps.Cache.Stale(deps.CacheTTL) {
			if cached, err := deps.Cache.LoadSchools(); err == nil && len(cached) > 0 {
				return schoolsMsg{schools: cached, fromCache: true}
			}
		}

		fresh, err := deps.Client.Schools(ctx)
		if err != nil {
			if deps.Cache != nil {
				if cached, cacheErr := deps.Cache.LoadSchools(); cacheErr == nil && len(cached) > 0 {
					return schoolsMsg{schools: cached, fromCache: true}
				}
			}
			return schoolsMsg{err: err}
		}
		if deps.Cache != nil {
			if err := deps.Cache.SaveSchools(fresh); err != nil {
				logging.CacheWarn("cache write failed: %v", err)
			}
		}
		return schoolsMsg{schools: fresh}
	}
}

func (m Model) login(email, password string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := deps.Client.Login(ctx, email, password)
		if err != nil {
			return loginMsg{err: err}
		}
		if err := deps.Session.Tokens().Save(resp.Access, resp.Refresh); err != nil {
			return loginMsg{err: err}
		}
		_ = deps.Session.FetchUser(ctx)
		return loginMsg{name: resp.FirstName}
	}
}

func (m Model) loadDetail(school api.School) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		full, err := deps.Client.School(ctx, school.ID)
		if err != nil {
			// The list row still has enough to show.
			full = &school
		}

		var summary string
		sports := []string{"mbb", "wbb", "fb"}
		for _, sport := range sports {
			s, err := deps.Client.ReviewSummary(ctx, school.ID, sport)
			if err == nil && s.Summary != "" {
				rendered, renderErr := glamour.Render(s.Summary, "auto")
				if renderErr != nil {
					rendered = s.Summary
				}
				summary = rendered
				break
			}
		}

		return detailMsg{school: full, summary: summary}
	}
}

// Update routes messages by screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.schoolList.SetSize(msg.Width-2, msg.Height-4)
		m.detail.Width = msg.Width - 4
		m.detail.Height = msg.Height - 6
		return m, nil

	case snapshotMsg:
		if !msg.ok {
			return m, tea.Quit
		}
		// A teardown anywhere (401, logout in another process) redirects
		// to the login screen.
		if !msg.snap.IsLoggedIn && !msg.snap.Loading && m.screen != screenLogin {
			m.screen = screenLogin
			m.status = "Session ended. Log in to continue."
			m.emailInput.Focus()
			m.focusIndex = 0
		}
		if msg.snap.IsLoggedIn && msg.snap.User != nil {
			m.status = fmt.Sprintf("Logged in as %s %s", msg.snap.User.FirstName, msg.snap.User.LastName)
		}
		return m, waitForSnapshot(m.snapshots)

	case schoolsMsg:
		m.loaded = true
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("school list unavailable: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		items := make([]list.Item, len(msg.schools))
		for i, s := range msg.schools {
			items[i] = schoolItem{school: s}
		}
		if msg.fromCache {
			m.status = "Showing cached schools"
		}
		return m, m.schoolList.SetItems(items)

	case loginMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("login failed: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "Welcome, " + msg.name
		m.screen = screenList
		m.passwordInput.SetValue("")
		return m, m.loadSchools()

	case detailMsg:
		m.selected = msg.school
		m.summary = msg.summary
		m.detail.SetContent(m.detailContent())
		m.detail.GotoTop()
		m.screen = screenDetail
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			m.focusIndex = (m.focusIndex + 1) % 2
			if m.focusIndex == 0 {
				m.emailInput.Focus()
				m.passwordInput.Blur()
			} else {
				m.emailInput.Blur()
				m.passwordInput.Focus()
			}
			return m, textinput.Blink

		case tea.KeyEnter:
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.emailInput.Blur()
				m.passwordInput.Focus()
				return m, textinput.Blink
			}
			email := strings.TrimSpace(m.emailInput.Value())
			password := m.passwordInput.Value()
			if email == "" || password == "" {
				m.errMsg = "email and password are required"
				return m, nil
			}
			m.loggingIn = true
			m.errMsg = ""
			return m, m.login(email, password)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.emailInput, cmd = m.emailInput.Update(msg)
	cmds = append(cmds, cmd)
	m.passwordInput, cmd = m.passwordInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.schoolList.SettingFilter() {
		switch key.String() {
		case "q":
			return m, tea.Quit

		case "enter":
			if item, ok := m.schoolList.SelectedItem().(schoolItem); ok {
				m.status = "Loading " + item.school.SchoolName + "..."
				return m, m.loadDetail(item.school)
			}

		case "r":
			m.status = "Refreshing..."
			return m, m.loadSchools()

		case "L":
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = m.deps.Session.Logout(ctx)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.schoolList, cmd = m.schoolList.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "backspace":
			m.screen = screenList
			m.status = ""
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}
