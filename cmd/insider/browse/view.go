package browse

import (
	"fmt"
	"strings"

	"insider/internal/schools"
)

// View renders the current screen.
func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.viewLogin()
	case screenDetail:
		return m.viewDetail()
	default:
		return m.viewList()
	}
}

func (m Model) viewLogin() string {
	var b strings.Builder

	b.WriteString(m.theme.TitleStyle().Render("Athletic Insider"))
	b.WriteString("\n\n")
	b.WriteString("  Log in to browse schools and reviews.\n\n")
	b.WriteString("  " + m.emailInput.View() + "\n")
	b.WriteString("  " + m.passwordInput.View() + "\n\n")

	if m.loggingIn {
		b.WriteString("  Logging in...\n")
	}
	if m.errMsg != "" {
		b.WriteString("  " + m.theme.ErrorStyle().Render(m.errMsg) + "\n")
	}
	if m.status != "" {
		b.WriteString("  " + m.theme.StatusStyle().Render(m.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.StatusStyle().Render("tab: switch field  enter: submit  esc: quit"))
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder

	if !m.loaded {
		b.WriteString(m.theme.TitleStyle().Render("Athletic Insider"))
		b.WriteString("\n\n  Loading schools...\n")
		return b.String()
	}

	b.WriteString(m.schoolList.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(m.theme.ErrorStyle().Render(m.errMsg) + "\n")
	}
	bar := "enter: open  r: refresh  /: filter  L: log out  q: quit"
	if m.status != "" {
		bar = m.status + "  |  " + bar
	}
	b.WriteString(m.theme.StatusStyle().Render(bar))
	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder

	name := ""
	if m.selected != nil {
		name = m.selected.SchoolName
	}
	b.WriteString(m.theme.TitleStyle().Render(name))
	b.WriteString("\n")
	b.WriteString(m.detail.View())
	b.WriteString("\n")
	b.WriteString(m.theme.StatusStyle().Render("up/down: scroll  esc: back  q: back"))
	return b.String()
}

// detailContent builds the text for the detail viewport.
func (m Model) detailContent() string {
	if m.selected == nil {
		return ""
	}
	s := m.selected

	var b strings.Builder
	if s.Conference != "" {
		fmt.Fprintf(&b, "Conference: %s\n", s.Conference)
	}
	if s.Location != "" {
		fmt.Fprintf(&b, "Location:   %s\n", s.Location)
	}
	if len(s.AvailableSports) > 0 {
		fmt.Fprintf(&b, "Sports:     %s\n", strings.Join(s.AvailableSports, ", "))
	} else if codes := schools.SportsOf(*s); len(codes) > 0 {
		fmt.Fprintf(&b, "Sports:     %s\n", strings.Join(codes, ", "))
	}
	if len(s.Reviews) > 0 {
		fmt.Fprintf(&b, "Reviews:    %d\n", len(s.Reviews))
	}

	if m.summary != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.AccentStyle().Render("Review summary"))
		b.WriteString("\n")
		b.WriteString(m.summary)
	} else {
		b.WriteString("\nNo review summary available yet.\n")
	}
	return b.String()
}
