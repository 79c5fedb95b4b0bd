package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/styles"
)

type loginScreen struct {
	email      textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	err        string
	redirect   string // path to open after a successful login
}

func newLoginScreen() loginScreen {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Width = 32
	email.Prompt = ""

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.Width = 32
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginScreen{email: email, password: password}
}

func (s *loginScreen) focusCmd() tea.Cmd {
	if s.focus == 0 {
		s.password.Blur()
		return s.email.Focus()
	}
	s.email.Blur()
	return s.password.Focus()
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.login
	if s.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.back()

	case key.Matches(msg, m.keys.Tab), msg.String() == "down", msg.String() == "up":
		s.focus = 1 - s.focus
		return m, s.focusCmd()

	case key.Matches(msg, m.keys.Enter):
		if s.focus == 0 {
			s.focus = 1
			return m, s.focusCmd()
		}
		email := strings.TrimSpace(s.email.Value())
		if email == "" || s.password.Value() == "" {
			s.err = "Email and password are required"
			return m, nil
		}
		s.err = ""
		s.submitting = true
		return m, LoginCmd(m.deps.Session, email, s.password.Value())
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return m, cmd
}

func (m Model) viewLogin() string {
	s := m.login
	lines := []string{
		styles.TitleStyle.Render("Log in"),
		"",
		styles.LabelStyle.Render("Email") + s.email.View(),
		styles.LabelStyle.Render("Password") + s.password.View(),
		"",
	}
	switch {
	case s.submitting:
		lines = append(lines, m.spinner.View()+" Signing in…")
	case s.err != "":
		lines = append(lines, styles.ErrorStyle.Render(s.err))
	}
	return styles.FormStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
