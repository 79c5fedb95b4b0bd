package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/api"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// diagScreen checks connectivity and shows what the client knows
type diagScreen struct {
	loading bool
	result  *api.ProbeResult
	err     error
}

func (m Model) updateDiag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Refresh):
		if m.deps.Probe == nil || m.diag.loading {
			return m, nil
		}
		m.diag = diagScreen{loading: true}
		return m, ProbeCmd(m.deps.Probe)
	}
	return m, nil
}

func (m Model) viewDiag() string {
	field := func(label, value string) string {
		return styles.LabelStyle.Render(label) + value
	}

	var probe string
	switch {
	case m.diag.loading:
		probe = m.spinner.View() + " probing…"
	case m.diag.err != nil:
		probe = styles.ErrorStyle.Render("✗ " + m.diag.err.Error())
	case m.diag.result != nil:
		probe = styles.SuccessStyle.Render(fmt.Sprintf("✓ reachable in %s, %d categories",
			m.diag.result.Latency.Round(time.Millisecond), m.diag.result.Categories))
	}

	sess := m.deps.Session
	user := "-"
	if u := sess.User(); u != nil {
		user = fmt.Sprintf("%s <%s>", u.Name, u.Email)
	}
	token := "none"
	if t := sess.Token(); t != "" {
		token = maskToken(t)
	}

	cats := m.deps.Categories
	p := m.deps.Videos.Pagination()
	f := m.deps.Videos.Filter()
	category := "all"
	if id, ok := f.CategoryID(); ok {
		category = fmt.Sprintf("%d", id)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("API test"),
		"",
		field("API URL", orDash(m.deps.APIURL)),
		field("Probe", probe),
		"",
		styles.SubtitleStyle.Render("Session"),
		field("State", sess.State().String()),
		field("User", user),
		field("Token", token),
		"",
		styles.SubtitleStyle.Render("Catalog"),
		field("Categories", fmt.Sprintf("%d loaded, initialized=%t", len(cats.Categories()), cats.Initialized())),
		field("Page", fmt.Sprintf("%d of %d (%d per page, %d total)", p.CurrentPage, p.LastPage, p.PerPage, p.Total)),
		field("Filter", fmt.Sprintf("category=%s search=%q", category, f.SearchTerm())),
	)
}

// maskToken shows only the first and last characters of a bearer token
func maskToken(t string) string {
	if len(t) <= 8 {
		return "****"
	}
	return t[:4] + "…" + t[len(t)-4:]
}
