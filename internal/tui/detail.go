package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

type detailScreen struct {
	id      int64
	loading bool
	invalid bool // id in the path was not a number
	video   *domain.Video
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Play):
		v := m.detail.video
		if v == nil || m.deps.Launcher == nil {
			return m, nil
		}
		return m, PlayCmd(m.deps.Launcher, m.deps.MediaURL(v.FilePath), v.Title)
	}
	return m, nil
}

func (m Model) viewDetail() string {
	d := m.detail
	switch {
	case d.invalid:
		return styles.ErrorStyle.Render("Invalid video id")
	case d.loading:
		return m.spinner.View() + " Loading video…"
	case d.video == nil:
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.ErrorStyle.Render("Video not found"),
			styles.DimStyle.Render(fmt.Sprintf("Video %d could not be loaded.", d.id)),
		)
	}

	v := d.video
	field := func(label, value string) string {
		return styles.LabelStyle.Render(label) + value
	}

	uploaded := "-"
	if !v.CreatedAt.IsZero() {
		uploaded = v.CreatedAt.Local().Format("Jan 2, 2006")
	}

	title := styles.TitleStyle.Render(v.Title)
	if v.IsFeatured {
		title += " " + styles.WarnStyle.Render("★ featured")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		field("Category", orDash(v.Category.Name)),
		field("Uploader", orDash(v.UploaderName())),
		field("Duration", v.FormattedDuration()),
		field("Views", v.FormattedViews()),
		field("Uploaded", uploaded),
		field("Status", orDash(v.Status)),
		field("File", styles.DimStyle.Render(orDash(m.deps.MediaURL(v.FilePath)))),
		"",
		styles.SubtitleStyle.Width(72).Render(orDash(v.Description)),
	)
}
