package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/router"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/styles"
)

type homePane int

const (
	paneVideos homePane = iota
	paneCategories
)

const sidebarWidth = 26

type homeScreen struct {
	pane      homePane
	catCursor int // 0 is "All categories"
	cursor    int

	filtering bool // local fuzzy filter over the loaded page
	filter    textinput.Model
	searching bool // server-side search prompt
	search    textinput.Model
}

func newHomeScreen() homeScreen {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.PromptStyle = styles.FilterPromptStyle
	filter.Placeholder = "filter this page"
	filter.CharLimit = 80

	search := textinput.New()
	search.Prompt = "search: "
	search.PromptStyle = styles.FilterPromptStyle
	search.Placeholder = "title or description"
	search.CharLimit = 120

	return homeScreen{filter: filter, search: search}
}

// homeResults is the loaded page, narrowed by the local filter when one is set
func (m Model) homeResults() []search.Result {
	videos := m.deps.Videos.Videos()
	if q := strings.TrimSpace(m.home.filter.Value()); q != "" {
		return search.FilterVideos(q, videos)
	}
	results := make([]search.Result, len(videos))
	for i, v := range videos {
		results[i] = search.Result{Video: v}
	}
	return results
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &m.home

	if h.filtering {
		switch {
		case key.Matches(msg, m.keys.Escape):
			h.filtering = false
			h.filter.SetValue("")
			h.filter.Blur()
		case key.Matches(msg, m.keys.Enter):
			h.filtering = false
			h.filter.Blur()
		default:
			var cmd tea.Cmd
			h.filter, cmd = h.filter.Update(msg)
			h.cursor = 0
			return m, cmd
		}
		return m, nil
	}

	if h.searching {
		switch {
		case key.Matches(msg, m.keys.Escape):
			h.searching = false
			h.search.Blur()
		case key.Matches(msg, m.keys.Enter):
			h.searching = false
			h.search.Blur()
			h.cursor = 0
			update := domain.WithoutSearch()
			if term := strings.TrimSpace(h.search.Value()); term != "" {
				update = domain.WithSearch(term)
			}
			return m, SetFilterCmd(m.deps.Videos, update)
		default:
			var cmd tea.Cmd
			h.search, cmd = h.search.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		if h.pane == paneVideos {
			h.pane = paneCategories
		} else {
			h.pane = paneVideos
		}

	case key.Matches(msg, m.keys.Up):
		if h.pane == paneCategories {
			h.catCursor = clamp(h.catCursor-1, len(m.deps.Categories.Categories())+1)
		} else {
			h.cursor = clamp(h.cursor-1, len(m.homeResults()))
		}

	case key.Matches(msg, m.keys.Down):
		if h.pane == paneCategories {
			h.catCursor = clamp(h.catCursor+1, len(m.deps.Categories.Categories())+1)
		} else {
			h.cursor = clamp(h.cursor+1, len(m.homeResults()))
		}

	case key.Matches(msg, m.keys.Enter):
		if h.pane == paneCategories {
			return m, m.selectCategory()
		}
		results := m.homeResults()
		if len(results) == 0 {
			return m, nil
		}
		id := results[clamp(h.cursor, len(results))].Video.ID
		return m.navigate(router.VideoPath(id), true)

	case key.Matches(msg, m.keys.Filter):
		h.filtering = true
		return m, h.filter.Focus()

	case key.Matches(msg, m.keys.Search):
		h.searching = true
		h.search.SetValue(m.deps.Videos.Filter().SearchTerm())
		h.search.CursorEnd()
		return m, h.search.Focus()

	case key.Matches(msg, m.keys.NextPage):
		return m, m.turnPage(1)

	case key.Matches(msg, m.keys.PrevPage):
		return m, m.turnPage(-1)

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(
			LoadCategoriesCmd(m.deps.Categories, true),
			LoadFeaturedCmd(m.deps.Videos),
			LoadVideosCmd(m.deps.Videos),
		)

	case key.Matches(msg, m.keys.Upload):
		return m.navigate("/upload", true)

	case key.Matches(msg, m.keys.Test):
		return m.navigate("/test", true)

	case key.Matches(msg, m.keys.Auth):
		if m.deps.Session.IsAuthenticated() {
			return m, LogoutCmd(m.deps.Session)
		}
		return m.navigate("/login", true)
	}

	return m, nil
}

func (m *Model) selectCategory() tea.Cmd {
	m.home.cursor = 0
	if m.home.catCursor == 0 {
		return SetFilterCmd(m.deps.Videos, domain.WithoutCategory())
	}
	cats := m.deps.Categories.Categories()
	i := m.home.catCursor - 1
	if i >= len(cats) {
		return nil
	}
	return SetFilterCmd(m.deps.Videos, domain.WithCategory(cats[i].ID))
}

func (m *Model) turnPage(delta int) tea.Cmd {
	p := m.deps.Videos.Pagination()
	target := p.CurrentPage + delta
	if !p.InRange(target) {
		return nil
	}
	m.home.cursor = 0
	return SetPageCmd(m.deps.Videos, target)
}

func (m Model) viewHome() string {
	sidebar := m.viewCategories()
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewFeatured(),
		m.viewVideoList(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", main)
}

func (m Model) viewCategories() string {
	cats := m.deps.Categories
	var lines []string

	title := styles.SubtitleStyle.Render("Categories")
	if m.home.pane == paneCategories {
		title = styles.TitleStyle.Render("Categories")
	}
	lines = append(lines, title, "")

	active, hasActive := m.deps.Videos.Filter().CategoryID()

	row := func(i int, label string, isActive bool) string {
		label = styles.Truncate(label, sidebarWidth-4)
		switch {
		case m.home.pane == paneCategories && m.home.catCursor == i:
			return styles.SelectedItemStyle.Render(label)
		case isActive:
			return styles.ActiveItemStyle.Render(label)
		default:
			return styles.NormalItemStyle.Render(label)
		}
	}

	lines = append(lines, row(0, "All categories", !hasActive))
	switch {
	case cats.Loading():
		lines = append(lines, " "+m.spinner.View()+" loading")
	case cats.ErrorMessage() != "":
		lines = append(lines, styles.ErrorStyle.Render(" "+styles.Truncate(cats.ErrorMessage(), sidebarWidth-2)))
	}
	for i, c := range cats.Categories() {
		lines = append(lines, row(i+1, c.Name, hasActive && c.ID == active))
	}

	return styles.SidebarStyle.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) viewFeatured() string {
	featured := m.deps.Videos.Featured()
	if len(featured) == 0 {
		return ""
	}

	cards := make([]string, 0, len(featured))
	for _, v := range featured {
		cards = append(cards, styles.FeaturedCardStyle.Render(
			styles.TitleStyle.Render(styles.Truncate(v.Title, 22))+"\n"+
				styles.DimStyle.Render(v.FormattedDuration()+" · "+v.FormattedViews()),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.AccentStyle.Render("Featured"),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		"",
	)
}

func (m Model) viewVideoList() string {
	var lines []string

	switch {
	case m.home.filtering:
		lines = append(lines, m.home.filter.View())
	case m.home.searching:
		lines = append(lines, m.home.search.View())
	default:
		var tags []string
		if q := m.home.filter.Value(); q != "" {
			tags = append(tags, "filter: "+q)
		}
		if term := m.deps.Videos.Filter().SearchTerm(); term != "" {
			tags = append(tags, "search: "+term)
		}
		if len(tags) > 0 {
			lines = append(lines, styles.FilterPromptStyle.Render(strings.Join(tags, "  ")))
		}
	}

	titleWidth := m.Width - sidebarWidth - 36
	if titleWidth < 20 {
		titleWidth = 40
	}

	results := m.homeResults()
	if len(results) == 0 && !m.deps.Videos.Loading() {
		lines = append(lines, styles.DimStyle.Render("No videos"))
	}
	for i, r := range results {
		title := styles.Truncate(r.Video.Title, titleWidth)
		if len(r.MatchedIndexes) > 0 && title == r.Video.Title {
			title = styles.Highlight(title, r.MatchedIndexes)
		}
		meta := styles.DimStyle.Render(fmt.Sprintf("  %s  %s  %s",
			r.Video.FormattedDuration(), r.Video.FormattedViews(), r.Video.UploaderName()))

		style := styles.NormalItemStyle
		if m.home.pane == paneVideos && i == m.home.cursor {
			style = styles.SelectedItemStyle
		}
		lines = append(lines, style.Render(title)+meta)
	}

	p := m.deps.Videos.Pagination()
	footer := fmt.Sprintf("Page %d of %d · %d videos", p.CurrentPage, p.LastPage, p.Total)
	if m.deps.Videos.Loading() {
		footer = m.spinner.View() + " " + footer
	}
	lines = append(lines, "", styles.DimStyle.Render(footer))

	return strings.Join(lines, "\n")
}
