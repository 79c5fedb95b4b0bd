package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.DimStyle).
		Headers(headers...)
}

func printCategories(w io.Writer, cats []domain.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories")
		return
	}
	t := newTable("ID", "NAME", "SLUG")
	for _, c := range cats {
		t.Row(strconv.FormatInt(c.ID, 10), c.Name, c.Slug)
	}
	fmt.Fprintln(w, t.Render())
}

func printVideos(w io.Writer, videos []domain.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "No videos")
		return
	}
	t := newTable("ID", "TITLE", "CATEGORY", "DURATION", "VIEWS", "UPLOADER")
	for _, v := range videos {
		t.Row(
			strconv.FormatInt(v.ID, 10),
			styles.Truncate(v.Title, 48),
			v.Category.Name,
			v.FormattedDuration(),
			v.FormattedViews(),
			v.UploaderName(),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func printVideoPage(w io.Writer, videos []domain.Video, p domain.Pagination) {
	printVideos(w, videos)
	fmt.Fprintf(w, "Page %d of %d · %d videos\n", p.CurrentPage, p.LastPage, p.Total)
}

func printVideo(w io.Writer, v *domain.Video, mediaURL string) {
	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%-12s %s\n", label+":", value)
	}

	fmt.Fprintln(w, styles.TitleStyle.Render(v.Title))
	field("ID", strconv.FormatInt(v.ID, 10))
	field("Category", v.Category.Name)
	field("Uploader", v.UploaderName())
	field("Duration", v.FormattedDuration())
	field("Views", v.FormattedViews())
	field("Featured", strconv.FormatBool(v.IsFeatured))
	if !v.CreatedAt.IsZero() {
		field("Uploaded", v.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	field("File", mediaURL)
	if v.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, v.Description)
	}
}
