package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/tui/styles"
)

const (
	fieldFile = iota
	fieldThumbnail
	fieldTitle
	fieldDescription
	fieldCategory
	fieldCount
)

var uploadLabels = [fieldCount]string{"Video file", "Thumbnail", "Title", "Description", "Category"}

type uploadScreen struct {
	inputs     [fieldCount]textinput.Model
	focus      int
	submitting bool
	err        string
}

func newUploadScreen() uploadScreen {
	var s uploadScreen
	placeholders := [fieldCount]string{
		"~/videos/clip.mp4",
		"optional image path",
		"",
		"optional",
		"name or id",
	}
	for i := range s.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 48
		in.CharLimit = 255
		in.Placeholder = placeholders[i]
		s.inputs[i] = in
	}
	s.inputs[fieldDescription].CharLimit = 2000
	return s
}

func (s *uploadScreen) focusCmd() tea.Cmd {
	for i := range s.inputs {
		s.inputs[i].Blur()
	}
	return s.inputs[s.focus].Focus()
}

func (s uploadScreen) value(field int) string {
	return strings.TrimSpace(s.inputs[field].Value())
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.upload
	if s.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.back()

	case key.Matches(msg, m.keys.Submit):
		return m.submitUpload()

	case key.Matches(msg, m.keys.Tab), msg.String() == "down":
		s.focus = (s.focus + 1) % fieldCount
		return m, s.focusCmd()

	case msg.String() == "shift+tab", msg.String() == "up":
		s.focus = (s.focus + fieldCount - 1) % fieldCount
		return m, s.focusCmd()

	case key.Matches(msg, m.keys.Enter):
		if s.focus == fieldCount-1 {
			return m.submitUpload()
		}
		s.focus++
		return m, s.focusCmd()
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return m, cmd
}

func (m Model) submitUpload() (tea.Model, tea.Cmd) {
	form, err := m.buildUploadForm()
	if err != nil {
		m.upload.err = err.Error()
		return m, nil
	}

	token := m.deps.Session.Token()
	if token == "" {
		return m.navigate("/login", true)
	}

	m.upload.err = ""
	m.upload.submitting = true
	return m, UploadCmd(m.deps.Videos, token, form)
}

func (m Model) buildUploadForm() (uploadForm, error) {
	s := m.upload

	var missing []string
	if s.value(fieldTitle) == "" {
		missing = append(missing, "title")
	}
	if s.value(fieldCategory) == "" {
		missing = append(missing, "category")
	}
	if s.value(fieldFile) == "" {
		missing = append(missing, "video file")
	}
	if len(missing) > 0 {
		return uploadForm{}, fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}

	cat, ok := m.deps.Categories.Resolve(s.value(fieldCategory))
	if !ok {
		return uploadForm{}, fmt.Errorf("unknown category %q", s.value(fieldCategory))
	}

	videoPath, err := config.ExpandPath(s.value(fieldFile))
	if err != nil {
		return uploadForm{}, err
	}
	thumbPath, err := config.ExpandPath(s.value(fieldThumbnail))
	if err != nil {
		return uploadForm{}, err
	}

	return uploadForm{
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
		Title:         s.value(fieldTitle),
		Description:   s.value(fieldDescription),
		CategoryID:    cat.ID,
	}, nil
}

func (m Model) viewUpload() string {
	s := m.upload
	lines := []string{styles.TitleStyle.Render("Upload video"), ""}

	for i, in := range s.inputs {
		label := styles.LabelStyle.Render(uploadLabels[i])
		lines = append(lines, label+in.View())
	}

	if q := s.value(fieldCategory); q != "" {
		if cat, ok := m.deps.Categories.Resolve(q); ok {
			lines = append(lines, styles.LabelStyle.Render("")+styles.DimStyle.Render("→ "+cat.Name))
		}
	}

	lines = append(lines, "")
	switch {
	case s.submitting:
		lines = append(lines, m.spinner.View()+" Uploading…")
	case s.err != "":
		lines = append(lines, styles.ErrorStyle.Render(s.err))
	default:
		lines = append(lines, styles.DimStyle.Render("enter on the last field or ctrl+s to upload"))
	}

	return styles.FormStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
