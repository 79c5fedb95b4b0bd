package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ReelRed    = lipgloss.Color("#E11D48")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Amber      = lipgloss.Color("#F59E0B")
	Red        = lipgloss.Color("#EF4444")
)

// SpinnerFrames is used by the CLI spinner outside the TUI
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ReelRed)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	BrandStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(ReelRed).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ReelRed)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Amber)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	ActiveItemStyle = lipgloss.NewStyle().
			Foreground(ReelRed).
			Bold(true).
			Padding(0, 1)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(ReelRed).
				Bold(true)
)

// Panel styles
var (
	SidebarStyle = lipgloss.NewStyle().
			Padding(0, 1)

	BodyStyle = lipgloss.NewStyle().
			Padding(1, 2)

	FeaturedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Amber).
				Padding(0, 1)

	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ReelRed).
			Padding(1, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Width(14)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ReelRed)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(ReelRed).
				Bold(true)
)

// Truncate shortens s to width runes, ending in an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// Highlight renders the characters starting at the byte offsets in idx
// with MatchHighlightStyle
func Highlight(s string, idx []int) string {
	if len(idx) == 0 {
		return s
	}
	marked := make(map[int]bool, len(idx))
	for _, i := range idx {
		marked[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if marked[i] {
			b.WriteString(MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
