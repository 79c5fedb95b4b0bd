package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/player"
	"github.com/mmcdole/reel/internal/router"
	"github.com/mmcdole/reel/internal/session"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Deps are the state containers and collaborators the screens drive
type Deps struct {
	Session    *session.Session
	Categories *catalog.Categories
	Videos     *catalog.Videos
	Guard      *router.Guard
	Launcher   *player.Launcher
	Probe      ProbeFunc
	MediaURL   func(path string) string
	APIURL     string
	Logger     *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	deps    Deps
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	// Navigation
	nav       router.Navigation
	history   []string
	startPath string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool

	// Screens
	home   homeScreen
	detail detailScreen
	login  loginScreen
	upload uploadScreen
	diag   diagScreen
}

// NewModel creates the application model. startPath is resolved through
// the guard on Init; empty means "/".
func NewModel(deps Deps, startPath string) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.MediaURL == nil {
		deps.MediaURL = func(path string) string { return path }
	}
	if startPath == "" {
		startPath = "/"
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.SpinnerStyle

	route, params := router.Match("/")
	return Model{
		deps:      deps,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		nav:       router.Navigation{Route: route, Params: params},
		startPath: startPath,
		home:      newHomeScreen(),
		login:     newLoginScreen(),
		upload:    newUploadScreen(),
	}
}

// Init runs the startup fetches and opens the start path
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		CheckAuthCmd(m.deps.Session),
		LoadCategoriesCmd(m.deps.Categories, false),
		LoadFeaturedCmd(m.deps.Videos),
		LoadVideosCmd(m.deps.Videos),
		NavigateCmd(m.startPath),
	)
}

// Route returns the screen currently shown
func (m Model) Route() router.Name {
	return m.nav.Route.Name
}

// Path returns the path currently shown
func (m Model) Path() string {
	return m.nav.Path
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case NavigateMsg:
		return m.navigate(msg.Path, true)

	case AuthCheckedMsg:
		if u := m.deps.Session.User(); u != nil {
			m.deps.Logger.Debug("session valid", "user", u.Email)
		}
		return m, nil

	case CategoriesLoadedMsg:
		if errMsg := m.deps.Categories.ErrorMessage(); errMsg != "" {
			m.setStatus(errMsg, true)
		}
		return m, nil

	case VideosLoadedMsg:
		m.home.cursor = clamp(m.home.cursor, len(m.homeResults()))
		return m, nil

	case FeaturedLoadedMsg:
		return m, nil

	case VideoLoadedMsg:
		if m.nav.Route.Name == router.VideoDetail && m.detail.id == msg.ID {
			m.detail.loading = false
			m.detail.video = msg.Video
		}
		return m, nil

	case LoginResultMsg:
		return m.handleLoginResult(msg)

	case LoggedOutMsg:
		if msg.Expired {
			m.setStatus("Session expired, log in again", true)
			if m.nav.Route.RequiresAuth {
				// the guard sends us to login and back here afterwards
				return m.navigate(m.nav.Path, false)
			}
			return m, nil
		}
		m.setStatus("Logged out", false)
		if m.nav.Route.RequiresAuth {
			return m.navigate("/", false)
		}
		return m, nil

	case UploadResultMsg:
		return m.handleUploadResult(msg)

	case ProbeResultMsg:
		m.diag.loading = false
		m.diag.result = msg.Result
		m.diag.err = msg.Err
		return m, nil

	case PlaybackStartedMsg:
		m.setStatus("Playing: "+msg.Title, false)
		return m, nil

	case ErrMsg:
		m.deps.Logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		m.setStatus(errorText(msg), true)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.inputActive() && key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.nav.Route.Name {
	case router.Home:
		return m.updateHome(msg)
	case router.VideoDetail:
		return m.updateDetail(msg)
	case router.Login:
		return m.updateLogin(msg)
	case router.Upload:
		return m.updateUpload(msg)
	case router.Test:
		return m.updateDiag(msg)
	default:
		if key.Matches(msg, m.keys.Back, m.keys.Enter) {
			return m.navigate("/", false)
		}
	}
	return m, nil
}

// inputActive reports whether keystrokes go to a text field
func (m Model) inputActive() bool {
	switch m.nav.Route.Name {
	case router.Login, router.Upload:
		return true
	case router.Home:
		return m.home.filtering || m.home.searching
	}
	return false
}

// navigate resolves path through the guard and enters the resulting screen.
// push records the current path for back navigation.
func (m Model) navigate(path string, push bool) (Model, tea.Cmd) {
	nav := m.deps.Guard.Resolve(path)

	if push && m.nav.Path != "" && m.nav.Path != nav.Path {
		m.history = append(m.history, m.nav.Path)
	}
	m.nav = nav
	m.deps.Logger.Debug("navigate", "path", nav.Path, "route", nav.Route.Name, "redirected", nav.Redirected)

	switch nav.Route.Name {
	case router.VideoDetail:
		id, ok := nav.Params.Int64("id")
		if !ok {
			m.detail = detailScreen{invalid: true}
			return m, nil
		}
		m.detail = detailScreen{id: id, loading: true}
		return m, LoadVideoCmd(m.deps.Videos, id)

	case router.Login:
		m.login = newLoginScreen()
		if nav.Redirected {
			m.login.redirect = nav.Redirect
			m.setStatus("Log in to continue", false)
		}
		return m, m.login.focusCmd()

	case router.Upload:
		m.upload = newUploadScreen()
		return m, m.upload.focusCmd()

	case router.Test:
		m.diag = diagScreen{loading: true}
		if m.deps.Probe == nil {
			m.diag.loading = false
			m.diag.err = errors.New("no API configured")
			return m, nil
		}
		return m, ProbeCmd(m.deps.Probe)
	}

	return m, nil
}

// back returns to the previous path, or home when there is none
func (m Model) back() (Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m.navigate("/", false)
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.navigate(prev, false)
}

func (m Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.Err != nil {
		m.login.err = loginErrorText(msg.Err)
		m.login.password.SetValue("")
		return m, nil
	}

	name := ""
	if u := m.deps.Session.User(); u != nil {
		name = u.Name
	}
	m.setStatus("Logged in as "+name, false)

	target := m.login.redirect
	if target == "" {
		target = "/"
	}
	return m.navigate(target, false)
}

func (m Model) handleUploadResult(msg UploadResultMsg) (tea.Model, tea.Cmd) {
	m.upload.submitting = false
	if msg.Err != nil {
		if errors.Is(msg.Err, domain.ErrAuthFailed) {
			m.upload.err = "Session expired, log in again"
			return m, ExpireSessionCmd(m.deps.Session)
		}
		m.upload.err = msg.Err.Error()
		return m, nil
	}

	m.setStatus(fmt.Sprintf("Uploaded %q", msg.Video.Title), false)
	next, cmd := m.navigate(router.VideoPath(msg.Video.ID), false)
	return next, tea.Batch(cmd, LoadVideosCmd(m.deps.Videos))
}

func (m *Model) setStatus(text string, isErr bool) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
}

func loginErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthFailed):
		return "Invalid email or password"
	case errors.Is(err, domain.ErrServerOffline):
		return "Cannot reach the server"
	default:
		return err.Error()
	}
}

func errorText(msg ErrMsg) string {
	if errors.Is(msg.Err, domain.ErrServerOffline) {
		return msg.Context + ": server offline"
	}
	return msg.Error()
}

// View renders the current screen with header and footer
func (m Model) View() string {
	var body string
	switch m.nav.Route.Name {
	case router.Home:
		body = m.viewHome()
	case router.VideoDetail:
		body = m.viewDetail()
	case router.Login:
		body = m.viewLogin()
	case router.Upload:
		body = m.viewUpload()
	case router.Test:
		body = m.viewDiag()
	default:
		body = m.viewNotFound()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		styles.BodyStyle.Render(body),
		m.viewFooter(),
	)
}

func (m Model) viewHeader() string {
	brand := styles.BrandStyle.Render("reel")

	who := styles.DimStyle.Render("not logged in")
	if u := m.deps.Session.User(); u != nil {
		who = styles.SubtitleStyle.Render(u.Name)
	} else if m.deps.Session.IsAuthenticated() {
		who = styles.DimStyle.Render("checking session…")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		brand, " ",
		styles.DimStyle.Render(m.nav.Path), "  ",
		who,
	)
}

func (m Model) viewFooter() string {
	status := ""
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			status = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			status = styles.SuccessStyle.Render(m.StatusMsg)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, m.help.ShortHelpView(m.helpBindings()))
}

func (m Model) helpBindings() []key.Binding {
	k := m.keys
	switch m.nav.Route.Name {
	case router.Home:
		if m.home.filtering || m.home.searching {
			return []key.Binding{k.Enter, k.Escape}
		}
		return []key.Binding{k.Enter, k.Tab, k.Filter, k.Search, k.NextPage, k.PrevPage, k.Upload, k.Auth, k.Test, k.Quit}
	case router.VideoDetail:
		return []key.Binding{k.Play, k.Back, k.Quit}
	case router.Login, router.Upload:
		return []key.Binding{k.Tab, k.Enter, k.Escape}
	case router.Test:
		return []key.Binding{k.Refresh, k.Back, k.Quit}
	}
	return []key.Binding{k.Back, k.Quit}
}

func (m Model) viewNotFound() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Page not found"),
		"",
		styles.SubtitleStyle.Render(fmt.Sprintf("Nothing lives at %s.", m.nav.Path)),
		styles.DimStyle.Render("Press enter to go home."),
	)
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
