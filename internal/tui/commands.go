package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/api"
	"github.com/mmcdole/reel/internal/catalog"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/player"
	"github.com/mmcdole/reel/internal/session"
)

// Command factories for async operations

const (
	requestTimeout = 30 * time.Second
	uploadTimeout  = 10 * time.Minute
)

// NavigateCmd routes to path through the guard
func NavigateCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: path}
	}
}

// CheckAuthCmd validates the stored token against the backend
func CheckAuthCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		s.CheckAuth(ctx)
		return AuthCheckedMsg{}
	}
}

// LoadCategoriesCmd fetches categories unless already loaded
func LoadCategoriesCmd(c *catalog.Categories, force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		c.FetchCategories(ctx, force)
		return CategoriesLoadedMsg{}
	}
}

// LoadVideosCmd fetches the current page with the active filter
func LoadVideosCmd(v *catalog.Videos) tea.Cmd {
	return videosCmd("loading videos", v.FetchVideos)
}

// LoadFeaturedCmd fetches the featured strip
func LoadFeaturedCmd(v *catalog.Videos) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := v.FetchFeaturedVideos(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading featured videos"}
		}
		return FeaturedLoadedMsg{}
	}
}

// SetFilterCmd applies a filter change and refetches from page one
func SetFilterCmd(v *catalog.Videos, update domain.FilterUpdate) tea.Cmd {
	return videosCmd("filtering videos", func(ctx context.Context) error {
		return v.SetFilter(ctx, update)
	})
}

// SetPageCmd moves to page; out of range pages are ignored by the catalog
func SetPageCmd(v *catalog.Videos, page int) tea.Cmd {
	return videosCmd("changing page", func(ctx context.Context) error {
		return v.SetPage(ctx, page)
	})
}

func videosCmd(what string, fetch func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := fetch(ctx); err != nil {
			return ErrMsg{Err: err, Context: what}
		}
		return VideosLoadedMsg{}
	}
}

// LoadVideoCmd fetches a single video for the detail screen
func LoadVideoCmd(v *catalog.Videos, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return VideoLoadedMsg{ID: id, Video: v.FetchVideo(ctx, id)}
	}
}

// LoginCmd exchanges credentials for a session
func LoginCmd(s *session.Session, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return LoginResultMsg{Err: s.Login(ctx, email, password)}
	}
}

// LogoutCmd ends the session; it cannot fail
func LogoutCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		s.Logout(ctx)
		return LoggedOutMsg{}
	}
}

// ExpireSessionCmd drops a token the backend has rejected
func ExpireSessionCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		s.Logout(ctx)
		return LoggedOutMsg{Expired: true}
	}
}

// uploadForm is the validated content of the upload screen
type uploadForm struct {
	VideoPath     string
	ThumbnailPath string
	Title         string
	Description   string
	CategoryID    int64
}

// UploadCmd opens the selected files and publishes them
func UploadCmd(v *catalog.Videos, token string, form uploadForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		video, err := uploadFiles(ctx, v, token, form)
		return UploadResultMsg{Video: video, Err: err}
	}
}

func uploadFiles(ctx context.Context, v *catalog.Videos, token string, form uploadForm) (*domain.Video, error) {
	f, err := os.Open(form.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	defer f.Close()

	req := domain.UploadRequest{
		Title:       form.Title,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		FileName:    filepath.Base(form.VideoPath),
		Video:       f,
	}

	if form.ThumbnailPath != "" {
		thumb, err := os.Open(form.ThumbnailPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open thumbnail: %w", err)
		}
		defer thumb.Close()
		req.ThumbnailName = filepath.Base(form.ThumbnailPath)
		req.Thumbnail = thumb
	}

	return v.Upload(ctx, token, req)
}

// ProbeFunc checks the configured API
type ProbeFunc func(ctx context.Context) (*api.ProbeResult, error)

// ProbeCmd runs a connectivity check for the test screen
func ProbeCmd(probe ProbeFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		result, err := probe(ctx)
		return ProbeResultMsg{Result: result, Err: err}
	}
}

// PlayCmd opens url in the external player
func PlayCmd(l *player.Launcher, url, title string) tea.Cmd {
	return func() tea.Msg {
		if err := l.Launch(url); err != nil {
			return ErrMsg{Err: err, Context: "starting playback"}
		}
		return PlaybackStartedMsg{Title: title}
	}
}
