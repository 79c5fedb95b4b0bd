package tui

import (
	"github.com/mmcdole/reel/internal/api"
	"github.com/mmcdole/reel/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// NavigateMsg asks the app to show path
type NavigateMsg struct {
	Path string
}

// AuthCheckedMsg signals that the stored token was validated or dropped
type AuthCheckedMsg struct{}

// CategoriesLoadedMsg signals that a category fetch finished; the outcome
// is read from the catalog
type CategoriesLoadedMsg struct{}

// VideosLoadedMsg signals that the video list was refreshed
type VideosLoadedMsg struct{}

// FeaturedLoadedMsg signals that the featured strip was refreshed
type FeaturedLoadedMsg struct{}

// VideoLoadedMsg carries a single video; Video is nil when it could not be loaded
type VideoLoadedMsg struct {
	ID    int64
	Video *domain.Video
}

// LoginResultMsg carries the outcome of a login attempt
type LoginResultMsg struct {
	Err error
}

// LoggedOutMsg signals that the session was cleared. Expired is set when
// the backend rejected the token.
type LoggedOutMsg struct {
	Expired bool
}

// UploadResultMsg carries the outcome of an upload
type UploadResultMsg struct {
	Video *domain.Video
	Err   error
}

// ProbeResultMsg carries the result of an API connectivity check
type ProbeResultMsg struct {
	Result *api.ProbeResult
	Err    error
}

// PlaybackStartedMsg signals that the player was launched
type PlaybackStartedMsg struct {
	Title string
}
