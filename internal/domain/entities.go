package domain

import (
	"fmt"
	"time"
)

// User is the authenticated account as returned by the backend
type User struct {
	ID              int64
	Name            string
	Email           string
	EmailVerifiedAt *time.Time // nil until the address is verified
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Category groups videos on the backend
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
}

// VideoOwner is the uploader summary embedded in some video responses
type VideoOwner struct {
	ID    int64
	Name  string
	Email string
}

// Video represents a hosted video
type Video struct {
	ID            int64
	UserID        int64
	CategoryID    int64
	Title         string
	Description   string
	FilePath      string // URL or server path of the media file
	ThumbnailPath string
	Status        string
	Duration      time.Duration
	IsFeatured    bool
	Views         int64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Category is a denormalized copy sent with the video, not a catalog lookup
	Category Category
	User     *VideoOwner
}

// FormattedDuration returns the duration as m:ss or h:mm:ss
func (v Video) FormattedDuration() string {
	total := int(v.Duration.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormattedViews returns a compact view count ("1.2K views")
func (v Video) FormattedViews() string {
	switch {
	case v.Views >= 1_000_000:
		return fmt.Sprintf("%.1fM views", float64(v.Views)/1_000_000)
	case v.Views >= 1_000:
		return fmt.Sprintf("%.1fK views", float64(v.Views)/1_000)
	case v.Views == 1:
		return "1 view"
	default:
		return fmt.Sprintf("%d views", v.Views)
	}
}

// UploaderName returns the owner's name or an empty string
func (v Video) UploaderName() string {
	if v.User == nil {
		return ""
	}
	return v.User.Name
}

// DefaultPerPage is the page size the client assumes; the list endpoint
// does not report one.
const DefaultPerPage = 12

// FeaturedLimit is the number of featured videos requested
const FeaturedLimit = 3

// Pagination describes the position within the video list
type Pagination struct {
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int
}

// DefaultPagination is the state before any list response has arrived
func DefaultPagination() Pagination {
	return Pagination{CurrentPage: 1, LastPage: 1, PerPage: DefaultPerPage}
}

// InRange reports whether page is a valid target for navigation
func (p Pagination) InRange(page int) bool {
	return page >= 1 && page <= p.LastPage
}

// VideoPage is a single list response
type VideoPage struct {
	Videos      []Video
	CurrentPage int
	LastPage    int
	Total       int
}
