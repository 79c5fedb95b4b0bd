package api

import (
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// timeLayouts are tried in order; the backend uses ISO-8601 but older rows
// carry the database format
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// parseTime returns the zero time for empty or unparsable input
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MapUser converts a backend user to a domain User
func MapUser(u User) domain.User {
	user := domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: parseTime(u.CreatedAt),
		UpdatedAt: parseTime(u.UpdatedAt),
	}
	if u.EmailVerifiedAt != nil {
		if t := parseTime(*u.EmailVerifiedAt); !t.IsZero() {
			user.EmailVerifiedAt = &t
		}
	}
	return user
}

// MapCategory converts a backend category to a domain Category
func MapCategory(c Category) domain.Category {
	return domain.Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

// MapCategories converts a list of backend categories, preserving order
func MapCategories(items []Category) []domain.Category {
	categories := make([]domain.Category, 0, len(items))
	for _, c := range items {
		categories = append(categories, MapCategory(c))
	}
	return categories
}

// MapVideo converts a backend video to a domain Video
func MapVideo(v Video) domain.Video {
	video := domain.Video{
		ID:            v.ID,
		UserID:        v.UserID,
		CategoryID:    v.CategoryID,
		Title:         v.Title,
		Description:   v.Description,
		FilePath:      v.FilePath,
		ThumbnailPath: v.ThumbnailPath,
		Status:        v.Status,
		Duration:      time.Duration(v.Duration * float64(time.Second)),
		IsFeatured:    bool(v.IsFeatured),
		Views:         v.Views,
		CreatedAt:     parseTime(v.CreatedAt),
		UpdatedAt:     parseTime(v.UpdatedAt),
		Category:      MapCategory(v.Category),
	}
	if v.User != nil {
		video.User = &domain.VideoOwner{
			ID:    v.User.ID,
			Name:  v.User.Name,
			Email: v.User.Email,
		}
	}
	return video
}

// MapVideos converts a list of backend videos, preserving order
func MapVideos(items []Video) []domain.Video {
	videos := make([]domain.Video, 0, len(items))
	for _, v := range items {
		videos = append(videos, MapVideo(v))
	}
	return videos
}

// MapVideoPage converts a list response. A missing total becomes 0.
func MapVideoPage(resp VideoListResponse) *domain.VideoPage {
	page := &domain.VideoPage{
		Videos:      MapVideos(resp.Data),
		CurrentPage: resp.CurrentPage,
		LastPage:    resp.LastPage,
	}
	if resp.Total != nil {
		page.Total = *resp.Total
	}
	return page
}
