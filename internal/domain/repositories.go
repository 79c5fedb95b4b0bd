package domain

import (
	"context"
	"io"
)

// AuthRepository talks to the backend's session endpoints
type AuthRepository interface {
	// Login exchanges credentials for a bearer token and the user profile
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Logout invalidates token on the backend
	Logout(ctx context.Context, token string) error

	// CurrentUser returns the profile that owns token
	CurrentUser(ctx context.Context, token string) (*User, error)
}

// CategoryRepository lists video categories
type CategoryRepository interface {
	GetCategories(ctx context.Context) ([]Category, error)
}

// VideoRepository provides read access to videos
type VideoRepository interface {
	// GetVideos returns one page of the filtered list
	GetVideos(ctx context.Context, q VideoQuery) (*VideoPage, error)

	// GetFeaturedVideos returns up to limit featured videos
	GetFeaturedVideos(ctx context.Context, limit int) (*VideoPage, error)

	// GetVideo returns a single video by id
	GetVideo(ctx context.Context, id int64) (*Video, error)
}

// UploadRepository publishes new videos
type UploadRepository interface {
	UploadVideo(ctx context.Context, token string, req UploadRequest) (*Video, error)
}

// AuthResult contains the result of a successful login
type AuthResult struct {
	Token string
	User  User
}

// UploadRequest describes a new video. Video and Thumbnail are read once.
type UploadRequest struct {
	Title         string
	Description   string
	CategoryID    int64
	FileName      string
	Video         io.Reader
	ThumbnailName string
	Thumbnail     io.Reader // optional
}
