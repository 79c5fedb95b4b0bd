package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the reply of POST /login
type LoginResponse struct {
	Message string `json:"message"`
	Data    struct {
		User  User `json:"user"`
		Token string  `json:"token"`
	} `json:"data"`
}

// User represents a backend user
type User struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// Category represents a backend category
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// CategoriesResponse is the reply of GET /categories
type CategoriesResponse struct {
	Data []Category `json:"data"`
}

// Owner is the uploader summary embedded in a video
type Owner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Video represents a backend video
type Video struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	CategoryID    int64       `json:"category_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	FilePath      string      `json:"file_path"`
	ThumbnailPath string      `json:"thumbnail_path"`
	Status        string      `json:"status"`
	Duration      float64     `json:"duration"` // seconds
	IsFeatured    FlexBool    `json:"is_featured"`
	Views         int64       `json:"views"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
	Category      Category `json:"category"`
	User          *Owner   `json:"user,omitempty"`
}

// VideoListResponse is the reply of GET /videos
type VideoListResponse struct {
	Data        []Video `json:"data"`
	CurrentPage int        `json:"current_page"`
	LastPage    int        `json:"last_page"`
	Total       *int       `json:"total,omitempty"`
}

// VideoResponse is the reply of GET /videos/:id and POST /videos
type VideoResponse struct {
	Data Video `json:"data"`
}

// FlexBool decodes booleans the backend may send as true/false, 0/1 or "0"/"1"
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}

	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	switch s {
	case "1", "true":
		*b = true
	case "0", "false", "":
		*b = false
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid boolean value %s", string(data))
		}
		*b = n != 0
	}
	return nil
}
