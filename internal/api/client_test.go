package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const videoJSON = `{
	"id": 7,
	"user_id": 2,
	"category_id": 5,
	"title": "Sunset",
	"description": "Timelapse",
	"file_path": "videos/sunset.mp4",
	"thumbnail_path": "thumbs/sunset.jpg",
	"status": "published",
	"duration": 125,
	"is_featured": 1,
	"views": 42,
	"created_at": "2024-03-01T10:00:00.000000Z",
	"updated_at": "2024-03-02 11:30:00",
	"category": {"id": 5, "name": "Nature", "slug": "nature"},
	"user": {"id": 2, "name": "ana", "email": "ana@example.com"}
}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/api", WithRetryDelay(0), WithRateLimit(0))
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestLoginSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, LoginRequest{Email: "ana@example.com", Password: "secret"}, body)

		writeJSON(w, http.StatusOK, `{"message":"ok","data":{"token":"1|abc","user":{"id":2,"name":"ana","email":"ana@example.com","email_verified_at":null,"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}}}`)
	})

	res, err := c.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "1|abc", res.Token)
	assert.Equal(t, int64(2), res.User.ID)
	assert.Equal(t, "ana", res.User.Name)
	assert.Nil(t, res.User.EmailVerifiedAt)
	assert.Equal(t, 2024, res.User.CreatedAt.Year())
}

func TestLoginRejected(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusUnprocessableEntity} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, `{"message":"The provided credentials are incorrect."}`)
		})

		_, err := c.Login(context.Background(), "a", "b")
		require.ErrorIs(t, err, domain.ErrAuthFailed, "status %d", status)
		assert.Contains(t, err.Error(), "credentials are incorrect")
	}
}

func TestLoginServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, WithRateLimit(0))

	_, err := c.Login(context.Background(), "a", "b")
	require.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestLogoutSendsBearer(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Logout(context.Background(), "tok"))
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestCurrentUser(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare", `{"id":3,"name":"bo","email":"bo@example.com","email_verified_at":"2024-05-01T00:00:00Z"}`},
		{"enveloped", `{"data":{"id":3,"name":"bo","email":"bo@example.com","email_verified_at":"2024-05-01T00:00:00Z"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				writeJSON(w, http.StatusOK, tt.body)
			})

			user, err := c.CurrentUser(context.Background(), "tok")
			require.NoError(t, err)
			assert.Equal(t, int64(3), user.ID)
			assert.Equal(t, "bo", user.Name)
			require.NotNil(t, user.EmailVerifiedAt)
			assert.Equal(t, time.May, user.EmailVerifiedAt.Month())
		})
	}
}

func TestCurrentUserExpiredToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
	})

	_, err := c.CurrentUser(context.Background(), "stale")
	require.ErrorIs(t, err, domain.ErrAuthFailed)

	_, err = c.CurrentUser(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestGetCategories(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"data":[{"id":2,"name":"Music"},{"id":1,"name":"Art"}]}`)
	})

	cats, err := c.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: 2, Name: "Music"}, {ID: 1, Name: "Art"}}, cats)
}

func TestVideoQueryValues(t *testing.T) {
	five := int64(5)
	search := " cats "
	empty := ""

	tests := []struct {
		name string
		q    domain.VideoQuery
		want string
	}{
		{"page only", domain.VideoQuery{Page: 2}, "page=2"},
		{"page floor", domain.VideoQuery{}, "page=1"},
		{"category", domain.VideoQuery{Page: 1, Filter: domain.VideoFilter{Category: &five}}, "category_id=5&page=1"},
		{"search trimmed", domain.VideoQuery{Page: 1, Filter: domain.VideoFilter{Search: &search}}, "page=1&search=cats"},
		{"empty search omitted", domain.VideoQuery{Page: 1, Filter: domain.VideoFilter{Search: &empty}}, "page=1"},
		{"both", domain.VideoQuery{Page: 3, Filter: domain.VideoFilter{Category: &five, Search: &search}}, "category_id=5&page=3&search=cats"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VideoQueryValues(tt.q).Encode())
		})
	}
}

func TestGetVideos(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos", r.URL.Path)
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"data":[`+videoJSON+`],"current_page":2,"last_page":4}`)
	})

	five := int64(5)
	page, err := c.GetVideos(context.Background(), domain.VideoQuery{Page: 2, Filter: domain.VideoFilter{Category: &five}})
	require.NoError(t, err)
	assert.Equal(t, "category_id=5&page=2", gotQuery)

	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 4, page.LastPage)
	assert.Equal(t, 0, page.Total, "missing total defaults to 0")
	require.Len(t, page.Videos, 1)

	v := page.Videos[0]
	assert.Equal(t, int64(7), v.ID)
	assert.Equal(t, "Sunset", v.Title)
	assert.Equal(t, 125*time.Second, v.Duration)
	assert.True(t, v.IsFeatured)
	assert.Equal(t, domain.Category{ID: 5, Name: "Nature", Slug: "nature"}, v.Category)
	require.NotNil(t, v.User)
	assert.Equal(t, "ana", v.User.Name)
	assert.Equal(t, 11, v.UpdatedAt.Hour())
}

func TestGetFeaturedVideos(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "featured=true&per_page=3", r.URL.RawQuery)
		writeJSON(w, http.StatusOK, `{"data":[],"current_page":1,"last_page":1,"total":0}`)
	})

	page, err := c.GetFeaturedVideos(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, page.Videos)
}

func TestGetVideo(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/videos/7":
			writeJSON(w, http.StatusOK, `{"data":`+videoJSON+`}`)
		default:
			writeJSON(w, http.StatusNotFound, `{"message":"No query results for model [App\\Models\\Video] 99"}`)
		}
	})

	v, err := c.GetVideo(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Sunset", v.Title)

	_, err = c.GetVideo(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestRetriesServerErrorsOnGet(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusBadGateway, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"data":[]}`)
	})

	_, err := c.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
	})

	_, err := c.GetCategories(context.Background())
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, int32(1+defaultMaxRetries), calls.Load())
}

func TestPostIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, `{}`)
	})

	err := c.Logout(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCanceledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":[]}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetCategories(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestUploadVideo(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/videos", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Sunset", r.FormValue("title"))
		assert.Equal(t, "Timelapse", r.FormValue("description"))
		assert.Equal(t, "5", r.FormValue("category_id"))

		f, hdr, err := r.FormFile("video")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "sunset.mp4", hdr.Filename)
		assert.Equal(t, "VIDEO-BYTES", string(data))

		_, _, err = r.FormFile("thumbnail")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		writeJSON(w, http.StatusCreated, `{"data":`+videoJSON+`}`)
	})

	v, err := c.UploadVideo(context.Background(), "tok", domain.UploadRequest{
		Title:       "Sunset",
		Description: "Timelapse",
		CategoryID:  5,
		FileName:    "/home/ana/sunset.mp4",
		Video:       strings.NewReader("VIDEO-BYTES"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.ID)
}

func TestUploadVideoValidation(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := c.UploadVideo(context.Background(), "", domain.UploadRequest{Title: "x", CategoryID: 1, Video: strings.NewReader("v")})
	require.ErrorIs(t, err, domain.ErrAuthFailed)

	_, err = c.UploadVideo(context.Background(), "tok", domain.UploadRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title, category, video file")
	assert.Equal(t, int32(0), calls.Load())
}

func TestResolveMediaURL(t *testing.T) {
	c := NewClient("http://videos.local:8000/api")

	assert.Equal(t, "", c.ResolveMediaURL(""))
	assert.Equal(t, "https://cdn.example/v.mp4", c.ResolveMediaURL("https://cdn.example/v.mp4"))
	assert.Equal(t, "http://videos.local:8000/media/v.mp4", c.ResolveMediaURL("/media/v.mp4"))
	assert.Equal(t, "http://videos.local:8000/storage/videos/v.mp4", c.ResolveMediaURL("videos/v.mp4"))
}

func TestFlexBool(t *testing.T) {
	tests := map[string]bool{
		`true`: true, `false`: false, `1`: true, `0`: false,
		`"1"`: true, `"0"`: false, `null`: false, `2`: true,
	}
	for in, want := range tests {
		var b FlexBool
		require.NoError(t, json.Unmarshal([]byte(in), &b), in)
		assert.Equal(t, want, bool(b), in)
	}

	var b FlexBool
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &b))
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/categories":
			writeJSON(w, http.StatusOK, `{"data":[{"id":1,"name":"Art"}]}`)
		case "/other/categories":
			writeJSON(w, http.StatusOK, `{"items":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	res, err := Probe(context.Background(), srv.URL+"/api/")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/api", res.URL)
	assert.Equal(t, 1, res.Categories)

	_, err = Probe(context.Background(), srv.URL+"/other")
	require.Error(t, err)

	_, err = Probe(context.Background(), srv.URL+"/missing")
	require.Error(t, err)

	_, err = Probe(context.Background(), "  ")
	require.Error(t, err)
}
