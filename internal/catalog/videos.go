package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// ErrUploadUnavailable is returned by Upload when no uploader was configured
var ErrUploadUnavailable = errors.New("upload not available")

// Videos holds the paginated, filtered video list, the featured strip and
// the currently viewed video. Responses are applied in the order they
// resolve, so the last request to finish wins.
type Videos struct {
	repo     domain.VideoRepository
	uploader domain.UploadRepository
	logger   *slog.Logger

	mu         sync.RWMutex
	videos     []domain.Video
	featured   []domain.Video
	current    *domain.Video
	pagination domain.Pagination
	filter     domain.VideoFilter
	pending    int
}

// NewVideos creates an empty catalog. perPage <= 0 uses domain.DefaultPerPage.
func NewVideos(repo domain.VideoRepository, uploader domain.UploadRepository, perPage int, logger *slog.Logger) *Videos {
	if logger == nil {
		logger = slog.Default()
	}
	p := domain.DefaultPagination()
	if perPage > 0 {
		p.PerPage = perPage
	}
	return &Videos{
		repo:       repo,
		uploader:   uploader,
		logger:     logger,
		pagination: p,
	}
}

func (v *Videos) begin() {
	v.mu.Lock()
	v.pending++
	v.mu.Unlock()
}

// end must be called with mu held
func (v *Videos) end() {
	if v.pending > 0 {
		v.pending--
	}
}

// FetchVideos requests the current page with the current filter and
// replaces the list and pagination with the response
func (v *Videos) FetchVideos(ctx context.Context) error {
	v.mu.Lock()
	q := domain.VideoQuery{Page: v.pagination.CurrentPage, Filter: v.filter}
	v.pending++
	v.mu.Unlock()

	page, err := v.repo.GetVideos(ctx, q)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.end()

	if err != nil {
		v.logger.Error("failed to fetch videos", "page", q.Page, "error", err)
		return fmt.Errorf("fetch videos: %w", err)
	}

	current := page.CurrentPage
	if current < 1 {
		current = q.Page
	}
	last := page.LastPage
	if last < 1 {
		last = 1
	}

	v.videos = page.Videos
	v.pagination = domain.Pagination{
		CurrentPage: current,
		LastPage:    last,
		PerPage:     v.pagination.PerPage,
		Total:       page.Total,
	}
	v.logger.Debug("loaded videos", "page", current, "last_page", last, "count", len(page.Videos))
	return nil
}

// FetchFeaturedVideos loads the featured strip. The main list and its
// pagination are left alone.
func (v *Videos) FetchFeaturedVideos(ctx context.Context) error {
	page, err := v.repo.GetFeaturedVideos(ctx, domain.FeaturedLimit)
	if err != nil {
		v.logger.Error("failed to fetch featured videos", "error", err)
		return fmt.Errorf("fetch featured videos: %w", err)
	}

	v.mu.Lock()
	v.featured = page.Videos
	v.mu.Unlock()
	return nil
}

// FetchVideo loads a single video and makes it current. It returns nil
// when the request fails; the failure is logged, not returned.
func (v *Videos) FetchVideo(ctx context.Context, id int64) *domain.Video {
	v.begin()

	video, err := v.repo.GetVideo(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.end()

	if err != nil {
		v.logger.Error("failed to fetch video", "id", id, "error", err)
		return nil
	}

	v.current = video
	out := *video
	return &out
}

// SetFilter merges update into the active filter, resets to the first
// page and fetches
func (v *Videos) SetFilter(ctx context.Context, update domain.FilterUpdate) error {
	v.mu.Lock()
	v.filter = v.filter.Merge(update)
	v.pagination.CurrentPage = 1
	v.mu.Unlock()

	return v.FetchVideos(ctx)
}

// SetPage moves to page and fetches. Pages outside 1..LastPage are ignored.
func (v *Videos) SetPage(ctx context.Context, page int) error {
	v.mu.Lock()
	if !v.pagination.InRange(page) {
		v.mu.Unlock()
		return nil
	}
	v.pagination.CurrentPage = page
	v.mu.Unlock()

	return v.FetchVideos(ctx)
}

// NextPage advances one page when there is one
func (v *Videos) NextPage(ctx context.Context) error {
	return v.SetPage(ctx, v.Pagination().CurrentPage+1)
}

// PrevPage goes back one page when there is one
func (v *Videos) PrevPage(ctx context.Context) error {
	return v.SetPage(ctx, v.Pagination().CurrentPage-1)
}

// Upload publishes a new video on behalf of token. The list is not
// updated; callers refetch when they want to see it.
func (v *Videos) Upload(ctx context.Context, token string, req domain.UploadRequest) (*domain.Video, error) {
	if v.uploader == nil {
		return nil, ErrUploadUnavailable
	}

	video, err := v.uploader.UploadVideo(ctx, token, req)
	if err != nil {
		v.logger.Error("failed to upload video", "title", req.Title, "error", err)
		return nil, err
	}

	v.logger.Info("uploaded video", "id", video.ID, "title", video.Title)
	return video, nil
}

// Videos returns a copy of the current page
func (v *Videos) Videos() []domain.Video {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]domain.Video, len(v.videos))
	copy(out, v.videos)
	return out
}

// Featured returns a copy of the featured strip
func (v *Videos) Featured() []domain.Video {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]domain.Video, len(v.featured))
	copy(out, v.featured)
	return out
}

// Current returns the last video loaded by FetchVideo, or nil
func (v *Videos) Current() *domain.Video {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.current == nil {
		return nil
	}
	out := *v.current
	return &out
}

func (v *Videos) Pagination() domain.Pagination {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pagination
}

// Filter returns the active filter; the returned pointers are not shared
func (v *Videos) Filter() domain.VideoFilter {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var out domain.VideoFilter
	if v.filter.Category != nil {
		id := *v.filter.Category
		out.Category = &id
	}
	if v.filter.Search != nil {
		term := *v.filter.Search
		out.Search = &term
	}
	return out
}

// Loading reports whether a list or single-video request is in flight
func (v *Videos) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pending > 0
}
