package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmcdole/reel/internal/domain"
)

// VideoQueryValues builds the query string of a list fetch. Filters that are
// unset are left out entirely.
func VideoQueryValues(q domain.VideoQuery) url.Values {
	query := url.Values{}

	page := q.Page
	if page < 1 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))

	if id, ok := q.Filter.CategoryID(); ok {
		query.Set("category_id", strconv.FormatInt(id, 10))
	}
	if term := q.Filter.SearchTerm(); term != "" {
		query.Set("search", term)
	}
	return query
}

// GetVideos returns one page of the filtered video list
func (c *Client) GetVideos(ctx context.Context, q domain.VideoQuery) (*domain.VideoPage, error) {
	return c.listVideos(ctx, VideoQueryValues(q))
}

// GetFeaturedVideos returns up to limit featured videos
func (c *Client) GetFeaturedVideos(ctx context.Context, limit int) (*domain.VideoPage, error) {
	if limit <= 0 {
		limit = domain.FeaturedLimit
	}
	query := url.Values{}
	query.Set("featured", "true")
	query.Set("per_page", strconv.Itoa(limit))
	return c.listVideos(ctx, query)
}

func (c *Client) listVideos(ctx context.Context, query url.Values) (*domain.VideoPage, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/videos",
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	var resp VideoListResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}

	return MapVideoPage(resp), nil
}

// GetVideo returns a single video. A 404 matches domain.ErrItemNotFound.
func (c *Client) GetVideo(ctx context.Context, id int64) (*domain.Video, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/videos/%d", id),
	})
	if err != nil {
		return nil, err
	}

	var resp VideoResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.ID == 0 {
		return nil, fmt.Errorf("video %d: %w", id, domain.ErrItemNotFound)
	}

	video := MapVideo(resp.Data)
	return &video, nil
}
