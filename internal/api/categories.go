package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/reel/internal/domain"
)

// GetCategories returns every category in backend order
func (c *Client) GetCategories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/categories"})
	if err != nil {
		return nil, err
	}

	var resp CategoriesResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}

	return MapCategories(resp.Data), nil
}
