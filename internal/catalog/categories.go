package catalog

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
)

const defaultCategoriesError = "Failed to load categories"

// Categories caches the category list after the first successful fetch
type Categories struct {
	repo   domain.CategoryRepository
	logger *slog.Logger

	mu          sync.RWMutex
	categories  []domain.Category
	pending     int // fetches in flight
	errMsg      string
	initialized bool
}

// NewCategories creates an empty, uninitialized category catalog
func NewCategories(repo domain.CategoryRepository, logger *slog.Logger) *Categories {
	if logger == nil {
		logger = slog.Default()
	}
	return &Categories{repo: repo, logger: logger}
}

// FetchCategories loads the list once; later calls are no-ops unless
// forceReload is set. Failures are recorded in ErrorMessage, not returned.
func (c *Categories) FetchCategories(ctx context.Context, forceReload bool) {
	c.mu.Lock()
	if c.initialized && !forceReload {
		c.mu.Unlock()
		return
	}
	c.pending++
	c.errMsg = ""
	c.mu.Unlock()

	categories, err := c.repo.GetCategories(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	if err != nil {
		c.errMsg = err.Error()
		if c.errMsg == "" {
			c.errMsg = defaultCategoriesError
		}
		c.logger.Error("failed to fetch categories", "error", err)
		return
	}

	c.categories = categories
	c.initialized = true
	c.logger.Info("loaded categories", "count", len(categories))
}

// Categories returns a copy of the cached list
func (c *Categories) Categories() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Loading reports whether a fetch is in flight
func (c *Categories) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending > 0
}

// ErrorMessage returns the last fetch failure, "" after a success
func (c *Categories) ErrorMessage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

// Initialized reports whether a fetch has succeeded
func (c *Categories) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Get returns the cached category with id
func (c *Categories) Get(id int64) (domain.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return domain.Category{}, false
}

// Resolve finds a cached category by id, name or slug. Exact matches
// (case-insensitive) win; otherwise the closest fuzzy match is used.
func (c *Categories) Resolve(query string) (domain.Category, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Category{}, false
	}

	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		if cat, ok := c.Get(id); ok {
			return cat, true
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		if strings.EqualFold(cat.Name, query) || (cat.Slug != "" && strings.EqualFold(cat.Slug, query)) {
			return cat, true
		}
		names[i] = cat.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return domain.Category{}, false
	}
	sort.Stable(ranks)
	return c.categories[ranks[0].OriginalIndex], true
}
