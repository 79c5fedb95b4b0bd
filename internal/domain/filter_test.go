package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoFilterMerge(t *testing.T) {
	five := int64(5)
	term := "cats"

	tests := []struct {
		name       string
		start      VideoFilter
		update     FilterUpdate
		wantCat    *int64
		wantSearch *string
	}{
		{"empty update keeps everything", VideoFilter{Category: &five, Search: &term}, FilterUpdate{}, &five, &term},
		{"set category on empty", VideoFilter{}, WithCategory(5), &five, nil},
		{"set search keeps category", VideoFilter{Category: &five}, WithSearch("cats"), &five, &term},
		{"clear category keeps search", VideoFilter{Category: &five, Search: &term}, WithoutCategory(), nil, &term},
		{"clear search", VideoFilter{Search: &term}, WithoutSearch(), nil, nil},
		{"clear wins over set", VideoFilter{Category: &five}, FilterUpdate{SetCategory: true, Category: 9, ClearCategory: true}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Merge(tt.update)
			if tt.wantCat == nil {
				assert.Nil(t, got.Category)
			} else {
				require.NotNil(t, got.Category)
				assert.Equal(t, *tt.wantCat, *got.Category)
			}
			if tt.wantSearch == nil {
				assert.Nil(t, got.Search)
			} else {
				require.NotNil(t, got.Search)
				assert.Equal(t, *tt.wantSearch, *got.Search)
			}
		})
	}
}

func TestVideoFilterMergeDoesNotAlias(t *testing.T) {
	start := VideoFilter{}.Merge(WithCategory(1))
	next := start.Merge(WithCategory(2))

	assert.Equal(t, int64(1), *start.Category)
	assert.Equal(t, int64(2), *next.Category)
}

func TestFilterUpdateAnd(t *testing.T) {
	u := WithCategory(3).And(WithSearch("dogs"))
	f := VideoFilter{}.Merge(u)

	id, ok := f.CategoryID()
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, "dogs", f.SearchTerm())

	f = f.Merge(WithCategory(4).And(WithoutCategory()))
	_, ok = f.CategoryID()
	assert.False(t, ok)
}

func TestVideoFilterAccessors(t *testing.T) {
	zero := int64(0)
	blank := "   "
	f := VideoFilter{Category: &zero, Search: &blank}

	_, ok := f.CategoryID()
	assert.False(t, ok)
	assert.Empty(t, f.SearchTerm())
}

func TestPaginationInRange(t *testing.T) {
	p := Pagination{CurrentPage: 1, LastPage: 3}
	for _, page := range []int{-1, 0, 4, 100} {
		assert.False(t, p.InRange(page), "page %d", page)
	}
	for _, page := range []int{1, 2, 3} {
		assert.True(t, p.InRange(page), "page %d", page)
	}
	assert.Equal(t, Pagination{CurrentPage: 1, LastPage: 1, PerPage: DefaultPerPage}, DefaultPagination())
}

func TestVideoFormatting(t *testing.T) {
	v := Video{Duration: 65 * time.Second, Views: 1500}
	assert.Equal(t, "1:05", v.FormattedDuration())
	assert.Equal(t, "1.5K views", v.FormattedViews())

	v = Video{Duration: time.Hour + 2*time.Minute + 3*time.Second, Views: 1}
	assert.Equal(t, "1:02:03", v.FormattedDuration())
	assert.Equal(t, "1 view", v.FormattedViews())
	assert.Empty(t, v.UploaderName())

	v.User = &VideoOwner{Name: "ana"}
	assert.Equal(t, "ana", v.UploaderName())
}

func TestAPIErrorIs(t *testing.T) {
	var err error = fmt.Errorf("fetch: %w", &APIError{StatusCode: http.StatusUnauthorized})
	assert.True(t, errors.Is(err, ErrAuthFailed))
	assert.False(t, errors.Is(err, ErrItemNotFound))

	err = &APIError{StatusCode: http.StatusNotFound, Message: "No query results"}
	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.Equal(t, "API error 404: No query results", err.Error())

	err = &APIError{StatusCode: http.StatusUnprocessableEntity}
	assert.False(t, errors.Is(err, ErrAuthFailed))
	assert.Equal(t, "API error 422", err.Error())
}
