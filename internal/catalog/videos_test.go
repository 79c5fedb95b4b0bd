package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageOf(current, last, total int, ids ...int64) *domain.VideoPage {
	videos := make([]domain.Video, len(ids))
	for i, id := range ids {
		videos[i] = domain.Video{ID: id}
	}
	return &domain.VideoPage{Videos: videos, CurrentPage: current, LastPage: last, Total: total}
}

func ids(videos []domain.Video) []int64 {
	out := make([]int64, len(videos))
	for i, v := range videos {
		out[i] = v.ID
	}
	return out
}

func TestNewVideosDefaults(t *testing.T) {
	v := NewVideos(&fakeVideoRepo{}, nil, 0, log.NullLogger())
	assert.Equal(t, domain.DefaultPagination(), v.Pagination())
	assert.Empty(t, v.Videos())
	assert.Nil(t, v.Current())
	assert.False(t, v.Loading())

	v = NewVideos(&fakeVideoRepo{}, nil, 24, log.NullLogger())
	assert.Equal(t, 24, v.Pagination().PerPage)
}

func TestFetchVideosReplacesListAndKeepsPerPage(t *testing.T) {
	repo := &fakeVideoRepo{page: pageOf(1, 3, 30, 1, 2, 3)}
	v := NewVideos(repo, nil, 0, log.NullLogger())

	require.NoError(t, v.FetchVideos(context.Background()))
	assert.Equal(t, []int64{1, 2, 3}, ids(v.Videos()))
	assert.Equal(t, domain.Pagination{CurrentPage: 1, LastPage: 3, PerPage: 12, Total: 30}, v.Pagination())

	repo.page = pageOf(1, 1, 1, 9)
	require.NoError(t, v.FetchVideos(context.Background()))
	assert.Equal(t, []int64{9}, ids(v.Videos()), "list is replaced, not appended")
	assert.Equal(t, 12, v.Pagination().PerPage)
	assert.False(t, v.Loading())
}

func TestFetchVideosErrorKeepsState(t *testing.T) {
	repo := &fakeVideoRepo{page: pageOf(1, 2, 20, 1, 2)}
	v := NewVideos(repo, nil, 0, log.NullLogger())
	require.NoError(t, v.FetchVideos(context.Background()))

	repo.err = domain.ErrServerOffline
	err := v.FetchVideos(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Equal(t, []int64{1, 2}, ids(v.Videos()))
	assert.False(t, v.Loading())
}

func TestSetFilterMergesAndResetsPage(t *testing.T) {
	repo := &fakeVideoRepo{page: pageOf(2, 5, 50, 1)}
	v := NewVideos(repo, nil, 0, log.NullLogger())
	require.NoError(t, v.FetchVideos(context.Background()))
	require.Equal(t, 2, v.Pagination().CurrentPage)

	require.NoError(t, v.SetFilter(context.Background(), domain.WithCategory(4)))
	q := repo.lastQuery()
	assert.Equal(t, 1, q.Page)
	id, ok := q.Filter.CategoryID()
	require.True(t, ok)
	assert.Equal(t, int64(4), id)

	require.NoError(t, v.SetFilter(context.Background(), domain.WithSearch("cats")))
	q = repo.lastQuery()
	id, ok = q.Filter.CategoryID()
	require.True(t, ok, "category survives a search update")
	assert.Equal(t, int64(4), id)
	assert.Equal(t, "cats", q.Filter.SearchTerm())

	require.NoError(t, v.SetFilter(context.Background(), domain.WithoutCategory()))
	q = repo.lastQuery()
	_, ok = q.Filter.CategoryID()
	assert.False(t, ok)
	assert.Equal(t, "cats", q.Filter.SearchTerm())
	assert.Equal(t, "cats", v.Filter().SearchTerm())
}

func TestSetPageOutOfRangeIsNoop(t *testing.T) {
	repo := &fakeVideoRepo{page: pageOf(1, 3, 30, 1)}
	v := NewVideos(repo, nil, 0, log.NullLogger())
	require.NoError(t, v.FetchVideos(context.Background()))
	require.Equal(t, 1, repo.queryCount())

	for _, page := range []int{0, -1, 4} {
		require.NoError(t, v.SetPage(context.Background(), page))
	}
	assert.Equal(t, 1, repo.queryCount())
	assert.Equal(t, 1, v.Pagination().CurrentPage)

	require.NoError(t, v.PrevPage(context.Background()))
	assert.Equal(t, 1, repo.queryCount())

	repo.page = pageOf(2, 3, 30, 2)
	require.NoError(t, v.NextPage(context.Background()))
	assert.Equal(t, 2, repo.queryCount())
	assert.Equal(t, 2, repo.lastQuery().Page)
	assert.Equal(t, 2, v.Pagination().CurrentPage)
}

func TestFetchFeaturedLeavesListAlone(t *testing.T) {
	repo := &fakeVideoRepo{
		page:     pageOf(1, 4, 40, 1, 2),
		featured: pageOf(1, 1, 3, 7, 8, 9),
	}
	v := NewVideos(repo, nil, 0, log.NullLogger())
	require.NoError(t, v.FetchVideos(context.Background()))
	before := v.Pagination()

	require.NoError(t, v.FetchFeaturedVideos(context.Background()))
	assert.Equal(t, []int{domain.FeaturedLimit}, repo.limits)
	assert.Equal(t, []int64{7, 8, 9}, ids(v.Featured()))
	assert.Equal(t, []int64{1, 2}, ids(v.Videos()))
	assert.Equal(t, before, v.Pagination())
}

func TestFetchVideo(t *testing.T) {
	repo := &fakeVideoRepo{video: &domain.Video{ID: 42, Title: "Launch"}}
	v := NewVideos(repo, nil, 0, log.NullLogger())

	got := v.FetchVideo(context.Background(), 42)
	require.NotNil(t, got)
	assert.Equal(t, "Launch", got.Title)
	assert.Equal(t, int64(42), v.Current().ID)

	repo.err = domain.ErrItemNotFound
	assert.Nil(t, v.FetchVideo(context.Background(), 43))
	assert.Equal(t, int64(42), v.Current().ID, "failed fetch keeps previous video")
	assert.False(t, v.Loading())
}

func TestUpload(t *testing.T) {
	up := &fakeUploader{video: &domain.Video{ID: 5, Title: "new"}}
	v := NewVideos(&fakeVideoRepo{}, up, 0, log.NullLogger())

	got, err := v.Upload(context.Background(), "tok", domain.UploadRequest{Title: "new", CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, "tok", up.token)
	assert.Equal(t, "new", up.req.Title)

	up.err = errors.New("too large")
	_, err = v.Upload(context.Background(), "tok", domain.UploadRequest{Title: "x"})
	require.Error(t, err)

	v = NewVideos(&fakeVideoRepo{}, nil, 0, log.NullLogger())
	_, err = v.Upload(context.Background(), "tok", domain.UploadRequest{})
	assert.ErrorIs(t, err, ErrUploadUnavailable)
}

func TestOverlappingFetchesLastResolvedWins(t *testing.T) {
	repo := newGatedVideoRepo()
	v := NewVideos(repo, nil, 0, log.NullLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := make(chan error, 1)
	go func() { first <- v.FetchVideos(ctx) }()
	callA := <-repo.calls
	assert.True(t, v.Loading())

	second := make(chan error, 1)
	go func() { second <- v.SetFilter(ctx, domain.WithSearch("late")) }()
	callB := <-repo.calls
	assert.Equal(t, "late", callB.query.Filter.SearchTerm())

	// B resolves first, then A
	callB.reply <- pageOf(1, 1, 1, 200)
	require.NoError(t, <-second)
	assert.True(t, v.Loading(), "A still in flight")

	callA.reply <- pageOf(1, 2, 2, 100)
	require.NoError(t, <-first)

	assert.Equal(t, []int64{100}, ids(v.Videos()))
	assert.Equal(t, 2, v.Pagination().LastPage)
	assert.Equal(t, "late", v.Filter().SearchTerm(), "filter is not rolled back")
	assert.False(t, v.Loading())
}

func TestFilterReturnsCopy(t *testing.T) {
	v := NewVideos(&fakeVideoRepo{page: pageOf(1, 1, 0)}, nil, 0, log.NullLogger())
	require.NoError(t, v.SetFilter(context.Background(), domain.WithCategory(1)))

	f := v.Filter()
	*f.Category = 99
	id, _ := v.Filter().CategoryID()
	assert.Equal(t, int64(1), id)
}
