package catalog

import (
	"context"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

type fakeCategoryRepo struct {
	mu    sync.Mutex
	calls int
	cats  []domain.Category
	err   error
}

func (f *fakeCategoryRepo) GetCategories(ctx context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cats, nil
}

func (f *fakeCategoryRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeVideoRepo struct {
	mu       sync.Mutex
	queries  []domain.VideoQuery
	limits   []int
	page     *domain.VideoPage
	featured *domain.VideoPage
	video    *domain.Video
	err      error
}

func (f *fakeVideoRepo) GetVideos(ctx context.Context, q domain.VideoQuery) (*domain.VideoPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeVideoRepo) GetFeaturedVideos(ctx context.Context, limit int) (*domain.VideoPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	return f.featured, nil
}

func (f *fakeVideoRepo) GetVideo(ctx context.Context, id int64) (*domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.video, nil
}

func (f *fakeVideoRepo) lastQuery() domain.VideoQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeVideoRepo) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// pendingCall is a GetVideos request held until the test replies
type pendingCall struct {
	query domain.VideoQuery
	reply chan *domain.VideoPage
}

// gatedVideoRepo hands every list request to the test and blocks until
// it is answered, so tests control resolution order
type gatedVideoRepo struct {
	fakeVideoRepo
	calls chan pendingCall
}

func newGatedVideoRepo() *gatedVideoRepo {
	return &gatedVideoRepo{calls: make(chan pendingCall)}
}

func (g *gatedVideoRepo) GetVideos(ctx context.Context, q domain.VideoQuery) (*domain.VideoPage, error) {
	call := pendingCall{query: q, reply: make(chan *domain.VideoPage)}
	g.calls <- call
	select {
	case page := <-call.reply:
		return page, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeUploader struct {
	token string
	req   domain.UploadRequest
	video *domain.Video
	err   error
}

func (f *fakeUploader) UploadVideo(ctx context.Context, token string, req domain.UploadRequest) (*domain.Video, error) {
	f.token = token
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.video, nil
}

// gatedCategoryRepo hands each GetCategories call to the test, which
// answers it on reply
type gatedCategoryRepo struct {
	calls chan chan []domain.Category
}

func (g *gatedCategoryRepo) GetCategories(ctx context.Context) ([]domain.Category, error) {
	reply := make(chan []domain.Category)
	g.calls <- reply
	return <-reply, nil
}
