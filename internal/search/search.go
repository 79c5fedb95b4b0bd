package search

import (
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Result is a loaded video that matched a local filter
type Result struct {
	Video          domain.Video
	MatchedIndexes []int // byte offsets in Video.Title, for highlighting
	Score          int   // higher is better
}

// videoSource adapts a page of videos to fuzzy.Source
type videoSource []domain.Video

func (s videoSource) String(i int) string { return s[i].Title }
func (s videoSource) Len() int            { return len(s) }

// FilterVideos fuzzy-matches query against the titles of already loaded
// videos. Best matches come first; an empty query returns nil.
func FilterVideos(query string, videos []domain.Video) []Result {
	query = strings.TrimSpace(query)
	if query == "" || len(videos) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, videoSource(videos))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Video:          videos[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// Videos returns just the matched videos, in match order
func Videos(results []Result) []domain.Video {
	out := make([]domain.Video, len(results))
	for i, r := range results {
		out[i] = r.Video
	}
	return out
}
