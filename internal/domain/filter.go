package domain

import "strings"

// VideoFilter holds the optional list filters. Nil means "not applied".
type VideoFilter struct {
	Category *int64
	Search   *string
}

// VideoQuery is the full input of a list fetch
type VideoQuery struct {
	Page   int
	Filter VideoFilter
}

// FilterUpdate is a partial change to a VideoFilter. Only fields whose
// Set/Clear flag is true are touched; Clear wins over Set.
type FilterUpdate struct {
	SetCategory   bool
	Category      int64
	ClearCategory bool

	SetSearch   bool
	Search      string
	ClearSearch bool
}

// WithCategory returns an update that sets the category filter
func WithCategory(id int64) FilterUpdate {
	return FilterUpdate{SetCategory: true, Category: id}
}

// WithoutCategory returns an update that removes the category filter
func WithoutCategory() FilterUpdate {
	return FilterUpdate{ClearCategory: true}
}

// WithSearch returns an update that sets the search term
func WithSearch(term string) FilterUpdate {
	return FilterUpdate{SetSearch: true, Search: term}
}

// WithoutSearch returns an update that removes the search term
func WithoutSearch() FilterUpdate {
	return FilterUpdate{ClearSearch: true}
}

// And combines two updates; fields set in o take precedence.
func (u FilterUpdate) And(o FilterUpdate) FilterUpdate {
	if o.SetCategory || o.ClearCategory {
		u.SetCategory, u.Category, u.ClearCategory = o.SetCategory, o.Category, o.ClearCategory
	}
	if o.SetSearch || o.ClearSearch {
		u.SetSearch, u.Search, u.ClearSearch = o.SetSearch, o.Search, o.ClearSearch
	}
	return u
}

// Merge applies u to f and returns the result. f is not modified.
func (f VideoFilter) Merge(u FilterUpdate) VideoFilter {
	out := VideoFilter{Category: f.Category, Search: f.Search}

	switch {
	case u.ClearCategory:
		out.Category = nil
	case u.SetCategory:
		id := u.Category
		out.Category = &id
	}

	switch {
	case u.ClearSearch:
		out.Search = nil
	case u.SetSearch:
		term := u.Search
		out.Search = &term
	}

	return out
}

// SearchTerm returns the trimmed search term, empty when unset
func (f VideoFilter) SearchTerm() string {
	if f.Search == nil {
		return ""
	}
	return strings.TrimSpace(*f.Search)
}

// CategoryID returns the category filter and whether it is set.
// A zero id is treated as unset, matching how the backend reads it.
func (f VideoFilter) CategoryID() (int64, bool) {
	if f.Category == nil || *f.Category == 0 {
		return 0, false
	}
	return *f.Category, true
}
