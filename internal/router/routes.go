package router

import (
	"strconv"
	"strings"
)

// Name identifies a screen
type Name string

const (
	Home        Name = "home"
	VideoDetail Name = "video-detail"
	Login       Name = "login"
	Test        Name = "test"
	Upload      Name = "upload"
	NotFound    Name = "not-found"
)

// Route is an entry in the route table
type Route struct {
	Name         Name
	Pattern      string // segments starting with ':' capture a parameter
	RequiresAuth bool
}

// Params holds captured path parameters
type Params map[string]string

// Int64 returns the named parameter as an integer
func (p Params) Int64(key string) (int64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Routes is the route table, matched in order
var Routes = []Route{
	{Name: Home, Pattern: "/"},
	{Name: VideoDetail, Pattern: "/videos/:id"},
	{Name: Login, Pattern: "/login"},
	{Name: Test, Pattern: "/test"},
	{Name: Upload, Pattern: "/upload", RequiresAuth: true},
}

var notFoundRoute = Route{Name: NotFound, Pattern: "*"}

// Match finds the route for path. Unknown paths match NotFound.
func Match(path string) (Route, Params) {
	parts := split(path)
	for _, r := range Routes {
		if params, ok := matchPattern(split(r.Pattern), parts); ok {
			return r, params
		}
	}
	return notFoundRoute, Params{}
}

// Lookup returns the table entry for name
func Lookup(name Name) Route {
	for _, r := range Routes {
		if r.Name == name {
			return r
		}
	}
	return notFoundRoute
}

// VideoPath builds the detail path for a video id
func VideoPath(id int64) string {
	return "/videos/" + strconv.FormatInt(id, 10)
}

func split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchPattern(pattern, parts []string) (Params, bool) {
	if len(pattern) != len(parts) {
		return nil, false
	}
	params := Params{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if parts[i] == "" {
				return nil, false
			}
			params[seg[1:]] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return params, true
}
