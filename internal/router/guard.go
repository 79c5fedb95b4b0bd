package router

import (
	"log/slog"

	"github.com/mmcdole/reel/internal/domain"
)

// Navigation is the outcome of resolving a path through the guard
type Navigation struct {
	Route  Route
	Params Params
	Path   string // path that will be shown

	Redirected bool
	Redirect   string // originally requested path when Redirected
}

// Guard gates routes that require a stored token. It only checks presence;
// an expired token passes and is rejected later by the backend.
type Guard struct {
	tokens domain.TokenSource
	logger *slog.Logger
}

func NewGuard(tokens domain.TokenSource, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{tokens: tokens, logger: logger}
}

// Resolve matches path and redirects to /login when the route needs a
// token and none is stored. A storage read error counts as no token.
func (g *Guard) Resolve(path string) Navigation {
	route, params := Match(path)
	nav := Navigation{Route: route, Params: params, Path: path}

	if !route.RequiresAuth || g.hasToken() {
		return nav
	}

	g.logger.Debug("redirecting to login", "from", path)
	return Navigation{
		Route:      Lookup(Login),
		Params:     Params{},
		Path:       "/login",
		Redirected: true,
		Redirect:   path,
	}
}

func (g *Guard) hasToken() bool {
	token, err := g.tokens.Token()
	if err != nil {
		g.logger.Warn("failed to read stored token", "error", err)
		return false
	}
	return token != ""
}
