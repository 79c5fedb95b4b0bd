package domain

// TokenStore persists the bearer token across restarts.
// An empty token means logged out.
type TokenStore interface {
	// Token returns the stored token, or "" when none is stored
	Token() (string, error)

	// SaveToken replaces the stored token
	SaveToken(token string) error

	// ClearToken removes the stored token; clearing an empty store is not an error
	ClearToken() error

	Close() error
}

// TokenSource is the read side of TokenStore, used by the navigation guard
type TokenSource interface {
	Token() (string, error)
}
