package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mmcdole/reel/internal/domain"
)

// Login exchanges email and password for a bearer token.
// Rejected credentials (401 or 422) return domain.ErrAuthFailed.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	req, err := jsonRequest(http.MethodPost, "/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, req)
	if err != nil {
		switch statusOf(err) {
		case http.StatusUnauthorized, http.StatusUnprocessableEntity:
			return nil, fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
		}
		return nil, err
	}

	var resp LoginResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", domain.ErrAuthFailed)
	}

	return &domain.AuthResult{
		Token: resp.Data.Token,
		User:  MapUser(resp.Data.User),
	}, nil
}

// Logout asks the backend to invalidate token
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/logout",
		token:  token,
	})
	return err
}

// CurrentUser returns the profile owning token. The endpoint answers with a
// bare user object; an enveloped {"data": user} is accepted as well.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrAuthFailed
	}

	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/user",
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Data *User `json:"data"`
	}
	if json.Unmarshal(body, &wrapped) == nil && wrapped.Data != nil {
		user := MapUser(*wrapped.Data)
		return &user, nil
	}

	var dto User
	if err := decode(body, &dto); err != nil {
		return nil, err
	}
	user := MapUser(dto)
	return &user, nil
}
