package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
)

// Login exchanges credentials for a session. The anonymous cart id rides
// along in the payload when present so the server merges the guest cart.
func (c *Client) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthSession, error) {
	raw, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "auth/login",
		body:   in,
	})
	if err != nil {
		return nil, err
	}
	return decodeSession(raw)
}

// Register creates an account, with the same guest-cart merge semantics as
// Login.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthSession, error) {
	raw, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "auth/register",
		body:   in,
	})
	if err != nil {
		return nil, err
	}
	return decodeSession(raw)
}

// Logout notifies the server. Callers treat failures as advisory.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "auth/logout",
		token:  token,
	})
	return err
}

// CurrentUser validates the token by fetching the profile behind it.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	raw, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "auth/user",
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, decodeError(err)
	}
	return &user, nil
}

func decodeSession(raw json.RawMessage) (*ports.AuthSession, error) {
	var session ports.AuthSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, decodeError(err)
	}
	if session.Token == "" {
		return nil, &ports.APIError{
			Kind:    ports.KindServer,
			Message: "invalid response from server",
		}
	}
	return &session, nil
}
