package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dejobratic/storefront/internal/shop/domain"
)

// GetSettings fetches the cosmetic bootstrap payload.
func (c *Client) GetSettings(ctx context.Context) (*domain.Settings, error) {
	raw, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "business-settings",
	})
	if err != nil {
		return nil, err
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, decodeError(err)
	}
	return &settings, nil
}

// SubscribeNewsletter signs an email up. Non-critical: callers may ignore
// the error.
func (c *Client) SubscribeNewsletter(ctx context.Context, email string) error {
	_, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "newsletter/subscribe",
		body:   map[string]string{"email": email},
	})
	return err
}
