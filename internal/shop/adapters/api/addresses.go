package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dejobratic/storefront/internal/shop/domain"
)

// ListAddresses loads the saved address book, used to prepopulate checkout
// forms.
func (c *Client) ListAddresses(ctx context.Context, token string) ([]domain.Address, error) {
	raw, err := c.call(ctx, request{
		method:    http.MethodGet,
		path:      "addresses",
		token:     token,
		paginated: true,
	})
	if err != nil {
		return nil, err
	}

	var addresses []domain.Address
	if err := json.Unmarshal(raw, &addresses); err != nil {
		return nil, decodeError(err)
	}
	return addresses, nil
}
