package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dejobratic/storefront/internal/shop/domain"
)

type cartItemPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity,omitempty"`
}

// FetchCart returns the authoritative server-side cart.
func (c *Client) FetchCart(ctx context.Context, token string) (domain.Cart, error) {
	raw, err := c.call(ctx, request{
		method:    http.MethodGet,
		path:      "cart",
		token:     token,
		paginated: true,
	})
	if err != nil {
		return domain.Cart{}, err
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return domain.Cart{}, decodeError(err)
	}
	return domain.Cart{Items: items}, nil
}

// AddCartItem adds a product with the given quantity.
func (c *Client) AddCartItem(ctx context.Context, token string, productID int64, quantity int) error {
	_, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "cart/add",
		token:  token,
		body:   cartItemPayload{ProductID: productID, Quantity: quantity},
	})
	return err
}

// UpdateCartItem sets the absolute quantity for a line. The caller computes
// the final quantity; this is never a delta.
func (c *Client) UpdateCartItem(ctx context.Context, token string, productID int64, quantity int) error {
	_, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "cart/update",
		token:  token,
		body:   cartItemPayload{ProductID: productID, Quantity: quantity},
	})
	return err
}

// RemoveCartItem deletes a line.
func (c *Client) RemoveCartItem(ctx context.Context, token string, productID int64) error {
	_, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "cart/remove",
		token:  token,
		body:   cartItemPayload{ProductID: productID},
	})
	return err
}
