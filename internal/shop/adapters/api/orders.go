package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dejobratic/storefront/internal/shop/domain"
)

// ListOrders pages through the shopper's order history.
func (c *Client) ListOrders(ctx context.Context, token string, page int) ([]domain.Order, error) {
	if page < 1 {
		page = 1
	}
	raw, err := c.call(ctx, request{
		method:    http.MethodGet,
		path:      fmt.Sprintf("orders?page=%d", page),
		token:     token,
		paginated: true,
	})
	if err != nil {
		return nil, err
	}

	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, decodeError(err)
	}
	return orders, nil
}

// GetOrder reads one order back by its server-owned identifier.
func (c *Client) GetOrder(ctx context.Context, token string, id int64) (*domain.Order, error) {
	raw, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("orders/%d", id),
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, decodeError(err)
	}
	return &order, nil
}
