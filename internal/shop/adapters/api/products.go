package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
)

// ListProducts fetches one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, page int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	raw, err := c.call(ctx, request{
		method:    http.MethodGet,
		path:      fmt.Sprintf("products?page=%d", page),
		paginated: true,
	})
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, decodeError(err)
	}
	return products, nil
}

// GetProduct fetches a single catalog entry.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	raw, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("products/%d", id),
	})
	if err != nil {
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, decodeError(err)
	}
	return &product, nil
}

// decodeError covers 2xx responses whose JSON does not match the expected
// payload shape. Treated as a server fault, not as success.
func decodeError(err error) *ports.APIError {
	return &ports.APIError{
		Kind:    ports.KindServer,
		Message: fmt.Sprintf("unexpected response payload: %v", err),
	}
}
