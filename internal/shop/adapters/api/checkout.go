package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
)

// checkoutResponse covers both provider shapes: the intent-confirm protocol
// returns a client secret, the hosted-redirect protocol a provider order.
type checkoutResponse struct {
	PaymentIntent *struct {
		ClientSecret string `json:"client_secret"`
	} `json:"payment_intent"`
	ClientSecret string `json:"client_secret"`
	HostedOrder  *struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"hosted_order"`
}

// CreateCheckout issues the single order-and-payment-intent creation call.
// The idempotency key is minted by the orchestrator, one per explicit
// submit.
func (c *Client) CreateCheckout(ctx context.Context, token string, draft domain.CheckoutDraft, idempotencyKey string) (*ports.CheckoutCreation, error) {
	raw, err := c.call(ctx, request{
		method:  http.MethodPost,
		path:    "checkout",
		token:   token,
		body:    draft,
		headers: map[string]string{"Idempotency-Key": idempotencyKey},
	})
	if err != nil {
		return nil, err
	}

	var resp checkoutResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, decodeError(err)
	}

	creation := &ports.CheckoutCreation{ClientSecret: resp.ClientSecret}
	if resp.PaymentIntent != nil && resp.PaymentIntent.ClientSecret != "" {
		creation.ClientSecret = resp.PaymentIntent.ClientSecret
	}
	if resp.HostedOrder != nil {
		creation.OrderRef = resp.HostedOrder.ID
		creation.AmountMinor = resp.HostedOrder.Amount
		creation.Currency = resp.HostedOrder.Currency
	}
	return creation, nil
}
