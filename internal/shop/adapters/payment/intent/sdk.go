package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SDKClient performs the provider's client-side confirmation call, the
// headless equivalent of a card-element SDK.
type SDKClient struct {
	confirmURL string
	publicKey  string
	httpClient *http.Client
}

type SDKOption func(*SDKClient)

func WithHTTPClient(httpClient *http.Client) SDKOption {
	return func(c *SDKClient) { c.httpClient = httpClient }
}

func NewSDKClient(confirmURL, publicKey string, opts ...SDKOption) *SDKClient {
	c := &SDKClient{
		confirmURL: confirmURL,
		publicKey:  publicKey,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type confirmRequest struct {
	ClientSecret  string `json:"client_secret"`
	PaymentMethod string `json:"payment_method"`
	Key           string `json:"key"`
}

type confirmResponse struct {
	Status string `json:"status"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ConfirmPayment drives the intent to a final status. A payment declined
// by the provider is a failed result; only connectivity problems surface
// as errors.
func (c *SDKClient) ConfirmPayment(ctx context.Context, clientSecret string) (domain.PaymentResult, error) {
	payload, err := json.Marshal(confirmRequest{
		ClientSecret:  clientSecret,
		PaymentMethod: "card",
		Key:           c.publicKey,
	})
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("encode confirmation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.confirmURL, bytes.NewReader(payload))
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("build confirmation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("payment confirmation call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded confirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.PaymentResult{}, fmt.Errorf("decode confirmation response: %w", err)
	}

	if decoded.Error != nil && decoded.Error.Message != "" {
		return domain.PaymentResult{
			Status:        domain.PaymentFailed,
			FailureReason: decoded.Error.Message,
		}, nil
	}

	switch decoded.Status {
	case "succeeded":
		return domain.PaymentResult{Status: domain.PaymentSucceeded}, nil
	case "requires_action", "requires_confirmation":
		return domain.PaymentResult{
			Status:       domain.PaymentRequiresAction,
			ActionSecret: clientSecret,
		}, nil
	default:
		return domain.PaymentResult{
			Status:        domain.PaymentFailed,
			FailureReason: fmt.Sprintf("unexpected payment status %q", decoded.Status),
		}, nil
	}
}
