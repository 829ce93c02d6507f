package intent

import (
	"context"
	"errors"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
)

// ProviderName is the identifier sent in checkout creation payloads.
const ProviderName = "intent"

// Confirmer is the SDK-style client-side confirmation step: it takes the
// client secret from the creation call and drives the payment, possibly
// through an additional challenge.
type Confirmer interface {
	ConfirmPayment(ctx context.Context, clientSecret string) (domain.PaymentResult, error)
}

// Provider implements the intent-confirm protocol: the creation call
// returns a client secret and the client completes payment through the
// provider SDK.
type Provider struct {
	confirmer Confirmer
}

func NewProvider(confirmer Confirmer) *Provider {
	return &Provider{confirmer: confirmer}
}

func (p *Provider) Name() string { return ProviderName }

// Initiate extracts the client secret from a creation response.
func (p *Provider) Initiate(_ context.Context, creation ports.CheckoutCreation) (*ports.PaymentHandle, error) {
	if creation.ClientSecret == "" {
		return nil, errors.New("payment cannot be started: creation response carried no client secret")
	}
	return &ports.PaymentHandle{
		Provider:     ProviderName,
		ClientSecret: creation.ClientSecret,
	}, nil
}

// Confirm hands the secret to the SDK confirmation call. SDK-reported
// payment errors come back as failed results, not Go errors.
func (p *Provider) Confirm(ctx context.Context, handle *ports.PaymentHandle) (domain.PaymentResult, error) {
	return p.confirmer.ConfirmPayment(ctx, handle.ClientSecret)
}
