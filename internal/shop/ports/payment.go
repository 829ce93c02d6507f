package ports

import (
	"context"

	"github.com/dejobratic/storefront/internal/shop/domain"
)

// CheckoutCreation is the normalized response of the single order-and-intent
// creation call. Exactly one of the two provider shapes is populated:
// ClientSecret for the intent-confirm protocol, OrderRef plus amount for the
// hosted-redirect protocol.
type CheckoutCreation struct {
	ClientSecret string
	OrderRef     string
	AmountMinor  int64
	Currency     string
}

// PaymentHandle is the provider-specific continuation extracted from a
// creation response.
type PaymentHandle struct {
	Provider     string
	ClientSecret string
	OrderRef     string
	AmountMinor  int64
	Currency     string
}

// PaymentProvider abstracts the two payment protocols behind one
// capability. The orchestrator owns the creation call; the provider only
// interprets its response and drives confirmation.
type PaymentProvider interface {
	// Name is the provider identifier sent in the creation payload.
	Name() string
	// Initiate extracts the provider handle from a creation response,
	// failing when the response is missing the fields this protocol needs.
	Initiate(ctx context.Context, creation CheckoutCreation) (*PaymentHandle, error)
	// Confirm drives the provider's confirmation flow to a result. For the
	// hosted protocol this blocks until the widget callback arrives or the
	// context is canceled; it never polls or assumes success.
	Confirm(ctx context.Context, handle *PaymentHandle) (domain.PaymentResult, error)
}
