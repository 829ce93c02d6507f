package domain

import "errors"

// CheckoutState captures the lifecycle of a single checkout attempt.
type CheckoutState string

const (
	CheckoutIdle           CheckoutState = "idle"
	CheckoutInitializing   CheckoutState = "initializing"
	CheckoutAwaitingAction CheckoutState = "awaiting_payment_action"
	CheckoutSettling       CheckoutState = "settling"
	CheckoutSucceeded      CheckoutState = "succeeded"
	CheckoutFailed         CheckoutState = "failed"
)

// IsTerminal indicates whether the checkout attempt has finished.
func (s CheckoutState) IsTerminal() bool {
	switch s {
	case CheckoutSucceeded, CheckoutFailed:
		return true
	default:
		return false
	}
}

// CheckoutItem references a cart line by product at submit time.
type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutDraft is built from form state and the last-known cart snapshot
// at the moment the shopper submits payment. It is never created eagerly on
// view entry; doing so would mint a server-side order on every page visit.
type CheckoutDraft struct {
	Items    []CheckoutItem `json:"items" validate:"required,min=1"`
	Provider string         `json:"payment_provider" validate:"required"`
	Billing  Address        `json:"billing_address" validate:"required"`
	Shipping Address        `json:"shipping_address" validate:"required"`
}

// Validate checks the structural constraints that must hold before the
// draft is allowed anywhere near the network.
func (d CheckoutDraft) Validate() error {
	if len(d.Items) == 0 {
		return errors.New("checkout requires at least one item")
	}
	for _, item := range d.Items {
		if item.ProductID == 0 {
			return errors.New("checkout item is missing a product reference")
		}
		if item.Quantity < 1 {
			return errors.New("checkout item quantity must be at least 1")
		}
	}
	if d.Provider == "" {
		return errors.New("payment provider is required")
	}
	return nil
}

// DraftFromCart maps a server-confirmed cart snapshot into checkout items.
func DraftFromCart(cart Cart, provider string, billing, shipping Address) CheckoutDraft {
	items := make([]CheckoutItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, CheckoutItem{ProductID: line.Product.ID, Quantity: qty})
	}
	return CheckoutDraft{
		Items:    items,
		Provider: provider,
		Billing:  billing,
		Shipping: shipping,
	}
}
