package ports

import "errors"

var (
	// ErrAuthRequired signals that the caller must prompt for
	// authentication before retrying. Raised before any network call when
	// no credential exists, and after a call the server rejected with 401
	// (in which case the stale credential has already been cleared).
	ErrAuthRequired = errors.New("authentication required")

	// ErrEmptyCart aborts checkout entry or submit when no lines exist.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrQuantityTooLow rejects quantity updates below 1 locally, before
	// they reach the network layer.
	ErrQuantityTooLow = errors.New("quantity must be at least 1")

	// ErrSubmitInFlight is returned to a second submit while the first
	// creation call is still in flight.
	ErrSubmitInFlight = errors.New("checkout submit already in flight")

	// ErrCheckoutCompleted rejects further submits after a successful
	// checkout.
	ErrCheckoutCompleted = errors.New("checkout already completed")

	// ErrSkipPaymentDisabled guards the test-only order path.
	ErrSkipPaymentDisabled = errors.New("skip-payment checkout is not enabled")
)
