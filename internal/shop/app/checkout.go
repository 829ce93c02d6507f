package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/metrics"
	"github.com/dejobratic/storefront/internal/shop/ports"
	"github.com/dejobratic/storefront/internal/telemetry"
)

// CheckoutView is what Begin hands back for rendering the checkout form:
// the confirmed cart, its total, and saved addresses for prefill. Begin
// never creates anything server-side.
type CheckoutView struct {
	Cart     domain.Cart
	Total    decimal.Decimal
	Billing  *domain.Address
	Shipping *domain.Address
}

// CheckoutOrchestrator drives a checkout attempt through its lifecycle:
// idle until the shopper explicitly submits, then one creation call, then
// the provider-specific confirmation protocol. Order creation happens
// exactly once per submit and never on view entry.
type CheckoutOrchestrator struct {
	checkoutAPI ports.CheckoutService
	addressAPI  ports.AddressService
	cart        *CartSynchronizer
	identity    ports.IdentityStore
	events      ports.EventBus
	provider    ports.PaymentProvider
	logger      *slog.Logger
	metrics     *metrics.Metrics
	skipPayment bool

	// busy is the single-flight gate: held for the whole submit, so a
	// second submit while one is in flight fails fast instead of minting
	// a duplicate order.
	busy sync.Mutex

	mu      sync.Mutex
	state   domain.CheckoutState
	failure string
}

func NewCheckoutOrchestrator(
	checkoutAPI ports.CheckoutService,
	addressAPI ports.AddressService,
	cart *CartSynchronizer,
	identity ports.IdentityStore,
	events ports.EventBus,
	provider ports.PaymentProvider,
	logger *slog.Logger,
	m *metrics.Metrics,
	skipPayment bool,
) *CheckoutOrchestrator {
	return &CheckoutOrchestrator{
		checkoutAPI: checkoutAPI,
		addressAPI:  addressAPI,
		cart:        cart,
		identity:    identity,
		events:      events,
		provider:    provider,
		logger:      logger,
		metrics:     m,
		skipPayment: skipPayment,
		state:       domain.CheckoutIdle,
	}
}

// State reports the current attempt state.
func (o *CheckoutOrchestrator) State() domain.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// FailureMessage returns the display message of the last failure, empty
// otherwise.
func (o *CheckoutOrchestrator) FailureMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failure
}

// Begin prepares the checkout form: it confirms the cart against the
// server, rejects empty carts, and loads saved addresses for prefill.
// Address loading is best-effort; a failure there only loses the prefill.
func (o *CheckoutOrchestrator) Begin(ctx context.Context) (*CheckoutView, error) {
	token := o.identity.Credential()
	if token == "" {
		return nil, ports.ErrAuthRequired
	}

	cart, err := o.cart.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ports.ErrEmptyCart
	}

	// A fresh view over a fresh cart is a new attempt: a prior terminal
	// outcome no longer binds future submits. An attempt still in flight
	// holds the busy lock and keeps its state.
	if o.busy.TryLock() {
		if o.State().IsTerminal() {
			o.setState(domain.CheckoutIdle, "")
		}
		o.busy.Unlock()
	}

	view := &CheckoutView{Cart: cart, Total: cart.Total()}

	addresses, err := o.addressAPI.ListAddresses(ctx, token)
	if err != nil {
		o.logger.WarnContext(ctx, "failed to load saved addresses for prefill", "error", err)
		return view, nil
	}
	view.Billing, view.Shipping = pickDefaults(addresses)

	return view, nil
}

// Submit runs one full checkout attempt with payment confirmation.
func (o *CheckoutOrchestrator) Submit(ctx context.Context, draft domain.CheckoutDraft) error {
	return o.submit(ctx, draft, false)
}

// SubmitTestOrder places an order without any payment confirmation. Only
// available when the skip-payment toggle is enabled in configuration;
// production builds refuse the toggle entirely.
func (o *CheckoutOrchestrator) SubmitTestOrder(ctx context.Context, draft domain.CheckoutDraft) error {
	if !o.skipPayment {
		return ports.ErrSkipPaymentDisabled
	}
	return o.submit(ctx, draft, true)
}

func (o *CheckoutOrchestrator) submit(ctx context.Context, draft domain.CheckoutDraft, skipConfirmation bool) error {
	if !o.busy.TryLock() {
		return ports.ErrSubmitInFlight
	}
	defer o.busy.Unlock()

	if o.State() == domain.CheckoutSucceeded {
		return ports.ErrCheckoutCompleted
	}

	token := o.identity.Credential()
	if token == "" {
		return ports.ErrAuthRequired
	}

	if draft.Provider == "" {
		draft.Provider = o.provider.Name()
	}
	if err := draft.Validate(); err != nil {
		return fmt.Errorf("invalid checkout: %w", err)
	}
	if err := validate.Struct(draft); err != nil {
		return fmt.Errorf("invalid checkout: %w", err)
	}

	ctx, span := telemetry.StartSpan(ctx, "Checkout.Submit")
	defer span.End()
	telemetry.AddSpanAttributes(span,
		attribute.String("checkout.provider", draft.Provider),
		attribute.Int("checkout.items", len(draft.Items)),
		attribute.Bool("checkout.skip_payment", skipConfirmation),
	)

	start := time.Now()
	success := false
	defer func() {
		if o.metrics != nil {
			o.metrics.RecordCheckoutSubmission(ctx, draft.Provider, success)
			o.metrics.RecordCheckoutDuration(ctx, time.Since(start).Seconds())
		}
	}()

	o.setState(domain.CheckoutInitializing, "")

	// A fresh key per explicit submit: a retry after failure is a new
	// attempt, not a replay of the previous one.
	idempotencyKey := uuid.NewString()

	creation, err := o.checkoutAPI.CreateCheckout(ctx, token, draft, idempotencyKey)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		if ports.IsAuthError(err) {
			o.setState(domain.CheckoutFailed, "your session has expired, please log in again")
			if clearErr := o.identity.ClearCredential(); clearErr != nil {
				o.logger.WarnContext(ctx, "failed to clear rejected credential", "error", clearErr)
			}
			return ports.ErrAuthRequired
		}
		o.setState(domain.CheckoutFailed, failureMessage(err))
		return err
	}

	o.logger.InfoContext(ctx, "checkout created",
		"provider", draft.Provider,
		"order_ref", creation.OrderRef,
	)

	if skipConfirmation {
		o.finish(ctx)
		success = true
		telemetry.SetSpanSuccess(span)
		return nil
	}

	handle, err := o.provider.Initiate(ctx, *creation)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.setState(domain.CheckoutFailed, err.Error())
		return err
	}

	o.setState(domain.CheckoutAwaitingAction, "")

	result, err := o.provider.Confirm(ctx, handle)
	if o.metrics != nil {
		status := string(result.Status)
		if err != nil {
			status = "error"
		}
		o.metrics.RecordPaymentConfirmation(ctx, draft.Provider, status)
	}
	if err != nil {
		telemetry.RecordSpanError(span, err)
		if ctx.Err() != nil {
			// The attempt is unresolved, not failed: the shopper may
			// still complete it out of band.
			return err
		}
		o.setState(domain.CheckoutFailed, err.Error())
		return err
	}

	switch result.Status {
	case domain.PaymentSucceeded:
		o.finish(ctx)
		success = true
		telemetry.SetSpanSuccess(span)
		return nil
	case domain.PaymentRequiresAction:
		// Still waiting on the shopper; stay in the awaiting state.
		return nil
	default:
		o.setState(domain.CheckoutFailed, result.FailureReason)
		err := fmt.Errorf("payment failed: %s", result.FailureReason)
		telemetry.RecordSpanError(span, err)
		return err
	}
}

// finish runs the settled-order epilogue: the server has emptied the cart,
// so the local snapshot is dropped and exactly one cart-changed
// announcement fires.
func (o *CheckoutOrchestrator) finish(ctx context.Context) {
	o.setState(domain.CheckoutSettling, "")
	o.cart.Clear()
	if err := o.events.PublishCartUpdated(ctx); err != nil {
		o.logger.WarnContext(ctx, "failed to publish cart update after checkout", "error", err)
	}
	o.setState(domain.CheckoutSucceeded, "")
}

func (o *CheckoutOrchestrator) setState(state domain.CheckoutState, failure string) {
	o.mu.Lock()
	o.state = state
	o.failure = failure
	o.mu.Unlock()
}

// failureMessage extracts the most specific display message from a
// creation failure. Validation errors surface their first field message.
func failureMessage(err error) string {
	if apiErr, ok := ports.AsAPIError(err); ok {
		if apiErr.Kind == ports.KindValidation {
			return apiErr.FirstFieldError()
		}
		return apiErr.Message
	}
	return err.Error()
}

func pickDefaults(addresses []domain.Address) (billing, shipping *domain.Address) {
	for i := range addresses {
		addr := addresses[i]
		if addr.IsDefaultBilling && billing == nil {
			billing = &addr
		}
		if addr.IsDefaultShipping && shipping == nil {
			shipping = &addr
		}
	}
	if len(addresses) > 0 {
		if billing == nil {
			billing = &addresses[0]
		}
		if shipping == nil {
			shipping = &addresses[0]
		}
	}
	return billing, shipping
}
