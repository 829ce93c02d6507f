package hosted

import (
	"context"
	"errors"
	"sync"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
)

// ProviderName is the identifier sent in checkout creation payloads.
const ProviderName = "hosted"

// Widget opens the provider-hosted payment surface for a handle. In a
// headless client this typically prints or opens the hosted URL.
type Widget interface {
	Open(ctx context.Context, handle *ports.PaymentHandle) error
}

// Provider implements the hosted-redirect protocol: the creation call
// returns a provider order reference, the shopper pays inside a hosted
// widget, and the widget's asynchronous callback is the sole success
// trigger. The provider never polls and never assumes success.
type Provider struct {
	widget Widget

	mu      sync.Mutex
	waiters map[string]chan domain.PaymentResult
}

func NewProvider(widget Widget) *Provider {
	return &Provider{
		widget:  widget,
		waiters: make(map[string]chan domain.PaymentResult),
	}
}

func (p *Provider) Name() string { return ProviderName }

// Initiate extracts the provider order reference from a creation response.
func (p *Provider) Initiate(_ context.Context, creation ports.CheckoutCreation) (*ports.PaymentHandle, error) {
	if creation.OrderRef == "" {
		return nil, errors.New("payment cannot be started: creation response carried no provider order")
	}
	return &ports.PaymentHandle{
		Provider:    ProviderName,
		OrderRef:    creation.OrderRef,
		AmountMinor: creation.AmountMinor,
		Currency:    creation.Currency,
	}, nil
}

// Confirm opens the widget and blocks until its callback reports an
// outcome or the context ends. A canceled context leaves the attempt
// unresolved: the caller stays in its awaiting state.
func (p *Provider) Confirm(ctx context.Context, handle *ports.PaymentHandle) (domain.PaymentResult, error) {
	ch := p.register(handle.OrderRef)
	defer p.unregister(handle.OrderRef)

	if p.widget != nil {
		if err := p.widget.Open(ctx, handle); err != nil {
			return domain.PaymentResult{
				Status:        domain.PaymentFailed,
				FailureReason: "failed to open payment widget: " + err.Error(),
			}, nil
		}
	}

	select {
	case result := <-ch:
		return result, nil
	case <-ctx.Done():
		return domain.PaymentResult{Status: domain.PaymentRequiresAction}, ctx.Err()
	}
}

// CompletePayment is invoked by the widget callback on success.
func (p *Provider) CompletePayment(orderRef, paymentID string) {
	p.deliver(orderRef, domain.PaymentResult{
		Status:       domain.PaymentSucceeded,
		ActionSecret: paymentID,
	})
}

// FailPayment is invoked by the widget callback when payment was declined
// or dismissed.
func (p *Provider) FailPayment(orderRef, reason string) {
	p.deliver(orderRef, domain.PaymentResult{
		Status:        domain.PaymentFailed,
		FailureReason: reason,
	})
}

func (p *Provider) register(orderRef string) chan domain.PaymentResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan domain.PaymentResult, 1)
	p.waiters[orderRef] = ch
	return ch
}

func (p *Provider) unregister(orderRef string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.waiters, orderRef)
}

func (p *Provider) deliver(orderRef string, result domain.PaymentResult) {
	p.mu.Lock()
	ch, ok := p.waiters[orderRef]
	p.mu.Unlock()
	if !ok {
		// Callback for an attempt nobody is waiting on anymore; dropped.
		return
	}
	select {
	case ch <- result:
	default:
	}
}
