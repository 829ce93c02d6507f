package hosted

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
	"github.com/stretchr/testify/require"
)

type widgetFunc func(ctx context.Context, handle *ports.PaymentHandle) error

func (f widgetFunc) Open(ctx context.Context, handle *ports.PaymentHandle) error {
	return f(ctx, handle)
}

func TestInitiate(t *testing.T) {
	provider := NewProvider(nil)

	t.Run("requires a provider order reference", func(t *testing.T) {
		_, err := provider.Initiate(context.Background(), ports.CheckoutCreation{ClientSecret: "secret"})
		require.Error(t, err)
	})

	t.Run("carries reference amount and currency", func(t *testing.T) {
		handle, err := provider.Initiate(context.Background(), ports.CheckoutCreation{
			OrderRef:    "R1",
			AmountMinor: 20000,
			Currency:    "INR",
		})
		require.NoError(t, err)
		require.Equal(t, "R1", handle.OrderRef)
		require.EqualValues(t, 20000, handle.AmountMinor)
		require.Equal(t, "INR", handle.Currency)
	})
}

func TestConfirmWaitsForCallback(t *testing.T) {
	provider := NewProvider(nil)
	handle := &ports.PaymentHandle{Provider: ProviderName, OrderRef: "R1"}

	go func() {
		time.Sleep(10 * time.Millisecond)
		provider.CompletePayment("R1", "pay_123")
	}()

	result, err := provider.Confirm(context.Background(), handle)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentSucceeded, result.Status)
	require.Equal(t, "pay_123", result.ActionSecret)
}

func TestConfirmWithoutCallbackStaysUnresolved(t *testing.T) {
	provider := NewProvider(nil)
	handle := &ports.PaymentHandle{Provider: ProviderName, OrderRef: "R1"}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := provider.Confirm(ctx, handle)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, domain.PaymentRequiresAction, result.Status)
}

func TestConfirmFailureCallback(t *testing.T) {
	provider := NewProvider(nil)
	handle := &ports.PaymentHandle{Provider: ProviderName, OrderRef: "R2"}

	go func() {
		time.Sleep(10 * time.Millisecond)
		provider.FailPayment("R2", "payment dismissed")
	}()

	result, err := provider.Confirm(context.Background(), handle)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentFailed, result.Status)
	require.Equal(t, "payment dismissed", result.FailureReason)
}

func TestConfirmWidgetOpenFailure(t *testing.T) {
	provider := NewProvider(widgetFunc(func(context.Context, *ports.PaymentHandle) error {
		return errors.New("no display")
	}))
	handle := &ports.PaymentHandle{Provider: ProviderName, OrderRef: "R3"}

	result, err := provider.Confirm(context.Background(), handle)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentFailed, result.Status)
}

func TestCallbackForUnknownOrderIsDropped(t *testing.T) {
	provider := NewProvider(nil)
	require.NotPanics(t, func() {
		provider.CompletePayment("unknown", "pay_1")
	})
}
