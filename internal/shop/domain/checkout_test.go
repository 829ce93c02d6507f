package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckoutDraftValidate(t *testing.T) {
	valid := CheckoutDraft{
		Items:    []CheckoutItem{{ProductID: 1, Quantity: 1}},
		Provider: "intent",
	}

	t.Run("valid draft", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("no items", func(t *testing.T) {
		draft := valid
		draft.Items = nil
		require.Error(t, draft.Validate())
	})

	t.Run("item without product", func(t *testing.T) {
		draft := valid
		draft.Items = []CheckoutItem{{Quantity: 1}}
		require.Error(t, draft.Validate())
	})

	t.Run("item with zero quantity", func(t *testing.T) {
		draft := valid
		draft.Items = []CheckoutItem{{ProductID: 1}}
		require.Error(t, draft.Validate())
	})

	t.Run("missing provider", func(t *testing.T) {
		draft := valid
		draft.Provider = ""
		require.Error(t, draft.Validate())
	})
}

func TestDraftFromCart(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Product: Product{ID: 7, Price: "10.00"}, Quantity: 2},
		{Product: Product{ID: 8, Price: "5.00"}, Quantity: 0},
	}}

	draft := DraftFromCart(cart, "intent", Address{Name: "A"}, Address{Name: "B"})
	require.Len(t, draft.Items, 2)
	require.Equal(t, CheckoutItem{ProductID: 7, Quantity: 2}, draft.Items[0])
	require.Equal(t, 1, draft.Items[1].Quantity, "quantities below one are clamped")
	require.Equal(t, "intent", draft.Provider)
}

func TestCheckoutStateIsTerminal(t *testing.T) {
	require.True(t, CheckoutSucceeded.IsTerminal())
	require.True(t, CheckoutFailed.IsTerminal())
	require.False(t, CheckoutIdle.IsTerminal())
	require.False(t, CheckoutInitializing.IsTerminal())
	require.False(t, CheckoutAwaitingAction.IsTerminal())
	require.False(t, CheckoutSettling.IsTerminal())
}
