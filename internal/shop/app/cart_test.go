package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	eventsmem "github.com/dejobratic/storefront/internal/shop/adapters/events/memory"
	identitymem "github.com/dejobratic/storefront/internal/shop/adapters/identity/memory"
	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
)

func cartOf(productIDs ...int64) domain.Cart {
	cart := domain.Cart{}
	for _, id := range productIDs {
		cart.Items = append(cart.Items, domain.CartItem{
			Product:  domain.Product{ID: id, Title: "Widget", Price: "10.00"},
			Quantity: 1,
		})
	}
	return cart
}

func authedIdentity(t *testing.T) *identitymem.Store {
	t.Helper()
	identity := identitymem.NewStore()
	require.NoError(t, identity.SetCredential("tok-123"))
	return identity
}

func TestAddRefreshesAndAnnounces(t *testing.T) {
	var added struct {
		productID int64
		quantity  int
	}
	api := &mockCartService{
		AddCartItemFunc: func(_ context.Context, token string, productID int64, quantity int) error {
			require.Equal(t, "tok-123", token)
			added.productID = productID
			added.quantity = quantity
			return nil
		},
		FetchCartFunc: func(context.Context, string) (domain.Cart, error) {
			return cartOf(7), nil
		},
	}

	bus := eventsmem.NewBus()
	cartChanges := 0
	bus.Subscribe(ports.EventCartUpdated, func(context.Context) { cartChanges++ })

	sync := NewCartSynchronizer(api, authedIdentity(t), bus, testLogger(), nil)
	require.NoError(t, sync.Add(context.Background(), 7, 2))

	require.EqualValues(t, 7, added.productID)
	require.Equal(t, 2, added.quantity)
	require.Equal(t, 1, sync.Count(), "snapshot should reflect the re-fetched cart")
	require.Equal(t, 1, cartChanges)
}

func TestQuantityBelowOneNeverHitsNetwork(t *testing.T) {
	called := false
	api := &mockCartService{
		AddCartItemFunc: func(context.Context, string, int64, int) error {
			called = true
			return nil
		},
		UpdateCartItemFunc: func(context.Context, string, int64, int) error {
			called = true
			return nil
		},
	}

	sync := NewCartSynchronizer(api, authedIdentity(t), eventsmem.NewBus(), testLogger(), nil)

	require.ErrorIs(t, sync.Add(context.Background(), 7, 0), ports.ErrQuantityTooLow)
	require.ErrorIs(t, sync.UpdateQuantity(context.Background(), 7, -1), ports.ErrQuantityTooLow)
	require.False(t, called)
}

func TestMutationRequiresCredential(t *testing.T) {
	called := false
	api := &mockCartService{
		AddCartItemFunc: func(context.Context, string, int64, int) error {
			called = true
			return nil
		},
	}

	sync := NewCartSynchronizer(api, identitymem.NewStore(), eventsmem.NewBus(), testLogger(), nil)
	require.ErrorIs(t, sync.Add(context.Background(), 7, 1), ports.ErrAuthRequired)
	require.False(t, called)
}

func TestRejectedSessionClearsCredential(t *testing.T) {
	identity := authedIdentity(t)
	api := &mockCartService{
		UpdateCartItemFunc: func(context.Context, string, int64, int) error {
			return &ports.APIError{Kind: ports.KindAuth, Status: 401, Message: "Unauthenticated."}
		},
	}

	sync := NewCartSynchronizer(api, identity, eventsmem.NewBus(), testLogger(), nil)
	require.ErrorIs(t, sync.UpdateQuantity(context.Background(), 7, 3), ports.ErrAuthRequired)
	require.Empty(t, identity.Credential(), "a 401 must clear the stale credential")
}

func TestRemoveUpdatesSnapshot(t *testing.T) {
	removed := false
	api := &mockCartService{
		RemoveCartItemFunc: func(_ context.Context, _ string, productID int64) error {
			require.EqualValues(t, 7, productID)
			removed = true
			return nil
		},
		FetchCartFunc: func(context.Context, string) (domain.Cart, error) {
			return domain.Cart{}, nil
		},
	}

	sync := NewCartSynchronizer(api, authedIdentity(t), eventsmem.NewBus(), testLogger(), nil)
	require.NoError(t, sync.Remove(context.Background(), 7))
	require.True(t, removed)
	require.Equal(t, 0, sync.Count())
}

func TestRefreshDiscardsLateResponse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &mockCartService{
		FetchCartFunc: func(context.Context, string) (domain.Cart, error) {
			// The caller gives up while the response is in flight.
			cancel()
			return cartOf(7, 8), nil
		},
	}

	sync := NewCartSynchronizer(api, authedIdentity(t), eventsmem.NewBus(), testLogger(), nil)
	_, err := sync.Refresh(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, sync.Count(), "a late response must never replace the snapshot")
}

func TestMutationFailureKeepsSnapshotAndStaysSilent(t *testing.T) {
	api := &mockCartService{
		AddCartItemFunc: func(context.Context, string, int64, int) error {
			return &ports.APIError{Kind: ports.KindServer, Status: 500, Message: "server error, please try again later"}
		},
	}

	bus := eventsmem.NewBus()
	cartChanges := 0
	bus.Subscribe(ports.EventCartUpdated, func(context.Context) { cartChanges++ })

	sync := NewCartSynchronizer(api, authedIdentity(t), bus, testLogger(), nil)
	err := sync.Add(context.Background(), 7, 1)
	require.True(t, ports.IsServerError(err))
	require.Equal(t, 0, cartChanges, "failed mutations must not announce a change")
}
