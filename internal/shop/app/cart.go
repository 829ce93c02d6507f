package app

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/metrics"
	"github.com/dejobratic/storefront/internal/shop/ports"
	"github.com/dejobratic/storefront/internal/telemetry"
)

// CartSynchronizer keeps a local snapshot of the server-held cart. The
// server is the single source of truth: every mutation is a command
// followed by a full re-fetch, and the snapshot is only ever replaced
// wholesale by a server response.
type CartSynchronizer struct {
	cartAPI  ports.CartService
	identity ports.IdentityStore
	events   ports.EventBus
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu   sync.RWMutex
	cart domain.Cart
}

func NewCartSynchronizer(
	cartAPI ports.CartService,
	identity ports.IdentityStore,
	events ports.EventBus,
	logger *slog.Logger,
	m *metrics.Metrics,
) *CartSynchronizer {
	return &CartSynchronizer{
		cartAPI:  cartAPI,
		identity: identity,
		events:   events,
		logger:   logger,
		metrics:  m,
	}
}

// Cart returns the last server-confirmed snapshot.
func (s *CartSynchronizer) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return domain.Cart{Items: items}
}

// Count reports the number of distinct lines for badge display.
func (s *CartSynchronizer) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Count()
}

// Refresh re-fetches the cart and replaces the local snapshot. A response
// arriving after the context ended is discarded, never applied.
func (s *CartSynchronizer) Refresh(ctx context.Context) (domain.Cart, error) {
	token := s.identity.Credential()
	if token == "" {
		return domain.Cart{}, ports.ErrAuthRequired
	}

	cart, err := s.cartAPI.FetchCart(ctx, token)
	if err != nil {
		if ports.IsAuthError(err) {
			return domain.Cart{}, s.expireSession(ctx, err)
		}
		return domain.Cart{}, err
	}
	if ctx.Err() != nil {
		return domain.Cart{}, ctx.Err()
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()

	return cart, nil
}

// Clear drops the local snapshot without touching the server, used when
// the session ends.
func (s *CartSynchronizer) Clear() {
	s.mu.Lock()
	s.cart = domain.Cart{}
	s.mu.Unlock()
}

// Add puts quantity units of a product in the cart.
func (s *CartSynchronizer) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return ports.ErrQuantityTooLow
	}
	return s.mutate(ctx, "add", productID, func(ctx context.Context, token string) error {
		return s.cartAPI.AddCartItem(ctx, token, productID, quantity)
	})
}

// UpdateQuantity sets the absolute quantity for an existing line. Values
// below 1 are rejected locally; the caller removes the line instead.
func (s *CartSynchronizer) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return ports.ErrQuantityTooLow
	}
	return s.mutate(ctx, "update", productID, func(ctx context.Context, token string) error {
		return s.cartAPI.UpdateCartItem(ctx, token, productID, quantity)
	})
}

// Remove deletes a line from the cart.
func (s *CartSynchronizer) Remove(ctx context.Context, productID int64) error {
	return s.mutate(ctx, "remove", productID, func(ctx context.Context, token string) error {
		return s.cartAPI.RemoveCartItem(ctx, token, productID)
	})
}

// mutate runs one cart command, then refreshes the snapshot and announces
// the change. The announcement fires even when the follow-up refresh
// fails: the server cart did change, and observers must re-pull.
func (s *CartSynchronizer) mutate(ctx context.Context, operation string, productID int64, fn func(ctx context.Context, token string) error) error {
	token := s.identity.Credential()
	if token == "" {
		return ports.ErrAuthRequired
	}

	ctx, span := telemetry.StartSpan(ctx, "Cart."+operation)
	defer span.End()
	telemetry.AddSpanAttributes(span,
		attribute.String("cart.operation", operation),
		attribute.Int64("cart.product_id", productID),
	)

	err := fn(ctx, token)
	if s.metrics != nil {
		s.metrics.RecordCartMutation(ctx, operation, err == nil)
	}
	if err != nil {
		telemetry.RecordSpanError(span, err)
		if ports.IsAuthError(err) {
			return s.expireSession(ctx, err)
		}
		return err
	}

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart refresh after mutation failed",
			"operation", operation,
			"error", err,
		)
	}
	if err := s.events.PublishCartUpdated(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart update", "error", err)
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

// expireSession clears the rejected credential so the next attempt starts
// from a clean anonymous state, then signals the caller to re-authenticate.
func (s *CartSynchronizer) expireSession(ctx context.Context, cause error) error {
	s.logger.InfoContext(ctx, "session rejected by server, clearing credential", "error", cause)
	if err := s.identity.ClearCredential(); err != nil {
		s.logger.WarnContext(ctx, "failed to clear rejected credential", "error", err)
	}
	s.Clear()
	return ports.ErrAuthRequired
}
