package ports

import (
	"context"

	"github.com/dejobratic/storefront/internal/shop/domain"
)

// Consumed service contracts. The API gateway adapter implements all of
// them; the application layer depends only on these interfaces.

// LoginInput is the login payload. GuestID is included only when a pending
// anonymous cart exists, so the server can merge it into the user's cart.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	GuestID  string `json:"guest_id,omitempty"`
}

// RegisterInput is the registration payload. Same guest-cart merge
// semantics as login.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	GuestID              string `json:"guest_id,omitempty"`
}

// AuthSession is a successful login or registration result.
type AuthSession struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// AuthService is the consumed auth boundary.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*AuthSession, error)
	Register(ctx context.Context, in RegisterInput) (*AuthSession, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// CartService is the consumed cart boundary. All mutations are
// authenticated; quantity updates are absolute, never deltas.
type CartService interface {
	FetchCart(ctx context.Context, token string) (domain.Cart, error)
	AddCartItem(ctx context.Context, token string, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, token string, productID int64, quantity int) error
	RemoveCartItem(ctx context.Context, token string, productID int64) error
}

// CheckoutService issues the single order-and-payment-intent creation call.
// The idempotency key is minted fresh for every explicit submit.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, token string, draft domain.CheckoutDraft, idempotencyKey string) (*CheckoutCreation, error)
}

// AddressService loads saved addresses used to prepopulate checkout forms.
type AddressService interface {
	ListAddresses(ctx context.Context, token string) ([]domain.Address, error)
}

// CatalogService is the consumed catalog boundary.
type CatalogService interface {
	ListProducts(ctx context.Context, page int) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// OrderService reads back the shopper's order history.
type OrderService interface {
	ListOrders(ctx context.Context, token string, page int) ([]domain.Order, error)
	GetOrder(ctx context.Context, token string, id int64) (*domain.Order, error)
}
