package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockAuthService struct {
	LoginFunc       func(ctx context.Context, in ports.LoginInput) (*ports.AuthSession, error)
	RegisterFunc    func(ctx context.Context, in ports.RegisterInput) (*ports.AuthSession, error)
	LogoutFunc      func(ctx context.Context, token string) error
	CurrentUserFunc func(ctx context.Context, token string) (*domain.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthSession, error) {
	return m.LoginFunc(ctx, in)
}

func (m *mockAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthSession, error) {
	return m.RegisterFunc(ctx, in)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	return m.LogoutFunc(ctx, token)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return m.CurrentUserFunc(ctx, token)
}

type mockCartService struct {
	FetchCartFunc      func(ctx context.Context, token string) (domain.Cart, error)
	AddCartItemFunc    func(ctx context.Context, token string, productID int64, quantity int) error
	UpdateCartItemFunc func(ctx context.Context, token string, productID int64, quantity int) error
	RemoveCartItemFunc func(ctx context.Context, token string, productID int64) error
}

func (m *mockCartService) FetchCart(ctx context.Context, token string) (domain.Cart, error) {
	return m.FetchCartFunc(ctx, token)
}

func (m *mockCartService) AddCartItem(ctx context.Context, token string, productID int64, quantity int) error {
	return m.AddCartItemFunc(ctx, token, productID, quantity)
}

func (m *mockCartService) UpdateCartItem(ctx context.Context, token string, productID int64, quantity int) error {
	return m.UpdateCartItemFunc(ctx, token, productID, quantity)
}

func (m *mockCartService) RemoveCartItem(ctx context.Context, token string, productID int64) error {
	return m.RemoveCartItemFunc(ctx, token, productID)
}

type mockCheckoutService struct {
	CreateCheckoutFunc func(ctx context.Context, token string, draft domain.CheckoutDraft, idempotencyKey string) (*ports.CheckoutCreation, error)
}

func (m *mockCheckoutService) CreateCheckout(ctx context.Context, token string, draft domain.CheckoutDraft, idempotencyKey string) (*ports.CheckoutCreation, error) {
	return m.CreateCheckoutFunc(ctx, token, draft, idempotencyKey)
}

type mockAddressService struct {
	ListAddressesFunc func(ctx context.Context, token string) ([]domain.Address, error)
}

func (m *mockAddressService) ListAddresses(ctx context.Context, token string) ([]domain.Address, error) {
	return m.ListAddressesFunc(ctx, token)
}

type mockProvider struct {
	name         string
	InitiateFunc func(ctx context.Context, creation ports.CheckoutCreation) (*ports.PaymentHandle, error)
	ConfirmFunc  func(ctx context.Context, handle *ports.PaymentHandle) (domain.PaymentResult, error)
}

func (m *mockProvider) Name() string {
	if m.name == "" {
		return "intent"
	}
	return m.name
}

func (m *mockProvider) Initiate(ctx context.Context, creation ports.CheckoutCreation) (*ports.PaymentHandle, error) {
	return m.InitiateFunc(ctx, creation)
}

func (m *mockProvider) Confirm(ctx context.Context, handle *ports.PaymentHandle) (domain.PaymentResult, error) {
	return m.ConfirmFunc(ctx, handle)
}
