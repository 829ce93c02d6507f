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

func testSession() *ports.AuthSession {
	return &ports.AuthSession{
		Token: "tok-123",
		User:  domain.User{ID: 1, Name: "Ada", Email: "ada@example.com"},
	}
}

func TestLoginMergesAnonymousCart(t *testing.T) {
	identity := identitymem.NewStore()
	guestID, err := identity.EnsureAnonymousCartID()
	require.NoError(t, err)

	var got ports.LoginInput
	auth := &mockAuthService{
		LoginFunc: func(_ context.Context, in ports.LoginInput) (*ports.AuthSession, error) {
			got = in
			return testSession(), nil
		},
	}

	bus := eventsmem.NewBus()
	authChanges := 0
	bus.Subscribe(ports.EventAuthChanged, func(context.Context) { authChanges++ })

	mgr := NewSessionManager(auth, identity, bus, testLogger())
	user, err := mgr.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "Ada", user.Name)

	require.Equal(t, guestID, got.GuestID, "login payload should carry the pending anonymous cart id")
	require.Empty(t, identity.AnonymousCartID(), "anonymous cart id should be consumed after a successful merge")
	require.Equal(t, "tok-123", identity.Credential())
	require.Equal(t, 1, authChanges)
	require.True(t, mgr.IsAuthenticated())
}

func TestLoginWithoutAnonymousCartOmitsGuestID(t *testing.T) {
	identity := identitymem.NewStore()

	var got ports.LoginInput
	auth := &mockAuthService{
		LoginFunc: func(_ context.Context, in ports.LoginInput) (*ports.AuthSession, error) {
			got = in
			return testSession(), nil
		},
	}

	mgr := NewSessionManager(auth, identity, eventsmem.NewBus(), testLogger())
	_, err := mgr.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	require.Empty(t, got.GuestID)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	identity := identitymem.NewStore()
	guestID, err := identity.EnsureAnonymousCartID()
	require.NoError(t, err)

	auth := &mockAuthService{
		LoginFunc: func(context.Context, ports.LoginInput) (*ports.AuthSession, error) {
			return nil, &ports.APIError{Kind: ports.KindValidation, Status: 422, Message: "invalid credentials"}
		},
	}

	mgr := NewSessionManager(auth, identity, eventsmem.NewBus(), testLogger())
	_, err = mgr.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)

	require.Empty(t, identity.Credential())
	require.Equal(t, guestID, identity.AnonymousCartID(), "failed login must not consume the anonymous cart id")
	require.False(t, mgr.IsAuthenticated())
}

func TestLoginRejectsInvalidInputLocally(t *testing.T) {
	called := false
	auth := &mockAuthService{
		LoginFunc: func(context.Context, ports.LoginInput) (*ports.AuthSession, error) {
			called = true
			return testSession(), nil
		},
	}

	mgr := NewSessionManager(auth, identitymem.NewStore(), eventsmem.NewBus(), testLogger())
	_, err := mgr.Login(context.Background(), "not-an-email", "secret")
	require.Error(t, err)
	require.False(t, called, "invalid input must never reach the network")
}

func TestRegisterMergesAnonymousCart(t *testing.T) {
	identity := identitymem.NewStore()
	guestID, err := identity.EnsureAnonymousCartID()
	require.NoError(t, err)

	var got ports.RegisterInput
	auth := &mockAuthService{
		RegisterFunc: func(_ context.Context, in ports.RegisterInput) (*ports.AuthSession, error) {
			got = in
			return testSession(), nil
		},
	}

	mgr := NewSessionManager(auth, identity, eventsmem.NewBus(), testLogger())
	_, err = mgr.Register(context.Background(), ports.RegisterInput{
		Name:                 "Ada",
		Email:                "ada@example.com",
		Password:             "long-password",
		PasswordConfirmation: "long-password",
	})
	require.NoError(t, err)
	require.Equal(t, guestID, got.GuestID)
	require.Empty(t, identity.AnonymousCartID())
}

func TestLogoutClearsLocallyEvenWhenServerFails(t *testing.T) {
	identity := identitymem.NewStore()
	require.NoError(t, identity.SetCredential("tok-123"))

	auth := &mockAuthService{
		LoginFunc: func(context.Context, ports.LoginInput) (*ports.AuthSession, error) {
			return testSession(), nil
		},
		LogoutFunc: func(context.Context, string) error {
			return &ports.APIError{Kind: ports.KindTransport, Message: "network unreachable"}
		},
	}

	bus := eventsmem.NewBus()
	authChanges := 0
	bus.Subscribe(ports.EventAuthChanged, func(context.Context) { authChanges++ })

	mgr := NewSessionManager(auth, identity, bus, testLogger())
	require.NoError(t, mgr.Logout(context.Background()))

	require.Empty(t, identity.Credential())
	require.Equal(t, 1, authChanges)
	require.False(t, mgr.IsAuthenticated())
}

func TestRestore(t *testing.T) {
	t.Run("no persisted credential", func(t *testing.T) {
		mgr := NewSessionManager(&mockAuthService{}, identitymem.NewStore(), eventsmem.NewBus(), testLogger())
		user, err := mgr.Restore(context.Background())
		require.NoError(t, err)
		require.Nil(t, user)
	})

	t.Run("stale credential is discarded silently", func(t *testing.T) {
		identity := identitymem.NewStore()
		require.NoError(t, identity.SetCredential("expired"))

		auth := &mockAuthService{
			CurrentUserFunc: func(context.Context, string) (*domain.User, error) {
				return nil, &ports.APIError{Kind: ports.KindAuth, Status: 401, Message: "Unauthenticated."}
			},
		}

		mgr := NewSessionManager(auth, identity, eventsmem.NewBus(), testLogger())
		user, err := mgr.Restore(context.Background())
		require.NoError(t, err)
		require.Nil(t, user)
		require.Empty(t, identity.Credential())
	})

	t.Run("transport fault preserves the credential", func(t *testing.T) {
		identity := identitymem.NewStore()
		require.NoError(t, identity.SetCredential("tok-123"))

		auth := &mockAuthService{
			CurrentUserFunc: func(context.Context, string) (*domain.User, error) {
				return nil, &ports.APIError{Kind: ports.KindTransport, Message: "connection refused"}
			},
		}

		mgr := NewSessionManager(auth, identity, eventsmem.NewBus(), testLogger())
		_, err := mgr.Restore(context.Background())
		require.Error(t, err)
		require.Equal(t, "tok-123", identity.Credential())
	})

	t.Run("valid credential restores the user", func(t *testing.T) {
		identity := identitymem.NewStore()
		require.NoError(t, identity.SetCredential("tok-123"))

		auth := &mockAuthService{
			CurrentUserFunc: func(_ context.Context, token string) (*domain.User, error) {
				require.Equal(t, "tok-123", token)
				return &domain.User{ID: 1, Name: "Ada"}, nil
			},
		}

		mgr := NewSessionManager(auth, identity, eventsmem.NewBus(), testLogger())
		user, err := mgr.Restore(context.Background())
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, "Ada", user.Name)
		require.True(t, mgr.IsAuthenticated())
	})
}
