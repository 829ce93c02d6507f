package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dejobratic/storefront/internal/shop/domain"
	"github.com/dejobratic/storefront/internal/shop/ports"
)

// SessionManager owns the Anonymous/Authenticated state machine: login and
// register transitions (with guest-cart merge), best-effort logout, and
// silent session restore on startup. It is the only component that sets
// the credential.
type SessionManager struct {
	authAPI  ports.AuthService
	identity ports.IdentityStore
	events   ports.EventBus
	logger   *slog.Logger

	mu   sync.Mutex
	user *domain.User
}

func NewSessionManager(
	authAPI ports.AuthService,
	identity ports.IdentityStore,
	events ports.EventBus,
	logger *slog.Logger,
) *SessionManager {
	return &SessionManager{
		authAPI:  authAPI,
		identity: identity,
		events:   events,
		logger:   logger,
	}
}

// CurrentUser returns the authenticated user, nil when anonymous.
func (m *SessionManager) CurrentUser() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

func (m *SessionManager) IsAuthenticated() bool {
	return m.CurrentUser() != nil
}

// Login authenticates and, when a pending anonymous cart id exists, hands
// it to the server for merging into the user's cart. The local id is
// cleared only after the server accepted the login.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	in := ports.LoginInput{
		Email:    email,
		Password: password,
		GuestID:  m.identity.AnonymousCartID(),
	}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid login input: %w", err)
	}

	session, err := m.authAPI.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, session, in.GuestID != "")
}

// Register creates an account with the same guest-cart merge semantics as
// Login.
func (m *SessionManager) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.GuestID = m.identity.AnonymousCartID()
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid registration input: %w", err)
	}

	session, err := m.authAPI.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, session, in.GuestID != "")
}

func (m *SessionManager) establish(ctx context.Context, session *ports.AuthSession, hadGuestCart bool) (*domain.User, error) {
	if ctx.Err() != nil {
		// The caller went away mid-flight; do not apply the result.
		return nil, ctx.Err()
	}

	if err := m.identity.SetCredential(session.Token); err != nil {
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	if hadGuestCart {
		// The server has folded the guest cart into the user's cart.
		if _, err := m.identity.ConsumeAnonymousCartID(); err != nil {
			m.logger.WarnContext(ctx, "failed to clear anonymous cart id", "error", err)
		}
	}

	m.mu.Lock()
	user := session.User
	m.user = &user
	m.mu.Unlock()

	if err := m.events.PublishAuthChanged(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to publish auth change", "error", err)
	}

	m.logger.InfoContext(ctx, "session established", "user_id", session.User.ID)
	result := session.User
	return &result, nil
}

// Logout notifies the server on a best-effort basis, then always clears
// local state and announces the change regardless of the server outcome.
func (m *SessionManager) Logout(ctx context.Context) error {
	if token := m.identity.Credential(); token != "" {
		if err := m.authAPI.Logout(ctx, token); err != nil {
			m.logger.WarnContext(ctx, "server logout failed, clearing local session anyway", "error", err)
		}
	}

	if err := m.identity.ClearCredential(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	if err := m.events.PublishAuthChanged(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to publish auth change", "error", err)
	}
	return nil
}

// Restore validates a persisted credential on startup. An expired or
// invalid token is treated as "never logged in": the credential is cleared
// silently and no error surfaces. Transport and server faults leave the
// credential in place since the server may only be temporarily down.
func (m *SessionManager) Restore(ctx context.Context) (*domain.User, error) {
	token := m.identity.Credential()
	if token == "" {
		return nil, nil
	}

	user, err := m.authAPI.CurrentUser(ctx, token)
	if err != nil {
		if ports.IsAuthError(err) {
			m.logger.InfoContext(ctx, "persisted session is no longer valid, discarding")
			if clearErr := m.identity.ClearCredential(); clearErr != nil {
				return nil, fmt.Errorf("clear stale credential: %w", clearErr)
			}
			return nil, nil
		}
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	return m.CurrentUser(), nil
}
