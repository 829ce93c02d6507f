package ports

// IdentityStore owns the two persisted identity keys: the bearer credential
// and the anonymous cart id. All operations are synchronous and touch no
// network. Empty strings mean "absent".
//
// Write discipline: the session manager is the only component that sets the
// credential; cart and checkout may clear it when the server rejects it.
type IdentityStore interface {
	// Credential returns the current bearer token, empty when anonymous.
	Credential() string
	SetCredential(token string) error
	ClearCredential() error

	// AnonymousCartID peeks at the guest cart id without creating one.
	AnonymousCartID() string
	// EnsureAnonymousCartID returns the guest cart id, generating and
	// persisting one on first use.
	EnsureAnonymousCartID() (string, error)
	// ConsumeAnonymousCartID returns the guest cart id and clears it, empty
	// when none existed. Called after the server has merged the guest cart.
	ConsumeAnonymousCartID() (string, error)
}
