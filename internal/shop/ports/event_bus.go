package ports

import "context"

// Event names a cross-component notification topic.
type Event string

const (
	// EventCartUpdated fires after any confirmed cart mutation and after a
	// completed checkout, so observers such as a header badge resynchronize
	// without being called directly.
	EventCartUpdated Event = "cart.updated"
	// EventAuthChanged fires on every identity transition: login, register,
	// logout.
	EventAuthChanged Event = "auth.changed"
)

// EventBus defines the contract for the in-process fan-out that decouples
// the cart, session and checkout components from their UI observers.
type EventBus interface {
	PublishCartUpdated(ctx context.Context) error
	PublishAuthChanged(ctx context.Context) error
	// Subscribe registers a handler for an event and returns a function
	// that removes the subscription. A handler must not assume it runs on
	// any particular goroutine.
	Subscribe(event Event, handler func(ctx context.Context)) (unsubscribe func())
}
