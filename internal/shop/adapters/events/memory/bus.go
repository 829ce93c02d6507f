package memory

import (
	"context"
	"sync"

	"github.com/dejobratic/storefront/internal/shop/ports"
)

// Bus is the in-process fan-out behind cart-changed and auth-changed
// notifications. Delivery is synchronous and in subscription order, which
// matches the cooperative single-threaded model: a publish returns only
// after every observer has run.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[ports.Event]map[int]func(ctx context.Context)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[ports.Event]map[int]func(ctx context.Context))}
}

func (b *Bus) PublishCartUpdated(ctx context.Context) error {
	b.publish(ctx, ports.EventCartUpdated)
	return nil
}

func (b *Bus) PublishAuthChanged(ctx context.Context) error {
	b.publish(ctx, ports.EventAuthChanged)
	return nil
}

// Subscribe registers a handler and returns its removal function.
func (b *Bus) Subscribe(event ports.Event, handler func(ctx context.Context)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[event] == nil {
		b.subs[event] = make(map[int]func(ctx context.Context))
	}
	id := b.nextID
	b.nextID++
	b.subs[event][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[event], id)
	}
}

func (b *Bus) publish(ctx context.Context, event ports.Event) {
	b.mu.Lock()
	handlers := make([]func(ctx context.Context), 0, len(b.subs[event]))
	for _, handler := range b.subs[event] {
		handlers = append(handlers, handler)
	}
	b.mu.Unlock()

	// Handlers run outside the lock so they may publish or subscribe.
	for _, handler := range handlers {
		handler(ctx)
	}
}
