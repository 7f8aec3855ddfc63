// internal/events/router.go
package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router demultiplexes inbound named events to registered handlers. It
// holds no business logic: every message is dispatched to each handler
// currently registered for its exact kind, at most once per delivery, in
// the order messages arrive on the transport. Dispatch is synchronous so
// that per-kind arrival order is preserved end to end.
type Router struct {
	mu       sync.RWMutex
	handlers map[Kind][]entry
	logger   *zap.Logger
}

type entry struct {
	id      string
	handler Handler
}

// NewRouter creates a new event router.
func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		handlers: make(map[Kind][]entry),
		logger:   logger.Named("event_router"),
	}
}

// Subscribe registers a handler for an event kind and returns its
// subscription handle.
func (r *Router) Subscribe(kind Kind, handler Handler) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New().String()
	r.handlers[kind] = append(r.handlers[kind], entry{id: id, handler: handler})

	r.logger.Debug("Handler subscribed",
		zap.String("event_kind", string(kind)),
		zap.String("subscription_id", id))

	return &subscription{id: id, router: r, kind: kind}
}

// SubscribeFunc is a convenience method for subscribing with a function.
func (r *Router) SubscribeFunc(kind Kind, fn func(context.Context, Message) error) Subscription {
	return r.Subscribe(kind, HandlerFunc(fn))
}

// Dispatch delivers one message to every handler registered for its kind,
// in registration order. Handler errors are logged and do not stop
// delivery to the remaining handlers.
func (r *Router) Dispatch(ctx context.Context, msg Message) {
	r.mu.RLock()
	// Copy to avoid holding the lock during handler execution.
	targets := make([]entry, len(r.handlers[msg.Kind]))
	copy(targets, r.handlers[msg.Kind])
	r.mu.RUnlock()

	for _, e := range targets {
		if err := e.handler.Handle(ctx, msg); err != nil {
			r.logger.Warn("Handler error",
				zap.String("event_kind", string(msg.Kind)),
				zap.String("subscription_id", e.id),
				zap.Error(err))
		}
	}
}

// unsubscribe removes a handler registration. Idempotent.
func (r *Router) unsubscribe(id string, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.handlers[kind]
	for i, e := range entries {
		if e.id == id {
			r.handlers[kind] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(r.handlers[kind]) == 0 {
		delete(r.handlers, kind)
	}

	r.logger.Debug("Handler unsubscribed",
		zap.String("event_kind", string(kind)),
		zap.String("subscription_id", id))
}

// HandlerCount returns the number of live registrations for a kind.
func (r *Router) HandlerCount(kind Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[kind])
}
