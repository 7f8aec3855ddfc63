// internal/events/handler.go
package events

import (
	"context"
)

// Handler processes messages of a single event kind.
type Handler interface {
	// Handle processes a message. Should not block.
	Handle(ctx context.Context, msg Message) error
}

// HandlerFunc is an adapter to allow the use of ordinary functions as
// event handlers.
type HandlerFunc func(ctx context.Context, msg Message) error

// Handle calls f(ctx, msg).
func (f HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Subscription is the handle returned by Subscribe. Unsubscribe is the
// only deregistration path; once it returns, the handler is never
// dispatched again.
type Subscription interface {
	// Unsubscribe removes the subscription. Safe to call more than once.
	Unsubscribe()
}

type subscription struct {
	id     string
	router *Router
	kind   Kind
}

// Unsubscribe removes this subscription from the router.
func (s *subscription) Unsubscribe() {
	s.router.unsubscribe(s.id, s.kind)
}
