// internal/state/notify.go
package state

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is the handle returned by a container's Subscribe.
// Unsubscribe is idempotent and is the only deregistration path.
type Subscription interface {
	Unsubscribe()
}

// notifier invokes registered callbacks synchronously after a container
// update completes. Containers are updated independently, so no ordering
// is implied across containers.
type notifier struct {
	mu        sync.Mutex
	listeners []listener
}

type listener struct {
	id string
	fn func()
}

// subscribe registers a callback and returns its handle.
func (n *notifier) subscribe(fn func()) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.New().String()
	n.listeners = append(n.listeners, listener{id: id, fn: fn})
	return &listenerHandle{notifier: n, id: id}
}

// notify runs every registered callback in registration order.
func (n *notifier) notify() {
	n.mu.Lock()
	targets := make([]listener, len(n.listeners))
	copy(targets, n.listeners)
	n.mu.Unlock()

	for _, l := range targets {
		l.fn()
	}
}

func (n *notifier) remove(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, l := range n.listeners {
		if l.id == id {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

type listenerHandle struct {
	notifier *notifier
	id       string
}

func (h *listenerHandle) Unsubscribe() {
	h.notifier.remove(h.id)
}
