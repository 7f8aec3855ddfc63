// internal/state/status.go
package state

import (
	"sync"

	"github.com/quantai/console/internal/types"
	"go.uber.org/zap"
)

// StatusStore holds the single live system status snapshot. Every update
// is a total replacement: fields absent from the new snapshot are gone,
// not merged.
type StatusStore struct {
	mu       sync.RWMutex
	current  types.SystemStatus
	notifier notifier
	logger   *zap.Logger
}

// NewStatusStore creates a status store with the zero snapshot.
func NewStatusStore(logger *zap.Logger) *StatusStore {
	return &StatusStore{logger: logger.Named("status_store")}
}

// Set replaces the entire snapshot and notifies subscribers.
func (s *StatusStore) Set(status types.SystemStatus) {
	s.mu.Lock()
	s.current = status
	s.mu.Unlock()

	s.logger.Debug("Status replaced",
		zap.Bool("is_running", status.IsRunning),
		zap.String("network", string(status.Network)),
		zap.Int("cycle_count", status.CycleCount))

	s.notifier.notify()
}

// Get returns the current snapshot.
func (s *StatusStore) Get() types.SystemStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers a callback invoked synchronously after each update.
func (s *StatusStore) Subscribe(fn func()) Subscription {
	return s.notifier.subscribe(fn)
}
