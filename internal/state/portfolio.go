// internal/state/portfolio.go
package state

import (
	"sync"

	"github.com/quantai/console/internal/types"
	"go.uber.org/zap"
)

// PortfolioStore holds the single live portfolio snapshot. Updates replace
// the value and P&L fields and the entire positions list wholesale.
type PortfolioStore struct {
	mu       sync.RWMutex
	current  types.PortfolioData
	notifier notifier
	logger   *zap.Logger
}

// NewPortfolioStore creates a portfolio store with the zero snapshot.
func NewPortfolioStore(logger *zap.Logger) *PortfolioStore {
	return &PortfolioStore{logger: logger.Named("portfolio_store")}
}

// Set replaces the entire snapshot and notifies subscribers.
func (s *PortfolioStore) Set(data types.PortfolioData) {
	s.mu.Lock()
	s.current = data
	s.mu.Unlock()

	s.logger.Debug("Portfolio replaced",
		zap.Float64("total_value", data.TotalValue),
		zap.Float64("total_pnl", data.TotalPnL),
		zap.Int("positions", len(data.Positions)))

	s.notifier.notify()
}

// Get returns a copy of the current snapshot. The positions slice is
// copied so callers cannot mutate store state.
func (s *PortfolioStore) Get() types.PortfolioData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := s.current
	if data.Positions != nil {
		positions := make([]types.Position, len(data.Positions))
		copy(positions, data.Positions)
		data.Positions = positions
	}
	return data
}

// Subscribe registers a callback invoked synchronously after each update.
func (s *PortfolioStore) Subscribe(fn func()) Subscription {
	return s.notifier.subscribe(fn)
}
