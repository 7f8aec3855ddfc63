// internal/state/ledger.go
package state

import (
	"sync"

	"github.com/quantai/console/internal/types"
	"go.uber.org/zap"
)

// TradeLedger is the append-only trade history for the session. New trades
// are prepended and the count only grows; there is no in-place edit. The
// ledger does not deduplicate by id: a trade reported first as pending and
// later as completed yields two entries.
type TradeLedger struct {
	mu       sync.RWMutex
	trades   []types.Trade
	notifier notifier
	logger   *zap.Logger
}

// NewTradeLedger creates an empty ledger.
func NewTradeLedger(logger *zap.Logger) *TradeLedger {
	return &TradeLedger{logger: logger.Named("trade_ledger")}
}

// Add prepends a trade and notifies subscribers.
func (l *TradeLedger) Add(trade types.Trade) {
	l.mu.Lock()
	l.trades = append([]types.Trade{trade}, l.trades...)
	count := len(l.trades)
	l.mu.Unlock()

	l.logger.Debug("Trade admitted",
		zap.String("trade_id", trade.ID),
		zap.String("token", trade.Token),
		zap.String("status", string(trade.Status)),
		zap.Int("total", count))

	l.notifier.notify()
}

// All returns a copy of the ledger, newest first.
func (l *TradeLedger) All() []types.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trades := make([]types.Trade, len(l.trades))
	copy(trades, l.trades)
	return trades
}

// Len returns the number of admitted trades.
func (l *TradeLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}

// Subscribe registers a callback invoked synchronously after each update.
func (l *TradeLedger) Subscribe(fn func()) Subscription {
	return l.notifier.subscribe(fn)
}
