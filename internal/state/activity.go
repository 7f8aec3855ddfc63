// internal/state/activity.go
package state

import (
	"sync"

	"github.com/quantai/console/internal/types"
	"go.uber.org/zap"
)

// MaxFeedEntries is the default feed bound. Insertion beyond the bound
// evicts the oldest entry, strict FIFO by arrival order.
const MaxFeedEntries = 100

// ActivityFeed is the bounded, most-recent-first log of agent-reported
// actions. Entries are immutable once admitted.
type ActivityFeed struct {
	mu       sync.RWMutex
	entries  []types.AgentActivity
	limit    int
	notifier notifier
	logger   *zap.Logger
}

// NewActivityFeed creates an empty feed. A non-positive limit falls back
// to MaxFeedEntries.
func NewActivityFeed(limit int, logger *zap.Logger) *ActivityFeed {
	if limit <= 0 {
		limit = MaxFeedEntries
	}
	return &ActivityFeed{limit: limit, logger: logger.Named("activity_feed")}
}

// Add prepends an activity entry, truncates to the bound, and notifies
// subscribers.
func (f *ActivityFeed) Add(event types.AgentActivity) {
	f.mu.Lock()
	f.entries = append([]types.AgentActivity{event}, f.entries...)
	if len(f.entries) > f.limit {
		f.entries = f.entries[:f.limit]
	}
	f.mu.Unlock()

	f.logger.Debug("Activity admitted",
		zap.String("agent", event.Agent),
		zap.String("activity_id", event.ID))

	f.notifier.notify()
}

// All returns a copy of the feed, newest first.
func (f *ActivityFeed) All() []types.AgentActivity {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries := make([]types.AgentActivity, len(f.entries))
	copy(entries, f.entries)
	return entries
}

// Len returns the number of retained entries.
func (f *ActivityFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// Subscribe registers a callback invoked synchronously after each update.
func (f *ActivityFeed) Subscribe(fn func()) Subscription {
	return f.notifier.subscribe(fn)
}
