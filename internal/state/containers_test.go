// internal/state/containers_test.go
package state

import (
	"testing"

	"github.com/quantai/console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusStoreFullReplace(t *testing.T) {
	store := NewStatusStore(zap.NewNop())

	// Default snapshot before any event.
	assert.False(t, store.Get().IsRunning)

	store.Set(types.SystemStatus{
		IsRunning:     true,
		Network:       types.NetworkDevnet,
		WalletAddress: "wallet-1",
		CycleCount:    3,
		LastRunTime:   "2024-03-01T09:30:00Z",
		UptimeSeconds: 120,
	})

	// A snapshot with fewer populated fields leaves no residue.
	store.Set(types.SystemStatus{IsRunning: true, Network: types.NetworkDevnet})

	got := store.Get()
	assert.True(t, got.IsRunning)
	assert.Equal(t, types.NetworkDevnet, got.Network)
	assert.Empty(t, got.WalletAddress)
	assert.Zero(t, got.CycleCount)
	assert.Empty(t, got.LastRunTime)
	assert.Zero(t, got.UptimeSeconds)
}

func TestPortfolioStoreFullReplace(t *testing.T) {
	store := NewPortfolioStore(zap.NewNop())

	d1 := types.PortfolioData{
		TotalValue: 1000,
		TotalPnL:   50,
		DailyPnL:   10,
		DailyLoss:  2,
		Positions: []types.Position{
			{Token: "SOL", Amount: 10, EntryPrice: 1, CurrentPrice: 2},
			{Token: "WOOF", Amount: 5, EntryPrice: 3, CurrentPrice: 1},
		},
		Timestamp: "2024-03-01T09:30:00Z",
	}
	d2 := types.PortfolioData{
		TotalValue: 800,
		Positions:  []types.Position{{Token: "BONK", Amount: 1, EntryPrice: 1, CurrentPrice: 1}},
	}

	store.Set(d1)
	store.Set(d2)

	got := store.Get()
	assert.Equal(t, 800.0, got.TotalValue)
	assert.Zero(t, got.TotalPnL)
	assert.Zero(t, got.DailyPnL)
	assert.Empty(t, got.Timestamp)
	require.Len(t, got.Positions, 1)
	assert.Equal(t, "BONK", got.Positions[0].Token)
}

func TestPortfolioStoreReadReturnsCopy(t *testing.T) {
	store := NewPortfolioStore(zap.NewNop())
	store.Set(types.PortfolioData{Positions: []types.Position{{Token: "SOL"}}})

	snapshot := store.Get()
	snapshot.Positions[0].Token = "MUTATED"

	assert.Equal(t, "SOL", store.Get().Positions[0].Token)
}

func TestContainersNotifyIndependently(t *testing.T) {
	status := NewStatusStore(zap.NewNop())
	portfolio := NewPortfolioStore(zap.NewNop())

	var statusCalls, portfolioCalls int
	s1 := status.Subscribe(func() { statusCalls++ })
	s2 := portfolio.Subscribe(func() { portfolioCalls++ })
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	status.Set(types.SystemStatus{IsRunning: true})

	assert.Equal(t, 1, statusCalls)
	assert.Zero(t, portfolioCalls)
}

func TestSubscriberSeesNewValueSynchronously(t *testing.T) {
	status := NewStatusStore(zap.NewNop())

	var observed types.SystemStatus
	sub := status.Subscribe(func() { observed = status.Get() })
	defer sub.Unsubscribe()

	status.Set(types.SystemStatus{IsRunning: true, Network: types.NetworkMainnet})

	assert.True(t, observed.IsRunning)
	assert.Equal(t, types.NetworkMainnet, observed.Network)
}
