// internal/types/types.go
package types

import "time"

// TradeSide is the direction of a trade.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// TradeStatus is the lifecycle status of a trade.
type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeCompleted TradeStatus = "completed"
	TradeFailed    TradeStatus = "failed"
)

// Trend is a qualitative direction label derived from a P&L sign.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Network identifies the cluster the backend trades on.
type Network string

const (
	NetworkDevnet  Network = "devnet"
	NetworkMainnet Network = "mainnet"
)

// Position is a currently held token quantity with cost basis and live
// valuation. Positions are owned by the portfolio store and replaced
// wholesale on every update, never mutated field by field.
type Position struct {
	Token        string  `json:"token"`
	Amount       float64 `json:"amount"`
	EntryPrice   float64 `json:"entryPrice"`
	CurrentPrice float64 `json:"currentPrice"`
}

// UnrealizedPnL returns the mark-to-market P&L of the position.
func (p Position) UnrealizedPnL() float64 {
	return (p.CurrentPrice - p.EntryPrice) * p.Amount
}

// Trend classifies the position by the sign of its price delta.
func (p Position) Trend() Trend {
	switch {
	case p.CurrentPrice > p.EntryPrice:
		return TrendUp
	case p.CurrentPrice < p.EntryPrice:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// PortfolioData is the full portfolio snapshot reported by the backend.
type PortfolioData struct {
	TotalValue float64    `json:"totalValue"`
	TotalPnL   float64    `json:"totalPnL"`
	DailyPnL   float64    `json:"dailyPnL"`
	DailyLoss  float64    `json:"dailyLoss"`
	Positions  []Position `json:"positions"`
	Timestamp  string     `json:"timestamp"`
}

// Trade is one trade record. Once admitted to the ledger it is immutable;
// lifecycle progression arrives as a new event, not an update in place.
type Trade struct {
	ID         string      `json:"id"`
	Token      string      `json:"token"`
	Side       TradeSide   `json:"side"`
	Amount     float64     `json:"amount"`
	EntryPrice float64     `json:"entryPrice"`
	ExitPrice  float64     `json:"exitPrice,omitempty"`
	PnL        float64     `json:"pnl,omitempty"`
	Status     TradeStatus `json:"status"`
	Timestamp  string      `json:"timestamp"`
	TxHash     string      `json:"txHash,omitempty"`
}

// Time parses the trade's wire timestamp. It returns the zero time and
// false when the field is absent or not RFC3339.
func (t Trade) Time() (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, t.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// AgentActivity is one agent-reported action, immutable once admitted.
type AgentActivity struct {
	ID        string `json:"id"`
	Agent     string `json:"agent"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SystemStatus is the backend's status snapshot. Each inbound status event
// replaces the entire snapshot; there is no partial merge.
type SystemStatus struct {
	IsRunning     bool    `json:"isRunning"`
	Network       Network `json:"network"`
	WalletAddress string  `json:"walletAddress"`
	CycleCount    int     `json:"cycleCount"`
	LastRunTime   string  `json:"lastRunTime,omitempty"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

// TradeFilter is a pure query descriptor over the trade ledger. Absent
// predicates always match. It is never persisted server-side.
type TradeFilter struct {
	Status *TradeStatus
	Token  string
	From   *time.Time
	To     *time.Time
}

// IsZero reports whether no predicate is present.
func (f TradeFilter) IsZero() bool {
	return f.Status == nil && f.Token == "" && f.From == nil && f.To == nil
}

// AgentInfo describes one backend agent as reported by the agents endpoint.
type AgentInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Personality string `json:"personality"`
	Status      string `json:"status"`
}
