// internal/view/portfolio.go
package view

import (
	"github.com/quantai/console/internal/types"
)

// Allocation is one position's share of total valued exposure.
type Allocation struct {
	Token   string
	Value   float64
	Percent float64
}

// Allocations computes each position's percentage of the portfolio's total
// valued exposure. Positions with zero or negative value contribute
// nothing; with no valued exposure at all, every percentage is zero.
func Allocations(positions []types.Position) []Allocation {
	var total float64
	for _, p := range positions {
		if v := p.CurrentPrice * p.Amount; v > 0 {
			total += v
		}
	}

	out := make([]Allocation, 0, len(positions))
	for _, p := range positions {
		v := p.CurrentPrice * p.Amount
		if v < 0 {
			v = 0
		}
		a := Allocation{Token: p.Token, Value: v}
		if total > 0 {
			a.Percent = v / total * 100
		}
		out = append(out, a)
	}
	return out
}

// PortfolioTrend classifies the portfolio by total P&L sign: up when the
// combined realized and unrealized P&L is non-negative, down otherwise.
func PortfolioTrend(data types.PortfolioData) types.Trend {
	total := data.TotalPnL
	for _, p := range data.Positions {
		total += p.UnrealizedPnL()
	}
	if total >= 0 {
		return types.TrendUp
	}
	return types.TrendDown
}
