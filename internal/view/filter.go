// internal/view/filter.go
package view

import (
	"strings"

	"github.com/quantai/console/internal/types"
)

// ApplyFilter returns the ordered subsequence of trades satisfying every
// present predicate of the filter: status equality, case-insensitive
// substring match on token, and inclusive date-range membership on the
// trade's timestamp. Absent predicates always match. The input is never
// mutated and relative order is preserved, so applying the same filter
// twice yields the same result.
//
// A trade whose timestamp does not parse is excluded when a date bound is
// present; without date bounds the timestamp is never inspected.
func ApplyFilter(trades []types.Trade, filter types.TradeFilter) []types.Trade {
	if filter.IsZero() {
		out := make([]types.Trade, len(trades))
		copy(out, trades)
		return out
	}

	token := strings.ToLower(filter.Token)

	out := make([]types.Trade, 0, len(trades))
	for _, trade := range trades {
		if filter.Status != nil && trade.Status != *filter.Status {
			continue
		}
		if token != "" && !strings.Contains(strings.ToLower(trade.Token), token) {
			continue
		}
		if filter.From != nil || filter.To != nil {
			ts, ok := trade.Time()
			if !ok {
				continue
			}
			if filter.From != nil && ts.Before(*filter.From) {
				continue
			}
			if filter.To != nil && ts.After(*filter.To) {
				continue
			}
		}
		out = append(out, trade)
	}
	return out
}
