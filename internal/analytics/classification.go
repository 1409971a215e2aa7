package analytics

import (
	"sort"

	"tradebook/internal/models"
)

// OptionStats is the statistic set for one option of a classification
// category.
type OptionStats struct {
	OptionID   string
	OptionName string
	Order      int
	Stats
}

// CategoryStats is the per-option breakdown for one classification category.
type CategoryStats struct {
	CategoryID   string
	CategoryName string
	Options      []OptionStats
	TotalTrades  int
}

// ClassificationBreakdown groups eligible trades by category and option and
// computes the full statistic set per option. Options with no matching trades
// still appear with zero-valued stats. Trades referencing a category or
// option that no longer exists simply match nothing; they are not an error.
// Options are ordered by their declared Order field; ties keep declaration
// order.
func ClassificationBreakdown(categories []models.ClassificationCategory, trades []models.Trade, accounts AccountSet) []CategoryStats {
	eligible := FilterTrades(trades, accounts)

	out := make([]CategoryStats, 0, len(categories))
	for _, cat := range categories {
		cs := CategoryStats{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			Options:      make([]OptionStats, 0, len(cat.Options)),
		}

		for _, opt := range cat.Options {
			var matching []models.Trade
			for _, t := range eligible {
				if t.Classifications[cat.ID] == opt.ID {
					matching = append(matching, t)
				}
			}
			stats := Summarize(matching)
			cs.Options = append(cs.Options, OptionStats{
				OptionID:   opt.ID,
				OptionName: opt.Name,
				Order:      opt.Order,
				Stats:      stats,
			})
			cs.TotalTrades += stats.TradeCount
		}

		sort.SliceStable(cs.Options, func(i, j int) bool {
			return cs.Options[i].Order < cs.Options[j].Order
		})
		out = append(out, cs)
	}
	return out
}
