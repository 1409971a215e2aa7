package models

import "time"

// Trade represents a logged trade. Optional fields use pointers; absence is
// resolved by the analytics engine, not by fallback chains at call sites.
type Trade struct {
	ID         string
	AccountID  string
	Symbol     string
	Direction  Direction
	EntryTime  time.Time
	PnL        *float64 // nil treated as 0 in aggregation
	RiskReward float64  // positive ratio as logged; 0 means not logged
	LossRR     *float64 // positive override for losses (e.g. 0.5 for -0.5R)
	Result     *TradeResult
	Mood       *MoodType

	// ExcludeFromAnalytics keeps the trade in the record set but out of
	// win/loss/RR statistics.
	ExcludeFromAnalytics bool

	// Classifications maps category ID to the chosen option ID.
	Classifications map[string]string
	Tags            []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PnLValue returns the trade's P&L, treating an unlogged P&L as zero.
func (t *Trade) PnLValue() float64 {
	if t.PnL == nil {
		return 0
	}
	return *t.PnL
}

// ClassificationCategory is a user-defined axis for classifying trades,
// e.g. "Setup" with options "Breakout", "Reversal".
type ClassificationCategory struct {
	ID      string
	Name    string
	Options []ClassificationOption
}

// ClassificationOption is a single choice within a category.
type ClassificationOption struct {
	ID    string
	Name  string
	Order int
}
