// Package analytics implements the trade aggregation engine: pure functions
// that turn trade and journal collections into calendar grids, rollup
// statistics, classification breakdowns, heatmap bands, and streaks. Nothing
// in this package performs I/O or mutates its inputs; callers pass explicit
// account sets and an explicit "now" where today/future distinctions matter.
package analytics

import "tradebook/internal/models"

// SignedRR returns the signed risk/reward value for a trade.
//
// Wins are positive, losses negative, scratches and excluded trades zero.
// A win with no logged ratio defaults to +1; a loss with no logged loss
// ratio defaults to -1 (one risk unit lost). A ratio that was already logged
// negative on a loss is kept as-is. The asymmetry between the win and loss
// fallbacks is deliberate.
func SignedRR(t models.Trade) float64 {
	if t.ExcludeFromAnalytics {
		return 0
	}

	pnl := t.PnLValue()
	switch {
	case pnl > 0:
		rr := t.RiskReward
		if rr == 0 {
			rr = 1
		}
		return abs(rr)
	case pnl < 0:
		if t.RiskReward < 0 {
			return t.RiskReward
		}
		if t.LossRR != nil {
			return -abs(*t.LossRR)
		}
		return -1
	}
	return 0
}

// CountsForWinRate reports whether a trade belongs in win/loss/scratch
// tallies and win-rate denominators. Excluded trades still appear in raw
// trade counts and P&L sums; they never appear in rate statistics.
func CountsForWinRate(t models.Trade) bool {
	return !t.ExcludeFromAnalytics
}

// Outcome classifies a countable trade by P&L sign.
type Outcome int

const (
	OutcomeScratch Outcome = iota
	OutcomeWin
	OutcomeLoss
)

// Classify returns the outcome of a trade based on its P&L.
func Classify(t models.Trade) Outcome {
	pnl := t.PnLValue()
	switch {
	case pnl > 0:
		return OutcomeWin
	case pnl < 0:
		return OutcomeLoss
	}
	return OutcomeScratch
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
