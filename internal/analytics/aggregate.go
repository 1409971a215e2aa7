package analytics

import (
	"time"

	"tradebook/internal/models"
)

// Stats holds the aggregate statistics for an arbitrary subset of trades.
//
// TradeCount covers every trade in the subset, including those flagged
// ExcludeFromAnalytics; PnLSum, Wins, Losses, Scratches, and WinRate cover
// only countable trades. AvgRR divides by the raw trade count, so excluded
// and scratch trades dilute the average; that is the journal's convention.
type Stats struct {
	PnLSum         float64
	TradeCount     int
	CountableCount int
	Wins           int
	Losses         int
	Scratches      int
	WinRate        float64 // percent, 0 when no countable trades
	TotalRR        float64
	AvgRR          float64 // 0 when no trades
}

// Summarize computes Stats over a subset of trades. Every ratio output is
// guarded against empty denominators; the result is always finite.
func Summarize(trades []models.Trade) Stats {
	var s Stats
	for _, t := range trades {
		s.TradeCount++
		s.TotalRR += SignedRR(t)

		if !CountsForWinRate(t) {
			continue
		}
		s.CountableCount++
		s.PnLSum += t.PnLValue()
		switch Classify(t) {
		case OutcomeWin:
			s.Wins++
		case OutcomeLoss:
			s.Losses++
		default:
			s.Scratches++
		}
	}

	if s.CountableCount > 0 {
		s.WinRate = float64(s.Wins) / float64(s.CountableCount) * 100
	}
	if s.TradeCount > 0 {
		s.AvgRR = s.TotalRR / float64(s.TradeCount)
	}
	return s
}

// PeriodStats extends Stats with the number of distinct active trading days
// inside the summarized period.
type PeriodStats struct {
	Stats
	ActiveDays int
}

// SummarizePeriod computes period statistics for eligible trades whose entry
// time falls in [from, to] by calendar day.
func SummarizePeriod(trades []models.Trade, accounts AccountSet, from, to time.Time) PeriodStats {
	fromDay := DayKey(from)
	toDay := DayKey(to)

	var subset []models.Trade
	for _, t := range FilterTrades(trades, accounts) {
		day := DayKey(t.EntryTime)
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		subset = append(subset, t)
	}

	ps := PeriodStats{Stats: Summarize(subset)}
	for _, group := range GroupByDay(subset) {
		if len(group) > 0 {
			ps.ActiveDays++
		}
	}
	return ps
}

// BucketStats is the statistic set for a single time-of-day or day-of-week
// bucket.
type BucketStats struct {
	Bucket int // hour 0-23, or weekday 0=Sunday..6=Saturday
	Stats
}

// HourlyStats computes per-hour statistics over eligible trades. All 24
// buckets are present, empty hours carrying zero-valued stats.
func HourlyStats(trades []models.Trade, accounts AccountSet) [24]BucketStats {
	var out [24]BucketStats
	buckets := GroupByHour(FilterTrades(trades, accounts))
	for h, group := range buckets {
		out[h] = BucketStats{Bucket: h, Stats: Summarize(group)}
	}
	return out
}

// WeekdayStats computes per-weekday statistics over eligible trades,
// 0=Sunday through 6=Saturday.
func WeekdayStats(trades []models.Trade, accounts AccountSet) [7]BucketStats {
	var out [7]BucketStats
	buckets := GroupByWeekday(FilterTrades(trades, accounts))
	for wd, group := range buckets {
		out[wd] = BucketStats{Bucket: wd, Stats: Summarize(group)}
	}
	return out
}

// MaxAbsPnL returns the largest P&L magnitude among the bucket stats, used
// to scale heatmap intensities.
func MaxAbsPnL(stats []BucketStats) float64 {
	var maxAbs float64
	for _, s := range stats {
		if a := abs(s.PnLSum); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}
