package analytics

import (
	"math"
	"testing"
	"time"

	"tradebook/internal/models"
)

var loc = time.UTC

func TestSummarizeMixedDay(t *testing.T) {
	day := time.Date(2025, time.March, 10, 9, 30, 0, 0, loc)

	excluded := trade("acct-1", day.Add(2*time.Hour), 30)
	excluded.ExcludeFromAnalytics = true

	trades := []models.Trade{
		trade("acct-1", day, 100),
		trade("acct-1", day.Add(time.Hour), -50),
		excluded,
	}

	s := Summarize(trades)

	if s.TradeCount != 3 {
		t.Errorf("TradeCount = %d, want 3 (raw count includes excluded)", s.TradeCount)
	}
	if s.CountableCount != 2 {
		t.Errorf("CountableCount = %d, want 2", s.CountableCount)
	}
	if s.PnLSum != 50 {
		t.Errorf("PnLSum = %v, want 50", s.PnLSum)
	}
	if s.WinRate != 50 {
		t.Errorf("WinRate = %v, want 50 (1 win / 2 countable)", s.WinRate)
	}
	// RR: +1 default win, -1 default loss, 0 excluded; averaged over all 3.
	if s.TotalRR != 0 {
		t.Errorf("TotalRR = %v, want 0", s.TotalRR)
	}
	if s.AvgRR != 0 {
		t.Errorf("AvgRR = %v, want 0", s.AvgRR)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TradeCount != 0 || s.PnLSum != 0 || s.WinRate != 0 || s.AvgRR != 0 {
		t.Errorf("empty collection must yield zero stats, got %+v", s)
	}
	if math.IsNaN(s.WinRate) || math.IsInf(s.WinRate, 0) {
		t.Error("WinRate must be finite for empty input")
	}
	if math.IsNaN(s.AvgRR) || math.IsInf(s.AvgRR, 0) {
		t.Error("AvgRR must be finite for empty input")
	}
}

func TestSummarizePeriod(t *testing.T) {
	accounts := NewAccountSet("acct-1")
	base := time.Date(2025, time.March, 3, 10, 0, 0, 0, loc)

	trades := []models.Trade{
		trade("acct-1", base, 100),
		trade("acct-1", base.Add(2*time.Hour), 50),         // same day
		trade("acct-1", base.AddDate(0, 0, 1), -30),        // next day
		trade("acct-1", base.AddDate(0, 0, 30), 999),       // outside period
		trade("acct-2", base, 999),                         // other account
	}

	ps := SummarizePeriod(trades, accounts, base, base.AddDate(0, 0, 6))

	if ps.TradeCount != 3 {
		t.Errorf("TradeCount = %d, want 3", ps.TradeCount)
	}
	if ps.PnLSum != 120 {
		t.Errorf("PnLSum = %v, want 120", ps.PnLSum)
	}
	if ps.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", ps.ActiveDays)
	}
}

func TestSummarizePeriodEmptyAccountSet(t *testing.T) {
	base := time.Date(2025, time.March, 3, 10, 0, 0, 0, loc)
	trades := []models.Trade{trade("acct-1", base, 100)}

	ps := SummarizePeriod(trades, NewAccountSet(), base, base)
	if ps.TradeCount != 0 {
		t.Errorf("empty account set must match no trades, got %d", ps.TradeCount)
	}
}

func TestHourlyStats(t *testing.T) {
	accounts := NewAccountSet("acct-1")
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, loc)

	trades := []models.Trade{
		trade("acct-1", day.Add(9*time.Hour+30*time.Minute), 100),
		trade("acct-1", day.Add(9*time.Hour+45*time.Minute), -40),
		trade("acct-1", day.Add(14*time.Hour), 20),
	}

	hours := HourlyStats(trades, accounts)

	if hours[9].TradeCount != 2 || hours[9].PnLSum != 60 {
		t.Errorf("hour 9 = %+v, want 2 trades with PnL 60", hours[9].Stats)
	}
	if hours[14].TradeCount != 1 {
		t.Errorf("hour 14 TradeCount = %d, want 1", hours[14].TradeCount)
	}
	if hours[0].TradeCount != 0 || hours[0].WinRate != 0 {
		t.Errorf("empty hour must carry zero stats, got %+v", hours[0].Stats)
	}
	for h, bs := range hours {
		if bs.Bucket != h {
			t.Errorf("bucket %d labeled %d", h, bs.Bucket)
		}
	}
}

func TestWeekdayStats(t *testing.T) {
	accounts := NewAccountSet("acct-1")
	sunday := time.Date(2025, time.March, 9, 12, 0, 0, 0, loc)
	if sunday.Weekday() != time.Sunday {
		t.Fatal("fixture date is not a Sunday")
	}

	trades := []models.Trade{
		trade("acct-1", sunday, 10),
		trade("acct-1", sunday.AddDate(0, 0, 3), -5), // Wednesday
	}

	wd := WeekdayStats(trades, accounts)
	if wd[0].TradeCount != 1 {
		t.Errorf("Sunday bucket TradeCount = %d, want 1", wd[0].TradeCount)
	}
	if wd[3].TradeCount != 1 {
		t.Errorf("Wednesday bucket TradeCount = %d, want 1", wd[3].TradeCount)
	}
}

func TestMaxAbsPnL(t *testing.T) {
	stats := []BucketStats{
		{Stats: Stats{PnLSum: -300}},
		{Stats: Stats{PnLSum: 120}},
	}
	if got := MaxAbsPnL(stats); got != 300 {
		t.Errorf("MaxAbsPnL = %v, want 300", got)
	}
	if got := MaxAbsPnL(nil); got != 0 {
		t.Errorf("MaxAbsPnL(nil) = %v, want 0", got)
	}
}
