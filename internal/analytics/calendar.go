package analytics

import (
	"time"

	"tradebook/internal/models"
)

// CalendarDay is one renderable cell of a month grid. It is derived fresh on
// every build and never cached across data changes.
type CalendarDay struct {
	Date            time.Time
	PnL             float64
	TradesCount     int
	WinRate         float64
	AvgRR           float64
	Mood            models.MoodType
	QuickNotesCount int
	HasReflection   bool
	IsOtherMonth    bool
	IsToday         bool
	IsFuture        bool
}

// WeeklySummary is the rollup displayed next to one week-row of the grid.
// It is computed only over the row's in-month days, so adjacent-month totals
// never leak into a week's displayed summary.
type WeeklySummary struct {
	WeekStart  time.Time
	WeekEnd    time.Time
	TotalPnL   float64
	TradesCount int
	WinRate    float64
	AvgRR      float64
	ActiveDays int
	WeekNumber int
}

// MonthGrid is a month's day matrix: week-rows of exactly 7 cells covering
// the padded month range, plus the per-row weekly summaries.
type MonthGrid struct {
	Year      int
	Month     time.Month
	Weeks     [][7]CalendarDay
	Summaries []WeeklySummary
}

// Days returns the grid's cells in order, row by row.
func (g MonthGrid) Days() []CalendarDay {
	days := make([]CalendarDay, 0, len(g.Weeks)*7)
	for _, week := range g.Weeks {
		days = append(days, week[:]...)
	}
	return days
}

// CalendarInput carries the immutable snapshots a month grid is built from.
type CalendarInput struct {
	Trades      []models.Trade
	Notes       []models.QuickNote
	Reflections []models.DailyReflection
	Accounts    AccountSet
	Now         time.Time
}

// BuildMonthGrid builds the day matrix for a target month. Leading cells pad
// back to the Monday on or before the 1st, trailing cells pad forward to a
// 7-aligned total. Padded cells are flagged IsOtherMonth but still carry full
// aggregates: they are real data from the adjacent month, not placeholders.
func BuildMonthGrid(in CalendarInput, year int, month time.Month) MonthGrid {
	loc := in.Now.Location()
	first, last := MonthBounds(year, month, loc)

	trades := FilterTrades(in.Trades, in.Accounts)
	byDay := GroupByDay(trades)

	notesByDay := make(map[string]int)
	for _, n := range in.Notes {
		if in.Accounts.Contains(n.AccountID) {
			notesByDay[n.Date]++
		}
	}
	reflectionDays := make(map[string]bool)
	for _, r := range in.Reflections {
		if in.Accounts.Contains(r.AccountID) {
			reflectionDays[r.Date] = true
		}
	}

	buildDay := func(date time.Time, otherMonth bool) CalendarDay {
		key := DayString(date)
		dayTrades := byDay[key]
		stats := Summarize(dayTrades)

		today := DayKey(in.Now)
		return CalendarDay{
			Date:            date,
			PnL:             stats.PnLSum,
			TradesCount:     stats.TradeCount,
			WinRate:         stats.WinRate,
			AvgRR:           stats.AvgRR,
			Mood:            dominantMood(dayTrades),
			QuickNotesCount: notesByDay[key],
			HasReflection:   reflectionDays[key],
			IsOtherMonth:    otherMonth,
			IsToday:         date.Equal(today),
			IsFuture:        date.After(today),
		}
	}

	var cells []CalendarDay
	for d := WeekStart(first); d.Before(first); d = d.AddDate(0, 0, 1) {
		cells = append(cells, buildDay(d, true))
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		cells = append(cells, buildDay(d, false))
	}
	total := (len(cells) + 6) / 7 * 7
	for d := last.AddDate(0, 0, 1); len(cells) < total; d = d.AddDate(0, 0, 1) {
		cells = append(cells, buildDay(d, true))
	}

	grid := MonthGrid{Year: year, Month: month}
	for i := 0; i < len(cells); i += 7 {
		var week [7]CalendarDay
		copy(week[:], cells[i:i+7])
		grid.Weeks = append(grid.Weeks, week)
	}
	grid.Summaries = weeklySummaries(grid.Weeks)
	return grid
}

// weeklySummaries rolls up each week-row over its in-month days only.
func weeklySummaries(weeks [][7]CalendarDay) []WeeklySummary {
	summaries := make([]WeeklySummary, 0, len(weeks))
	for i, week := range weeks {
		ws := WeeklySummary{
			WeekStart:  week[0].Date,
			WeekEnd:    week[6].Date,
			WeekNumber: i + 1,
		}

		var winRateSum, avgRRSum float64
		for _, day := range week {
			if day.IsOtherMonth {
				continue
			}
			ws.TotalPnL += day.PnL
			ws.TradesCount += day.TradesCount
			if day.TradesCount > 0 {
				ws.ActiveDays++
				winRateSum += day.WinRate
				avgRRSum += day.AvgRR
			}
		}
		if ws.ActiveDays > 0 {
			ws.WinRate = winRateSum / float64(ws.ActiveDays)
			ws.AvgRR = avgRRSum / float64(ws.ActiveDays)
		}
		summaries = append(summaries, ws)
	}
	return summaries
}

// dominantMood averages the logged moods of a day's trades and maps the
// result back to the nearest mood. Days without logged moods read neutral.
func dominantMood(trades []models.Trade) models.MoodType {
	var sum, n int
	for _, t := range trades {
		if t.Mood != nil {
			sum += t.Mood.Score()
			n++
		}
	}
	if n == 0 {
		return models.MoodNeutral
	}
	return models.MoodFromScore(float64(sum) / float64(n))
}
