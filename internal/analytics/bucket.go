package analytics

import (
	"time"

	"tradebook/internal/models"
)

// DayFormat is the canonical local calendar-day key format.
const DayFormat = "2006-01-02"

// AccountSet is the set of account IDs eligible for an aggregation. Trades,
// notes, and reflections outside the set never contribute. An empty set
// matches nothing; the caller decides what "all accounts" means.
type AccountSet map[string]bool

// NewAccountSet builds an AccountSet from account IDs.
func NewAccountSet(ids ...string) AccountSet {
	set := make(AccountSet, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Contains reports whether the account is in the set.
func (s AccountSet) Contains(id string) bool {
	return s[id]
}

// FilterTrades returns the trades belonging to eligible accounts. The input
// slice is not modified.
func FilterTrades(trades []models.Trade, accounts AccountSet) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if accounts.Contains(t.AccountID) {
			out = append(out, t)
		}
	}
	return out
}

// DayKey truncates a time to its local calendar day.
func DayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayString returns the canonical day key for a time.
func DayString(t time.Time) string {
	return t.Format(DayFormat)
}

// WeekStart returns the Monday on or before the given time's calendar day.
func WeekStart(t time.Time) time.Time {
	day := DayKey(t)
	shift := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		shift = 6
	}
	return day.AddDate(0, 0, -shift)
}

// MonthBounds returns the first and last calendar day of a month.
func MonthBounds(year int, month time.Month, loc *time.Location) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// GroupByDay groups trades by local calendar day key.
func GroupByDay(trades []models.Trade) map[string][]models.Trade {
	groups := make(map[string][]models.Trade)
	for _, t := range trades {
		key := DayString(t.EntryTime)
		groups[key] = append(groups[key], t)
	}
	return groups
}

// GroupByWeek groups trades by the Monday starting their week.
func GroupByWeek(trades []models.Trade) map[string][]models.Trade {
	groups := make(map[string][]models.Trade)
	for _, t := range trades {
		key := DayString(WeekStart(t.EntryTime))
		groups[key] = append(groups[key], t)
	}
	return groups
}

// GroupByMonth groups trades by year-month key (YYYY-MM).
func GroupByMonth(trades []models.Trade) map[string][]models.Trade {
	groups := make(map[string][]models.Trade)
	for _, t := range trades {
		key := t.EntryTime.Format("2006-01")
		groups[key] = append(groups[key], t)
	}
	return groups
}

// GroupByHour buckets trades by local entry hour, 0-23.
func GroupByHour(trades []models.Trade) [24][]models.Trade {
	var buckets [24][]models.Trade
	for _, t := range trades {
		h := t.EntryTime.Hour()
		buckets[h] = append(buckets[h], t)
	}
	return buckets
}

// GroupByWeekday buckets trades by local entry weekday, 0=Sunday..6=Saturday.
func GroupByWeekday(trades []models.Trade) [7][]models.Trade {
	var buckets [7][]models.Trade
	for _, t := range trades {
		wd := int(t.EntryTime.Weekday())
		buckets[wd] = append(buckets[wd], t)
	}
	return buckets
}
