package analytics

import (
	"testing"
	"time"

	"tradebook/internal/models"
)

func TestDayKey(t *testing.T) {
	in := time.Date(2025, time.March, 10, 15, 42, 7, 123, loc)
	got := DayKey(in)
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("DayKey = %v, want %v", got, want)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday maps to itself", time.Date(2025, time.March, 10, 9, 0, 0, 0, loc), "2025-03-10"},
		{"wednesday maps back two days", time.Date(2025, time.March, 12, 9, 0, 0, 0, loc), "2025-03-10"},
		{"saturday maps back five days", time.Date(2025, time.March, 15, 9, 0, 0, 0, loc), "2025-03-10"},
		{"sunday maps back six days", time.Date(2025, time.March, 16, 9, 0, 0, 0, loc), "2025-03-10"},
		{"next monday starts a new week", time.Date(2025, time.March, 17, 0, 0, 0, 0, loc), "2025-03-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			if DayString(got) != tt.want {
				t.Errorf("WeekStart(%v) = %s, want %s", tt.in, DayString(got), tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("WeekStart must land on Monday, got %s", got.Weekday())
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February, loc)
	if DayString(first) != "2024-02-01" {
		t.Errorf("first = %s, want 2024-02-01", DayString(first))
	}
	if DayString(last) != "2024-02-29" {
		t.Errorf("last = %s, want 2024-02-29 (leap year)", DayString(last))
	}
}

func TestGroupByDayAndWeek(t *testing.T) {
	trades := []models.Trade{
		trade("acct-1", time.Date(2025, time.March, 10, 9, 0, 0, 0, loc), 10),
		trade("acct-1", time.Date(2025, time.March, 10, 15, 0, 0, 0, loc), 20),
		trade("acct-1", time.Date(2025, time.March, 16, 9, 0, 0, 0, loc), 30), // Sunday, same week
		trade("acct-1", time.Date(2025, time.March, 17, 9, 0, 0, 0, loc), 40), // next Monday
	}

	byDay := GroupByDay(trades)
	if len(byDay["2025-03-10"]) != 2 {
		t.Errorf("day group = %d trades, want 2", len(byDay["2025-03-10"]))
	}

	byWeek := GroupByWeek(trades)
	if len(byWeek["2025-03-10"]) != 3 {
		t.Errorf("week of Mar 10 = %d trades, want 3", len(byWeek["2025-03-10"]))
	}
	if len(byWeek["2025-03-17"]) != 1 {
		t.Errorf("week of Mar 17 = %d trades, want 1", len(byWeek["2025-03-17"]))
	}
}

func TestGroupByMonth(t *testing.T) {
	trades := []models.Trade{
		trade("acct-1", time.Date(2025, time.March, 31, 23, 0, 0, 0, loc), 10),
		trade("acct-1", time.Date(2025, time.April, 1, 0, 30, 0, 0, loc), 20),
	}
	byMonth := GroupByMonth(trades)
	if len(byMonth["2025-03"]) != 1 || len(byMonth["2025-04"]) != 1 {
		t.Errorf("month grouping wrong: %d in March, %d in April",
			len(byMonth["2025-03"]), len(byMonth["2025-04"]))
	}
}

func TestFilterTradesDoesNotMutate(t *testing.T) {
	trades := []models.Trade{
		trade("acct-1", time.Date(2025, time.March, 10, 9, 0, 0, 0, loc), 10),
		trade("acct-2", time.Date(2025, time.March, 10, 9, 0, 0, 0, loc), 20),
	}

	got := FilterTrades(trades, NewAccountSet("acct-2"))
	if len(got) != 1 || got[0].AccountID != "acct-2" {
		t.Errorf("FilterTrades returned %d trades", len(got))
	}
	if len(trades) != 2 {
		t.Error("input slice was modified")
	}
}
