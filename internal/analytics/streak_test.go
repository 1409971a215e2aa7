package analytics

import (
	"testing"
	"time"

	"tradebook/internal/models"
)

func reflection(accountID, date string, complete bool) models.DailyReflection {
	return models.DailyReflection{
		ID:         "r-" + date,
		AccountID:  accountID,
		Date:       date,
		IsComplete: complete,
	}
}

func TestReflectionStreak(t *testing.T) {
	now := time.Date(2025, time.March, 20, 18, 0, 0, 0, loc)
	accounts := NewAccountSet("acct-1")

	tests := []struct {
		name        string
		reflections []models.DailyReflection
		want        int
	}{
		{
			name: "no reflections",
			want: 0,
		},
		{
			name: "today and yesterday incomplete",
			reflections: []models.DailyReflection{
				reflection("acct-1", "2025-03-20", false),
				reflection("acct-1", "2025-03-19", false),
				reflection("acct-1", "2025-03-18", true),
			},
			want: 0,
		},
		{
			name: "today complete counts",
			reflections: []models.DailyReflection{
				reflection("acct-1", "2025-03-20", true),
			},
			want: 1,
		},
		{
			name: "today pending starts from yesterday",
			reflections: []models.DailyReflection{
				reflection("acct-1", "2025-03-19", true),
				reflection("acct-1", "2025-03-18", true),
			},
			want: 2,
		},
		{
			name: "gap terminates the walk",
			reflections: []models.DailyReflection{
				reflection("acct-1", "2025-03-20", true),
				reflection("acct-1", "2025-03-19", true),
				// 2025-03-18 missing
				reflection("acct-1", "2025-03-17", true),
				reflection("acct-1", "2025-03-16", true),
			},
			want: 2,
		},
		{
			name: "other accounts never contribute",
			reflections: []models.DailyReflection{
				reflection("acct-1", "2025-03-20", true),
				reflection("acct-2", "2025-03-19", true),
				reflection("acct-1", "2025-03-18", true),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReflectionStreak(tt.reflections, accounts, now); got != tt.want {
				t.Errorf("ReflectionStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReflectionStreakIncrements(t *testing.T) {
	now := time.Date(2025, time.March, 20, 18, 0, 0, 0, loc)
	accounts := NewAccountSet("acct-1")

	var reflections []models.DailyReflection
	for days := 1; days <= 10; days++ {
		date := DayString(DayKey(now).AddDate(0, 0, -(days - 1)))
		reflections = append(reflections, reflection("acct-1", date, true))
		if got := ReflectionStreak(reflections, accounts, now); got != days {
			t.Fatalf("after %d unbroken days streak = %d", days, got)
		}
	}
}

func TestRuleStreak(t *testing.T) {
	now := time.Date(2025, time.March, 20, 18, 0, 0, 0, loc)
	accounts := NewAccountSet("acct-1")

	logs := []models.TallyLog{
		{ID: "l1", RuleID: "rule-1", AccountID: "acct-1", Date: "2025-03-20", TallyCount: 2},
		{ID: "l2", RuleID: "rule-1", AccountID: "acct-1", Date: "2025-03-19", TallyCount: 1},
		{ID: "l3", RuleID: "rule-1", AccountID: "acct-1", Date: "2025-03-18", TallyCount: 0}, // zero tally breaks
		{ID: "l4", RuleID: "rule-2", AccountID: "acct-1", Date: "2025-03-19", TallyCount: 5},
	}

	if got := RuleStreak(logs, "rule-1", accounts, now); got != 2 {
		t.Errorf("rule-1 streak = %d, want 2", got)
	}
	if got := RuleStreak(logs, "rule-2", accounts, now); got != 1 {
		t.Errorf("rule-2 streak = %d, want 1 (today missing, yesterday tallied)", got)
	}
	if got := RuleStreak(logs, "rule-3", accounts, now); got != 0 {
		t.Errorf("unknown rule streak = %d, want 0", got)
	}
}
