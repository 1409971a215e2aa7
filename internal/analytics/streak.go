package analytics

import (
	"time"

	"tradebook/internal/models"
)

// ReflectionStreak counts consecutive days, walking back from today, on
// which a completed reflection exists for an eligible account. Today counts
// if already complete; otherwise the walk starts at yesterday. The first day
// without a completed reflection ends the streak; a missing day is never
// skipped.
func ReflectionStreak(reflections []models.DailyReflection, accounts AccountSet, now time.Time) int {
	complete := make(map[string]bool)
	for _, r := range reflections {
		if r.IsComplete && accounts.Contains(r.AccountID) {
			complete[r.Date] = true
		}
	}
	return walkStreak(complete, now)
}

// RuleStreak counts consecutive days with at least one tally for the given
// rule, walking back from today with the same continuity rules as
// ReflectionStreak.
func RuleStreak(logs []models.TallyLog, ruleID string, accounts AccountSet, now time.Time) int {
	complete := make(map[string]bool)
	for _, l := range logs {
		if l.RuleID == ruleID && l.TallyCount > 0 && accounts.Contains(l.AccountID) {
			complete[l.Date] = true
		}
	}
	return walkStreak(complete, now)
}

// walkStreak walks backward one calendar day at a time. An incomplete today
// does not break the streak, it just isn't counted yet.
func walkStreak(complete map[string]bool, now time.Time) int {
	day := DayKey(now)
	if !complete[DayString(day)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for complete[DayString(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
