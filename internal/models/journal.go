package models

import "time"

// QuickNote is a short dated note attached to a calendar day.
type QuickNote struct {
	ID        string
	AccountID string
	Date      string // local calendar day, YYYY-MM-DD
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DailyReflection is an end-of-day journal entry. Its completion flag feeds
// the reflection streak.
type DailyReflection struct {
	ID         string
	AccountID  string
	Date       string // local calendar day, YYYY-MM-DD
	Reflection string
	KeyFocus   string
	IsComplete bool
	Mood       *MoodType
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WeeklyReview is a review entry for a Monday-start week.
type WeeklyReview struct {
	ID         string
	AccountID  string
	WeekStart  string // Monday of the reviewed week, YYYY-MM-DD
	Content    string
	IsComplete bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TallyRule is a habit/discipline rule the trader tallies against.
type TallyRule struct {
	ID        string
	AccountID string
	Label     string
	Emoji     string
	CreatedAt time.Time
}

// TallyLog records how many times a rule was tallied on a given day.
// A day with TallyCount > 0 counts toward that rule's streak.
type TallyLog struct {
	ID         string
	RuleID     string
	AccountID  string
	Date       string // local calendar day, YYYY-MM-DD
	TallyCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
