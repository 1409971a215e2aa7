// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradebook/internal/models"
)

// DataStore defines the interface for journal persistence.
type DataStore interface {
	// Trades
	SaveTrade(ctx context.Context, trade *models.Trade) error
	GetTrade(ctx context.Context, id string) (*models.Trade, error)
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	DeleteTrade(ctx context.Context, id string) error

	// Classification taxonomy
	SaveCategory(ctx context.Context, category *models.ClassificationCategory) error
	GetCategories(ctx context.Context) ([]models.ClassificationCategory, error)
	DeleteCategory(ctx context.Context, id string) error

	// Quick notes
	SaveQuickNote(ctx context.Context, note *models.QuickNote) error
	GetQuickNotes(ctx context.Context, filter NoteFilter) ([]models.QuickNote, error)
	DeleteQuickNote(ctx context.Context, id string) error

	// Daily reflections
	SaveReflection(ctx context.Context, reflection *models.DailyReflection) error
	GetReflections(ctx context.Context, filter ReflectionFilter) ([]models.DailyReflection, error)

	// Weekly reviews
	SaveWeeklyReview(ctx context.Context, review *models.WeeklyReview) error
	GetWeeklyReviews(ctx context.Context, accountID string, limit int) ([]models.WeeklyReview, error)

	// Tally rules
	SaveTallyRule(ctx context.Context, rule *models.TallyRule) error
	GetTallyRules(ctx context.Context, accountID string) ([]models.TallyRule, error)
	SaveTallyLog(ctx context.Context, log *models.TallyLog) error
	GetTallyLogs(ctx context.Context, filter TallyFilter) ([]models.TallyLog, error)

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	AccountIDs []string
	Symbol     string
	Direction  models.Direction
	StartDate  time.Time
	EndDate    time.Time
	Limit      int
}

// NoteFilter represents filters for querying quick notes.
type NoteFilter struct {
	AccountIDs []string
	Date       string
	StartDate  string
	EndDate    string
	Limit      int
}

// ReflectionFilter represents filters for querying daily reflections.
type ReflectionFilter struct {
	AccountIDs []string
	Date       string
	StartDate  string
	EndDate    string
	Complete   *bool
}

// TallyFilter represents filters for querying tally logs.
type TallyFilter struct {
	AccountIDs []string
	RuleID     string
	StartDate  string
	EndDate    string
}
