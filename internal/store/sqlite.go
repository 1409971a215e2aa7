// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tradebook/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trades table
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		entry_time DATETIME NOT NULL,
		pnl REAL,
		risk_reward REAL NOT NULL DEFAULT 0,
		loss_rr REAL,
		result TEXT,
		mood TEXT,
		exclude_from_analytics INTEGER DEFAULT 0,
		classifications TEXT,
		tags TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Classification categories
	CREATE TABLE IF NOT EXISTS classification_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	-- Classification options, ordered within a category
	CREATE TABLE IF NOT EXISTS classification_options (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (category_id) REFERENCES classification_categories(id)
	);

	-- Quick notes attached to calendar days
	CREATE TABLE IF NOT EXISTS quick_notes (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		date DATE NOT NULL,
		content TEXT NOT NULL,
		tags TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Daily reflections
	CREATE TABLE IF NOT EXISTS daily_reflections (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		date DATE NOT NULL,
		reflection TEXT,
		key_focus TEXT,
		is_complete INTEGER DEFAULT 0,
		mood TEXT,
		tags TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, date)
	);

	-- Weekly reviews
	CREATE TABLE IF NOT EXISTS weekly_reviews (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		week_start DATE NOT NULL,
		content TEXT,
		is_complete INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, week_start)
	);

	-- Tally rules
	CREATE TABLE IF NOT EXISTS tally_rules (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		label TEXT NOT NULL,
		emoji TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Tally logs, one row per rule per day
	CREATE TABLE IF NOT EXISTS tally_logs (
		id TEXT PRIMARY KEY,
		rule_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		date DATE NOT NULL,
		tally_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(rule_id, account_id, date),
		FOREIGN KEY (rule_id) REFERENCES tally_rules(id)
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
	CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades(entry_time);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_options_category ON classification_options(category_id);
	CREATE INDEX IF NOT EXISTS idx_notes_date ON quick_notes(date);
	CREATE INDEX IF NOT EXISTS idx_notes_account ON quick_notes(account_id);
	CREATE INDEX IF NOT EXISTS idx_reflections_date ON daily_reflections(date);
	CREATE INDEX IF NOT EXISTS idx_tally_logs_date ON tally_logs(date);
	CREATE INDEX IF NOT EXISTS idx_tally_logs_rule ON tally_logs(rule_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Trades Methods
// ============================================================================

// SaveTrade inserts or replaces a trade. A missing ID is generated.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = time.Now()
	}
	trade.UpdatedAt = time.Now()

	classifications, _ := json.Marshal(trade.Classifications)
	tags, _ := json.Marshal(trade.Tags)

	var result, mood interface{}
	if trade.Result != nil {
		result = string(*trade.Result)
	}
	if trade.Mood != nil {
		mood = string(*trade.Mood)
	}

	exclude := 0
	if trade.ExcludeFromAnalytics {
		exclude = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades (id, account_id, symbol, direction, entry_time, pnl, risk_reward, loss_rr, result, mood, exclude_from_analytics, classifications, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.AccountID, trade.Symbol, string(trade.Direction), trade.EntryTime, trade.PnL, trade.RiskReward, trade.LossRR, result, mood, exclude, string(classifications), string(tags), trade.CreatedAt, trade.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	return nil
}

// GetTrade retrieves a single trade by ID.
func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, tradeSelect+" WHERE id = ?", id)
	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trade %s: not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

const tradeSelect = "SELECT id, account_id, symbol, direction, entry_time, pnl, risk_reward, loss_rr, result, mood, exclude_from_analytics, classifications, tags, created_at, updated_at FROM trades"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var direction string
	var pnl, lossRR sql.NullFloat64
	var result, mood, classifications, tags sql.NullString
	var exclude int

	err := row.Scan(&t.ID, &t.AccountID, &t.Symbol, &direction, &t.EntryTime, &pnl, &t.RiskReward, &lossRR, &result, &mood, &exclude, &classifications, &tags, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Direction = models.Direction(direction)
	if pnl.Valid {
		v := pnl.Float64
		t.PnL = &v
	}
	if lossRR.Valid {
		v := lossRR.Float64
		t.LossRR = &v
	}
	if result.Valid && result.String != "" {
		r := models.TradeResult(result.String)
		t.Result = &r
	}
	if mood.Valid && mood.String != "" {
		m := models.MoodType(mood.String)
		t.Mood = &m
	}
	t.ExcludeFromAnalytics = exclude != 0
	if classifications.Valid && classifications.String != "" {
		_ = json.Unmarshal([]byte(classifications.String), &t.Classifications)
	}
	if tags.Valid && tags.String != "" {
		_ = json.Unmarshal([]byte(tags.String), &t.Tags)
	}

	return &t, nil
}

// GetTrades retrieves trades matching the filter, newest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := tradeSelect + " WHERE 1=1"
	args := []interface{}{}

	if len(filter.AccountIDs) > 0 {
		query += " AND account_id IN (" + placeholders(len(filter.AccountIDs)) + ")"
		for _, id := range filter.AccountIDs {
			args = append(args, id)
		}
	}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Direction != "" {
		query += " AND direction = ?"
		args = append(args, string(filter.Direction))
	}
	if !filter.StartDate.IsZero() {
		query += " AND entry_time >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND entry_time <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY entry_time DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}
	return trades, nil
}

// DeleteTrade removes a trade by ID.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trades WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trade %s: not found", id)
	}
	return nil
}

// ============================================================================
// Classification Methods
// ============================================================================

// SaveCategory saves a category and replaces its option set.
func (s *SQLiteStore) SaveCategory(ctx context.Context, category *models.ClassificationCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO classification_categories (id, name) VALUES (?, ?)
	`, category.ID, category.Name)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM classification_options WHERE category_id = ?", category.ID); err != nil {
		return fmt.Errorf("failed to clear options: %w", err)
	}

	for i := range category.Options {
		opt := &category.Options[i]
		if opt.ID == "" {
			opt.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO classification_options (id, category_id, name, sort_order) VALUES (?, ?, ?, ?)
		`, opt.ID, category.ID, opt.Name, opt.Order)
		if err != nil {
			return fmt.Errorf("failed to save option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetCategories retrieves all categories with their options in display order.
func (s *SQLiteStore) GetCategories(ctx context.Context) ([]models.ClassificationCategory, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM classification_categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.ClassificationCategory
	for rows.Next() {
		var c models.ClassificationCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	for i := range categories {
		optRows, err := s.db.QueryContext(ctx, `
			SELECT id, name, sort_order FROM classification_options
			WHERE category_id = ? ORDER BY sort_order, name
		`, categories[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to query options: %w", err)
		}
		for optRows.Next() {
			var o models.ClassificationOption
			if err := optRows.Scan(&o.ID, &o.Name, &o.Order); err != nil {
				optRows.Close()
				return nil, fmt.Errorf("failed to scan option: %w", err)
			}
			categories[i].Options = append(categories[i].Options, o)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return nil, fmt.Errorf("error iterating options: %w", err)
		}
		optRows.Close()
	}

	return categories, nil
}

// DeleteCategory removes a category and its options.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM classification_options WHERE category_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM classification_categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return tx.Commit()
}

// ============================================================================
// Quick Notes Methods
// ============================================================================

// SaveQuickNote inserts or replaces a quick note.
func (s *SQLiteStore) SaveQuickNote(ctx context.Context, note *models.QuickNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	note.UpdatedAt = time.Now()

	tags, _ := json.Marshal(note.Tags)
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO quick_notes (id, account_id, date, content, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, note.ID, note.AccountID, note.Date, note.Content, string(tags), note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save quick note: %w", err)
	}
	return nil
}

// GetQuickNotes retrieves quick notes matching the filter, newest first.
func (s *SQLiteStore) GetQuickNotes(ctx context.Context, filter NoteFilter) ([]models.QuickNote, error) {
	query := "SELECT id, account_id, date, content, tags, created_at, updated_at FROM quick_notes WHERE 1=1"
	args := []interface{}{}

	if len(filter.AccountIDs) > 0 {
		query += " AND account_id IN (" + placeholders(len(filter.AccountIDs)) + ")"
		for _, id := range filter.AccountIDs {
			args = append(args, id)
		}
	}
	if filter.Date != "" {
		query += " AND date = ?"
		args = append(args, filter.Date)
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quick notes: %w", err)
	}
	defer rows.Close()

	var notes []models.QuickNote
	for rows.Next() {
		var n models.QuickNote
		var tags sql.NullString
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Date, &n.Content, &tags, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quick note: %w", err)
		}
		if tags.Valid && tags.String != "" {
			_ = json.Unmarshal([]byte(tags.String), &n.Tags)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quick notes: %w", err)
	}
	return notes, nil
}

// DeleteQuickNote removes a quick note by ID.
func (s *SQLiteStore) DeleteQuickNote(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM quick_notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete quick note: %w", err)
	}
	return nil
}

// ============================================================================
// Reflection Methods
// ============================================================================

// SaveReflection upserts the reflection for an account and day.
func (s *SQLiteStore) SaveReflection(ctx context.Context, reflection *models.DailyReflection) error {
	if reflection.ID == "" {
		reflection.ID = uuid.NewString()
	}
	if reflection.CreatedAt.IsZero() {
		reflection.CreatedAt = time.Now()
	}
	reflection.UpdatedAt = time.Now()

	complete := 0
	if reflection.IsComplete {
		complete = 1
	}
	var mood interface{}
	if reflection.Mood != nil {
		mood = string(*reflection.Mood)
	}
	tags, _ := json.Marshal(reflection.Tags)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_reflections (id, account_id, date, reflection, key_focus, is_complete, mood, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, date) DO UPDATE SET
			reflection = excluded.reflection,
			key_focus = excluded.key_focus,
			is_complete = excluded.is_complete,
			mood = excluded.mood,
			tags = excluded.tags,
			updated_at = excluded.updated_at
	`, reflection.ID, reflection.AccountID, reflection.Date, reflection.Reflection, reflection.KeyFocus, complete, mood, string(tags), reflection.CreatedAt, reflection.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save reflection: %w", err)
	}
	return nil
}

// GetReflections retrieves reflections matching the filter, newest first.
func (s *SQLiteStore) GetReflections(ctx context.Context, filter ReflectionFilter) ([]models.DailyReflection, error) {
	query := "SELECT id, account_id, date, reflection, key_focus, is_complete, mood, tags, created_at, updated_at FROM daily_reflections WHERE 1=1"
	args := []interface{}{}

	if len(filter.AccountIDs) > 0 {
		query += " AND account_id IN (" + placeholders(len(filter.AccountIDs)) + ")"
		for _, id := range filter.AccountIDs {
			args = append(args, id)
		}
	}
	if filter.Date != "" {
		query += " AND date = ?"
		args = append(args, filter.Date)
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}
	if filter.Complete != nil {
		complete := 0
		if *filter.Complete {
			complete = 1
		}
		query += " AND is_complete = ?"
		args = append(args, complete)
	}

	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reflections: %w", err)
	}
	defer rows.Close()

	var reflections []models.DailyReflection
	for rows.Next() {
		var r models.DailyReflection
		var complete int
		var mood, tags sql.NullString
		if err := rows.Scan(&r.ID, &r.AccountID, &r.Date, &r.Reflection, &r.KeyFocus, &complete, &mood, &tags, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reflection: %w", err)
		}
		r.IsComplete = complete != 0
		if mood.Valid && mood.String != "" {
			m := models.MoodType(mood.String)
			r.Mood = &m
		}
		if tags.Valid && tags.String != "" {
			_ = json.Unmarshal([]byte(tags.String), &r.Tags)
		}
		reflections = append(reflections, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reflections: %w", err)
	}
	return reflections, nil
}

// ============================================================================
// Weekly Review Methods
// ============================================================================

// SaveWeeklyReview upserts the review for an account and week.
func (s *SQLiteStore) SaveWeeklyReview(ctx context.Context, review *models.WeeklyReview) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	review.UpdatedAt = time.Now()

	complete := 0
	if review.IsComplete {
		complete = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weekly_reviews (id, account_id, week_start, content, is_complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, week_start) DO UPDATE SET
			content = excluded.content,
			is_complete = excluded.is_complete,
			updated_at = excluded.updated_at
	`, review.ID, review.AccountID, review.WeekStart, review.Content, complete, review.CreatedAt, review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save weekly review: %w", err)
	}
	return nil
}

// GetWeeklyReviews retrieves reviews for an account, newest week first.
func (s *SQLiteStore) GetWeeklyReviews(ctx context.Context, accountID string, limit int) ([]models.WeeklyReview, error) {
	query := "SELECT id, account_id, week_start, content, is_complete, created_at, updated_at FROM weekly_reviews WHERE account_id = ? ORDER BY week_start DESC"
	args := []interface{}{accountID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.WeeklyReview
	for rows.Next() {
		var r models.WeeklyReview
		var complete int
		if err := rows.Scan(&r.ID, &r.AccountID, &r.WeekStart, &r.Content, &complete, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weekly review: %w", err)
		}
		r.IsComplete = complete != 0
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weekly reviews: %w", err)
	}
	return reviews, nil
}

// ============================================================================
// Tally Methods
// ============================================================================

// SaveTallyRule inserts or replaces a tally rule.
func (s *SQLiteStore) SaveTallyRule(ctx context.Context, rule *models.TallyRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO tally_rules (id, account_id, label, emoji, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rule.ID, rule.AccountID, rule.Label, rule.Emoji, rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save tally rule: %w", err)
	}
	return nil
}

// GetTallyRules retrieves tally rules for an account in creation order.
func (s *SQLiteStore) GetTallyRules(ctx context.Context, accountID string) ([]models.TallyRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, label, emoji, created_at FROM tally_rules
		WHERE account_id = ? ORDER BY created_at
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tally rules: %w", err)
	}
	defer rows.Close()

	var rules []models.TallyRule
	for rows.Next() {
		var r models.TallyRule
		if err := rows.Scan(&r.ID, &r.AccountID, &r.Label, &r.Emoji, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tally rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tally rules: %w", err)
	}
	return rules, nil
}

// SaveTallyLog upserts the tally count for a rule and day.
func (s *SQLiteStore) SaveTallyLog(ctx context.Context, log *models.TallyLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	log.UpdatedAt = time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tally_logs (id, rule_id, account_id, date, tally_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(rule_id, account_id, date) DO UPDATE SET
			tally_count = excluded.tally_count,
			updated_at = excluded.updated_at
	`, log.ID, log.RuleID, log.AccountID, log.Date, log.TallyCount, log.CreatedAt, log.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save tally log: %w", err)
	}
	return nil
}

// GetTallyLogs retrieves tally logs matching the filter, newest first.
func (s *SQLiteStore) GetTallyLogs(ctx context.Context, filter TallyFilter) ([]models.TallyLog, error) {
	query := "SELECT id, rule_id, account_id, date, tally_count, created_at, updated_at FROM tally_logs WHERE 1=1"
	args := []interface{}{}

	if len(filter.AccountIDs) > 0 {
		query += " AND account_id IN (" + placeholders(len(filter.AccountIDs)) + ")"
		for _, id := range filter.AccountIDs {
			args = append(args, id)
		}
	}
	if filter.RuleID != "" {
		query += " AND rule_id = ?"
		args = append(args, filter.RuleID)
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tally logs: %w", err)
	}
	defer rows.Close()

	var logs []models.TallyLog
	for rows.Next() {
		var l models.TallyLog
		if err := rows.Scan(&l.ID, &l.RuleID, &l.AccountID, &l.Date, &l.TallyCount, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tally log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tally logs: %w", err)
	}
	return logs, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	out := "?"
	for i := 1; i < n; i++ {
		out += ", ?"
	}
	return out
}
