package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tradebook/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tradebook_test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTradeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pnl := 250.5
	lossRR := 0.5
	result := models.ResultWin
	mood := models.MoodGood

	trade := &models.Trade{
		AccountID:  "main",
		Symbol:     "ES",
		Direction:  models.DirectionLong,
		EntryTime:  time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC),
		PnL:        &pnl,
		RiskReward: 2.5,
		LossRR:     &lossRR,
		Result:     &result,
		Mood:       &mood,
		Classifications: map[string]string{
			"cat-setup": "opt-breakout",
		},
		Tags: []string{"a-plus", "morning"},
	}

	if err := s.SaveTrade(ctx, trade); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}
	if trade.ID == "" {
		t.Fatal("SaveTrade did not assign an ID")
	}

	got, err := s.GetTrade(ctx, trade.ID)
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}

	if got.AccountID != "main" || got.Symbol != "ES" || got.Direction != models.DirectionLong {
		t.Errorf("identity fields mismatch: %+v", got)
	}
	if got.PnL == nil || *got.PnL != pnl {
		t.Errorf("PnL = %v, want %v", got.PnL, pnl)
	}
	if got.RiskReward != 2.5 {
		t.Errorf("RiskReward = %v, want 2.5", got.RiskReward)
	}
	if got.LossRR == nil || *got.LossRR != lossRR {
		t.Errorf("LossRR = %v, want %v", got.LossRR, lossRR)
	}
	if got.Result == nil || *got.Result != models.ResultWin {
		t.Errorf("Result = %v, want WIN", got.Result)
	}
	if got.Mood == nil || *got.Mood != models.MoodGood {
		t.Errorf("Mood = %v, want good", got.Mood)
	}
	if got.Classifications["cat-setup"] != "opt-breakout" {
		t.Errorf("Classifications = %v", got.Classifications)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v", got.Tags)
	}
}

func TestTradeOptionalFieldsStayNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trade := &models.Trade{
		AccountID: "main",
		Symbol:    "NQ",
		Direction: models.DirectionShort,
		EntryTime: time.Date(2025, time.March, 11, 10, 0, 0, 0, time.UTC),
	}
	if err := s.SaveTrade(ctx, trade); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}

	got, err := s.GetTrade(ctx, trade.ID)
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if got.PnL != nil || got.LossRR != nil || got.Result != nil || got.Mood != nil {
		t.Errorf("optional fields should survive as nil: %+v", got)
	}
}

func TestGetTradesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	seed := []*models.Trade{
		{AccountID: "main", Symbol: "ES", Direction: models.DirectionLong, EntryTime: base},
		{AccountID: "main", Symbol: "NQ", Direction: models.DirectionShort, EntryTime: base.Add(24 * time.Hour)},
		{AccountID: "prop", Symbol: "ES", Direction: models.DirectionLong, EntryTime: base.Add(48 * time.Hour)},
	}
	for _, tr := range seed {
		if err := s.SaveTrade(ctx, tr); err != nil {
			t.Fatalf("SaveTrade: %v", err)
		}
	}

	byAccount, err := s.GetTrades(ctx, TradeFilter{AccountIDs: []string{"main"}})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(byAccount) != 2 {
		t.Errorf("account filter returned %d trades, want 2", len(byAccount))
	}

	bySymbol, err := s.GetTrades(ctx, TradeFilter{Symbol: "ES"})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(bySymbol) != 2 {
		t.Errorf("symbol filter returned %d trades, want 2", len(bySymbol))
	}

	byRange, err := s.GetTrades(ctx, TradeFilter{StartDate: base.Add(12 * time.Hour)})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(byRange) != 2 {
		t.Errorf("date filter returned %d trades, want 2", len(byRange))
	}

	limited, err := s.GetTrades(ctx, TradeFilter{Limit: 1})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit filter returned %d trades, want 1", len(limited))
	}
	// Newest first
	if limited[0].Symbol != "ES" || limited[0].AccountID != "prop" {
		t.Errorf("expected newest trade first, got %+v", limited[0])
	}
}

func TestDeleteTrade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trade := &models.Trade{AccountID: "main", Symbol: "ES", Direction: models.DirectionLong, EntryTime: time.Now()}
	if err := s.SaveTrade(ctx, trade); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}
	if err := s.DeleteTrade(ctx, trade.ID); err != nil {
		t.Fatalf("DeleteTrade: %v", err)
	}
	if err := s.DeleteTrade(ctx, trade.ID); err == nil {
		t.Error("deleting a missing trade should error")
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat := &models.ClassificationCategory{
		Name: "Setup",
		Options: []models.ClassificationOption{
			{Name: "Breakout", Order: 0},
			{Name: "Reversal", Order: 1},
		},
	}
	if err := s.SaveCategory(ctx, cat); err != nil {
		t.Fatalf("SaveCategory: %v", err)
	}

	cats, err := s.GetCategories(ctx)
	if err != nil {
		t.Fatalf("GetCategories: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Setup" {
		t.Fatalf("categories = %+v", cats)
	}
	if len(cats[0].Options) != 2 || cats[0].Options[0].Name != "Breakout" {
		t.Errorf("options out of order: %+v", cats[0].Options)
	}

	// Re-saving replaces the option set
	cat.Options = cat.Options[:1]
	if err := s.SaveCategory(ctx, cat); err != nil {
		t.Fatalf("SaveCategory: %v", err)
	}
	cats, _ = s.GetCategories(ctx)
	if len(cats[0].Options) != 1 {
		t.Errorf("re-save left %d options, want 1", len(cats[0].Options))
	}

	if err := s.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	cats, _ = s.GetCategories(ctx)
	if len(cats) != 0 {
		t.Errorf("categories after delete = %+v", cats)
	}
}

func TestReflectionUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := &models.DailyReflection{
		AccountID:  "main",
		Date:       "2025-03-10",
		Reflection: "draft",
		IsComplete: false,
	}
	if err := s.SaveReflection(ctx, r); err != nil {
		t.Fatalf("SaveReflection: %v", err)
	}

	// Second save for the same day updates in place
	r2 := &models.DailyReflection{
		AccountID:  "main",
		Date:       "2025-03-10",
		Reflection: "final",
		IsComplete: true,
	}
	if err := s.SaveReflection(ctx, r2); err != nil {
		t.Fatalf("SaveReflection upsert: %v", err)
	}

	got, err := s.GetReflections(ctx, ReflectionFilter{AccountIDs: []string{"main"}})
	if err != nil {
		t.Fatalf("GetReflections: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("reflections = %d rows, want 1", len(got))
	}
	if got[0].Reflection != "final" || !got[0].IsComplete {
		t.Errorf("upsert did not replace: %+v", got[0])
	}

	complete := false
	none, err := s.GetReflections(ctx, ReflectionFilter{Complete: &complete})
	if err != nil {
		t.Fatalf("GetReflections: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("complete=false filter returned %d rows", len(none))
	}
}

func TestQuickNotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, n := range []*models.QuickNote{
		{AccountID: "main", Date: "2025-03-10", Content: "choppy open", Tags: []string{"market"}},
		{AccountID: "main", Date: "2025-03-11", Content: "news day"},
		{AccountID: "prop", Date: "2025-03-10", Content: "eval rules"},
	} {
		if err := s.SaveQuickNote(ctx, n); err != nil {
			t.Fatalf("SaveQuickNote: %v", err)
		}
	}

	got, err := s.GetQuickNotes(ctx, NoteFilter{AccountIDs: []string{"main"}, Date: "2025-03-10"})
	if err != nil {
		t.Fatalf("GetQuickNotes: %v", err)
	}
	if len(got) != 1 || got[0].Content != "choppy open" {
		t.Errorf("notes = %+v", got)
	}
	if len(got[0].Tags) != 1 || got[0].Tags[0] != "market" {
		t.Errorf("tags = %v", got[0].Tags)
	}

	if err := s.DeleteQuickNote(ctx, got[0].ID); err != nil {
		t.Fatalf("DeleteQuickNote: %v", err)
	}
	got, _ = s.GetQuickNotes(ctx, NoteFilter{AccountIDs: []string{"main"}, Date: "2025-03-10"})
	if len(got) != 0 {
		t.Errorf("note not deleted: %+v", got)
	}
}

func TestTallyLogUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rule := &models.TallyRule{AccountID: "main", Label: "Waited for confirmation", Emoji: "⏳"}
	if err := s.SaveTallyRule(ctx, rule); err != nil {
		t.Fatalf("SaveTallyRule: %v", err)
	}

	rules, err := s.GetTallyRules(ctx, "main")
	if err != nil {
		t.Fatalf("GetTallyRules: %v", err)
	}
	if len(rules) != 1 || rules[0].Label != "Waited for confirmation" {
		t.Fatalf("rules = %+v", rules)
	}

	log := &models.TallyLog{RuleID: rule.ID, AccountID: "main", Date: "2025-03-10", TallyCount: 1}
	if err := s.SaveTallyLog(ctx, log); err != nil {
		t.Fatalf("SaveTallyLog: %v", err)
	}
	log2 := &models.TallyLog{RuleID: rule.ID, AccountID: "main", Date: "2025-03-10", TallyCount: 3}
	if err := s.SaveTallyLog(ctx, log2); err != nil {
		t.Fatalf("SaveTallyLog upsert: %v", err)
	}

	logs, err := s.GetTallyLogs(ctx, TallyFilter{RuleID: rule.ID})
	if err != nil {
		t.Fatalf("GetTallyLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].TallyCount != 3 {
		t.Errorf("logs = %+v", logs)
	}
}

func TestWeeklyReviewUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := &models.WeeklyReview{AccountID: "main", WeekStart: "2025-03-10", Content: "draft"}
	if err := s.SaveWeeklyReview(ctx, r); err != nil {
		t.Fatalf("SaveWeeklyReview: %v", err)
	}
	r2 := &models.WeeklyReview{AccountID: "main", WeekStart: "2025-03-10", Content: "final", IsComplete: true}
	if err := s.SaveWeeklyReview(ctx, r2); err != nil {
		t.Fatalf("SaveWeeklyReview upsert: %v", err)
	}

	got, err := s.GetWeeklyReviews(ctx, "main", 0)
	if err != nil {
		t.Fatalf("GetWeeklyReviews: %v", err)
	}
	if len(got) != 1 || got[0].Content != "final" || !got[0].IsComplete {
		t.Errorf("reviews = %+v", got)
	}
}
