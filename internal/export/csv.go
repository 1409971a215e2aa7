// Package export handles CSV import and export of trade records.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "tradebook/internal/errors"
	"tradebook/internal/models"
)

// tradeRecord is the CSV wire form of a trade. Optional numeric columns are
// carried as strings so an empty cell stays absent instead of reading as zero.
type tradeRecord struct {
	ID         string  `csv:"id"`
	AccountID  string  `csv:"account_id"`
	Symbol     string  `csv:"symbol"`
	Direction  string  `csv:"direction"`
	EntryTime  string  `csv:"entry_time"`
	PnL        string  `csv:"pnl"`
	RiskReward float64 `csv:"risk_reward"`
	LossRR     string  `csv:"loss_rr"`
	Result     string  `csv:"result"`
	Mood       string  `csv:"mood"`
	Excluded   bool    `csv:"excluded"`
	Tags       string  `csv:"tags"`
}

const entryTimeLayout = time.RFC3339

// WriteTrades writes trades as CSV to w.
func WriteTrades(w io.Writer, trades []models.Trade) error {
	records := make([]tradeRecord, 0, len(trades))
	for _, t := range trades {
		rec := tradeRecord{
			ID:         t.ID,
			AccountID:  t.AccountID,
			Symbol:     t.Symbol,
			Direction:  string(t.Direction),
			EntryTime:  t.EntryTime.Format(entryTimeLayout),
			PnL:        formatOptional(t.PnL),
			RiskReward: t.RiskReward,
			LossRR:     formatOptional(t.LossRR),
			Excluded:   t.ExcludeFromAnalytics,
			Tags:       strings.Join(t.Tags, ";"),
		}
		if t.Result != nil {
			rec.Result = string(*t.Result)
		}
		if t.Mood != nil {
			rec.Mood = string(*t.Mood)
		}
		records = append(records, rec)
	}

	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("writing trade CSV: %w", err)
	}
	return nil
}

// ReadTrades parses trades from CSV. Rows that fail validation are reported
// with their line number; name identifies the source in error messages.
func ReadTrades(r io.Reader, name string) ([]models.Trade, error) {
	var records []tradeRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, apperrors.NewImportError(name, 0, "malformed CSV", err)
	}

	trades := make([]models.Trade, 0, len(records))
	for i, rec := range records {
		line := i + 2 // header is line 1
		trade, err := recordToTrade(rec)
		if err != nil {
			return nil, apperrors.NewImportError(name, line, err.Error(), nil)
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func recordToTrade(rec tradeRecord) (models.Trade, error) {
	var t models.Trade

	if rec.AccountID == "" {
		return t, fmt.Errorf("missing account_id")
	}
	if rec.Symbol == "" {
		return t, fmt.Errorf("missing symbol")
	}

	switch models.Direction(strings.ToUpper(rec.Direction)) {
	case models.DirectionLong:
		t.Direction = models.DirectionLong
	case models.DirectionShort:
		t.Direction = models.DirectionShort
	default:
		return t, fmt.Errorf("invalid direction %q", rec.Direction)
	}

	entry, err := time.Parse(entryTimeLayout, rec.EntryTime)
	if err != nil {
		return t, fmt.Errorf("invalid entry_time %q", rec.EntryTime)
	}

	t.ID = rec.ID
	t.AccountID = rec.AccountID
	t.Symbol = rec.Symbol
	t.EntryTime = entry
	t.RiskReward = rec.RiskReward
	t.ExcludeFromAnalytics = rec.Excluded

	if t.PnL, err = parseOptional(rec.PnL); err != nil {
		return t, fmt.Errorf("invalid pnl %q", rec.PnL)
	}
	if t.LossRR, err = parseOptional(rec.LossRR); err != nil {
		return t, fmt.Errorf("invalid loss_rr %q", rec.LossRR)
	}

	if rec.Result != "" {
		switch res := models.TradeResult(strings.ToUpper(rec.Result)); res {
		case models.ResultWin, models.ResultLoss, models.ResultBreakeven:
			t.Result = &res
		default:
			return t, fmt.Errorf("invalid result %q", rec.Result)
		}
	}
	if rec.Mood != "" {
		mood := models.MoodType(strings.ToLower(rec.Mood))
		if mood.Score() == 0 {
			return t, fmt.Errorf("invalid mood %q", rec.Mood)
		}
		t.Mood = &mood
	}
	if rec.Tags != "" {
		for _, tag := range strings.Split(rec.Tags, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				t.Tags = append(t.Tags, tag)
			}
		}
	}

	return t, nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseOptional(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
