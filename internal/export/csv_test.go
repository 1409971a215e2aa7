package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tradebook/internal/analytics"
	apperrors "tradebook/internal/errors"
	"tradebook/internal/models"
)

func TestTradeCSVRoundTrip(t *testing.T) {
	pnl := 150.0
	lossRR := 0.5
	result := models.ResultWin
	mood := models.MoodGood

	trades := []models.Trade{
		{
			ID:         "t-1",
			AccountID:  "main",
			Symbol:     "ES",
			Direction:  models.DirectionLong,
			EntryTime:  time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC),
			PnL:        &pnl,
			RiskReward: 2.0,
			LossRR:     &lossRR,
			Result:     &result,
			Mood:       &mood,
			Tags:       []string{"a-plus", "morning"},
		},
		{
			ID:        "t-2",
			AccountID: "main",
			Symbol:    "NQ",
			Direction: models.DirectionShort,
			EntryTime: time.Date(2025, time.March, 11, 14, 0, 0, 0, time.UTC),

			ExcludeFromAnalytics: true,
		},
	}

	var buf bytes.Buffer
	if err := WriteTrades(&buf, trades); err != nil {
		t.Fatalf("WriteTrades: %v", err)
	}

	got, err := ReadTrades(&buf, "round-trip.csv")
	if err != nil {
		t.Fatalf("ReadTrades: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("round trip produced %d trades, want 2", len(got))
	}

	first := got[0]
	if first.PnL == nil || *first.PnL != pnl {
		t.Errorf("PnL = %v, want %v", first.PnL, pnl)
	}
	if first.LossRR == nil || *first.LossRR != lossRR {
		t.Errorf("LossRR = %v, want %v", first.LossRR, lossRR)
	}
	if first.Result == nil || *first.Result != models.ResultWin {
		t.Errorf("Result = %v, want WIN", first.Result)
	}
	if len(first.Tags) != 2 {
		t.Errorf("Tags = %v", first.Tags)
	}

	second := got[1]
	if second.PnL != nil || second.Result != nil || second.Mood != nil {
		t.Errorf("empty optional columns must come back nil: %+v", second)
	}
	if !second.ExcludeFromAnalytics {
		t.Error("excluded flag lost in round trip")
	}
}

func TestReadTradesRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "missing account",
			csv: "id,account_id,symbol,direction,entry_time,pnl,risk_reward,loss_rr,result,mood,excluded,tags\n" +
				"t-1,,ES,LONG,2025-03-10T09:30:00Z,10,1,,,,false,\n",
		},
		{
			name: "bad direction",
			csv: "id,account_id,symbol,direction,entry_time,pnl,risk_reward,loss_rr,result,mood,excluded,tags\n" +
				"t-1,main,ES,SIDEWAYS,2025-03-10T09:30:00Z,10,1,,,,false,\n",
		},
		{
			name: "bad entry time",
			csv: "id,account_id,symbol,direction,entry_time,pnl,risk_reward,loss_rr,result,mood,excluded,tags\n" +
				"t-1,main,ES,LONG,yesterday,10,1,,,,false,\n",
		},
		{
			name: "bad result",
			csv: "id,account_id,symbol,direction,entry_time,pnl,risk_reward,loss_rr,result,mood,excluded,tags\n" +
				"t-1,main,ES,LONG,2025-03-10T09:30:00Z,10,1,,MAYBE,,false,\n",
		},
		{
			name: "bad pnl",
			csv: "id,account_id,symbol,direction,entry_time,pnl,risk_reward,loss_rr,result,mood,excluded,tags\n" +
				"t-1,main,ES,LONG,2025-03-10T09:30:00Z,lots,1,,,,false,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTrades(strings.NewReader(tt.csv), "bad.csv")
			if err == nil {
				t.Fatal("expected an import error")
			}
			var importErr *apperrors.ImportError
			if !apperrors.As(err, &importErr) {
				t.Fatalf("error type = %T, want *ImportError", err)
			}
			if importErr.Line != 2 {
				t.Errorf("line = %d, want 2", importErr.Line)
			}
		})
	}
}

func TestReadTradesEmptyLossRRKeepsDefaultLoss(t *testing.T) {
	// A losing trade with no recorded loss size must come back with LossRR
	// nil so the RR normalizer falls through to the -1R default.
	csv := "id,account_id,symbol,direction,entry_time,pnl,risk_reward,loss_rr,result,mood,excluded,tags\n" +
		"t-1,main,ES,LONG,2025-03-10T09:30:00Z,-80,1,,,,false,\n"

	got, err := ReadTrades(strings.NewReader(csv), "loss.csv")
	if err != nil {
		t.Fatalf("ReadTrades: %v", err)
	}
	if got[0].PnL == nil || *got[0].PnL != -80 {
		t.Errorf("PnL = %v, want -80", got[0].PnL)
	}
	if got[0].LossRR != nil {
		t.Errorf("LossRR = %v, want nil for an empty column", *got[0].LossRR)
	}
	if rr := analytics.SignedRR(got[0]); rr != -1 {
		t.Errorf("SignedRR = %v, want -1", rr)
	}
}

func TestReadTradesAcceptsLowercaseEnums(t *testing.T) {
	csv := "id,account_id,symbol,direction,entry_time,pnl,risk_reward,loss_rr,result,mood,excluded,tags\n" +
		"t-1,main,ES,long,2025-03-10T09:30:00Z,10,1,,win,GOOD,false,\n"

	got, err := ReadTrades(strings.NewReader(csv), "case.csv")
	if err != nil {
		t.Fatalf("ReadTrades: %v", err)
	}
	if got[0].Direction != models.DirectionLong {
		t.Errorf("direction = %v", got[0].Direction)
	}
	if got[0].Result == nil || *got[0].Result != models.ResultWin {
		t.Errorf("result = %v", got[0].Result)
	}
	if got[0].Mood == nil || *got[0].Mood != models.MoodGood {
		t.Errorf("mood = %v", got[0].Mood)
	}
}
