package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "tradebook/internal/errors"
	"tradebook/internal/export"
	"tradebook/internal/logging"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// location resolves the configured timezone, falling back to local time.
func (app *App) location() *time.Location {
	if tz := app.Config.Journal.Timezone; tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
		app.Logger.Warn().Str("timezone", tz).Msg("Unknown timezone, using local")
	}
	return time.Local
}

func (app *App) requireStore() error {
	if app.Store == nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, "store unavailable")
	}
	return nil
}

// addTradeCommands adds trade logging commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	tradeCmd := &cobra.Command{
		Use:   "trade",
		Short: "Log and manage trades",
	}

	tradeCmd.AddCommand(newTradeLogCmd(app))
	tradeCmd.AddCommand(newTradeListCmd(app))
	tradeCmd.AddCommand(newTradeDeleteCmd(app))
	tradeCmd.AddCommand(newTradeImportCmd(app))
	tradeCmd.AddCommand(newTradeExportCmd(app))

	rootCmd.AddCommand(tradeCmd)
}

func newTradeLogCmd(app *App) *cobra.Command {
	var (
		pnlFlag    float64
		rrFlag     float64
		lossRRFlag float64
		resultFlag string
		moodFlag   string
		whenFlag   string
		tagsFlag   []string
		excludeFlag bool
		classFlags []string
	)

	cmd := &cobra.Command{
		Use:     "log <symbol> <long|short>",
		Aliases: []string{"add"},
		Short:   "Log a trade",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accountID := defaultAccountID(cmd, app)
			if accountID == "" {
				return apperrors.NewValidationError("account", "", "no account given and no default configured")
			}

			var direction models.Direction
			switch strings.ToUpper(args[1]) {
			case "LONG":
				direction = models.DirectionLong
			case "SHORT":
				direction = models.DirectionShort
			default:
				return apperrors.NewValidationError("direction", args[1], "must be long or short")
			}

			entryTime := time.Now().In(app.location())
			if whenFlag != "" {
				parsed, err := parseWhen(whenFlag, app.location())
				if err != nil {
					return err
				}
				entryTime = parsed
			}

			trade := &models.Trade{
				AccountID:  accountID,
				Symbol:     strings.ToUpper(args[0]),
				Direction:  direction,
				EntryTime:  entryTime,
				RiskReward: rrFlag,
				Tags:       tagsFlag,

				ExcludeFromAnalytics: excludeFlag,
			}
			if cmd.Flags().Changed("pnl") {
				trade.PnL = &pnlFlag
			}
			if cmd.Flags().Changed("loss-rr") {
				trade.LossRR = &lossRRFlag
			}
			if resultFlag != "" {
				switch res := models.TradeResult(strings.ToUpper(resultFlag)); res {
				case models.ResultWin, models.ResultLoss, models.ResultBreakeven:
					trade.Result = &res
				default:
					return apperrors.NewValidationError("result", resultFlag, "must be win, loss, or breakeven")
				}
			}
			if moodFlag != "" {
				mood := models.MoodType(strings.ToLower(moodFlag))
				if mood.Score() == 0 {
					return apperrors.NewValidationError("mood", moodFlag, "must be excellent, good, neutral, poor, or terrible")
				}
				trade.Mood = &mood
			}
			for _, cl := range classFlags {
				parts := strings.SplitN(cl, "=", 2)
				if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
					return apperrors.NewValidationError("classify", cl, "must be <category-id>=<option-id>")
				}
				if trade.Classifications == nil {
					trade.Classifications = make(map[string]string)
				}
				trade.Classifications[parts[0]] = parts[1]
			}

			if err := app.Store.SaveTrade(context.Background(), trade); err != nil {
				return err
			}
			logging.LogTradeLogged(app.Logger, trade.ID, trade.AccountID, trade.Symbol, trade.PnLValue())

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("✓ Logged %s %s (%s)", trade.Symbol, strings.ToLower(string(trade.Direction)), trade.ID)
			if trade.PnL != nil {
				output.Printf("  P&L: %s\n", output.FormatPnL(*trade.PnL))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&pnlFlag, "pnl", 0, "realized P&L")
	cmd.Flags().Float64Var(&rrFlag, "rr", 0, "risk-reward ratio as logged (positive)")
	cmd.Flags().Float64Var(&lossRRFlag, "loss-rr", 0, "loss size in R for losing trades (positive)")
	cmd.Flags().StringVar(&resultFlag, "result", "", "win, loss, or breakeven")
	cmd.Flags().StringVar(&moodFlag, "mood", "", "mood when logging (excellent..terrible)")
	cmd.Flags().StringVar(&whenFlag, "when", "", "entry time (YYYY-MM-DD or RFC3339, default now)")
	cmd.Flags().StringSliceVar(&tagsFlag, "tag", nil, "tags")
	cmd.Flags().BoolVar(&excludeFlag, "exclude", false, "keep out of win rate and RR statistics")
	cmd.Flags().StringSliceVar(&classFlags, "classify", nil, "classification as <category-id>=<option-id>")

	return cmd
}

// parseWhen accepts a bare day or a full RFC3339 timestamp.
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, apperrors.NewValidationError("when", s, "must be YYYY-MM-DD or RFC3339")
}

func newTradeListCmd(app *App) *cobra.Command {
	var (
		symbolFlag string
		limitFlag  int
		monthFlag  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			filter := store.TradeFilter{Symbol: strings.ToUpper(symbolFlag), Limit: limitFlag}
			if flagged, _ := cmd.Flags().GetStringSlice("account"); len(flagged) > 0 {
				filter.AccountIDs = flagged
			}
			if monthFlag != "" {
				start, err := time.ParseInLocation("2006-01", monthFlag, app.location())
				if err != nil {
					return apperrors.NewValidationError("month", monthFlag, "must be YYYY-MM")
				}
				filter.StartDate = start
				filter.EndDate = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
			}

			trades, err := app.Store.GetTrades(context.Background(), filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Dim("No trades found.")
				return nil
			}

			table := NewTable(output, "ID", "DATE", "ACCOUNT", "SYMBOL", "DIR", "P&L", "RR", "RESULT", "TAGS")
			for _, t := range trades {
				pnl := output.DimText("-")
				if t.PnL != nil {
					pnl = output.FormatPnL(*t.PnL)
				}
				result := ""
				if t.Result != nil {
					result = string(*t.Result)
				}
				if t.ExcludeFromAnalytics {
					result = output.DimText("excluded")
				}
				table.AddRow(
					TruncateString(t.ID, 8),
					FormatDate(t.EntryTime),
					t.AccountID,
					t.Symbol,
					string(t.Direction),
					pnl,
					fmt.Sprintf("%.2f", t.RiskReward),
					result,
					TruncateString(strings.Join(t.Tags, ","), 20),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&symbolFlag, "symbol", "", "filter by symbol")
	cmd.Flags().IntVar(&limitFlag, "limit", 50, "maximum trades to show")
	cmd.Flags().StringVar(&monthFlag, "month", "", "filter by month (YYYY-MM)")

	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)
			if err := app.Store.DeleteTrade(context.Background(), args[0]); err != nil {
				return err
			}
			output.Success("✓ Deleted trade %s", args[0])
			return nil
		},
	}
}

func newTradeImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import trades from CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			f, err := os.Open(args[0])
			if err != nil {
				return apperrors.Wrapf(err, "opening %s", args[0])
			}
			defer f.Close()

			trades, err := export.ReadTrades(f, args[0])
			if err != nil {
				logging.LogImport(app.Logger, args[0], 0, 0, err)
				return err
			}

			ctx := context.Background()
			imported := 0
			for i := range trades {
				if err := app.Store.SaveTrade(ctx, &trades[i]); err != nil {
					logging.LogImport(app.Logger, args[0], imported, len(trades)-imported, err)
					return err
				}
				imported++
			}
			logging.LogImport(app.Logger, args[0], imported, 0, nil)

			if output.IsJSON() {
				return output.JSON(map[string]int{"imported": imported})
			}
			output.Success("✓ Imported %d trades from %s", imported, args[0])
			return nil
		},
	}
}

func newTradeExportCmd(app *App) *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trades to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			filter := store.TradeFilter{}
			if flagged, _ := cmd.Flags().GetStringSlice("account"); len(flagged) > 0 {
				filter.AccountIDs = flagged
			}
			trades, err := app.Store.GetTrades(context.Background(), filter)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outFlag != "" {
				f, err := os.Create(outFlag)
				if err != nil {
					return apperrors.Wrapf(err, "creating %s", outFlag)
				}
				defer f.Close()
				w = f
			}

			if err := export.WriteTrades(w, trades); err != nil {
				return err
			}
			if outFlag != "" {
				output.Success("✓ Exported %d trades to %s", len(trades), outFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outFlag, "out", "", "output file (default stdout)")
	return cmd
}
