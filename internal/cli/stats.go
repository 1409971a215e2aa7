package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/analytics"
	apperrors "tradebook/internal/errors"
	"tradebook/internal/store"
)

// addStatsCommands adds performance statistics commands.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Performance statistics",
	}

	statsCmd.AddCommand(newStatsSummaryCmd(app))
	statsCmd.AddCommand(newStatsHoursCmd(app))
	statsCmd.AddCommand(newStatsWeekdaysCmd(app))

	rootCmd.AddCommand(statsCmd)
}

// statsPeriod resolves the [from, to] range from flags; defaults to the
// current month.
func statsPeriod(cmd *cobra.Command, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	monthFlag, _ := cmd.Flags().GetString("month")
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")

	if monthFlag != "" {
		start, err := time.ParseInLocation("2006-01", monthFlag, loc)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("month", monthFlag, "must be YYYY-MM")
		}
		return start, start.AddDate(0, 1, -1), nil
	}

	from, to := analytics.DayKey(now).AddDate(0, 0, -analytics.DayKey(now).Day()+1), analytics.DayKey(now)
	if fromFlag != "" {
		parsed, err := time.ParseInLocation(analytics.DayFormat, fromFlag, loc)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("from", fromFlag, "must be YYYY-MM-DD")
		}
		from = parsed
	}
	if toFlag != "" {
		parsed, err := time.ParseInLocation(analytics.DayFormat, toFlag, loc)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("to", toFlag, "must be YYYY-MM-DD")
		}
		to = parsed
	}
	return from, to, nil
}

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("month", "", "limit to a month (YYYY-MM)")
	cmd.Flags().String("from", "", "period start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "period end (YYYY-MM-DD)")
}

func newStatsSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate P&L, win rate, and average RR for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)
			now := time.Now().In(app.location())

			from, to, err := statsPeriod(cmd, app.location(), now)
			if err != nil {
				return err
			}

			trades, err := app.Store.GetTrades(context.Background(), store.TradeFilter{
				StartDate: from,
				EndDate:   to.AddDate(0, 0, 1),
			})
			if err != nil {
				return err
			}

			accounts := accountSet(cmd, app, trades)
			ps := analytics.SummarizePeriod(trades, accounts, from, to)

			if output.IsJSON() {
				return output.JSON(ps)
			}

			output.Bold("Performance %s to %s", FormatDate(from), FormatDate(to))
			output.Printf("  Net P&L:      %s\n", output.FormatPnL(ps.PnLSum))
			output.Printf("  Trades:       %d (%d countable)\n", ps.TradeCount, ps.CountableCount)
			output.Printf("  Record:       %dW / %dL / %dS\n", ps.Wins, ps.Losses, ps.Scratches)
			output.Printf("  Win Rate:     %s\n", FormatWinRate(ps.WinRate))
			output.Printf("  Avg RR:       %s\n", FormatRR(ps.AvgRR))
			output.Printf("  Active Days:  %d\n", ps.ActiveDays)
			return nil
		},
	}
	addPeriodFlags(cmd)
	return cmd
}

func newStatsHoursCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Per-hour performance heatmap",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			trades, err := app.Store.GetTrades(context.Background(), store.TradeFilter{})
			if err != nil {
				return err
			}
			accounts := accountSet(cmd, app, trades)
			hourly := analytics.HourlyStats(trades, accounts)

			if output.IsJSON() {
				return output.JSON(hourly)
			}
			renderBuckets(output, hourly[:], func(b int) string {
				return fmt.Sprintf("%02d:00", b)
			})
			return nil
		},
	}
	return cmd
}

func newStatsWeekdaysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekdays",
		Short: "Per-weekday performance heatmap",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			trades, err := app.Store.GetTrades(context.Background(), store.TradeFilter{})
			if err != nil {
				return err
			}
			accounts := accountSet(cmd, app, trades)
			weekdays := analytics.WeekdayStats(trades, accounts)

			if output.IsJSON() {
				return output.JSON(weekdays)
			}
			renderBuckets(output, weekdays[:], func(b int) string {
				return time.Weekday(b).String()
			})
			return nil
		},
	}
	return cmd
}

// renderBuckets renders bucket stats as a heat-colored table, skipping
// buckets that never traded.
func renderBuckets(output *Output, stats []analytics.BucketStats, label func(int) string) {
	maxAbs := analytics.MaxAbsPnL(stats)

	table := NewTable(output, "BUCKET", "P&L", "TRADES", "WIN RATE", "AVG RR", "HEAT")
	for _, s := range stats {
		if s.TradeCount == 0 {
			continue
		}
		band := analytics.HeatBand(s.PnLSum, maxAbs)
		heat := output.BandCell(strings.Repeat("█", band.Intensity()), band)
		table.AddRow(
			label(s.Bucket),
			output.FormatPnL(s.PnLSum),
			fmt.Sprintf("%d", s.TradeCount),
			FormatWinRate(s.WinRate),
			FormatRR(s.AvgRR),
			heat,
		)
	}
	table.Render()
}
