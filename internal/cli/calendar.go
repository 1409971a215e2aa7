package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/analytics"
	apperrors "tradebook/internal/errors"
	"tradebook/internal/store"
)

// addCalendarCommands adds the calendar view commands.
func addCalendarCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCalendarCmd(app))
}

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show the monthly trading calendar",
		Long: `Show a month as a Monday-start grid of trading days with P&L
heat coloring, plus a per-week summary over the month's own days.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)
			now := time.Now().In(app.location())

			year, month := now.Year(), now.Month()
			if len(args) == 1 {
				parsed, err := time.ParseInLocation("2006-01", args[0], app.location())
				if err != nil {
					return apperrors.NewValidationError("month", args[0], "must be YYYY-MM")
				}
				year, month = parsed.Year(), parsed.Month()
			}

			grid, err := app.buildMonthGrid(cmd, now, year, month)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(grid)
			}
			renderMonthGrid(output, grid)
			return nil
		},
	}
	return cmd
}

// buildMonthGrid loads the month's padded date range and assembles the grid.
func (app *App) buildMonthGrid(cmd *cobra.Command, now time.Time, year int, month time.Month) (analytics.MonthGrid, error) {
	ctx := context.Background()
	loc := now.Location()
	first, last := analytics.MonthBounds(year, month, loc)

	// Fetch one padding week on each side so other-month cells carry data.
	from := analytics.WeekStart(first)
	to := last.AddDate(0, 0, 7)

	trades, err := app.Store.GetTrades(ctx, store.TradeFilter{
		StartDate: from,
		EndDate:   to.AddDate(0, 0, 1),
	})
	if err != nil {
		return analytics.MonthGrid{}, err
	}
	notes, err := app.Store.GetQuickNotes(ctx, store.NoteFilter{
		StartDate: analytics.DayString(from),
		EndDate:   analytics.DayString(to),
	})
	if err != nil {
		return analytics.MonthGrid{}, err
	}
	reflections, err := app.Store.GetReflections(ctx, store.ReflectionFilter{
		StartDate: analytics.DayString(from),
		EndDate:   analytics.DayString(to),
	})
	if err != nil {
		return analytics.MonthGrid{}, err
	}

	in := analytics.CalendarInput{
		Trades:      trades,
		Notes:       notes,
		Reflections: reflections,
		Accounts:    accountSet(cmd, app, trades),
		Now:         now,
	}
	return analytics.BuildMonthGrid(in, year, month), nil
}

// renderMonthGrid prints the grid with one row per week and the weekly
// summary at the end of each row.
func renderMonthGrid(output *Output, grid analytics.MonthGrid) {
	output.Bold("%s", FormatMonth(grid.Year, grid.Month))
	output.Println()

	var maxAbs float64
	for _, day := range grid.Days() {
		if day.IsOtherMonth {
			continue
		}
		if a := day.PnL; a < 0 && -a > maxAbs {
			maxAbs = -a
		} else if a > maxAbs {
			maxAbs = a
		}
	}

	header := ""
	for _, wd := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		header += PadLeft(wd, 9)
	}
	output.Println(output.BoldText(header))

	for i, week := range grid.Weeks {
		line := ""
		for _, day := range week {
			cell := fmt.Sprintf("%2d", day.Date.Day())
			switch {
			case day.IsOtherMonth:
				cell = output.DimText(PadLeft(cell, 9))
			case day.TradesCount == 0:
				cell = PadLeft(cell, 9)
			default:
				band := analytics.HeatBand(day.PnL, maxAbs)
				marker := fmt.Sprintf("%2d %s", day.Date.Day(), FormatPnL(day.PnL))
				cell = output.BandCell(PadLeft(TruncateString(marker, 9), 9), band)
			}
			if day.IsToday {
				cell = output.BoldText(cell)
			}
			line += cell
		}

		ws := grid.Summaries[i]
		summary := fmt.Sprintf("  W%d %s", ws.WeekNumber, output.FormatPnL(ws.TotalPnL))
		if ws.ActiveDays > 0 {
			summary += output.DimText(fmt.Sprintf(" (%d trades, %s win)", ws.TradesCount, FormatWinRate(ws.WinRate)))
		}
		output.Println(line + summary)
	}

	output.Println()
	var monthPnL float64
	var monthTrades int
	for _, day := range grid.Days() {
		if !day.IsOtherMonth {
			monthPnL += day.PnL
			monthTrades += day.TradesCount
		}
	}
	output.Printf("Month total: %s over %d trades\n", output.FormatPnL(monthPnL), monthTrades)
}
