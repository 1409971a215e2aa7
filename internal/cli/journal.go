package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/analytics"
	apperrors "tradebook/internal/errors"
	"tradebook/internal/logging"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// addJournalCommands adds note, reflection, review, tally, and streak
// commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newNoteCmd(app))
	rootCmd.AddCommand(newReflectCmd(app))
	rootCmd.AddCommand(newReviewCmd(app))
	rootCmd.AddCommand(newTallyCmd(app))
	rootCmd.AddCommand(newStreakCmd(app))
}

// journalDay resolves the --date flag, defaulting to today.
func journalDay(cmd *cobra.Command, loc *time.Location) (string, error) {
	dateFlag, _ := cmd.Flags().GetString("date")
	if dateFlag == "" {
		return analytics.DayString(time.Now().In(loc)), nil
	}
	if _, err := time.ParseInLocation(analytics.DayFormat, dateFlag, loc); err != nil {
		return "", apperrors.NewValidationError("date", dateFlag, "must be YYYY-MM-DD")
	}
	return dateFlag, nil
}

func newNoteCmd(app *App) *cobra.Command {
	noteCmd := &cobra.Command{
		Use:   "note",
		Short: "Quick notes on calendar days",
	}

	addCmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a quick note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accountID := defaultAccountID(cmd, app)
			if accountID == "" {
				return apperrors.NewValidationError("account", "", "no account given and no default configured")
			}
			date, err := journalDay(cmd, app.location())
			if err != nil {
				return err
			}
			tags, _ := cmd.Flags().GetStringSlice("tag")

			note := &models.QuickNote{
				AccountID: accountID,
				Date:      date,
				Content:   strings.Join(args, " "),
				Tags:      tags,
			}
			if err := app.Store.SaveQuickNote(context.Background(), note); err != nil {
				return err
			}
			output.Success("✓ Note added for %s", date)
			return nil
		},
	}
	addCmd.Flags().String("date", "", "day the note belongs to (YYYY-MM-DD, default today)")
	addCmd.Flags().StringSlice("tag", nil, "tags")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List quick notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			filter := store.NoteFilter{Limit: 50}
			if dateFlag, _ := cmd.Flags().GetString("date"); dateFlag != "" {
				filter.Date = dateFlag
			}
			if flagged, _ := cmd.Flags().GetStringSlice("account"); len(flagged) > 0 {
				filter.AccountIDs = flagged
			}

			notes, err := app.Store.GetQuickNotes(context.Background(), filter)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(notes)
			}
			if len(notes) == 0 {
				output.Dim("No notes found.")
				return nil
			}
			for _, n := range notes {
				output.Printf("%s  %s  %s\n", output.DimText(n.Date), n.Content, output.DimText(strings.Join(n.Tags, ",")))
			}
			return nil
		},
	}
	listCmd.Flags().String("date", "", "filter by day (YYYY-MM-DD)")

	noteCmd.AddCommand(addCmd, listCmd)
	return noteCmd
}

func newReflectCmd(app *App) *cobra.Command {
	reflectCmd := &cobra.Command{
		Use:   "reflect",
		Short: "Daily reflections",
	}

	saveCmd := &cobra.Command{
		Use:   "save <text>",
		Short: "Save the day's reflection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accountID := defaultAccountID(cmd, app)
			if accountID == "" {
				return apperrors.NewValidationError("account", "", "no account given and no default configured")
			}
			date, err := journalDay(cmd, app.location())
			if err != nil {
				return err
			}

			focus, _ := cmd.Flags().GetString("focus")
			draft, _ := cmd.Flags().GetBool("draft")
			moodFlag, _ := cmd.Flags().GetString("mood")

			reflection := &models.DailyReflection{
				AccountID:  accountID,
				Date:       date,
				Reflection: strings.Join(args, " "),
				KeyFocus:   focus,
				IsComplete: !draft,
			}
			if moodFlag != "" {
				mood := models.MoodType(strings.ToLower(moodFlag))
				if mood.Score() == 0 {
					return apperrors.NewValidationError("mood", moodFlag, "must be excellent, good, neutral, poor, or terrible")
				}
				reflection.Mood = &mood
			}

			if err := app.Store.SaveReflection(context.Background(), reflection); err != nil {
				return err
			}
			logging.LogReflection(app.Logger, accountID, date, reflection.IsComplete)

			if reflection.IsComplete {
				output.Success("✓ Reflection saved for %s", date)
			} else {
				output.Info("Draft reflection saved for %s", date)
			}
			return nil
		},
	}
	saveCmd.Flags().String("date", "", "day being reflected on (YYYY-MM-DD, default today)")
	saveCmd.Flags().String("focus", "", "key focus for tomorrow")
	saveCmd.Flags().String("mood", "", "mood (excellent..terrible)")
	saveCmd.Flags().Bool("draft", false, "save without marking complete")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show recent reflections",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			filter := store.ReflectionFilter{}
			if flagged, _ := cmd.Flags().GetStringSlice("account"); len(flagged) > 0 {
				filter.AccountIDs = flagged
			}
			reflections, err := app.Store.GetReflections(context.Background(), filter)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(reflections)
			}
			if len(reflections) == 0 {
				output.Dim("No reflections yet.")
				return nil
			}
			for _, r := range reflections {
				status := output.Green("complete")
				if !r.IsComplete {
					status = output.Yellow("draft")
				}
				output.Printf("%s [%s]\n", output.BoldText(r.Date), status)
				output.Printf("  %s\n", r.Reflection)
				if r.KeyFocus != "" {
					output.Printf("  Focus: %s\n", r.KeyFocus)
				}
			}
			return nil
		},
	}

	reflectCmd.AddCommand(saveCmd, showCmd)
	return reflectCmd
}

func newReviewCmd(app *App) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Weekly reviews",
	}

	saveCmd := &cobra.Command{
		Use:   "save <text>",
		Short: "Save the current week's review",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accountID := defaultAccountID(cmd, app)
			if accountID == "" {
				return apperrors.NewValidationError("account", "", "no account given and no default configured")
			}

			weekStart := analytics.DayString(analytics.WeekStart(time.Now().In(app.location())))
			if weekFlag, _ := cmd.Flags().GetString("week"); weekFlag != "" {
				parsed, err := time.ParseInLocation(analytics.DayFormat, weekFlag, app.location())
				if err != nil {
					return apperrors.NewValidationError("week", weekFlag, "must be YYYY-MM-DD")
				}
				weekStart = analytics.DayString(analytics.WeekStart(parsed))
			}

			review := &models.WeeklyReview{
				AccountID:  accountID,
				WeekStart:  weekStart,
				Content:    strings.Join(args, " "),
				IsComplete: true,
			}
			if err := app.Store.SaveWeeklyReview(context.Background(), review); err != nil {
				return err
			}
			output.Success("✓ Review saved for week of %s", weekStart)
			return nil
		},
	}
	saveCmd.Flags().String("week", "", "any day inside the reviewed week (YYYY-MM-DD)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List weekly reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accountID := defaultAccountID(cmd, app)
			reviews, err := app.Store.GetWeeklyReviews(context.Background(), accountID, 12)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(reviews)
			}
			if len(reviews) == 0 {
				output.Dim("No reviews yet.")
				return nil
			}
			for _, r := range reviews {
				output.Printf("%s  %s\n", output.BoldText("Week of "+r.WeekStart), r.Content)
			}
			return nil
		},
	}

	reviewCmd.AddCommand(saveCmd, listCmd)
	return reviewCmd
}

func newTallyCmd(app *App) *cobra.Command {
	tallyCmd := &cobra.Command{
		Use:     "tally",
		Aliases: []string{"habit"},
		Short:   "Discipline rules and daily tallies",
	}

	ruleCmd := &cobra.Command{
		Use:   "rule <label>",
		Short: "Create a tally rule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accountID := defaultAccountID(cmd, app)
			if accountID == "" {
				return apperrors.NewValidationError("account", "", "no account given and no default configured")
			}
			emoji, _ := cmd.Flags().GetString("emoji")

			rule := &models.TallyRule{
				AccountID: accountID,
				Label:     strings.Join(args, " "),
				Emoji:     emoji,
			}
			if err := app.Store.SaveTallyRule(context.Background(), rule); err != nil {
				return err
			}
			output.Success("✓ Rule created: %s (%s)", rule.Label, rule.ID)
			return nil
		},
	}
	ruleCmd.Flags().String("emoji", "", "display emoji")

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "List tally rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accountID := defaultAccountID(cmd, app)
			rules, err := app.Store.GetTallyRules(context.Background(), accountID)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(rules)
			}
			if len(rules) == 0 {
				output.Dim("No rules yet.")
				return nil
			}
			for _, r := range rules {
				output.Printf("%s %s  %s\n", r.Emoji, r.Label, output.DimText(r.ID))
			}
			return nil
		},
	}

	markCmd := &cobra.Command{
		Use:   "mark <rule-id>",
		Short: "Tally a rule for the day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accountID := defaultAccountID(cmd, app)
			if accountID == "" {
				return apperrors.NewValidationError("account", "", "no account given and no default configured")
			}
			date, err := journalDay(cmd, app.location())
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetInt("count")

			log := &models.TallyLog{
				RuleID:     args[0],
				AccountID:  accountID,
				Date:       date,
				TallyCount: count,
			}
			if err := app.Store.SaveTallyLog(context.Background(), log); err != nil {
				return err
			}
			output.Success("✓ Tallied %d for %s on %s", count, args[0], date)
			return nil
		},
	}
	markCmd.Flags().String("date", "", "day the tally belongs to (YYYY-MM-DD, default today)")
	markCmd.Flags().Int("count", 1, "tally count for the day")

	tallyCmd.AddCommand(ruleCmd, rulesCmd, markCmd)
	return tallyCmd
}

func newStreakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Reflection and rule streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)
			ctx := context.Background()
			now := time.Now().In(app.location())

			reflections, err := app.Store.GetReflections(ctx, store.ReflectionFilter{})
			if err != nil {
				return err
			}
			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{})
			if err != nil {
				return err
			}
			accounts := accountSet(cmd, app, trades)

			reflectionStreak := analytics.ReflectionStreak(reflections, accounts, now)

			accountID := defaultAccountID(cmd, app)
			rules, err := app.Store.GetTallyRules(ctx, accountID)
			if err != nil {
				return err
			}
			logs, err := app.Store.GetTallyLogs(ctx, store.TallyFilter{})
			if err != nil {
				return err
			}

			type ruleStreak struct {
				RuleID string `json:"rule_id"`
				Label  string `json:"label"`
				Streak int    `json:"streak"`
			}
			ruleStreaks := make([]ruleStreak, 0, len(rules))
			for _, r := range rules {
				ruleStreaks = append(ruleStreaks, ruleStreak{
					RuleID: r.ID,
					Label:  r.Label,
					Streak: analytics.RuleStreak(logs, r.ID, accounts, now),
				})
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"reflection_streak": reflectionStreak,
					"rule_streaks":      ruleStreaks,
				})
			}

			output.Bold("Streaks")
			output.Printf("  Reflections: %d day(s)\n", reflectionStreak)
			for _, rs := range ruleStreaks {
				output.Printf("  %s: %d day(s)\n", rs.Label, rs.Streak)
			}
			return nil
		},
	}
}
