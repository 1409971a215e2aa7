package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tradebook/internal/analytics"
	apperrors "tradebook/internal/errors"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// addClassifyCommands adds classification taxonomy and breakdown commands.
func addClassifyCommands(rootCmd *cobra.Command, app *App) {
	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "Classification categories and breakdowns",
	}

	classifyCmd.AddCommand(newCategoryAddCmd(app))
	classifyCmd.AddCommand(newCategoryListCmd(app))
	classifyCmd.AddCommand(newCategoryDeleteCmd(app))
	classifyCmd.AddCommand(newBreakdownCmd(app))

	rootCmd.AddCommand(classifyCmd)
}

func newCategoryAddCmd(app *App) *cobra.Command {
	var optionFlags []string

	cmd := &cobra.Command{
		Use:   "add <category-name>",
		Short: "Create a classification category with ordered options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			if len(optionFlags) == 0 {
				return apperrors.NewValidationError("option", "", "at least one --option is required")
			}

			category := &models.ClassificationCategory{Name: args[0]}
			for i, name := range optionFlags {
				category.Options = append(category.Options, models.ClassificationOption{
					Name:  name,
					Order: i,
				})
			}

			if err := app.Store.SaveCategory(context.Background(), category); err != nil {
				return err
			}
			app.Logger.Info().Str("category_id", category.ID).Str("name", category.Name).Msg("Category created")

			if output.IsJSON() {
				return output.JSON(category)
			}
			output.Success("✓ Created category %q (%s) with %d options", category.Name, category.ID, len(category.Options))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&optionFlags, "option", nil, "option names in display order")
	return cmd
}

func newCategoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List classification categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			categories, err := app.Store.GetCategories(context.Background())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(categories)
			}
			if len(categories) == 0 {
				output.Dim("No categories defined.")
				return nil
			}
			for _, cat := range categories {
				output.Bold("%s (%s)", cat.Name, cat.ID)
				for _, opt := range cat.Options {
					output.Printf("  %d. %s (%s)\n", opt.Order+1, opt.Name, opt.ID)
				}
			}
			return nil
		},
	}
}

func newCategoryDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a classification category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)
			if err := app.Store.DeleteCategory(context.Background(), args[0]); err != nil {
				return err
			}
			output.Success("✓ Deleted category %s", args[0])
			output.Dim("Trades keep their references; they simply stop matching.")
			return nil
		},
	}
}

func newBreakdownCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Per-option performance for every category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)
			ctx := context.Background()

			categories, err := app.Store.GetCategories(ctx)
			if err != nil {
				return err
			}
			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{})
			if err != nil {
				return err
			}

			accounts := accountSet(cmd, app, trades)
			breakdown := analytics.ClassificationBreakdown(categories, trades, accounts)

			if output.IsJSON() {
				return output.JSON(breakdown)
			}
			if len(breakdown) == 0 {
				output.Dim("No categories defined.")
				return nil
			}

			for _, cs := range breakdown {
				output.Bold("%s: %d classified trades", cs.CategoryName, cs.TotalTrades)
				table := NewTable(output, "OPTION", "TRADES", "P&L", "WIN RATE", "AVG RR")
				for _, opt := range cs.Options {
					table.AddRow(
						opt.OptionName,
						fmt.Sprintf("%d", opt.TradeCount),
						output.FormatPnL(opt.PnLSum),
						FormatWinRate(opt.WinRate),
						FormatRR(opt.AvgRR),
					)
				}
				table.Render()
				output.Println()
			}
			return nil
		},
	}
	return cmd
}
