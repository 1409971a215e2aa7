// Package cli provides the command-line interface for the trading journal.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradebook/internal/analytics"
	"tradebook/internal/config"
	"tradebook/internal/logging"
	"tradebook/internal/models"
	"tradebook/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-08-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	SetCurrencySymbol(cfg.Journal.Currency)

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tradebook",
		Short: "Tradebook - personal trading journal and analytics CLI",
		Long: `Tradebook is a personal trading journal for logging trades, daily
reflections, and discipline tallies, with calendar and performance analytics.

Use 'tradebook help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradebook)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringSlice("account", nil, "account IDs to include (default: active accounts)")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addCalendarCommands(rootCmd, app)
	addStatsCommands(rootCmd, app)
	addClassifyCommands(rootCmd, app)
	addJournalCommands(rootCmd, app)

	return rootCmd
}

// accountSet resolves the accounts an invocation aggregates over: explicit
// --account flags win, then the configured active accounts, then every
// account present in the given trades.
func accountSet(cmd *cobra.Command, app *App, trades []models.Trade) analytics.AccountSet {
	if flagged, _ := cmd.Flags().GetStringSlice("account"); len(flagged) > 0 {
		return analytics.NewAccountSet(flagged...)
	}
	if ids := app.Config.ActiveAccountIDs(); len(ids) > 0 {
		return analytics.NewAccountSet(ids...)
	}
	set := make(analytics.AccountSet)
	for _, t := range trades {
		set[t.AccountID] = true
	}
	return set
}

// defaultAccountID resolves the account a write operation targets.
func defaultAccountID(cmd *cobra.Command, app *App) string {
	if flagged, _ := cmd.Flags().GetStringSlice("account"); len(flagged) > 0 {
		return flagged[0]
	}
	return app.Config.Journal.DefaultAccount
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Tradebook v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Journal Configuration")
	output.Printf("  Default Account: %s\n", cfg.Journal.DefaultAccount)
	output.Printf("  Default Risk:    %.1fR\n", cfg.Journal.DefaultRisk)
	output.Printf("  Timezone:        %s\n", cfg.Journal.Timezone)
	output.Printf("  Currency:        %s\n", cfg.Journal.Currency)
	output.Println()

	output.Bold("Accounts")
	if len(cfg.Accounts) == 0 {
		output.Dim("  none configured")
	}
	for _, a := range cfg.Accounts {
		status := "inactive"
		if a.Active {
			status = "active"
		}
		output.Printf("  %s  %s (%s)\n", a.ID, a.Name, status)
	}
	output.Println()

	output.Bold("Database")
	output.Printf("  Path: %s\n", cfg.Database.Path)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:   %s\n", cfg.Logging.Level)
	output.Printf("  Console: %v\n", cfg.Logging.Console)
	output.Printf("  File:    %v\n", cfg.Logging.File)

	return nil
}
