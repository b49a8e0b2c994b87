// Package root contains the root command for the application
package root

import (
	"spendlens/internal/categorizer"
	"spendlens/internal/common"
	"spendlens/internal/config"
	"spendlens/internal/csvparser"
	"spendlens/internal/logging"
	"spendlens/internal/report"
	"spendlens/internal/settings"
	"spendlens/internal/store"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Ledger string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg holds the loaded application configuration
	Cfg *config.Config

	// Store persists settings and user-supplied service definitions
	Store *store.SettingsStore

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "spendlens",
		Short: "A CLI tool to parse bank statement CSVs, categorize spending and track subscriptions.",
		Long: `spendlens parses bank statement CSV exports into a categorized ledger.
It classifies transactions through learned patterns and rules, flags duplicate
charges, detects recurring subscriptions and suggests categories for anything
it cannot classify on its own.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to spendlens!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
			logging.SetDefaultLogger(Log)

			// Propagate the configured logger to the engine packages
			csvparser.SetLogger(Log)
			common.SetLogger(Log)
			store.SetLogger(Log)
			report.SetLogger(Log)

			Store = store.NewSettingsStore(cfg.Data.SettingsFile, cfg.Data.ServicesFile)
			return nil
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific categorize command flags
	Merchant string
	Category string
	All      bool

	// Specific suggest command flags
	Description string
	Amount      string

	// Specific subscriptions command flags
	WindowDays int

	// Specific report command flags
	From string
	To   string
)

// BuildCategorizer constructs the classification pipeline from persisted
// settings, attaching the AI fallback only when it is enabled in config.
func BuildCategorizer(userCfg settings.Settings) *categorizer.Categorizer {
	var aiClient categorizer.AIClient
	if Cfg != nil && Cfg.AI.Enabled {
		aiClient = categorizer.NewGeminiClient(Cfg.AI.APIKey, Cfg.AI.Model, Log)
	}
	return categorizer.New(userCfg.SplitRules, userCfg.LearnedPatterns, userCfg.CustomRules, aiClient, Log)
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input statement CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Ledger, "ledger", "l", "ledger.csv", "Categorized ledger CSV file")
}
