// Package root contains the root command for the application
package root

import (
	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/config"
	"fjacquet/ledger-csv/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by the pipeline commands.
type CommonFlags struct {
	PeriodDir string // period directory holding the per-account files
	Period    string // target period as YYYY-MM
}

var (
	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.GetLogger()

	// Cfg is the resolved application configuration.
	Cfg *config.Config

	// SharedFlags holds the flag values common to the pipeline commands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "ledger-csv",
		Short: "A CLI tool to normalize, categorize and merge bank transaction exports.",
		Long: `ledger-csv turns heterogeneous bank CSV exports into one canonical,
categorized transaction dataset. It normalizes per-account exports,
categorizes them with ordered keyword rules, merges the accounts of a
period and folds periods into one cumulative dataset per year, running
a validation gate after every stage.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ledger-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Invalid configuration: %v", err)
			}
			Cfg = cfg

			logrusLogger := config.ConfigureLoggingFromConfig(cfg)
			Log = logging.NewLogrusAdapterFromLogger(logrusLogger)
			logging.SetDefaultLogger(Log)
			common.SetLogger(Log)

			if cfg.CSV.Delimiter != "" {
				common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
			}
		},
	}
)

// Init registers the persistent flags shared by the pipeline commands.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.PeriodDir, "dir", "d", ".", "Period directory holding the per-account files")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Period, "period", "p", "", "Target period as YYYY-MM (defaults to the period directory name)")
}
