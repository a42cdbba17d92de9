// Package accumulate handles the yearly cumulative fold command
package accumulate

import (
	"path/filepath"
	"time"

	cmdcommon "fjacquet/ledger-csv/cmd/common"
	"fjacquet/ledger-csv/cmd/root"
	"fjacquet/ledger-csv/internal/accumulator"
	"fjacquet/ledger-csv/internal/common"

	"github.com/spf13/cobra"
)

var yearFlag int

// Cmd represents the accumulate command
var Cmd = &cobra.Command{
	Use:   "accumulate",
	Short: "Fold the period's merged dataset into the yearly cumulative file",
	Long: `Accumulate folds the period's merged dataset into
agentic_cumulative_dataset_<year>.csv in the parent directory. The first
accumulated period seeds the file; later periods are appended with exact
duplicates skipped, so re-running a period leaves the file unchanged.`,
	Run: accumulateFunc,
}

func init() {
	Cmd.Flags().IntVarP(&yearFlag, "year", "y", 0, "Cumulative dataset year (defaults to the target period's year)")
}

func accumulateFunc(cmd *cobra.Command, args []string) {
	periodDir := root.SharedFlags.PeriodDir
	period, err := cmdcommon.ResolvePeriod(periodDir, root.SharedFlags.Period)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}

	year := yearFlag
	if year == 0 {
		year = period.Year
	}
	parentDir := filepath.Dir(periodDir)

	staleAfter := time.Duration(root.Cfg.Locking.StaleAfterMinutes) * time.Minute
	a := accumulator.New(staleAfter, root.Log)
	result, err := a.AccumulateDir(periodDir, parentDir, year)
	if err != nil {
		root.Log.Fatalf("Accumulation failed: %v", err)
	}

	cumulativeFile := common.CumulativeFile(parentDir, year)
	passed, err := cmdcommon.Gate(root.Log, cumulativeFile)
	if err != nil {
		root.Log.Fatalf("Validation gate failed to run: %v", err)
	}
	if !passed {
		root.Log.Fatal("Validation gate found blocking defects in cumulative output")
	}

	if result.Duplicates > 0 {
		root.Log.Info("Skipped rows already present in the cumulative dataset")
	}
	root.Log.Info("Accumulation completed successfully!")
}
