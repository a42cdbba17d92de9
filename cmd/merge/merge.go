// Package merge handles the per-period account merge command
package merge

import (
	"time"

	cmdcommon "fjacquet/ledger-csv/cmd/common"
	"fjacquet/ledger-csv/cmd/root"
	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/merger"

	"github.com/spf13/cobra"
)

// Cmd represents the merge command
var Cmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the period's normalized datasets into one file",
	Long: `Merge combines every normalized_<account>.csv in the period directory
into a single merged dataset, sorted by date with the newest first. The
merge is deterministic: the same inputs always produce a byte-identical
file. Duplicate-looking rows and date gaps are reported as warnings, never
removed.`,
	Run: mergeFunc,
}

func mergeFunc(cmd *cobra.Command, args []string) {
	periodDir := root.SharedFlags.PeriodDir

	staleAfter := time.Duration(root.Cfg.Locking.StaleAfterMinutes) * time.Minute
	m := merger.New(staleAfter, root.Log)
	result, err := m.MergeDir(periodDir)
	if err != nil {
		root.Log.Fatalf("Merge failed: %v", err)
	}

	outputFile := common.MergedFile(periodDir)
	passed, err := cmdcommon.Gate(root.Log, outputFile)
	if err != nil {
		root.Log.Fatalf("Validation gate failed to run: %v", err)
	}
	if !passed {
		root.Log.Fatal("Validation gate found blocking defects in merged output")
	}

	if len(result.Warnings) > 0 {
		root.Log.Info("Merge completed with warnings, see above")
	}
	root.Log.Info("Merge completed successfully!")
}
