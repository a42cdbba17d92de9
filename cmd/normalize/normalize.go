// Package normalize handles the raw-to-canonical conversion command
package normalize

import (
	cmdcommon "fjacquet/ledger-csv/cmd/common"
	"fjacquet/ledger-csv/cmd/root"
	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/normalizer"

	"github.com/spf13/cobra"
)

var accountFlag string

// Cmd represents the normalize command
var Cmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize raw bank exports into the canonical schema",
	Long: `Normalize converts every raw_<account>.csv in the period directory
into normalized_<account>.csv, cleaning descriptions, standardizing dates
and amounts and dropping rows outside the target period. Each output is
run through the validation gate before the command succeeds.`,
	Run: normalizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&accountFlag, "account", "a", "", "Only normalize this account's raw export")
}

func normalizeFunc(cmd *cobra.Command, args []string) {
	periodDir := root.SharedFlags.PeriodDir
	period, err := cmdcommon.ResolvePeriod(periodDir, root.SharedFlags.Period)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}

	accounts := []string{accountFlag}
	if accountFlag == "" {
		accounts, err = common.ListRawAccounts(periodDir)
		if err != nil {
			root.Log.Fatalf("Error listing raw exports: %v", err)
		}
		if len(accounts) == 0 {
			root.Log.Fatalf("No raw_<account>.csv files in %s", periodDir)
		}
	}

	n := normalizer.New(root.Cfg.Normalize.DropThreshold, root.Log)
	var outputs []string
	for _, account := range accounts {
		inputFile := common.RawFile(periodDir, account)
		outputFile := common.NormalizedFile(periodDir, account)
		result, err := n.ConvertFile(inputFile, outputFile, account, period)
		if err != nil {
			root.Log.Fatalf("Normalizing %s failed: %v", inputFile, err)
		}
		if result.Filtered > 0 {
			root.Log.Info("Filtered rows outside target period",
				logging.Field{Key: logging.FieldAccount, Value: account},
				logging.Field{Key: logging.FieldCount, Value: result.Filtered})
		}
		outputs = append(outputs, outputFile)
	}

	passed, err := cmdcommon.Gate(root.Log, outputs...)
	if err != nil {
		root.Log.Fatalf("Validation gate failed to run: %v", err)
	}
	if !passed {
		root.Log.Fatal("Validation gate found blocking defects in normalized output")
	}
	root.Log.Info("Normalization completed successfully!")
}
