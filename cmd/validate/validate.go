// Package validate handles the standalone dataset validation command
package validate

import (
	"fmt"
	"os"

	cmdcommon "fjacquet/ledger-csv/cmd/common"
	"fjacquet/ledger-csv/cmd/root"
	"fjacquet/ledger-csv/internal/validator"

	"github.com/spf13/cobra"
)

// Exit codes: 0 when every check passes, 2 when any blocking finding was
// raised, 1 when only warnings were raised.
const (
	exitPass     = 0
	exitWarnings = 1
	exitBlocking = 2
)

var checkFlag string

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Run the validation checks over dataset or markup files",
	Long: `Validate runs checks over the given files: structure and balance
continuity for CSV datasets, markup well-formedness for HTML artifacts.
By default the applicable checks are chosen per file; --check restricts
the run to a single check. Findings are printed per file.`,
	Args: cobra.MinimumNArgs(1),
	Run:  validateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&checkFlag, "check", "c", "", "Run only one check: structure, balance or markup")
}

func validateFunc(cmd *cobra.Command, args []string) {
	reports, err := runReports(args)
	if err != nil {
		root.Log.Fatalf("Validation failed to run: %v", err)
	}

	exitCode := exitPass
	for _, report := range reports {
		fmt.Println(report.String())
		if report.HasBlocking() {
			exitCode = exitBlocking
		} else if !report.OK() && exitCode == exitPass {
			exitCode = exitWarnings
		}
	}
	os.Exit(exitCode)
}

func runReports(files []string) ([]*validator.Report, error) {
	if checkFlag == "" {
		return cmdcommon.Reports(files...)
	}

	check, err := checkFn(checkFlag)
	if err != nil {
		return nil, err
	}
	var reports []*validator.Report
	for _, file := range files {
		report, err := check(file)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func checkFn(name string) (func(string) (*validator.Report, error), error) {
	switch name {
	case "structure":
		return validator.ValidateStructure, nil
	case "balance":
		return validator.ValidateBalanceContinuity, nil
	case "markup":
		return validator.ValidateMarkup, nil
	}
	return nil, fmt.Errorf("unknown check %q, want structure, balance or markup", name)
}
