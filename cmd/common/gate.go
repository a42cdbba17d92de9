// Package common holds helpers shared by the pipeline commands.
package common

import (
	"fmt"
	"path/filepath"
	"strings"

	pipecommon "fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/dateutils"
	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/validator"
)

// ResolvePeriod determines the target period from the --period flag, falling
// back to the period directory's base name (the layout names period
// directories YYYY-MM).
func ResolvePeriod(periodDir, periodFlag string) (dateutils.Period, error) {
	value := periodFlag
	if value == "" {
		value = filepath.Base(periodDir)
	}
	period, err := dateutils.ParsePeriod(value)
	if err != nil {
		return dateutils.Period{}, fmt.Errorf("cannot determine target period from %q, pass --period YYYY-MM: %w", value, err)
	}
	return period, nil
}

// Gate runs the validation gate over dataset files after a pipeline stage.
// CSV files get the structure and balance-continuity checks, markup files
// the markup check. It returns true when no blocking finding was raised;
// warnings are logged but pass.
func Gate(logger logging.Logger, files ...string) (bool, error) {
	reports, err := runChecks(files)
	if err != nil {
		return false, err
	}

	passed := true
	for _, report := range reports {
		if report.OK() {
			continue
		}
		if report.HasBlocking() {
			passed = false
		}
		for _, line := range strings.Split(strings.TrimSpace(report.String()), "\n") {
			if report.HasBlocking() {
				logger.Error(line)
			} else {
				logger.Warn(line)
			}
		}
	}
	return passed, nil
}

// Reports runs every applicable check on the given files and returns the raw
// reports, for callers that need finding-level detail.
func Reports(files ...string) ([]*validator.Report, error) {
	return runChecks(files)
}

func runChecks(files []string) ([]*validator.Report, error) {
	var reports []*validator.Report
	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".html", ".htm", ".xhtml":
			report, err := validator.ValidateMarkup(file)
			if err != nil {
				return nil, err
			}
			reports = append(reports, report)
		default:
			structure, err := validator.ValidateStructure(file)
			if err != nil {
				return nil, err
			}
			reports = append(reports, structure)

			// Balance continuity is account-scoped, so it only applies to
			// per-account files. Merged and cumulative datasets interleave
			// accounts and would trip it by construction.
			if _, perAccount := pipecommon.AccountFromFilename(file); !perAccount {
				continue
			}
			balance, err := validator.ValidateBalanceContinuity(file)
			if err != nil {
				return nil, err
			}
			reports = append(reports, balance)
		}
	}
	return reports, nil
}
