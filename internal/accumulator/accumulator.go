// Package accumulator folds a period's merged dataset into the yearly
// cumulative dataset.
//
// The fold is idempotent: rows already present in the cumulative dataset are
// skipped, so accumulating the same period twice leaves the file unchanged.
package accumulator

import (
	"os"
	"sort"
	"time"

	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/lockfile"
	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/models"
	"fjacquet/ledger-csv/internal/pipelineerror"
)

// Result is the outcome of one accumulation run.
type Result struct {
	Total      int // rows in the cumulative dataset after the fold
	Added      int
	Duplicates int // incoming rows skipped as already present
	Warnings   []Warning
}

// Warning is anything the fold flags without failing.
type Warning interface {
	Warning() string
}

// Accumulator folds merged period datasets into the yearly cumulative file.
type Accumulator struct {
	staleAfter time.Duration
	logger     logging.Logger
}

// New creates an Accumulator. A non-positive staleAfter falls back to the
// lockfile default.
func New(staleAfter time.Duration, logger logging.Logger) *Accumulator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Accumulator{staleAfter: staleAfter, logger: logger}
}

// AccumulateDir folds the merged dataset of periodDir into the cumulative
// dataset for year in parentDir, under the cumulative file's lock. The
// first accumulated period seeds the file verbatim.
func (a *Accumulator) AccumulateDir(periodDir, parentDir string, year int) (*Result, error) {
	mergedFile := common.MergedFile(periodDir)
	incoming, err := common.ReadTransactions(mergedFile)
	if err != nil {
		return nil, err
	}
	if len(incoming) == 0 {
		return nil, &pipelineerror.EmptyDatasetError{FilePath: mergedFile, Stage: "accumulator"}
	}

	cumulativeFile := common.CumulativeFile(parentDir, year)
	lock, err := lockfile.Acquire(cumulativeFile, a.staleAfter, a.logger)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	var existing []models.Transaction
	if _, statErr := os.Stat(cumulativeFile); statErr == nil {
		existing, err = common.ReadTransactions(cumulativeFile)
		if err != nil {
			return nil, err
		}
	}

	result := a.fold(existing, incoming)
	merged := append(existing, a.fresh(existing, incoming)...)
	sortCumulative(merged)
	result.Total = len(merged)

	if err := common.WriteTransactionsAtomic(merged, cumulativeFile); err != nil {
		return nil, err
	}

	for _, w := range result.Warnings {
		a.logger.Warn(w.Warning())
	}
	a.logger.Info("Accumulated period",
		logging.Field{Key: logging.FieldPeriod, Value: periodDir},
		logging.Field{Key: logging.FieldYear, Value: year},
		logging.Field{Key: logging.FieldCount, Value: result.Total},
		logging.Field{Key: "added", Value: result.Added},
		logging.Field{Key: "duplicates", Value: result.Duplicates})
	return result, nil
}

// fold computes counts and warnings for folding incoming into existing.
func (a *Accumulator) fold(existing, incoming []models.Transaction) *Result {
	result := &Result{}
	for i := range incoming {
		if containsRow(existing, &incoming[i]) {
			result.Duplicates++
		} else {
			result.Added++
		}
	}
	if w := overlapWarning(existing, incoming); w != nil {
		result.Warnings = append(result.Warnings, w)
	}
	return result
}

// fresh returns the incoming rows not already present in existing, in their
// incoming order.
func (a *Accumulator) fresh(existing, incoming []models.Transaction) []models.Transaction {
	var out []models.Transaction
	for i := range incoming {
		if !containsRow(existing, &incoming[i]) {
			out = append(out, incoming[i])
		}
	}
	return out
}

func containsRow(haystack []models.Transaction, needle *models.Transaction) bool {
	for i := range haystack {
		if haystack[i].SameRow(needle) {
			return true
		}
	}
	return false
}

// overlapWarning flags a date-range overlap between incoming and existing.
// An overlap usually means the period was accumulated before.
func overlapWarning(existing, incoming []models.Transaction) Warning {
	if len(existing) == 0 || len(incoming) == 0 {
		return nil
	}
	exStart, exEnd := dateRange(existing)
	inStart, inEnd := dateRange(incoming)
	if inStart.After(exEnd) || exStart.After(inEnd) {
		return nil
	}
	return &pipelineerror.OverlapWarning{
		NewStart:      inStart.Format("2006-01-02"),
		NewEnd:        inEnd.Format("2006-01-02"),
		ExistingStart: exStart.Format("2006-01-02"),
		ExistingEnd:   exEnd.Format("2006-01-02"),
	}
}

func dateRange(transactions []models.Transaction) (start, end time.Time) {
	start = transactions[0].Date.Time
	end = transactions[0].Date.Time
	for _, tx := range transactions[1:] {
		if tx.Date.Before(start) {
			start = tx.Date.Time
		}
		if tx.Date.After(end) {
			end = tx.Date.Time
		}
	}
	return start, end
}

// sortCumulative applies the same ordering rule as the merge stage: stable,
// by date descending, preserving prior relative order among equal dates.
func sortCumulative(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date.Time)
	})
}
