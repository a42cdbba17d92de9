// Package pipelineerror defines the error and warning types shared by the
// pipeline stages and the validation gate.
//
// Errors are fatal to the producing stage and block progression to the next
// stage. Warnings are surfaced to the caller but never block.
package pipelineerror

import "fmt"

// SchemaError reports a structural defect in a dataset: a missing column, an
// unparseable cell, or a defect rate past the row-drop threshold.
type SchemaError struct {
	FilePath string
	Row      int    // 1-based data row index, 0 when the defect is file-level
	Column   string // offending column name, empty when file-level
	Reason   string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("schema error in %s at row %d, column %q: %s",
			e.FilePath, e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("schema error in %s: %s", e.FilePath, e.Reason)
}

// BalanceMismatchError reports a running-balance continuity violation.
// It carries everything needed to correct the row without re-deriving it
// from raw data.
type BalanceMismatchError struct {
	FilePath string
	Row      int // 1-based data row index of the first discrepancy
	Expected string
	Actual   string
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("balance mismatch in %s at row %d: expected %s, actual %s",
		e.FilePath, e.Row, e.Expected, e.Actual)
}

// EmptyDatasetError reports that a stage produced zero rows where non-empty
// output was expected.
type EmptyDatasetError struct {
	FilePath string
	Stage    string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s produced an empty dataset at %s where rows were expected",
		e.Stage, e.FilePath)
}

// ParseError reports a row-level parse defect during normalization.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateRowWarning flags rows sharing date, amount and description.
// Cross-account matches commonly represent legitimate inter-account
// transfers, so they are reported and never removed; same-account matches
// are reported as true duplicates.
type DuplicateRowWarning struct {
	Date        string
	Description string
	Amount      string
	Accounts    []string
	SameAccount bool
}

func (w *DuplicateRowWarning) Warning() string {
	kind := "cross-account look-alike"
	if w.SameAccount {
		kind = "true duplicate"
	}
	return fmt.Sprintf("%s: %s %s %q in accounts %v",
		kind, w.Date, w.Amount, w.Description, w.Accounts)
}

// OverlapWarning flags a date-range overlap between a new period and the
// existing cumulative dataset, which usually means the period was already
// accumulated.
type OverlapWarning struct {
	NewStart      string
	NewEnd        string
	ExistingStart string
	ExistingEnd   string
}

func (w *OverlapWarning) Warning() string {
	return fmt.Sprintf("period %s..%s overlaps existing cumulative range %s..%s",
		w.NewStart, w.NewEnd, w.ExistingStart, w.ExistingEnd)
}

// GapWarning flags a gap wider than one day between consecutive dates in a
// merged period. Transaction-free days are expected; large gaps may indicate
// missing source data.
type GapWarning struct {
	From string
	To   string
	Days int
}

func (w *GapWarning) Warning() string {
	return fmt.Sprintf("date gap of %d days between %s and %s", w.Days, w.From, w.To)
}
