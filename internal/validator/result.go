// Package validator implements the validation gate run after every pipeline
// stage. Each validator is a pure predicate over a produced file: it reads
// the file it is handed, mutates nothing, and returns a structured report of
// findings so it can be re-invoked independently by tests and by the
// caller's retry loop.
package validator

import (
	"fmt"
	"strings"
)

// Severity classifies a finding. Blocking findings must stop progression to
// the next stage; warnings are surfaced but never block.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityBlocking
)

func (s Severity) String() string {
	if s == SeverityBlocking {
		return "BLOCKING"
	}
	return "WARNING"
}

// Finding is a single diagnostic produced by a validator.
type Finding struct {
	Severity Severity
	Err      error
}

// Report is the outcome of one validator invocation: ok, or a list of
// findings with human-readable diagnostics.
type Report struct {
	FilePath string
	Check    string
	Findings []Finding
}

// addBlocking appends a blocking finding.
func (r *Report) addBlocking(err error) {
	r.Findings = append(r.Findings, Finding{Severity: SeverityBlocking, Err: err})
}

// addWarning appends a warning finding.
func (r *Report) addWarning(err error) {
	r.Findings = append(r.Findings, Finding{Severity: SeverityWarning, Err: err})
}

// OK reports whether the validator found nothing at all.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

// HasBlocking reports whether any finding must block progression.
func (r *Report) HasBlocking() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityBlocking {
			return true
		}
	}
	return false
}

// String renders the report as the plain-text diagnostic relayed back to the
// producer.
func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("%s check passed for %s", r.Check, r.FilePath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s check found %d issue(s) in %s:\n", r.Check, len(r.Findings), r.FilePath)
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "  [%s] %v\n", f.Severity, f.Err)
	}
	return b.String()
}
