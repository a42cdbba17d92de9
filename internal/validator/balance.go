package validator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/models"
	"fjacquet/ledger-csv/internal/pipelineerror"
)

// Tolerance is the absolute rounding slack allowed when re-deriving running
// balances.
var Tolerance = decimal.NewFromFloat(0.01)

// ValidateBalanceContinuity re-derives each row's balance from the previous
// row's balance plus the signed amount and reports the first discrepancy.
//
// The check is only meaningful on a single-account, chronologically
// contiguous sequence: a cross-account dataset is rejected outright, because
// merged balances are intentionally account-scoped and non-contiguous.
// Files stored newest-first are walked oldest-first; the reported row index
// is always the row's position in the file.
func ValidateBalanceContinuity(filePath string) (*Report, error) {
	report := &Report{FilePath: filePath, Check: "balance"}

	transactions, err := common.ReadTransactions(filePath)
	if err != nil {
		report.addBlocking(&pipelineerror.SchemaError{
			FilePath: filePath,
			Reason:   fmt.Sprintf("dataset failed to load: %v", err),
		})
		return report, nil
	}

	if len(transactions) == 0 {
		report.addBlocking(&pipelineerror.EmptyDatasetError{
			FilePath: filePath,
			Stage:    "producer",
		})
		return report, nil
	}

	accounts := map[string]bool{}
	for i := range transactions {
		accounts[transactions[i].AccountName] = true
	}
	if len(accounts) > 1 {
		report.addBlocking(&pipelineerror.SchemaError{
			FilePath: filePath,
			Reason: fmt.Sprintf(
				"balance continuity is account-scoped, dataset spans %d accounts", len(accounts)),
		})
		return report, nil
	}

	// File order is either chronological or newest-first; walk chronologically
	// while keeping each row's original 1-based file position for diagnostics.
	order := make([]int, len(transactions))
	for i := range order {
		order[i] = i
	}
	first, last := transactions[0].Date.Time, transactions[len(transactions)-1].Date.Time
	if first.After(last) {
		reverse(order)
	}

	mismatch := firstMismatch(transactions, order, filePath)
	if mismatch != nil && first.Equal(last) {
		// A file whose rows all share one date carries no direction signal.
		// Accept it when the walk holds in the other direction.
		reverse(order)
		if firstMismatch(transactions, order, filePath) == nil {
			mismatch = nil
		}
	}
	if mismatch != nil {
		report.addBlocking(mismatch)
	}
	return report, nil
}

func reverse(order []int) {
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
}

// firstMismatch walks transactions in the given order and returns the first
// continuity break, or nil when every balance re-derives.
func firstMismatch(transactions []models.Transaction, order []int, filePath string) *pipelineerror.BalanceMismatchError {
	prev := transactions[order[0]].Balance.Decimal
	for k := 1; k < len(order); k++ {
		tx := &transactions[order[k]]
		expected := prev.Add(tx.SignedAmount())
		actual := tx.Balance.Decimal
		if actual.Sub(expected).Abs().GreaterThan(Tolerance) {
			return &pipelineerror.BalanceMismatchError{
				FilePath: filePath,
				Row:      order[k] + 1,
				Expected: expected.StringFixed(2),
				Actual:   actual.StringFixed(2),
			}
		}
		prev = actual
	}
	return nil
}

// continuityHolds is a convenience for tests: it re-derives balances over an
// in-memory chronological sequence.
func continuityHolds(transactions []models.Transaction) bool {
	for i := 1; i < len(transactions); i++ {
		expected := transactions[i-1].Balance.Decimal.Add(transactions[i].SignedAmount())
		if transactions[i].Balance.Decimal.Sub(expected).Abs().GreaterThan(Tolerance) {
			return false
		}
	}
	return true
}
