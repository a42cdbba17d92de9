// Package normalizer converts raw bank-export rows into the canonical
// transaction schema, one file per account.
package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/dateutils"
	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/models"
	"fjacquet/ledger-csv/internal/pipelineerror"
)

// DefaultDropThreshold is the fraction of non-empty input rows that may be
// dropped for row-level defects before the whole file fails with a
// SchemaError. Per-row parse defects below the threshold are absorbed:
// the row is skipped and counted in the result.
const DefaultDropThreshold = 0.25

var (
	// Masked account/card number: a run of masking characters followed by
	// the trailing digits, e.g. "XXXXX4291" or "****1234".
	maskedNumberRe = regexp.MustCompile(`[Xx*]{2,}\s*\d{2,6}`)

	// Bank boilerplate prefixes that carry no merchant information.
	boilerplateRe = regexp.MustCompile(`(?i)^(DEBIT CARD PURCHASE|CREDIT CARD PURCHASE|DEBIT CARD PAYMENT|CHECK CARD PURCHASE|POS PURCHASE|POS DEBIT)\b`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Result summarizes one normalization run.
type Result struct {
	Transactions []models.Transaction
	InputRows    int
	Dropped      int // rows skipped for parse defects
	Filtered     int // rows outside the target period
}

// Normalizer converts RawRecord sequences into normalized datasets.
type Normalizer struct {
	dropThreshold float64
	logger        logging.Logger
}

// New creates a Normalizer. A non-positive threshold falls back to
// DefaultDropThreshold.
func New(dropThreshold float64, logger logging.Logger) *Normalizer {
	if dropThreshold <= 0 {
		dropThreshold = DefaultDropThreshold
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Normalizer{dropThreshold: dropThreshold, logger: logger}
}

// Normalize converts a raw record sequence into a normalized dataset for one
// account, keeping only rows inside the target period and preserving the
// source row order. Row-level defects are dropped and counted; a defect rate
// past the threshold fails the whole dataset.
func (n *Normalizer) Normalize(raws []models.RawRecord, account string, period dateutils.Period) (*Result, error) {
	result := &Result{InputRows: len(raws)}

	for i, raw := range raws {
		tx, err := n.convertRow(raw, account, period)
		if err != nil {
			if _, filtered := err.(*outOfPeriodError); filtered {
				result.Filtered++
				continue
			}
			result.Dropped++
			n.logger.WithError(err).Warn("Dropping malformed row",
				logging.Field{Key: logging.FieldAccount, Value: account},
				logging.Field{Key: logging.FieldRow, Value: i + 1})
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	if result.InputRows > 0 {
		rate := float64(result.Dropped) / float64(result.InputRows)
		if rate > n.dropThreshold {
			return nil, &pipelineerror.SchemaError{
				Reason: fmt.Sprintf("dropped %d of %d rows (%.0f%%), past the %.0f%% threshold",
					result.Dropped, result.InputRows, rate*100, n.dropThreshold*100),
			}
		}
	}

	if result.InputRows > 0 && len(result.Transactions) == 0 {
		return nil, &pipelineerror.EmptyDatasetError{Stage: "normalizer"}
	}

	n.logger.Info("Normalized dataset",
		logging.Field{Key: logging.FieldAccount, Value: account},
		logging.Field{Key: logging.FieldPeriod, Value: period.String()},
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
		logging.Field{Key: logging.FieldDropped, Value: result.Dropped})

	return result, nil
}

// outOfPeriodError marks a row outside the target period: filtered, not a defect.
type outOfPeriodError struct{ date string }

func (e *outOfPeriodError) Error() string {
	return fmt.Sprintf("date %s outside target period", e.date)
}

func (n *Normalizer) convertRow(raw models.RawRecord, account string, period dateutils.Period) (models.Transaction, error) {
	date, _, err := dateutils.ParseDate(raw.Date)
	if err != nil {
		return models.Transaction{}, &pipelineerror.ParseError{Field: "Date", Value: raw.Date, Err: err}
	}
	if !period.Contains(date) {
		return models.Transaction{}, &outOfPeriodError{date: raw.Date}
	}

	// Amounts are routed to the canonical columns unchanged in sign and
	// magnitude; empty cells stay absent, never zero.
	withdrawal, err := models.AmountFromString(raw.Withdrawals)
	if err != nil {
		return models.Transaction{}, &pipelineerror.ParseError{Field: "Withdrawals", Value: raw.Withdrawals, Err: err}
	}
	deposit, err := models.AmountFromString(raw.Deposits)
	if err != nil {
		return models.Transaction{}, &pipelineerror.ParseError{Field: "Deposits", Value: raw.Deposits, Err: err}
	}
	if withdrawal.Present && deposit.Present {
		return models.Transaction{}, &pipelineerror.ParseError{
			Field: "Withdrawals",
			Value: raw.Withdrawals,
			Err:   fmt.Errorf("row carries both a withdrawal and a deposit"),
		}
	}

	var balance models.Balance
	if err := balance.UnmarshalCSV(raw.Balance); err != nil {
		return models.Transaction{}, &pipelineerror.ParseError{Field: "Balance", Value: raw.Balance, Err: err}
	}

	return models.Transaction{
		Date:        models.Date{Time: date},
		Description: CleanDescription(raw.Description),
		Category:    "", // categorization is a separate stage
		Deposit:     deposit,
		Withdrawal:  withdrawal,
		Balance:     balance,
		AccountName: account,
	}, nil
}

// CleanDescription strips masked card numbers and bank boilerplate from a
// raw description, collapses repeated whitespace and trims.
func CleanDescription(desc string) string {
	desc = boilerplateRe.ReplaceAllString(desc, "")
	desc = maskedNumberRe.ReplaceAllString(desc, "")
	desc = whitespaceRe.ReplaceAllString(desc, " ")
	return strings.TrimSpace(desc)
}

// ConvertFile reads one raw bank export, normalizes it for the given account
// and period, and writes the normalized dataset.
func (n *Normalizer) ConvertFile(inputFile, outputFile, account string, period dateutils.Period) (*Result, error) {
	n.logger.Info("Normalizing bank export",
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
		logging.Field{Key: logging.FieldAccount, Value: account})

	raws, err := common.ReadCSVFile[models.RawRecord](inputFile)
	if err != nil {
		return nil, err
	}

	result, err := n.Normalize(raws, account, period)
	if err != nil {
		if schemaErr, ok := err.(*pipelineerror.SchemaError); ok {
			schemaErr.FilePath = inputFile
		}
		if emptyErr, ok := err.(*pipelineerror.EmptyDatasetError); ok {
			emptyErr.FilePath = inputFile
		}
		return nil, err
	}

	if err := common.WriteTransactions(result.Transactions, outputFile); err != nil {
		return nil, err
	}

	return result, nil
}
