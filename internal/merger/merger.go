// Package merger combines the normalized per-account datasets of one period
// into a single merged dataset.
//
// The merge is deterministic: accounts are concatenated in sorted account
// name order, then stably sorted by date, newest first. Running the merge
// twice over the same inputs yields byte-identical output.
package merger

import (
	"sort"
	"time"

	"fjacquet/ledger-csv/internal/common"
	"fjacquet/ledger-csv/internal/lockfile"
	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/models"
	"fjacquet/ledger-csv/internal/pipelineerror"
)

// Warning is anything the merge flags without failing.
type Warning interface {
	Warning() string
}

// Result is the outcome of one merge run.
type Result struct {
	Transactions []models.Transaction
	Accounts     []string
	Warnings     []Warning
}

// Merger merges normalized datasets.
type Merger struct {
	staleAfter time.Duration
	logger     logging.Logger
}

// New creates a Merger. A non-positive staleAfter falls back to the lockfile
// default.
func New(staleAfter time.Duration, logger logging.Logger) *Merger {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Merger{staleAfter: staleAfter, logger: logger}
}

// Merge combines per-account transaction slices, keyed by account name, into
// one dataset sorted by date descending. The stable sort preserves the
// concatenation order among equal dates, so rows of the same date keep their
// within-account order and accounts stay in sorted name order.
func (m *Merger) Merge(byAccount map[string][]models.Transaction) *Result {
	accounts := make([]string, 0, len(byAccount))
	for account := range byAccount {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	var merged []models.Transaction
	for _, account := range accounts {
		merged = append(merged, byAccount[account]...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date.Time)
	})

	result := &Result{Transactions: merged, Accounts: accounts}
	result.Warnings = append(result.Warnings, findDuplicates(merged)...)
	result.Warnings = append(result.Warnings, findGaps(merged)...)

	for _, w := range result.Warnings {
		m.logger.Warn(w.Warning())
	}
	m.logger.Info("Merged accounts",
		logging.Field{Key: logging.FieldCount, Value: len(merged)},
		logging.Field{Key: "accounts", Value: accounts})

	return result
}

// MergeDir reads every normalized dataset in a period directory, merges them
// and writes the merged file under its single-writer lock. At least one
// normalized dataset must exist.
func (m *Merger) MergeDir(periodDir string) (*Result, error) {
	accounts, err := common.ListNormalizedAccounts(periodDir)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, &pipelineerror.EmptyDatasetError{FilePath: periodDir, Stage: "merger"}
	}

	byAccount := make(map[string][]models.Transaction, len(accounts))
	for _, account := range accounts {
		transactions, err := common.ReadTransactions(common.NormalizedFile(periodDir, account))
		if err != nil {
			return nil, err
		}
		byAccount[account] = transactions
	}

	result := m.Merge(byAccount)
	if len(result.Transactions) == 0 {
		return nil, &pipelineerror.EmptyDatasetError{FilePath: periodDir, Stage: "merger"}
	}

	outputFile := common.MergedFile(periodDir)
	lock, err := lockfile.Acquire(outputFile, m.staleAfter, m.logger)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	if err := common.WriteTransactionsAtomic(result.Transactions, outputFile); err != nil {
		return nil, err
	}
	m.logger.Info("Wrote merged dataset",
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)})
	return result, nil
}

// findDuplicates groups rows by date, description and amount. An account
// repeated within a group is a true duplicate; distinct accounts in a group
// are look-alikes. A group holding both yields both warnings. Nothing is
// removed either way.
func findDuplicates(transactions []models.Transaction) []Warning {
	type key struct {
		date        string
		description string
		amount      string
	}
	groups := make(map[key][]string)
	order := make([]key, 0)
	for _, tx := range transactions {
		k := key{
			date:        tx.Date.Format("2006-01-02"),
			description: tx.Description,
			amount:      tx.AmountString(),
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], tx.AccountName)
	}

	var warnings []Warning
	for _, k := range order {
		accounts := groups[k]
		if len(accounts) < 2 {
			continue
		}
		distinct := make([]string, 0, len(accounts))
		counts := make(map[string]int, len(accounts))
		for _, account := range accounts {
			if counts[account] == 0 {
				distinct = append(distinct, account)
			}
			counts[account]++
		}
		for _, account := range distinct {
			n := counts[account]
			if n < 2 {
				continue
			}
			repeats := make([]string, n)
			for i := range repeats {
				repeats[i] = account
			}
			warnings = append(warnings, &pipelineerror.DuplicateRowWarning{
				Date:        k.date,
				Description: k.description,
				Amount:      k.amount,
				Accounts:    repeats,
				SameAccount: true,
			})
		}
		if len(distinct) > 1 {
			warnings = append(warnings, &pipelineerror.DuplicateRowWarning{
				Date:        k.date,
				Description: k.description,
				Amount:      k.amount,
				Accounts:    distinct,
				SameAccount: false,
			})
		}
	}
	return warnings
}

// findGaps reports stretches of more than one day between consecutive dates
// in the merged dataset. The input is sorted newest first.
func findGaps(transactions []models.Transaction) []Warning {
	var warnings []Warning
	for i := 1; i < len(transactions); i++ {
		newer := transactions[i-1].Date
		older := transactions[i].Date
		days := int(newer.Sub(older.Time).Hours() / 24)
		if days > 1 {
			warnings = append(warnings, &pipelineerror.GapWarning{
				From: older.Format("2006-01-02"),
				To:   newer.Format("2006-01-02"),
				Days: days,
			})
		}
	}
	return warnings
}
