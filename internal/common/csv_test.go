package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ledger-csv/internal/models"
)

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{
			Date:        models.NewDate(2026, time.January, 31),
			Description: "Amazon Prime",
			Category:    models.CategoryAmazon,
			Withdrawal:  models.NewAmount(decimal.RequireFromString("148.32")),
			Balance:     models.NewBalance(decimal.RequireFromString("42156.78")),
			AccountName: "checkings",
		},
		{
			Date:        models.NewDate(2026, time.January, 15),
			Description: "Payroll Deposit",
			Category:    models.CategoryIncome,
			Deposit:     models.NewAmount(decimal.RequireFromString("5000.00")),
			Balance:     models.NewBalance(decimal.RequireFromString("42305.10")),
			AccountName: "checkings",
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "normalized_checkings.csv")
	original := sampleTransactions()

	require.NoError(t, WriteTransactions(original, file))

	loaded, err := ReadTransactions(file)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	// Absent amounts survive the trip as absent.
	assert.False(t, loaded[0].Deposit.Present)
	assert.False(t, loaded[1].Withdrawal.Present)
}

func TestWriteTransactions_CanonicalHeader(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteTransactions(sampleTransactions(), file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, strings.Join(models.CanonicalHeader, ","), lines[0])
	assert.Equal(t, "2026-01-31,Amazon Prime,amazon,,148.32,42156.78,checkings", lines[1])
}

func TestWriteTransactions_CreatesParentDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "2026-01", "normalized_checkings.csv")
	require.NoError(t, WriteTransactions(sampleTransactions(), file))

	_, err := os.Stat(file)
	assert.NoError(t, err)
}

func TestWriteTransactions_NilRejected(t *testing.T) {
	assert.Error(t, WriteTransactions(nil, filepath.Join(t.TempDir(), "out.csv")))
}

func TestWriteTransactionsAtomic(t *testing.T) {
	file := filepath.Join(t.TempDir(), "agentic_cumulative_dataset_2026.csv")
	require.NoError(t, WriteTransactionsAtomic(sampleTransactions(), file))

	loaded, err := ReadTransactions(file)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	_, err = os.Stat(file + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not survive the rename")
}

func TestReadTransactions_MissingFile(t *testing.T) {
	_, err := ReadTransactions(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestReadCSVFile_RawRecords(t *testing.T) {
	file := filepath.Join(t.TempDir(), "raw_checkings.csv")
	rawCSV := `Date,Description,Withdrawals,Deposits,Category,Balance
"01/31/2026","DEBIT CARD PURCHASE XXXXX4291 Amazon Prime","$148.32","","Subscriptions","$42,156.78"
`
	require.NoError(t, os.WriteFile(file, []byte(rawCSV), 0600))

	rows, err := ReadCSVFile[models.RawRecord](file)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "$148.32", rows[0].Withdrawals)
	assert.Equal(t, "$42,156.78", rows[0].Balance)
}
