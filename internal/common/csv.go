// Package common provides shared CSV plumbing and the on-disk layout
// contract used by every pipeline stage.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"fjacquet/ledger-csv/internal/logging"
	"fjacquet/ledger-csv/internal/models"
)

var log = logging.GetLogger()

// Delimiter is the CSV delimiter used for all output files.
var Delimiter rune = ','

// SetDelimiter allows setting the delimiter for CSV output
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string) ([]TCSVRow, error) {
	log.Debug("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath) // #nosec G304 -- pipeline operates on caller-provided paths
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file %s: %w", filePath, err)
	}

	log.Debug("Successfully read CSV data",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// ReadTransactions loads a canonical dataset from a CSV file.
func ReadTransactions(filePath string) ([]models.Transaction, error) {
	return ReadCSVFile[models.Transaction](filePath)
}

// WriteTransactions writes a canonical dataset to a CSV file, creating the
// parent directory as needed. Every stage writes through this function so
// output formatting stays byte-identical across runs.
func WriteTransactions(transactions []models.Transaction, csvFile string) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	log.Debug("Writing transactions to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- pipeline operates on caller-provided paths
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(&transactions, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.Info("Wrote transactions to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})

	return nil
}

// WriteTransactionsAtomic writes a canonical dataset through a temp file and
// rename, so a reader never observes a partially-written dataset. Used by the
// accumulator when replacing the yearly file.
func WriteTransactionsAtomic(transactions []models.Transaction, csvFile string) error {
	tmp := csvFile + ".tmp"
	if err := WriteTransactions(transactions, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, csvFile); err != nil {
		return fmt.Errorf("error replacing %s: %w", csvFile, err)
	}
	return nil
}
