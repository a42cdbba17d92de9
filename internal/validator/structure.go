package validator

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"fjacquet/ledger-csv/internal/currencyutils"
	"fjacquet/ledger-csv/internal/dateutils"
	"fjacquet/ledger-csv/internal/models"
	"fjacquet/ledger-csv/internal/pipelineerror"
)

// ValidateStructure checks a canonical CSV dataset for structural defects:
// missing required columns, an empty dataset, date cells that fail to parse
// as calendar dates, numeric cells that fail to parse as decimals after
// currency stripping, rows carrying both a deposit and a withdrawal, and
// category values outside the closed set.
//
// The file is read cell-by-cell rather than through the typed loader so that
// every defect becomes a finding instead of aborting at the first bad cell.
func ValidateStructure(filePath string) (*Report, error) {
	report := &Report{FilePath: filePath, Check: "structure"}

	file, err := os.Open(filePath) // #nosec G304 -- validator receives caller-provided paths
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		report.addBlocking(&pipelineerror.SchemaError{
			FilePath: filePath,
			Reason:   "file is empty, expected a header row",
		})
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	// Map required columns to their positions
	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		colIndex[h] = i
	}
	for _, required := range models.CanonicalHeader {
		if _, ok := colIndex[required]; !ok {
			report.addBlocking(&pipelineerror.SchemaError{
				FilePath: filePath,
				Column:   required,
				Reason:   "required column missing",
			})
		}
	}
	if report.HasBlocking() {
		return report, nil
	}

	rowCount := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.addBlocking(&pipelineerror.SchemaError{
				FilePath: filePath,
				Row:      rowCount + 1,
				Reason:   fmt.Sprintf("malformed CSV row: %v", err),
			})
			continue
		}
		rowCount++

		if len(record) < len(header) {
			report.addBlocking(&pipelineerror.SchemaError{
				FilePath: filePath,
				Row:      rowCount,
				Reason: fmt.Sprintf("row has %d cells, header has %d columns",
					len(record), len(header)),
			})
			continue
		}

		cell := func(name string) string { return record[colIndex[name]] }

		if _, err := time.Parse(dateutils.DateLayoutISO, cell("date")); err != nil {
			report.addBlocking(&pipelineerror.SchemaError{
				FilePath: filePath,
				Row:      rowCount,
				Column:   "date",
				Reason:   fmt.Sprintf("cell %q is not a calendar date", cell("date")),
			})
		}

		for _, col := range []string{"deposit", "withdrawal", "balance"} {
			if !currencyutils.IsParseable(cell(col)) {
				report.addBlocking(&pipelineerror.SchemaError{
					FilePath: filePath,
					Row:      rowCount,
					Column:   col,
					Reason:   fmt.Sprintf("cell %q is not a decimal number", cell(col)),
				})
			}
		}

		if cell("balance") == "" {
			report.addBlocking(&pipelineerror.SchemaError{
				FilePath: filePath,
				Row:      rowCount,
				Column:   "balance",
				Reason:   "balance is required",
			})
		}

		// Exactly one amount per row; both absent is a zero-amount adjustment
		if cell("deposit") != "" && cell("withdrawal") != "" {
			report.addBlocking(&pipelineerror.SchemaError{
				FilePath: filePath,
				Row:      rowCount,
				Column:   "deposit",
				Reason:   "row carries both a deposit and a withdrawal",
			})
		}

		if c := cell("category"); c != "" && !models.IsValidCategory(c) {
			report.addBlocking(&pipelineerror.SchemaError{
				FilePath: filePath,
				Row:      rowCount,
				Column:   "category",
				Reason:   fmt.Sprintf("category %q is not in the closed set", c),
			})
		}
	}

	if rowCount == 0 {
		report.addBlocking(&pipelineerror.EmptyDatasetError{
			FilePath: filePath,
			Stage:    "producer",
		})
	}

	return report, nil
}
