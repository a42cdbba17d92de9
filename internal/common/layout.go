package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File layout contract: one directory per period holds raw_<account>.csv,
// normalized_<account>.csv and the merged dataset; the parent directory
// holds one cumulative dataset per year.
const (
	rawPrefix        = "raw_"
	normalizedPrefix = "normalized_"
	MergedFileName   = "agentic_merged_transactions.csv"
)

// RawFile returns the path of an account's raw export inside a period directory.
func RawFile(periodDir, account string) string {
	return filepath.Join(periodDir, rawPrefix+account+".csv")
}

// NormalizedFile returns the path of an account's normalized dataset inside a
// period directory.
func NormalizedFile(periodDir, account string) string {
	return filepath.Join(periodDir, normalizedPrefix+account+".csv")
}

// MergedFile returns the path of a period's merged dataset.
func MergedFile(periodDir string) string {
	return filepath.Join(periodDir, MergedFileName)
}

// CumulativeFile returns the path of a year's cumulative dataset.
func CumulativeFile(parentDir string, year int) string {
	return fmt.Sprintf("%s.csv",
		filepath.Join(parentDir, fmt.Sprintf("agentic_cumulative_dataset_%d", year)))
}

// AccountFromFilename extracts the account identifier from a raw or
// normalized filename, or returns false when the name doesn't follow the
// layout contract.
func AccountFromFilename(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".csv") {
		return "", false
	}
	base = strings.TrimSuffix(base, ".csv")
	switch {
	case strings.HasPrefix(base, rawPrefix):
		return strings.TrimPrefix(base, rawPrefix), true
	case strings.HasPrefix(base, normalizedPrefix):
		return strings.TrimPrefix(base, normalizedPrefix), true
	}
	return "", false
}

// ListNormalizedAccounts returns the account names that have a normalized
// dataset in the period directory, sorted for deterministic processing order.
func ListNormalizedAccounts(periodDir string) ([]string, error) {
	return listAccounts(periodDir, normalizedPrefix)
}

// ListRawAccounts returns the account names that have a raw export in the
// period directory, sorted for deterministic processing order.
func ListRawAccounts(periodDir string) ([]string, error) {
	return listAccounts(periodDir, rawPrefix)
}

func listAccounts(periodDir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(periodDir)
	if err != nil {
		return nil, fmt.Errorf("error reading period directory %s: %w", periodDir, err)
	}

	var accounts []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".csv") {
			accounts = append(accounts, strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".csv"))
		}
	}

	sort.Strings(accounts)
	return accounts, nil
}
