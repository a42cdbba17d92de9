// Package lockfile provides single-writer mutual exclusion for the shared
// merged and cumulative datasets, using an exclusively created sentinel file
// next to the protected path.
package lockfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fjacquet/ledger-csv/internal/logging"
)

// DefaultStaleAfter is how old a lock may get before a new writer may take
// it over. Pipeline runs finish in seconds; a lock this old belongs to a
// crashed process.
const DefaultStaleAfter = 30 * time.Minute

// Lock is a held sentinel lock.
type Lock struct {
	path string
}

// Acquire takes the lock guarding target, creating <target>.lock
// exclusively. A lock older than staleAfter is treated as abandoned and
// taken over. A live lock yields an error naming the holder.
func Acquire(target string, staleAfter time.Duration, logger logging.Logger) (*Lock, error) {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	lockPath := target + ".lock"

	for attempt := 0; attempt < 2; attempt++ {
		file, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			fmt.Fprintf(file, "%d\n", os.Getpid())
			if closeErr := file.Close(); closeErr != nil {
				os.Remove(lockPath)
				return nil, fmt.Errorf("writing lock file %s: %w", lockPath, closeErr)
			}
			return &Lock{path: lockPath}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lock file %s: %w", lockPath, err)
		}

		info, statErr := os.Stat(lockPath)
		if statErr != nil {
			// The holder released between our create and stat; retry.
			continue
		}
		age := time.Since(info.ModTime())
		if age < staleAfter {
			return nil, fmt.Errorf("%s is locked by %s (age %s)", target, holderOf(lockPath), age.Round(time.Second))
		}

		logger.Warn("Taking over stale lock",
			logging.Field{Key: logging.FieldFile, Value: lockPath},
			logging.Field{Key: "age", Value: age.String()})
		// Claim the stale sentinel by rename: exactly one contender wins, and
		// a loser retries against whatever fresh lock the winner creates.
		staleName := fmt.Sprintf("%s.stale.%d", lockPath, os.Getpid())
		if renameErr := os.Rename(lockPath, staleName); renameErr != nil {
			if os.IsNotExist(renameErr) {
				continue
			}
			return nil, fmt.Errorf("taking over stale lock %s: %w", lockPath, renameErr)
		}
		os.Remove(staleName)
	}
	return nil, fmt.Errorf("could not acquire lock for %s", target)
}

// Release removes the sentinel. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// holderOf reads the pid recorded in a lock file, for diagnostics only.
func holderOf(lockPath string) string {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return "unknown process"
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return "unknown process"
	}
	return fmt.Sprintf("pid %d", pid)
}
