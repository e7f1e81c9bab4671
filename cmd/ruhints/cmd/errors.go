package cmd

import (
	"fmt"
	"strings"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when a bbolt open fails due to
// lock contention.
func diagnoseDBLock(dbPath string) string {
	return fmt.Sprintf("dictionary database is locked by another process\n"+
		"  → a 'ruhints watch --dict-name' may be running\n"+
		"  → find the process:  fuser %s\n"+
		"  → stop it, then retry your command", dbPath)
}

// withLockHint appends the lock diagnosis to store errors caused by a held lock.
func withLockHint(dbPath string, err error) error {
	if !isDBLockError(err) {
		return err
	}
	return fmt.Errorf("%w\n%s", err, diagnoseDBLock(dbPath))
}
