// Package db persists the run ledger in a local SQLite database.
//
// prune.go trims old rows so the append-only ledger does not grow
// without bound across months of runs.
package db

import (
	"context"
	"fmt"
	"time"
)

// DefaultRetentionDays is how long ledger rows are kept when the caller
// does not pick a retention window.
const DefaultRetentionDays = 90

// PruneResult contains statistics about a prune operation.
type PruneResult struct {
	// RunsDeleted is the number of rows deleted from runs
	RunsDeleted int64
	// AttemptsDeleted is the number of rows deleted from attempts
	AttemptsDeleted int64
	// Duration is how long the prune took
	Duration time.Duration
}

// TotalDeleted is the sum of deleted rows across both tables.
func (r PruneResult) TotalDeleted() int64 {
	return r.RunsDeleted + r.AttemptsDeleted
}

// Prune deletes runs older than retentionDays along with their attempts,
// then runs VACUUM to hand the space back to the filesystem.
//
// A run's age is its finish time, or its start time if it never
// finished (interrupted mid-run). The deletes run in one transaction;
// if any step fails the ledger is left untouched.
func (l *Ledger) Prune(ctx context.Context, retentionDays int) (PruneResult, error) {
	var result PruneResult
	if l == nil {
		return result, nil
	}

	if retentionDays < 0 {
		return result, fmt.Errorf("db: retention days must be non-negative, got %d", retentionDays)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return result, fmt.Errorf("db: ledger is closed")
	}

	start := time.Now()
	cutoff := fmt.Sprintf("datetime('now', '-%d days')", retentionDays)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("db: begin prune transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			tx.Rollback() // No-op if already committed
		}
	}()

	// Attempts go first: their foreign key would block deleting the
	// run rows they reference.
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM attempts WHERE run_id IN (
			SELECT id FROM runs WHERE COALESCE(finished_at, started_at) < %s
		)`, cutoff))
	if err != nil {
		return result, fmt.Errorf("db: prune attempts: %w", err)
	}
	result.AttemptsDeleted, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM runs WHERE COALESCE(finished_at, started_at) < %s", cutoff))
	if err != nil {
		return result, fmt.Errorf("db: prune runs: %w", err)
	}
	result.RunsDeleted, _ = res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("db: commit prune: %w", err)
	}
	tx = nil // Prevent rollback in defer

	// VACUUM must run outside a transaction. Failure here is not
	// critical: the rows are already gone.
	if result.TotalDeleted() > 0 {
		if _, err := l.db.ExecContext(ctx, "VACUUM"); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("db: prune succeeded but VACUUM failed: %w", err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
