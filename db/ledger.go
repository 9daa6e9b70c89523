// Package db persists the run ledger in a local SQLite database.
//
// ledger.go is the organism callers interact with. The ledger is an
// append-only audit trail: every run and every prompt attempt gets a
// row, and nothing is ever read back to resume an interrupted run.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// timeLayout is how timestamps are stored, matching SQLite's
// CURRENT_TIMESTAMP format so every datetime column parses the same way.
const timeLayout = "2006-01-02 15:04:05"

// Run outcome values recorded in the runs table.
const (
	RunOutcomeRunning   = "running"
	RunOutcomeComplete  = "complete"
	RunOutcomePartial   = "partial"
	RunOutcomeCancelled = "cancelled"
)

// Run is one row in the runs table: a single end-to-end invocation of
// the pipeline.
type Run struct {
	ID           string    // Run identifier, shared with log entries and the console report
	StartedAt    time.Time // When the run began
	FinishedAt   time.Time // When the run ended (zero until FinishRun)
	TotalPrompts int       // Prompts queued at the start
	Processed    int       // Prompts attempted
	Succeeded    int       // Attempts that landed at least one image
	Failed       int       // Attempts that landed nothing
	Outcome      string    // One of the RunOutcome* values
}

// Attempt is one row in the attempts table: a single prompt attempt
// served by a single account.
type Attempt struct {
	ID          int64     // Auto-incremented primary key
	RunID       string    // Run this attempt belongs to
	PromptIndex int       // 1-based position in the prompt list
	PromptText  string    // The prompt as sent to the provider
	Account     string    // Name of the account that served the attempt
	Letters     string    // Artifact letters that landed, e.g. "ABC"
	Requested   int       // Images asked for
	Downloaded  int       // Images that landed on disk
	Outcome     string    // "succeeded", "partial", or "failed"
	Error       string    // Error text for failed attempts
	CreatedAt   time.Time // When the attempt was recorded
}

// Ledger is the append-only audit trail backed by SQLite.
//
// This organism composes:
// - SQLite connection with WAL mode (molecule)
// - Embedded schema migrations (molecule)
// - Insert and query methods for runs and attempts (molecules)
//
// Every method is safe on a nil receiver and acts as a no-op, so a
// disabled ledger needs no guard at any call site.
type Ledger struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the ledger database at path, creating parent
// directories and applying any pending schema migrations.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("db: ledger path is required")
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("db: create ledger directory %s: %w", dir, err)
		}
	}

	if err := applyMigrations(path); err != nil {
		return nil, err
	}

	conn, err := openSQLite(path)
	if err != nil {
		return nil, err
	}

	return &Ledger{db: conn}, nil
}

// InsertRun records the start of a run. Outcome defaults to "running"
// when unset; FinishRun fills in the final counters later.
func (l *Ledger) InsertRun(ctx context.Context, run Run) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return fmt.Errorf("db: ledger is closed")
	}

	outcome := run.Outcome
	if outcome == "" {
		outcome = RunOutcomeRunning
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, total_prompts, outcome)
		VALUES (?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(timeLayout),
		run.TotalPrompts,
		outcome,
	)
	if err != nil {
		return fmt.Errorf("db: insert run: %w", err)
	}

	return nil
}

// FinishRun closes out a run row with its final counters and outcome.
func (l *Ledger) FinishRun(ctx context.Context, run Run) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return fmt.Errorf("db: ledger is closed")
	}

	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	res, err := l.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, processed = ?, succeeded = ?, failed = ?, outcome = ?
		WHERE id = ?`,
		finished.UTC().Format(timeLayout),
		run.Processed,
		run.Succeeded,
		run.Failed,
		run.Outcome,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("db: finish run: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("db: finish run: no run with id %q", run.ID)
	}

	return nil
}

// GetRun loads a single run row by ID.
func (l *Ledger) GetRun(ctx context.Context, runID string) (*Run, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil, fmt.Errorf("db: ledger is closed")
	}

	row := l.db.QueryRowContext(ctx, `
		SELECT id, started_at, COALESCE(finished_at, ''), total_prompts,
		       processed, succeeded, failed, outcome
		FROM runs
		WHERE id = ?`, runID)

	var run Run
	var startedAt, finishedAt string
	err := row.Scan(
		&run.ID,
		&startedAt,
		&finishedAt,
		&run.TotalPrompts,
		&run.Processed,
		&run.Succeeded,
		&run.Failed,
		&run.Outcome,
	)
	if err != nil {
		return nil, fmt.Errorf("db: get run: %w", err)
	}

	run.StartedAt, _ = time.Parse(timeLayout, startedAt)
	if finishedAt != "" {
		run.FinishedAt, _ = time.Parse(timeLayout, finishedAt)
	}

	return &run, nil
}

// InsertAttempt appends one prompt attempt to the audit trail.
func (l *Ledger) InsertAttempt(ctx context.Context, attempt Attempt) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return fmt.Errorf("db: ledger is closed")
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO attempts (
			run_id, prompt_index, prompt_text, account, letters,
			requested, downloaded, outcome, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.RunID,
		attempt.PromptIndex,
		attempt.PromptText,
		attempt.Account,
		attempt.Letters,
		attempt.Requested,
		attempt.Downloaded,
		attempt.Outcome,
		nullString(attempt.Error),
	)
	if err != nil {
		return fmt.Errorf("db: insert attempt: %w", err)
	}

	return nil
}

// RecentAttempts retrieves the most recent attempts, newest first.
// A limit of zero or less defaults to 10.
func (l *Ledger) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil, fmt.Errorf("db: ledger is closed")
	}

	if limit <= 0 {
		limit = 10
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, run_id, prompt_index, prompt_text, account, letters,
		       requested, downloaded, outcome, COALESCE(error, ''), created_at
		FROM attempts
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("db: query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var createdAt string

		err := rows.Scan(
			&a.ID,
			&a.RunID,
			&a.PromptIndex,
			&a.PromptText,
			&a.Account,
			&a.Letters,
			&a.Requested,
			&a.Downloaded,
			&a.Outcome,
			&a.Error,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("db: scan attempt row: %w", err)
		}

		a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: iterate attempt rows: %w", err)
	}

	return attempts, nil
}

// CountAttempts returns the total number of recorded attempts.
func (l *Ledger) CountAttempts(ctx context.Context) (int64, error) {
	if l == nil {
		return 0, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return 0, fmt.Errorf("db: ledger is closed")
	}

	var count int64
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attempts").Scan(&count); err != nil {
		return 0, fmt.Errorf("db: count attempts: %w", err)
	}

	return count, nil
}

// Close releases the underlying database connection. Safe to call on a
// nil or already-closed ledger.
func (l *Ledger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}

	if err := l.db.Close(); err != nil {
		return fmt.Errorf("db: close ledger: %w", err)
	}

	l.db = nil
	return nil
}

// nullString stores empty strings as NULL.
func nullString(s string) interface{} {
	if s == "" {
		return sql.NullString{}
	}
	return s
}
