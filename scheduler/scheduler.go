// Package scheduler drives a generation run across accounts in fixed order.
//
// scheduler.go implements the run loop: activate an account (probe, plan),
// feed it its allocated slice of the prompt queue, and move to the next
// account when the slice is spent. The global cursor advances once per
// attempted prompt whether or not the attempt produced images, so a prompt
// is never retried on a later account.
//
// This organism composes:
//   - credits.Oracle: one quota probe per account, at activation
//   - Allocate: the pure planning rule
//   - PromptRunner: imagegen.Executor in production
//   - metrics.Collector: in-memory run aggregates
//   - db.Ledger: durable audit rows (optional)
//   - Reporter: console narration (optional)
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LinkuDev/dreamina/account"
	"github.com/LinkuDev/dreamina/core"
	"github.com/LinkuDev/dreamina/credits"
	"github.com/LinkuDev/dreamina/db"
	"github.com/LinkuDev/dreamina/imagegen"
	"github.com/LinkuDev/dreamina/logging"
	"github.com/LinkuDev/dreamina/metrics"
	"github.com/LinkuDev/dreamina/prompts"
)

// PromptRunner executes one prompt under one account. The scheduler treats
// a returned error as a failed attempt, never as a reason to stop, except
// for cancellation.
type PromptRunner interface {
	GenerateAndDownload(ctx context.Context, acct *account.Account, prompt prompts.Prompt) (*imagegen.PromptResult, error)
}

var _ PromptRunner = (*imagegen.Executor)(nil)

// Config holds the run-wide scheduling settings.
type Config struct {
	// RunID tags logs, metrics and ledger rows for this run.
	RunID string
	// CostPerGeneration is the credit price of one attempt. Charged once
	// per attempt regardless of how many images it yields.
	CostPerGeneration int
	// MaxPromptsPerAccount, when positive, caps any single account's
	// allocation below what its credits would allow.
	MaxPromptsPerAccount int
}

// RunSummary is the final accounting of one run.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	TotalPrompts  int
	TotalAccounts int

	// Processed counts prompts attempted, successful or not. It equals
	// the final cursor position.
	Processed int
	// Succeeded counts attempts that landed at least one image.
	Succeeded int
	// Failed counts attempts that landed nothing.
	Failed int

	ImagesRequested  int
	ImagesDownloaded int

	// UnprocessedPrompts is how many prompts the run never reached.
	UnprocessedPrompts int

	AccountsUsed    int
	AccountsSkipped int
	Accounts        []AccountRun

	// PartialCompletion is set when accounts ran out before the queue did.
	PartialCompletion bool
	// Cancelled is set when the run context ended the run early.
	Cancelled bool
}

// Scheduler walks the account list in order and spends each account's
// allocation against the shared prompt queue.
type Scheduler struct {
	oracle   credits.Oracle
	runner   PromptRunner
	logger   *logging.Logger
	config   Config
	metrics  metrics.Collector
	ledger   *db.Ledger
	reporter *Reporter
}

// New creates a Scheduler. Returns an error if any required component is
// missing or the cost is not positive.
func New(oracle credits.Oracle, runner PromptRunner, logger *logging.Logger, config Config) (*Scheduler, error) {
	if oracle == nil {
		return nil, fmt.Errorf("scheduler: oracle cannot be nil")
	}
	if runner == nil {
		return nil, fmt.Errorf("scheduler: runner cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("scheduler: logger cannot be nil")
	}
	if config.RunID == "" {
		return nil, fmt.Errorf("scheduler: run ID is required")
	}
	if config.CostPerGeneration < 1 {
		return nil, fmt.Errorf("scheduler: cost per generation must be positive, got %d", config.CostPerGeneration)
	}

	return &Scheduler{
		oracle: oracle,
		runner: runner,
		logger: logger.Named("scheduler"),
		config: config,
	}, nil
}

// WithMetrics attaches a metrics collector.
func (s *Scheduler) WithMetrics(collector metrics.Collector) *Scheduler {
	s.metrics = collector
	return s
}

// WithLedger attaches the durable audit ledger. A nil ledger is valid and
// records nothing.
func (s *Scheduler) WithLedger(ledger *db.Ledger) *Scheduler {
	s.ledger = ledger
	return s
}

// WithReporter attaches the console reporter. A nil reporter is valid and
// prints nothing.
func (s *Scheduler) WithReporter(reporter *Reporter) *Scheduler {
	s.reporter = reporter
	return s
}

// Run processes the prompt queue across the given accounts, in the order
// both were handed over. It returns a summary in every case.
//
// The error is non-nil only for cancellation. Running out of accounts with
// prompts still pending is partial completion: the summary says so and the
// error stays nil, so callers exit zero after a partial run.
func (s *Scheduler) Run(ctx context.Context, accounts []*account.Account, promptList []prompts.Prompt) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:         s.config.RunID,
		StartedAt:     time.Now(),
		TotalPrompts:  len(promptList),
		TotalAccounts: len(accounts),
	}

	log := s.logger.With(zap.String(logging.FieldRunID, s.config.RunID))
	log.Info("Run starting",
		zap.Int("prompts", len(promptList)),
		zap.Int("accounts", len(accounts)),
		zap.Int("cost_per_generation", s.config.CostPerGeneration),
	)
	s.reporter.RunStart(s.config.RunID, len(promptList), len(accounts))

	// Audit writes use a fresh context so a cancelled run still lands
	// its rows.
	if err := s.ledger.InsertRun(context.Background(), db.Run{
		ID:           s.config.RunID,
		StartedAt:    summary.StartedAt,
		TotalPrompts: len(promptList),
	}); err != nil {
		log.Warn("Ledger insert failed, run continues without audit rows", zap.Error(err))
	}

	// cursor is the next 1-based prompt to attempt, expressed as a
	// 0-based slice offset. It only ever moves forward.
	cursor := 0

	for _, acct := range accounts {
		if cursor >= len(promptList) || summary.Cancelled {
			break
		}
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		accountRun := s.activateAccount(ctx, log, acct, len(promptList)-cursor)
		if accountRun.State != StateActive {
			summary.AccountsSkipped++
			summary.Accounts = append(summary.Accounts, *accountRun)
			continue
		}
		summary.AccountsUsed++

		batch := promptList[cursor : cursor+accountRun.Allocated]
		batchCancelled := false
		for _, prompt := range batch {
			if ctx.Err() != nil {
				batchCancelled = true
				break
			}

			cursor++
			accountRun.Attempted++
			if s.dispatchPrompt(ctx, log, acct, prompt, accountRun, summary) {
				batchCancelled = true
				break
			}
		}

		if !batchCancelled {
			accountRun.State = StateExhausted
		}
		summary.Accounts = append(summary.Accounts, *accountRun)
		if batchCancelled {
			summary.Cancelled = true
			break
		}
	}

	if !summary.Cancelled && ctx.Err() != nil {
		summary.Cancelled = true
	}

	summary.Processed = cursor
	summary.UnprocessedPrompts = len(promptList) - cursor
	summary.PartialCompletion = !summary.Cancelled && summary.UnprocessedPrompts > 0
	summary.Duration = time.Since(summary.StartedAt)

	outcome := db.RunOutcomeComplete
	switch {
	case summary.Cancelled:
		outcome = db.RunOutcomeCancelled
	case summary.PartialCompletion:
		outcome = db.RunOutcomePartial
	}
	if err := s.ledger.FinishRun(context.Background(), db.Run{
		ID:        s.config.RunID,
		Processed: summary.Processed,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Outcome:   outcome,
	}); err != nil {
		log.Warn("Ledger finish failed", zap.Error(err))
	}

	switch {
	case summary.Cancelled:
		log.Warn("Run cancelled", summaryFields(summary)...)
	case summary.PartialCompletion:
		log.Warn("Run ended with prompts unprocessed",
			append(summaryFields(summary),
				zap.String("error_code", core.ErrCodeNoAccountsRemaining),
				zap.Error(core.ErrNoAccountsRemaining(summary.UnprocessedPrompts)))...)
	default:
		log.Info("Run complete", summaryFields(summary)...)
	}
	s.reporter.Summary(summary)

	if summary.Cancelled {
		return summary, core.ErrCancelled(ctx.Err())
	}
	return summary, nil
}

// activateAccount probes the account once and decides its allocation. The
// returned AccountRun is Active with a positive allocation, or Unusable
// with the reason recorded.
func (s *Scheduler) activateAccount(ctx context.Context, log *logging.Logger, acct *account.Account, remaining int) *AccountRun {
	accountRun := &AccountRun{Name: acct.Name, State: StatePending}
	alog := log.With(zap.String(logging.FieldAccount, acct.Name))

	result := s.oracle.Probe(ctx, acct)
	if !result.Available {
		accountRun.State = StateUnusable
		accountRun.Reason = result.Reason
		err := core.ErrOracleUnavailable(acct.Name, result.Reason)
		alog.Warn("Account skipped",
			zap.String("error_code", core.ErrCodeOracleUnavailable),
			zap.Error(err),
		)
		s.reporter.AccountSkipped(acct.Name, "probe unavailable: "+result.Reason)
		s.recordProbe(accountRun)
		return accountRun
	}

	accountRun.State = StateQuotaChecked
	accountRun.Quota = result.Units

	allocation := capAllocation(
		Allocate(result.Units, s.config.CostPerGeneration, remaining),
		s.config.MaxPromptsPerAccount,
	)
	if allocation == 0 {
		accountRun.State = StateUnusable
		accountRun.Reason = fmt.Sprintf("%d credits cannot cover one generation", result.Units)
		err := core.ErrInsufficientQuota(acct.Name, result.Units, s.config.CostPerGeneration)
		alog.Warn("Account skipped",
			zap.String("error_code", core.ErrCodeInsufficientQuota),
			zap.Error(err),
		)
		s.reporter.AccountSkipped(acct.Name, accountRun.Reason)
		s.recordProbe(accountRun)
		return accountRun
	}

	accountRun.State = StateActive
	accountRun.Allocated = allocation
	alog.Info("Account activated",
		zap.Int("quota", result.Units),
		zap.Int("allocated", allocation),
		zap.Int("remaining_prompts", remaining),
	)
	s.reporter.AccountActivated(acct.Name, result.Units, allocation)
	s.recordProbe(accountRun)
	return accountRun
}

// recordProbe forwards the activation decision to the metrics collector.
func (s *Scheduler) recordProbe(accountRun *AccountRun) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordProbe(metrics.AccountProbe{
		Account:   accountRun.Name,
		State:     accountRun.State.String(),
		Quota:     accountRun.Quota,
		Allocated: accountRun.Allocated,
		Reason:    accountRun.Reason,
	})
}

// dispatchPrompt runs one prompt and records the outcome everywhere it
// needs to land. Returns true when the attempt died to cancellation, which
// ends the run; any other failure just moves the cursor on.
func (s *Scheduler) dispatchPrompt(ctx context.Context, log *logging.Logger, acct *account.Account, prompt prompts.Prompt, accountRun *AccountRun, summary *RunSummary) bool {
	s.reporter.PromptStart(prompt.Index, summary.TotalPrompts, prompt.Text)

	start := time.Now()
	result, err := s.runner.GenerateAndDownload(ctx, acct, prompt)
	duration := time.Since(start)

	requested, downloaded := 0, 0
	var letters strings.Builder
	if result != nil {
		requested = result.Requested
		downloaded = len(result.Images)
		for _, img := range result.Images {
			letters.WriteString(img.Letter)
		}
	}

	plog := log.With(
		zap.String(logging.FieldAccount, acct.Name),
		zap.Int(logging.FieldPromptIndex, prompt.Index),
	)

	outcome := metrics.OutcomeFailed
	switch {
	case err == nil && downloaded > 0 && downloaded == requested:
		outcome = metrics.OutcomeSucceeded
		plog.Info("Prompt succeeded",
			zap.Int("images", downloaded),
			zap.Duration("duration", duration),
		)
	case downloaded > 0:
		outcome = metrics.OutcomePartial
		plog.Warn("Prompt partially succeeded",
			zap.Int("downloaded", downloaded),
			zap.Int("requested", requested),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	default:
		plog.Warn("Prompt failed",
			zap.String("error_code", core.PipelineErrorCode(err)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}

	// A partial attempt still spent its credits and landed artifacts, so
	// it counts as a success for run accounting.
	if downloaded > 0 {
		summary.Succeeded++
		accountRun.Succeeded++
	} else {
		summary.Failed++
	}
	summary.ImagesRequested += requested
	summary.ImagesDownloaded += downloaded
	accountRun.Images += downloaded

	errCode := core.PipelineErrorCode(err)
	if s.metrics != nil {
		s.metrics.RecordPrompt(metrics.PromptRecord{
			RunID:       s.config.RunID,
			PromptIndex: prompt.Index,
			Account:     acct.Name,
			Outcome:     outcome,
			Requested:   requested,
			Downloaded:  downloaded,
			ErrorCode:   errCode,
			StartTime:   start,
			Duration:    duration,
		})
	}

	errText := ""
	if err != nil {
		errText = err.Error()
	}
	if lerr := s.ledger.InsertAttempt(context.Background(), db.Attempt{
		RunID:       s.config.RunID,
		PromptIndex: prompt.Index,
		PromptText:  prompt.Text,
		Account:     acct.Name,
		Letters:     letters.String(),
		Requested:   requested,
		Downloaded:  downloaded,
		Outcome:     outcome,
		Error:       errText,
	}); lerr != nil {
		plog.Warn("Ledger attempt insert failed", zap.Error(lerr))
	}

	s.reporter.PromptResult(prompt.Index, summary.TotalPrompts, prompt.Text, downloaded, requested, err)

	return ctx.Err() != nil || errCode == core.ErrCodeCancelled
}

// summaryFields renders a RunSummary as structured log fields.
func summaryFields(summary *RunSummary) []zap.Field {
	return []zap.Field{
		zap.Int("processed", summary.Processed),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("unprocessed", summary.UnprocessedPrompts),
		zap.Int("images_requested", summary.ImagesRequested),
		zap.Int("images_downloaded", summary.ImagesDownloaded),
		zap.Int("accounts_used", summary.AccountsUsed),
		zap.Int("accounts_skipped", summary.AccountsSkipped),
		zap.Duration("duration", summary.Duration),
	}
}
