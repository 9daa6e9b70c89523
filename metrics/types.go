// Package metrics aggregates per-run statistics in memory.
//
// types.go contains pure data types with no behavior.
package metrics

import "time"

// PromptRecord captures one attempted prompt.
type PromptRecord struct {
	// RunID ties the record to the run that produced it.
	RunID string `json:"run_id"`

	// PromptIndex is the prompt's 1-based number in the source.
	PromptIndex int `json:"prompt_index"`

	// Account is the identity the prompt ran under.
	Account string `json:"account"`

	// Outcome is one of OutcomeSucceeded, OutcomePartial, OutcomeFailed.
	Outcome string `json:"outcome"`

	// Requested is how many image URLs the generation returned.
	Requested int `json:"requested"`

	// Downloaded is how many artifacts actually landed.
	Downloaded int `json:"downloaded"`

	// ErrorCode classifies the failure when the attempt failed.
	ErrorCode string `json:"error_code,omitempty"`

	// StartTime is when the attempt began.
	StartTime time.Time `json:"start_time"`

	// Duration is the attempt's wall time, downloads included.
	Duration time.Duration `json:"duration"`
}

// AccountProbe captures the scheduling decision made for one account after
// its credit probe.
type AccountProbe struct {
	// Account is the account identity.
	Account string `json:"account"`

	// State is the scheduler lifecycle state reached by the probe.
	State string `json:"state"`

	// Quota is the probed credit balance, zero when unavailable.
	Quota int `json:"quota"`

	// Allocated is how many prompts the planner assigned.
	Allocated int `json:"allocated"`

	// Reason explains a skipped account.
	Reason string `json:"reason,omitempty"`
}

// AccountMetrics is the per-account aggregate view.
type AccountMetrics struct {
	// State is the account's final lifecycle state.
	State string `json:"state"`

	// Quota and Allocated echo the probe decision.
	Quota     int `json:"quota"`
	Allocated int `json:"allocated"`

	// Attempted counts prompts dispatched to the account.
	Attempted int64 `json:"attempted"`

	// Succeeded counts attempts that landed at least one artifact.
	Succeeded int64 `json:"succeeded"`

	// Images counts artifacts landed for the account.
	Images int64 `json:"images"`

	// SuccessRate is Succeeded over Attempted as a percentage (0-100).
	SuccessRate float64 `json:"success_rate"`

	// AvgDuration is the mean attempt wall time.
	AvgDuration time.Duration `json:"avg_duration"`

	// Reason explains a skipped account.
	Reason string `json:"reason,omitempty"`
}

// RunMetrics is a point-in-time snapshot of the whole run.
type RunMetrics struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`

	// TotalAttempted counts every dispatched prompt.
	TotalAttempted int64 `json:"total_attempted"`

	// TotalSucceeded counts attempts with at least one artifact.
	TotalSucceeded int64 `json:"total_succeeded"`

	// TotalFailed counts attempts that landed nothing.
	TotalFailed int64 `json:"total_failed"`

	// ImagesRequested and ImagesDownloaded sum the per-attempt counts.
	ImagesRequested  int64 `json:"images_requested"`
	ImagesDownloaded int64 `json:"images_downloaded"`

	// ByAccount holds the per-account aggregates.
	ByAccount map[string]*AccountMetrics `json:"by_account"`

	// Uptime is the time since the store was created.
	Uptime time.Duration `json:"uptime"`
}

// Outcome constants for PromptRecord.
const (
	// OutcomeSucceeded: every requested image landed.
	OutcomeSucceeded = "succeeded"

	// OutcomePartial: some but not all requested images landed.
	OutcomePartial = "partial"

	// OutcomeFailed: no image landed; ErrorCode says why when known.
	OutcomeFailed = "failed"
)
