// Package metrics aggregates per-run statistics in memory.
//
// collector.go defines the Collector interface the scheduler records run
// progress through.
package metrics

// Collector receives scheduling decisions and attempt outcomes and serves
// aggregate views of them.
//
// Implementations must be safe for concurrent use and return zero values
// for anything not yet recorded.
type Collector interface {
	// RecordProbe logs the scheduling decision for one account.
	RecordProbe(probe AccountProbe)

	// RecordPrompt logs one attempted prompt.
	RecordPrompt(record PromptRecord)

	// Snapshot returns the current aggregate view of the run.
	Snapshot() RunMetrics

	// RecentPrompts returns up to limit of the most recent attempt
	// records, newest last.
	RecentPrompts(limit int) []PromptRecord
}
