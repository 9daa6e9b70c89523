// Package metrics aggregates per-run statistics in memory.
//
// store.go contains the Store organism implementing the Collector
// interface: a circular buffer of recent attempts plus running aggregates,
// guarded by a RWMutex.
package metrics

import (
	"sync"
	"time"
)

// Store is the in-memory Collector used for a run. The scheduler writes to
// it after every probe and attempt; the final run report reads it back.
type Store struct {
	mu sync.RWMutex

	// Recent attempts, circular
	promptHistory []PromptRecord
	promptCap     int
	promptHead    int
	promptSize    int

	// Run aggregates
	totalAttempted   int64
	totalSucceeded   int64
	totalFailed      int64
	imagesRequested  int64
	imagesDownloaded int64

	byAccount map[string]*accountStats

	startTime time.Time
	runID     string
}

// accountStats holds per-account aggregation data.
type accountStats struct {
	state         string
	quota         int
	allocated     int
	reason        string
	attempted     int64
	succeeded     int64
	images        int64
	totalDuration time.Duration
}

// StoreConfig configures the Store.
type StoreConfig struct {
	// PromptHistoryCapacity bounds the attempt history buffer.
	PromptHistoryCapacity int
	// RunID stamps every snapshot.
	RunID string
}

// DefaultStoreConfig returns a default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		PromptHistoryCapacity: 200,
	}
}

// NewStore creates a Store. The startTime anchors the snapshot uptime.
func NewStore(config StoreConfig, startTime time.Time) *Store {
	capacity := config.PromptHistoryCapacity
	if capacity < 1 {
		capacity = DefaultStoreConfig().PromptHistoryCapacity
	}

	return &Store{
		promptHistory: make([]PromptRecord, capacity),
		promptCap:     capacity,
		byAccount:     make(map[string]*accountStats),
		startTime:     startTime,
		runID:         config.RunID,
	}
}

// RecordProbe logs the scheduling decision for one account. Recording the
// same account again overwrites the decision fields and keeps the attempt
// counters.
func (s *Store) RecordProbe(probe AccountProbe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.accountLocked(probe.Account)
	stats.state = probe.State
	stats.quota = probe.Quota
	stats.allocated = probe.Allocated
	stats.reason = probe.Reason
}

// RecordPrompt logs one attempted prompt.
func (s *Store) RecordPrompt(record PromptRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promptHistory[s.promptHead] = record
	s.promptHead = (s.promptHead + 1) % s.promptCap
	if s.promptSize < s.promptCap {
		s.promptSize++
	}

	s.totalAttempted++
	s.imagesRequested += int64(record.Requested)
	s.imagesDownloaded += int64(record.Downloaded)
	if record.Downloaded > 0 {
		s.totalSucceeded++
	} else {
		s.totalFailed++
	}

	stats := s.accountLocked(record.Account)
	stats.attempted++
	stats.images += int64(record.Downloaded)
	stats.totalDuration += record.Duration
	if record.Downloaded > 0 {
		stats.succeeded++
	}
}

// Snapshot returns the current aggregate view of the run.
func (s *Store) Snapshot() RunMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := RunMetrics{
		RunID:            s.runID,
		TotalAttempted:   s.totalAttempted,
		TotalSucceeded:   s.totalSucceeded,
		TotalFailed:      s.totalFailed,
		ImagesRequested:  s.imagesRequested,
		ImagesDownloaded: s.imagesDownloaded,
		ByAccount:        make(map[string]*AccountMetrics, len(s.byAccount)),
		Uptime:           time.Since(s.startTime),
	}

	for name, stats := range s.byAccount {
		var successRate float64
		var avgDuration time.Duration
		if stats.attempted > 0 {
			successRate = float64(stats.succeeded) / float64(stats.attempted) * 100
			avgDuration = stats.totalDuration / time.Duration(stats.attempted)
		}

		snapshot.ByAccount[name] = &AccountMetrics{
			State:       stats.state,
			Quota:       stats.quota,
			Allocated:   stats.allocated,
			Attempted:   stats.attempted,
			Succeeded:   stats.succeeded,
			Images:      stats.images,
			SuccessRate: successRate,
			AvgDuration: avgDuration,
			Reason:      stats.reason,
		}
	}

	return snapshot
}

// RecentPrompts returns up to limit of the most recent attempt records,
// newest last. If limit exceeds the records held, all are returned.
func (s *Store) RecentPrompts(limit int) []PromptRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || s.promptSize == 0 {
		return []PromptRecord{}
	}
	if limit > s.promptSize {
		limit = s.promptSize
	}

	result := make([]PromptRecord, limit)
	for i := 0; i < limit; i++ {
		idx := (s.promptHead - limit + i + s.promptCap) % s.promptCap
		result[i] = s.promptHistory[idx]
	}
	return result
}

// accountLocked returns the stats entry for an account, creating it on
// first use. Callers must hold the write lock.
func (s *Store) accountLocked(name string) *accountStats {
	stats, ok := s.byAccount[name]
	if !ok {
		stats = &accountStats{}
		s.byAccount[name] = stats
	}
	return stats
}

// Verify Store implements the Collector interface.
var _ Collector = (*Store)(nil)
