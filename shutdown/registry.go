// Package shutdown coordinates signal handling and ordered cleanup at the
// end of a run.
//
// registry.go is the Registry molecule: a priority-ordered collection of
// cleanup functions, each run exactly once.
package shutdown

import (
	"context"
	"sort"
	"sync"
)

// CleanupFunc is one shutdown step. It receives a deadline-bound context
// and should give up rather than block past it.
type CleanupFunc func(ctx context.Context) error

// cleanupEntry pairs a registered cleanup with its ordering metadata.
type cleanupEntry struct {
	name     string
	fn       CleanupFunc
	priority int // lower runs earlier
}

// Registry holds cleanup functions and runs them once, in priority order.
//
// Priority ranges used across the pipeline:
//   - 0-9: flush logs and metrics
//   - 10-19: finish ledger rows
//   - 30-39: close databases and files
//   - 40+: sweep leftover temp artifacts
type Registry struct {
	mu      sync.Mutex
	entries []cleanupEntry
	closed  bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make([]cleanupEntry, 0),
	}
}

// Register adds a cleanup function. Lower priority values run earlier.
// Registering after Shutdown has run is a no-op.
func (r *Registry) Register(name string, priority int, fn CleanupFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.entries = append(r.entries, cleanupEntry{
		name:     name,
		fn:       fn,
		priority: priority,
	})
}

// Shutdown runs every registered cleanup in priority order and collects
// their errors. Every function runs even when earlier ones fail. A second
// call returns nil without running anything.
func (r *Registry) Shutdown(ctx context.Context) []error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	sorted := sortedEntries(r.entries)
	r.mu.Unlock()

	var errs []error
	for _, entry := range sorted {
		if err := entry.fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Names returns the registered cleanup names in execution order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := sortedEntries(r.entries)
	names := make([]string, len(sorted))
	for i, entry := range sorted {
		names[i] = entry.name
	}
	return names
}

// Count returns the number of registered cleanups.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// sortedEntries copies entries and orders them by priority. Registration
// order breaks ties because the sort is stable.
func sortedEntries(entries []cleanupEntry) []cleanupEntry {
	sorted := make([]cleanupEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})
	return sorted
}
