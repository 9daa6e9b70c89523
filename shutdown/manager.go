// Package shutdown coordinates signal handling and ordered cleanup at the
// end of a run.
//
// manager.go is the Manager organism that composes:
//   - Registry: ordered cleanup functions
//   - SignalCounter: first signal graceful, second signal force
//
// The first SIGINT or SIGTERM cancels the managed context; the scheduler
// sees the cancellation, stops dispatching, and main runs Shutdown. A
// second signal exits immediately.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/LinkuDev/dreamina/logging"
)

// DefaultTimeout bounds the whole cleanup sequence.
const DefaultTimeout = 30 * time.Second

// Manager owns the run context and the cleanup sequence.
type Manager struct {
	logger  *logging.Logger
	timeout time.Duration

	mu       sync.Mutex
	started  bool
	shutdown bool
	received os.Signal

	ctx    context.Context
	cancel context.CancelFunc

	registry *Registry
	signals  *SignalCounter
	sigChan  chan os.Signal
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTimeout overrides the cleanup deadline.
func WithTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) {
		m.timeout = timeout
	}
}

// NewManager creates a Manager. The logger is required.
func NewManager(logger *logging.Logger, opts ...ManagerOption) (*Manager, error) {
	if logger == nil {
		return nil, fmt.Errorf("shutdown: logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		logger:   logger.Named("shutdown"),
		timeout:  DefaultTimeout,
		ctx:      ctx,
		cancel:   cancel,
		registry: NewRegistry(),
		sigChan:  make(chan os.Signal, 1),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.signals = NewSignalCounter(2, func() {
		m.logger.Warn("Second signal received, exiting immediately")
		os.Exit(1)
	})

	return m, nil
}

// Context returns the run context. It is cancelled by the first shutdown
// signal.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Register adds a cleanup function to run during Shutdown. Lower priority
// values run earlier.
func (m *Manager) Register(name string, priority int, fn CleanupFunc) {
	m.registry.Register(name, priority, fn)
	m.logger.Debug("Registered cleanup",
		zap.String("name", name),
		zap.Int("priority", priority),
	)
}

// Start begins listening for SIGINT and SIGTERM. Safe to call more than
// once; repeat calls are no-ops.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true

	signal.Notify(m.sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range m.sigChan {
			count := m.signals.Increment()
			if count == 1 {
				m.mu.Lock()
				m.received = sig
				m.mu.Unlock()
				m.logger.Warn("Shutdown signal received, cancelling the run",
					zap.String("signal", sig.String()),
				)
				m.cancel()
			}
		}
	}()
}

// Signal returns the first shutdown signal received, or nil when the run
// was never interrupted.
func (m *Manager) Signal() os.Signal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

// Shutdown cancels the run context and executes the registered cleanups in
// priority order under the configured timeout. Idempotent; repeat calls
// return nil.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil
	}
	m.shutdown = true
	m.mu.Unlock()

	start := time.Now()
	m.cancel()
	m.logger.Info("Running cleanup sequence",
		zap.Duration("timeout", m.timeout),
		zap.Strings("cleanups", m.registry.Names()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	errs := m.registry.Shutdown(ctx)
	for _, err := range errs {
		m.logger.Error("Cleanup failed", zap.Error(err))
	}

	signal.Stop(m.sigChan)
	close(m.sigChan)

	if len(errs) > 0 {
		m.logger.Error("Cleanup sequence finished with errors",
			zap.Duration("duration", time.Since(start)),
			zap.Int("error_count", len(errs)),
		)
		return fmt.Errorf("shutdown: %d cleanups failed", len(errs))
	}

	m.logger.Info("Cleanup sequence complete",
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// ExitCode maps a shutdown signal to the conventional 128+N process exit
// code: 130 for SIGINT, 143 for SIGTERM.
func ExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
