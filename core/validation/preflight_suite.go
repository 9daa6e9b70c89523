package validation

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/LinkuDev/dreamina/core"
)

// PreflightStep represents a single preflight step with its status.
type PreflightStep struct {
	Name    string
	Status  StepStatus
	Message string
	Error   error
	Latency time.Duration
}

// StepStatus represents the status of a preflight step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepPassed
	StepFailed
	StepWarning
	StepSkipped
)

// String returns the string representation of a step status.
func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepRunning:
		return "running"
	case StepPassed:
		return "passed"
	case StepFailed:
		return "failed"
	case StepWarning:
		return "warning"
	case StepSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SuiteResult represents the complete result of preflight execution.
type SuiteResult struct {
	Steps       []PreflightStep
	TotalSteps  int
	PassedSteps int
	FailedSteps int
	Warnings    int
	Duration    time.Duration
	Success     bool
}

// PreflightSuite runs every local check the pipeline needs before the first
// account is probed. This is an organism that composes the ConfigChecker
// molecule with disk space measurement to provide startup validation with
// progress output. All checks are local; the quota oracle is deliberately
// not probed here because account health is established per account during
// scheduling.
type PreflightSuite struct {
	output       io.Writer
	cfg          *core.Config
	checker      *ConfigChecker
	configPath   string
	envPath      string
	showProgress bool
	failFast     bool
}

// NewPreflightSuite creates a PreflightSuite for the given configuration
// with default settings.
func NewPreflightSuite(cfg *core.Config) *PreflightSuite {
	return &PreflightSuite{
		output:       os.Stdout,
		cfg:          cfg,
		checker:      NewConfigChecker(cfg),
		configPath:   core.DefaultConfigFile,
		envPath:      ".env",
		showProgress: true,
		failFast:     false,
	}
}

// WithOutput sets the output writer for progress messages.
func (s *PreflightSuite) WithOutput(w io.Writer) *PreflightSuite {
	s.output = w
	return s
}

// WithShowProgress enables or disables progress output.
func (s *PreflightSuite) WithShowProgress(show bool) *PreflightSuite {
	s.showProgress = show
	return s
}

// WithFailFast stops the preflight on the first failure if enabled.
func (s *PreflightSuite) WithFailFast(failFast bool) *PreflightSuite {
	s.failFast = failFast
	return s
}

// WithConfigPath sets a custom path for the YAML configuration file.
func (s *PreflightSuite) WithConfigPath(path string) *PreflightSuite {
	s.configPath = path
	return s
}

// WithEnvPath sets a custom path for the .env fallback file.
func (s *PreflightSuite) WithEnvPath(path string) *PreflightSuite {
	s.envPath = path
	return s
}

// Run executes all preflight checks in sequence with progress output.
// Returns a SuiteResult with complete results. Warnings do not fail the
// suite; only failed steps do.
func (s *PreflightSuite) Run() SuiteResult {
	startTime := time.Now()
	steps := make([]PreflightStep, 0, 8)

	// Header
	if s.showProgress {
		s.printHeader("Dreamina Pipeline Preflight")
	}

	// Step 1: configuration source. Informational: defaults plus
	// environment variables form a valid configuration on their own, so a
	// missing file is a warning rather than a failure.
	step := s.configSourceStep()
	if s.showProgress {
		s.printStep(step)
	}
	steps = append(steps, step)

	// Step 2: API base URL
	step = s.runStep("API Base URL", func() (bool, string, error) {
		result := s.checker.CheckBaseURL()
		return result.Valid, result.Message, result.Error
	})
	steps = append(steps, step)
	if s.failFast && step.Status == StepFailed {
		return s.finish(steps, startTime)
	}

	// Step 3: provider selection
	step = s.runStep("Generation Provider", func() (bool, string, error) {
		result := s.checker.CheckProvider()
		return result.Valid, result.Message, result.Error
	})
	steps = append(steps, step)
	if s.failFast && step.Status == StepFailed {
		return s.finish(steps, startTime)
	}

	// Step 4: accounts directory
	step = s.runStep("Accounts Directory", func() (bool, string, error) {
		result := s.checker.CheckAccountsDir()
		return result.Valid, result.Message, result.Error
	})
	steps = append(steps, step)
	if s.failFast && step.Status == StepFailed {
		return s.finish(steps, startTime)
	}

	// Step 5: prompt source
	step = s.runStep("Prompt Source", func() (bool, string, error) {
		result := s.checker.CheckPromptSource()
		return result.Valid, result.Message, result.Error
	})
	steps = append(steps, step)
	if s.failFast && step.Status == StepFailed {
		return s.finish(steps, startTime)
	}

	// Step 6: output root
	step = s.runStep("Output Root", func() (bool, string, error) {
		result := s.checker.CheckOutputRoot()
		return result.Valid, result.Message, result.Error
	})
	steps = append(steps, step)
	if s.failFast && step.Status == StepFailed {
		return s.finish(steps, startTime)
	}

	// Step 7: disk space (only meaningful if the output root is writable)
	if step.Status == StepPassed {
		step = s.diskSpaceStep()
	} else {
		step = PreflightStep{
			Name:    "Disk Space",
			Status:  StepSkipped,
			Message: "Skipped: output root not writable",
		}
	}
	if s.showProgress {
		s.printStep(step)
	}
	steps = append(steps, step)

	// Step 8: run ledger location
	if s.cfg.LedgerEnabled() {
		step = s.runStep("Run Ledger", func() (bool, string, error) {
			result := s.checker.CheckLedgerPath()
			return result.Valid, result.Message, result.Error
		})
	} else {
		step = PreflightStep{
			Name:    "Run Ledger",
			Status:  StepSkipped,
			Message: "Disabled (no ledger_path configured)",
		}
		if s.showProgress {
			s.printStep(step)
		}
	}
	steps = append(steps, step)

	return s.finish(steps, startTime)
}

// configSourceStep reports which configuration file the run picked up.
func (s *PreflightSuite) configSourceStep() PreflightStep {
	if err := CheckFileExists(s.configPath); err == nil {
		return PreflightStep{
			Name:    "Configuration Source",
			Status:  StepPassed,
			Message: s.configPath,
		}
	}
	if err := CheckFileExists(s.envPath); err == nil {
		return PreflightStep{
			Name:    "Configuration Source",
			Status:  StepPassed,
			Message: s.envPath,
		}
	}
	return PreflightStep{
		Name:    "Configuration Source",
		Status:  StepWarning,
		Message: fmt.Sprintf("No %s or %s found; using defaults and environment", s.configPath, s.envPath),
	}
}

// diskSpaceStep measures free space at the output root. Low space is a
// warning, not a failure: the run may still complete if images are small.
func (s *PreflightSuite) diskSpaceStep() PreflightStep {
	start := time.Now()
	info, err := GetDiskSpace(s.cfg.OutputRoot)
	if err != nil {
		return PreflightStep{
			Name:    "Disk Space",
			Status:  StepWarning,
			Message: "Could not measure free space at " + s.cfg.OutputRoot,
			Error:   err,
			Latency: time.Since(start),
		}
	}
	if info.Free < MinOutputFreeBytes {
		return PreflightStep{
			Name:    "Disk Space",
			Status:  StepWarning,
			Message: fmt.Sprintf("Only %s free at %s", info.FreeFormatted, s.cfg.OutputRoot),
			Latency: time.Since(start),
		}
	}
	return PreflightStep{
		Name:    "Disk Space",
		Status:  StepPassed,
		Message: fmt.Sprintf("%s free at %s", info.FreeFormatted, s.cfg.OutputRoot),
		Latency: time.Since(start),
	}
}

// runStep executes a preflight step with timing and progress output.
func (s *PreflightSuite) runStep(name string, fn func() (bool, string, error)) PreflightStep {
	step := PreflightStep{Name: name, Status: StepRunning}

	if s.showProgress {
		s.printStepStart(name)
	}

	startTime := time.Now()
	passed, message, err := fn()
	step.Latency = time.Since(startTime)
	step.Message = message
	step.Error = err

	if passed {
		step.Status = StepPassed
	} else {
		step.Status = StepFailed
	}

	if s.showProgress {
		s.printStep(step)
	}

	return step
}

// finish builds the SuiteResult and prints the summary.
func (s *PreflightSuite) finish(steps []PreflightStep, startTime time.Time) SuiteResult {
	result := s.buildResult(steps, startTime)
	if s.showProgress {
		s.printSummary(result)
	}
	return result
}

// buildResult creates a SuiteResult from completed steps.
func (s *PreflightSuite) buildResult(steps []PreflightStep, startTime time.Time) SuiteResult {
	result := SuiteResult{
		Steps:      steps,
		TotalSteps: len(steps),
		Duration:   time.Since(startTime),
		Success:    true,
	}

	for _, step := range steps {
		switch step.Status {
		case StepPassed:
			result.PassedSteps++
		case StepFailed:
			result.FailedSteps++
			result.Success = false
		case StepWarning:
			result.Warnings++
		}
	}

	return result
}

// printHeader prints a preflight header.
func (s *PreflightSuite) printHeader(title string) {
	fmt.Fprintln(s.output)
	headerColor := color.New(color.FgCyan, color.Bold)
	headerColor.Fprintf(s.output, "━━━ %s ━━━\n", title)
	fmt.Fprintln(s.output)
}

// printStepStart prints the step name before execution (for real-time feedback).
func (s *PreflightSuite) printStepStart(name string) {
	fmt.Fprintf(s.output, "  ◌ %s...", name)
}

// printStep prints a completed preflight step with status indicator.
func (s *PreflightSuite) printStep(step PreflightStep) {
	var icon string
	var clr *color.Color

	switch step.Status {
	case StepPassed:
		icon = "✓"
		clr = color.New(color.FgGreen)
	case StepFailed:
		icon = "✗"
		clr = color.New(color.FgRed)
	case StepWarning:
		icon = "!"
		clr = color.New(color.FgYellow)
	case StepSkipped:
		icon = "○"
		clr = color.New(color.FgHiBlack)
	default:
		icon = "?"
		clr = color.New(color.FgWhite)
	}

	// Clear the "running" line and print result
	fmt.Fprintf(s.output, "\r")
	clr.Fprintf(s.output, "  %s %s", icon, step.Name)

	// Add message if present
	if step.Message != "" {
		dim := color.New(color.FgHiBlack)
		dim.Fprintf(s.output, " - %s", step.Message)
	}

	fmt.Fprintln(s.output)

	// Print error details for failed steps
	if step.Status == StepFailed && step.Error != nil {
		errColor := color.New(color.FgRed)
		errColor.Fprintf(s.output, "    └─ %s\n", step.Error.Error())
	}
}

// printSummary prints the preflight summary.
func (s *PreflightSuite) printSummary(result SuiteResult) {
	fmt.Fprintln(s.output)

	if result.Success {
		successColor := color.New(color.FgGreen, color.Bold)
		successColor.Fprintf(s.output, "━━━ Preflight Passed ")
		color.New(color.FgHiBlack).Fprintf(s.output, "(%d/%d checks passed in %v)",
			result.PassedSteps, result.TotalSteps, result.Duration.Round(time.Millisecond))
		successColor.Fprintln(s.output, " ━━━")
	} else {
		failColor := color.New(color.FgRed, color.Bold)
		failColor.Fprintf(s.output, "━━━ Preflight Failed ")
		color.New(color.FgHiBlack).Fprintf(s.output, "(%d passed, %d failed)",
			result.PassedSteps, result.FailedSteps)
		failColor.Fprintln(s.output, " ━━━")
	}

	fmt.Fprintln(s.output)
}

// GetErrors returns all errors from failed steps.
func (r SuiteResult) GetErrors() []error {
	errors := make([]error, 0)
	for _, step := range r.Steps {
		if step.Error != nil {
			errors = append(errors, step.Error)
		}
	}
	return errors
}

// GetFirstError returns the first error from failed steps, or nil if all passed.
func (r SuiteResult) GetFirstError() error {
	for _, step := range r.Steps {
		if step.Error != nil {
			return step.Error
		}
	}
	return nil
}

// Summary returns a human-readable summary string.
func (r SuiteResult) Summary() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Preflight %s: ", map[bool]string{true: "Passed", false: "Failed"}[r.Success]))
	sb.WriteString(fmt.Sprintf("%d/%d checks passed", r.PassedSteps, r.TotalSteps))
	if r.FailedSteps > 0 {
		sb.WriteString(fmt.Sprintf(", %d failed", r.FailedSteps))
	}
	if r.Warnings > 0 {
		sb.WriteString(fmt.Sprintf(", %d warnings", r.Warnings))
	}
	sb.WriteString(fmt.Sprintf(" (took %v)", r.Duration.Round(time.Millisecond)))
	return sb.String()
}
