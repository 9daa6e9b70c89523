package core

import (
	"errors"
	"fmt"
)

// PipelineError classifies a failure inside the generation pipeline. No
// code aborts the run; the scheduler logs the failure and keeps going, and
// the codes let callers and the ledger distinguish the cases.
type PipelineError struct {
	Code    string // classification for programmatic handling
	Message string // human-readable description
	Err     error  // underlying cause, if any
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Pipeline failure codes.
const (
	// ErrCodeOracleUnavailable: the credit probe could not produce a
	// quota reading; the account is skipped.
	ErrCodeOracleUnavailable = "ORACLE_UNAVAILABLE"

	// ErrCodeInsufficientQuota: the probed quota cannot cover a single
	// generation; the account is skipped.
	ErrCodeInsufficientQuota = "INSUFFICIENT_QUOTA"

	// ErrCodeRequestFailed: the generation call failed after exhausting
	// its retry budget; the prompt is recorded failed and the run moves on.
	ErrCodeRequestFailed = "REQUEST_FAILED"

	// ErrCodeDownloadFailed: a single image download failed after retries;
	// the prompt keeps whichever images succeeded.
	ErrCodeDownloadFailed = "DOWNLOAD_FAILED"

	// ErrCodeCancelled: the run context was cancelled mid-flight.
	ErrCodeCancelled = "CANCELLED"

	// ErrCodeNoAccountsRemaining: every account is exhausted or unusable
	// with prompts still pending; the run ends in partial completion.
	ErrCodeNoAccountsRemaining = "NO_ACCOUNTS_REMAINING"
)

// ErrOracleUnavailable builds the skip error for a failed credit probe.
func ErrOracleUnavailable(account, reason string) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeOracleUnavailable,
		Message: fmt.Sprintf("credit probe unavailable for account %q: %s", account, reason),
	}
}

// ErrInsufficientQuota builds the skip error for an account whose quota
// cannot cover one generation.
func ErrInsufficientQuota(account string, quota, cost int) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeInsufficientQuota,
		Message: fmt.Sprintf("account %q has %d credits, below the %d needed per generation", account, quota, cost),
	}
}

// ErrRequestFailed wraps a generation call that exhausted its retries.
func ErrRequestFailed(promptIndex int, err error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeRequestFailed,
		Message: fmt.Sprintf("generation request for prompt %d failed", promptIndex),
		Err:     err,
	}
}

// ErrDownloadFailed wraps a single image download that exhausted its
// retries.
func ErrDownloadFailed(url string, err error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeDownloadFailed,
		Message: fmt.Sprintf("download failed for %s", url),
		Err:     err,
	}
}

// ErrCancelled wraps a context cancellation observed mid-run.
func ErrCancelled(err error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeCancelled,
		Message: "run cancelled",
		Err:     err,
	}
}

// ErrNoAccountsRemaining reports partial completion: accounts ran out with
// prompts still pending.
func ErrNoAccountsRemaining(unprocessed int) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeNoAccountsRemaining,
		Message: fmt.Sprintf("no usable accounts remaining with %d prompts unprocessed", unprocessed),
	}
}

// IsPipelineError extracts a PipelineError from an error chain.
func IsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// PipelineErrorCode returns the classification code from an error chain,
// or "" when the error is not a PipelineError.
func PipelineErrorCode(err error) string {
	if pe, ok := IsPipelineError(err); ok {
		return pe.Code
	}
	return ""
}

// ConfigError represents a startup configuration problem with an
// actionable remediation.
type ConfigError struct {
	Code    string // error code for programmatic handling
	Message string // human-readable error message
	Action  string // actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors.
const (
	ErrCodeConfigFileInvalid = "CONFIG_FILE_INVALID"
	ErrCodeMissingConfig     = "MISSING_CONFIG"
	ErrCodeAccountsDir       = "ACCOUNTS_DIR_UNREADABLE"
	ErrCodeNoUsableAccounts  = "NO_USABLE_ACCOUNTS"
	ErrCodePromptSource      = "PROMPT_SOURCE_UNREADABLE"
	ErrCodeNoPrompts         = "NO_PROMPTS"
	ErrCodeOutputRoot        = "OUTPUT_ROOT_UNWRITABLE"
)

// ErrConfigFileInvalid reports an unreadable or malformed config file.
func ErrConfigFileInvalid(path string, err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeConfigFileInvalid,
		Message: fmt.Sprintf("Cannot use config file %s: %v", path, err),
		Action:  "Fix the YAML syntax or remove the file to rely on environment variables",
	}
}

// ErrMissingConfig reports an unset required setting.
func ErrMissingConfig(name string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", name),
		Action:  fmt.Sprintf("Set %s in config.yaml or the environment", name),
	}
}

// ErrAccountsDirUnreadable reports an accounts directory that cannot be
// listed.
func ErrAccountsDirUnreadable(dir string, err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeAccountsDir,
		Message: fmt.Sprintf("Cannot read accounts directory %s: %v", dir, err),
		Action:  "Create the directory and place one credential file per account in it",
	}
}

// ErrNoUsableAccounts reports that account loading yielded nothing.
func ErrNoUsableAccounts(dir string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeNoUsableAccounts,
		Message: fmt.Sprintf("No usable account files in %s", dir),
		Action:  "Each file needs the session credential on line 1 and a JSON cookie array after it",
	}
}

// ErrPromptSourceUnreadable reports a prompt file that cannot be opened or
// parsed.
func ErrPromptSourceUnreadable(path string, err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodePromptSource,
		Message: fmt.Sprintf("Cannot read prompt source %s: %v", path, err),
		Action:  "Point prompts_file at a readable .txt, .csv, .tsv or .pdf file",
	}
}

// ErrNoPrompts reports an empty prompt source after filtering.
func ErrNoPrompts(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeNoPrompts,
		Message: fmt.Sprintf("Prompt source %s contains no prompts after filtering", path),
		Action:  "Add at least one non-blank prompt line",
	}
}

// ErrOutputRootUnwritable reports an output root that cannot be created or
// written.
func ErrOutputRootUnwritable(dir string, err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeOutputRoot,
		Message: fmt.Sprintf("Cannot write to output root %s: %v", dir, err),
		Action:  "Create the directory or point output_root somewhere writable",
	}
}

// IsConfigError checks whether an error chain carries a ConfigError.
func IsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
