package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LinkuDev/dreamina/core"
)

// CheckResult represents the result of a single preflight check.
type CheckResult struct {
	Valid   bool
	Message string
	Error   error
}

// ConfigChecker composes path and URL validation atoms into the preflight
// checks the pipeline needs before any account is touched. This is a
// molecule: each check inspects one configured concern and reports a
// CheckResult with a remediation-oriented message.
type ConfigChecker struct {
	cfg *core.Config
}

// NewConfigChecker creates a ConfigChecker for the given configuration.
func NewConfigChecker(cfg *core.Config) *ConfigChecker {
	return &ConfigChecker{cfg: cfg}
}

// CheckBaseURL validates the generation API base URL.
func (c *ConfigChecker) CheckBaseURL() CheckResult {
	if err := ValidateBaseURL(c.cfg.BaseURL); err != nil {
		return CheckResult{
			Valid:   false,
			Message: "Invalid API base URL: " + c.cfg.BaseURL + ". Example: https://api.dreamina.com",
			Error:   fmt.Errorf("base_url: %w", err),
		}
	}
	return CheckResult{
		Valid:   true,
		Message: "API base URL valid",
	}
}

// CheckProvider validates the provider selection and its credentials.
func (c *ConfigChecker) CheckProvider() CheckResult {
	switch c.cfg.Provider {
	case core.ProviderDreamina:
		return CheckResult{
			Valid:   true,
			Message: "Dreamina provider (session accounts)",
		}
	case core.ProviderOpenAI:
		if strings.TrimSpace(c.cfg.OpenAIAPIKey) == "" {
			return CheckResult{
				Valid:   false,
				Message: "OpenAI provider selected but no API key configured. Set OPENAI_API_KEY.",
				Error:   core.ErrMissingConfig("openai_api_key"),
			}
		}
		return CheckResult{
			Valid:   true,
			Message: "OpenAI provider (API key configured)",
		}
	default:
		return CheckResult{
			Valid:   false,
			Message: fmt.Sprintf("Unknown provider %q. Supported: dreamina, openai", c.cfg.Provider),
			Error:   core.ErrMissingConfig("provider"),
		}
	}
}

// CheckAccountsDir validates that the accounts directory exists and holds at
// least one account file.
func (c *ConfigChecker) CheckAccountsDir() CheckResult {
	dir := c.cfg.AccountsDir
	if err := CheckDirExists(dir); err != nil {
		return CheckResult{
			Valid:   false,
			Message: "Accounts directory not found: " + dir,
			Error:   core.ErrAccountsDirUnreadable(dir, err),
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return CheckResult{
			Valid:   false,
			Message: "Accounts directory not readable: " + dir,
			Error:   core.ErrAccountsDirUnreadable(dir, err),
		}
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			count++
		}
	}
	if count == 0 {
		return CheckResult{
			Valid:   false,
			Message: "No account files (*.txt) in " + dir,
			Error:   core.ErrNoUsableAccounts(dir),
		}
	}

	return CheckResult{
		Valid:   true,
		Message: fmt.Sprintf("%d account file(s) found", count),
	}
}

// promptExtensions are the prompt source formats the loader understands.
var promptExtensions = map[string]bool{
	".txt": true,
	".csv": true,
	".tsv": true,
	".pdf": true,
}

// CheckPromptSource validates that the prompt source file exists and has a
// supported extension.
func (c *ConfigChecker) CheckPromptSource() CheckResult {
	path := c.cfg.PromptsFile
	if err := CheckFileExists(path); err != nil {
		return CheckResult{
			Valid:   false,
			Message: "Prompt source not found: " + path,
			Error:   core.ErrPromptSourceUnreadable(path, err),
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !promptExtensions[ext] {
		return CheckResult{
			Valid:   false,
			Message: fmt.Sprintf("Unsupported prompt source format %q. Supported: .txt, .csv, .tsv, .pdf", ext),
			Error:   core.ErrPromptSourceUnreadable(path, fmt.Errorf("unsupported extension %q", ext)),
		}
	}

	return CheckResult{
		Valid:   true,
		Message: "Prompt source readable",
	}
}

// CheckOutputRoot verifies the output root can be created and written.
func (c *ConfigChecker) CheckOutputRoot() CheckResult {
	dir := c.cfg.OutputRoot
	if err := CheckDirWritable(dir); err != nil {
		return CheckResult{
			Valid:   false,
			Message: "Output root not writable: " + dir,
			Error:   core.ErrOutputRootUnwritable(dir, err),
		}
	}
	return CheckResult{
		Valid:   true,
		Message: "Output root writable",
	}
}

// CheckLedgerPath verifies the run ledger location is usable. Returns a
// valid result with a note when the ledger is disabled.
func (c *ConfigChecker) CheckLedgerPath() CheckResult {
	if !c.cfg.LedgerEnabled() {
		return CheckResult{
			Valid:   true,
			Message: "Run ledger disabled",
		}
	}

	parent := filepath.Dir(c.cfg.LedgerPath)
	if err := CheckDirWritable(parent); err != nil {
		return CheckResult{
			Valid:   false,
			Message: "Ledger directory not writable: " + parent,
			Error:   fmt.Errorf("ledger_path: %w", err),
		}
	}
	return CheckResult{
		Valid:   true,
		Message: "Ledger location writable",
	}
}

// ValidateAll runs every check and returns the results in execution order.
// This provides a comprehensive view of the configuration state.
func (c *ConfigChecker) ValidateAll() []CheckResult {
	return []CheckResult{
		c.CheckBaseURL(),
		c.CheckProvider(),
		c.CheckAccountsDir(),
		c.CheckPromptSource(),
		c.CheckOutputRoot(),
		c.CheckLedgerPath(),
	}
}

// GetFirstError returns the first failing check's error, or nil if all pass.
func (c *ConfigChecker) GetFirstError() error {
	for _, result := range c.ValidateAll() {
		if !result.Valid {
			return result.Error
		}
	}
	return nil
}

// IsValid reports whether every check passes.
func (c *ConfigChecker) IsValid() bool {
	return c.GetFirstError() == nil
}
