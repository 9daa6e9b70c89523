package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LinkuDev/dreamina/core"
)

// checkerConfig builds a configuration whose paths all resolve inside a
// fresh temp directory, with one account file and a prompt file in place.
func checkerConfig(t *testing.T) *core.Config {
	t.Helper()

	root := t.TempDir()
	accountsDir := filepath.Join(root, "accounts")
	if err := os.MkdirAll(accountsDir, 0o755); err != nil {
		t.Fatalf("mkdir accounts: %v", err)
	}
	account := "session-credential-value\n[{\"name\": \"sessionid\", \"value\": \"abc\"}]\n"
	if err := os.WriteFile(filepath.Join(accountsDir, "alpha.txt"), []byte(account), 0o644); err != nil {
		t.Fatalf("write account: %v", err)
	}

	promptsFile := filepath.Join(root, "prompts.txt")
	if err := os.WriteFile(promptsFile, []byte("a quiet harbor at dawn\n"), 0o644); err != nil {
		t.Fatalf("write prompts: %v", err)
	}

	return &core.Config{
		BaseURL:     "https://api.dreamina.example",
		Provider:    core.ProviderDreamina,
		AccountsDir: accountsDir,
		PromptsFile: promptsFile,
		OutputRoot:  filepath.Join(root, "output"),
	}
}

func TestConfigChecker_AllValid(t *testing.T) {
	checker := NewConfigChecker(checkerConfig(t))

	results := checker.ValidateAll()
	for i, result := range results {
		if !result.Valid {
			t.Errorf("check %d failed: %s (%v)", i, result.Message, result.Error)
		}
	}
	if !checker.IsValid() {
		t.Error("IsValid() = false, want true")
	}
	if err := checker.GetFirstError(); err != nil {
		t.Errorf("GetFirstError() = %v, want nil", err)
	}
}

func TestConfigChecker_CheckBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		valid   bool
	}{
		{"https URL", "https://api.dreamina.example", true},
		{"http URL", "http://localhost:8080", true},
		{"missing scheme", "api.dreamina.example", false},
		{"ftp scheme", "ftp://api.dreamina.example", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := checkerConfig(t)
			cfg.BaseURL = tt.baseURL
			result := NewConfigChecker(cfg).CheckBaseURL()
			if result.Valid != tt.valid {
				t.Errorf("CheckBaseURL() valid = %v, want %v (%s)", result.Valid, tt.valid, result.Message)
			}
			if !tt.valid && result.Error == nil {
				t.Error("failed check should carry an error")
			}
		})
	}
}

func TestConfigChecker_CheckProvider(t *testing.T) {
	t.Run("dreamina", func(t *testing.T) {
		cfg := checkerConfig(t)
		result := NewConfigChecker(cfg).CheckProvider()
		if !result.Valid {
			t.Errorf("CheckProvider() failed: %s", result.Message)
		}
	})

	t.Run("openai without key", func(t *testing.T) {
		cfg := checkerConfig(t)
		cfg.Provider = core.ProviderOpenAI
		cfg.OpenAIAPIKey = ""
		result := NewConfigChecker(cfg).CheckProvider()
		if result.Valid {
			t.Error("CheckProvider() should fail without an API key")
		}
		if _, ok := core.IsConfigError(result.Error); !ok {
			t.Errorf("error should be a ConfigError, got %T", result.Error)
		}
	})

	t.Run("openai with key", func(t *testing.T) {
		cfg := checkerConfig(t)
		cfg.Provider = core.ProviderOpenAI
		cfg.OpenAIAPIKey = "sk-test-key"
		result := NewConfigChecker(cfg).CheckProvider()
		if !result.Valid {
			t.Errorf("CheckProvider() failed: %s", result.Message)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := checkerConfig(t)
		cfg.Provider = "stable-diffusion"
		result := NewConfigChecker(cfg).CheckProvider()
		if result.Valid {
			t.Error("CheckProvider() should fail for unknown provider")
		}
	})
}

func TestConfigChecker_CheckAccountsDir(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		cfg := checkerConfig(t)
		cfg.AccountsDir = filepath.Join(cfg.AccountsDir, "absent")
		result := NewConfigChecker(cfg).CheckAccountsDir()
		if result.Valid {
			t.Error("CheckAccountsDir() should fail for a missing directory")
		}
	})

	t.Run("no account files", func(t *testing.T) {
		cfg := checkerConfig(t)
		cfg.AccountsDir = t.TempDir()
		result := NewConfigChecker(cfg).CheckAccountsDir()
		if result.Valid {
			t.Error("CheckAccountsDir() should fail for an empty directory")
		}
		cfgErr, ok := core.IsConfigError(result.Error)
		if !ok {
			t.Fatalf("error should be a ConfigError, got %T", result.Error)
		}
		if cfgErr.Code != "NO_USABLE_ACCOUNTS" {
			t.Errorf("Code = %q, want NO_USABLE_ACCOUNTS", cfgErr.Code)
		}
	})

	t.Run("non-txt files ignored", func(t *testing.T) {
		cfg := checkerConfig(t)
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		cfg.AccountsDir = dir
		result := NewConfigChecker(cfg).CheckAccountsDir()
		if result.Valid {
			t.Error("CheckAccountsDir() should fail when only non-txt files exist")
		}
	})
}

func TestConfigChecker_CheckPromptSource(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := checkerConfig(t)
		cfg.PromptsFile = filepath.Join(t.TempDir(), "absent.txt")
		result := NewConfigChecker(cfg).CheckPromptSource()
		if result.Valid {
			t.Error("CheckPromptSource() should fail for a missing file")
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		cfg := checkerConfig(t)
		path := filepath.Join(t.TempDir(), "prompts.docx")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		cfg.PromptsFile = path
		result := NewConfigChecker(cfg).CheckPromptSource()
		if result.Valid {
			t.Error("CheckPromptSource() should fail for unsupported extensions")
		}
	})

	t.Run("supported extensions", func(t *testing.T) {
		for _, ext := range []string{".txt", ".csv", ".tsv", ".pdf"} {
			cfg := checkerConfig(t)
			path := filepath.Join(t.TempDir(), "prompts"+ext)
			if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			cfg.PromptsFile = path
			result := NewConfigChecker(cfg).CheckPromptSource()
			if !result.Valid {
				t.Errorf("CheckPromptSource() failed for %s: %s", ext, result.Message)
			}
		}
	})
}

func TestConfigChecker_CheckOutputRoot(t *testing.T) {
	cfg := checkerConfig(t)
	result := NewConfigChecker(cfg).CheckOutputRoot()
	if !result.Valid {
		t.Errorf("CheckOutputRoot() failed: %s (%v)", result.Message, result.Error)
	}
	if err := CheckDirExists(cfg.OutputRoot); err != nil {
		t.Errorf("output root should be created by the check: %v", err)
	}
}

func TestConfigChecker_CheckLedgerPath(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := checkerConfig(t)
		cfg.LedgerPath = ""
		result := NewConfigChecker(cfg).CheckLedgerPath()
		if !result.Valid {
			t.Errorf("CheckLedgerPath() should pass when disabled: %s", result.Message)
		}
	})

	t.Run("enabled with writable parent", func(t *testing.T) {
		cfg := checkerConfig(t)
		cfg.LedgerPath = filepath.Join(t.TempDir(), "ledger", "runs.db")
		result := NewConfigChecker(cfg).CheckLedgerPath()
		if !result.Valid {
			t.Errorf("CheckLedgerPath() failed: %s (%v)", result.Message, result.Error)
		}
	})
}
