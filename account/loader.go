package account

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/LinkuDev/dreamina/core"
	"github.com/LinkuDev/dreamina/logging"
)

// ParseFile reads and parses a single account file. The returned account's
// Name is the file stem.
func ParseFile(path string) (*Account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("account: read %s: %w", filepath.Base(path), err)
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Parse(stem, string(raw))
}

// LoadAccounts reads every *.txt file under dir. os.ReadDir returns entries
// sorted by name, which is the order accounts are consumed in. Unusable
// files (missing credential, missing or malformed cookie JSON) are skipped
// with a warning so one bad export cannot block the batch.
//
// Returns core.ErrNoUsableAccounts when no file parses.
func LoadAccounts(dir string, logger *logging.Logger) ([]*Account, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, core.ErrAccountsDirUnreadable(dir, err)
	}

	accounts := make([]*Account, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}

		acct, err := ParseFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping unusable account file",
					zap.String("file", entry.Name()),
					zap.Error(err),
				)
			}
			continue
		}
		accounts = append(accounts, acct)
	}

	if len(accounts) == 0 {
		return nil, core.ErrNoUsableAccounts(dir)
	}
	return accounts, nil
}
