// Package account loads generation account credential files from disk.
//
// One account per file: line 1 holds the opaque session credential and the
// remainder is a JSON array of browser cookies exported for that account.
// The file name stem is the account's identity everywhere in the pipeline
// (logs, console reports, run ledger).
package account

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Cookie is one auxiliary token sent alongside the session credential on
// every API call for the account. Fields beyond name/value in the export
// are ignored.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Account is one generation account.
type Account struct {
	// Name is the account file's stem and the identity used in logs,
	// reports, and the run ledger. Never the credential.
	Name string
	// SessionCredential is the opaque bearer credential from line 1.
	SessionCredential string
	// Cookies are the auxiliary tokens parsed from the JSON remainder.
	Cookies []Cookie
}

// CookieHeader renders the account's cookies as a single Cookie header
// value, or "" when the account has none.
func (a *Account) CookieHeader() string {
	if len(a.Cookies) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(a.Cookies))
	for _, c := range a.Cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// Parse parses account file content under the given identity. Line 1 is
// the session credential; everything after it must be a JSON array of
// cookie objects (it may span multiple lines).
func Parse(name, content string) (*Account, error) {
	content = strings.TrimPrefix(content, "\uFEFF")

	credential := content
	remainder := ""
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		credential = content[:idx]
		remainder = content[idx+1:]
	}

	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("account: %s: missing session credential on line 1", name)
	}

	remainder = strings.TrimSpace(remainder)
	if remainder == "" {
		return nil, fmt.Errorf("account: %s: missing cookie JSON after line 1", name)
	}

	var cookies []Cookie
	if err := json.Unmarshal([]byte(remainder), &cookies); err != nil {
		return nil, fmt.Errorf("account: %s: malformed cookie JSON: %w", name, err)
	}

	return &Account{
		Name:              name,
		SessionCredential: credential,
		Cookies:           cookies,
	}, nil
}
