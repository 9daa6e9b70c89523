package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPipelineErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *PipelineError
		contains []string
	}{
		{
			name:     "with cause",
			err:      &PipelineError{Code: ErrCodeRequestFailed, Message: "generation request for prompt 3 failed", Err: errors.New("status 502")},
			contains: []string{"prompt 3", "status 502"},
		},
		{
			name:     "without cause",
			err:      &PipelineError{Code: ErrCodeInsufficientQuota, Message: "account \"england\" has 4 credits"},
			contains: []string{"england", "4 credits"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Error() = %q, expected to contain %q", got, s)
				}
			}
		})
	}
}

func TestPipelineErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrRequestFailed(7, cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	wrapped := fmt.Errorf("dispatch: %w", err)
	pe, ok := IsPipelineError(wrapped)
	if !ok {
		t.Fatal("IsPipelineError should find the error through wrapping")
	}
	if pe.Code != ErrCodeRequestFailed {
		t.Errorf("code = %s, want %s", pe.Code, ErrCodeRequestFailed)
	}
}

func TestPipelineErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"oracle unavailable", ErrOracleUnavailable("england", "timeout"), ErrCodeOracleUnavailable},
		{"insufficient quota", ErrInsufficientQuota("france", 4, 5), ErrCodeInsufficientQuota},
		{"request failed", ErrRequestFailed(1, errors.New("boom")), ErrCodeRequestFailed},
		{"download failed", ErrDownloadFailed("https://cdn.test/a.jpeg", errors.New("eof")), ErrCodeDownloadFailed},
		{"cancelled", ErrCancelled(errors.New("context canceled")), ErrCodeCancelled},
		{"no accounts remaining", ErrNoAccountsRemaining(3), ErrCodeNoAccountsRemaining},
		{"plain error", errors.New("plain"), ""},
		{"nil-adjacent wrap", fmt.Errorf("outer: %w", ErrCancelled(nil)), ErrCodeCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PipelineErrorCode(tt.err); got != tt.want {
				t.Errorf("PipelineErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigErrorError(t *testing.T) {
	withAction := &ConfigError{Code: "TEST", Message: "Message", Action: "Do the thing"}
	if got := withAction.Error(); !strings.Contains(got, "Message") || !strings.Contains(got, "Do the thing") {
		t.Errorf("Error() = %q", got)
	}

	noAction := &ConfigError{Code: "TEST", Message: "Message only"}
	if got := noAction.Error(); got != "Message only" {
		t.Errorf("Error() = %q, want message alone", got)
	}
}

func TestIsConfigErrorThroughWrap(t *testing.T) {
	err := fmt.Errorf("startup: %w", ErrNoUsableAccounts("accounts"))
	ce, ok := IsConfigError(err)
	if !ok {
		t.Fatal("IsConfigError should find the error through wrapping")
	}
	if ce.Code != ErrCodeNoUsableAccounts {
		t.Errorf("code = %s, want %s", ce.Code, ErrCodeNoUsableAccounts)
	}

	if _, ok := IsConfigError(errors.New("plain")); ok {
		t.Error("plain error should not be a ConfigError")
	}
}

func TestErrNoAccountsRemainingMessage(t *testing.T) {
	err := ErrNoAccountsRemaining(3)
	if !strings.Contains(err.Error(), "3 prompts unprocessed") {
		t.Errorf("message should carry the unprocessed count, got %q", err.Error())
	}
}
