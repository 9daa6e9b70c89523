package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder replaces sensitive values in log output.
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns match credential material that must never reach a log
// sink. Compiled once at package initialization.
var sensitivePatterns = []*regexp.Regexp{
	// Session identifiers are 32-char hex strings.
	regexp.MustCompile(`(?i)\b[a-f0-9]{32}\b`),
	// Bearer credentials in dumped headers.
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{16,}`),
	// OpenAI-style API keys (sk-... / sk-proj-...), used by the openai provider.
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),
	// Session cookie assignments (sessionid=..., sid_tt: ...).
	regexp.MustCompile(`(?i)(sessionid|sid_tt|sid_guard|uid_tt)\s*[:=]\s*[^\s,;]{8,}`),
	// Generic secret assignments.
	regexp.MustCompile(`(?i)password\s*[:=]\s*[^\s,;]{8,}`),
	regexp.MustCompile(`(?i)secret\s*[:=]\s*[^\s,;]{8,}`),
	regexp.MustCompile(`(?i)token\s*[:=]\s*[^\s,;]{8,}`),
	regexp.MustCompile(`(?i)api_?key\s*[:=]\s*[^\s,;]{8,}`),
}

// sensitiveFieldFragments mark field names whose values are redacted
// unconditionally, regardless of content.
var sensitiveFieldFragments = []string{
	"SESSION",
	"COOKIE",
	"CREDENTIAL",
	"TOKEN",
	"PASSWORD",
	"SECRET",
	"API_KEY",
	"APIKEY",
	"AUTHORIZATION",
}

// RedactSensitiveData scans a string and redacts detected credential
// material. Pure function.
//
// Example:
//
//	out := RedactSensitiveData("probing with bearer 0a1b2c3d4e5f6a7b8c9d")
//	// out: "probing with [REDACTED]"
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}

	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// RedactField redacts a value when the field name indicates credential
// material, and otherwise scans the value itself. Pure function.
//
// Example:
//
//	RedactField("session_credential", "anything") // "[REDACTED]"
//	RedactField("prompt", "a quiet harbor")       // "a quiet harbor"
func RedactField(fieldName, fieldValue string) string {
	if IsSensitiveField(fieldName) {
		return RedactedPlaceholder
	}
	return RedactSensitiveData(fieldValue)
}

// IsSensitiveField reports whether the field name alone marks the value as
// sensitive.
func IsSensitiveField(fieldName string) bool {
	upperName := strings.ToUpper(fieldName)

	for _, fragment := range sensitiveFieldFragments {
		if strings.Contains(upperName, fragment) {
			return true
		}
	}
	return false
}

// ContainsSensitiveData reports whether the value matches any credential
// pattern.
func ContainsSensitiveData(value string) bool {
	if value == "" {
		return false
	}

	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}
