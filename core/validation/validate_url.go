package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateBaseURL validates that an API base URL is well formed with an http
// or https scheme and a host. This is a pure function with no network access.
//
// Returns nil if the URL is valid, or an error describing the validation
// failure.
func ValidateBaseURL(baseURL string) error {
	// Trim whitespace first
	baseURL = strings.TrimSpace(baseURL)

	if baseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	// Parse the URL
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	// Validate scheme
	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme, got: %q", parsedURL.Scheme)
	}

	// Validate host is present
	if parsedURL.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	return nil
}
