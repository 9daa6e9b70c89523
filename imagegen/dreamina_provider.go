// Package imagegen turns prompts into downloaded image artifacts.
//
// dreamina_provider.go implements the DreaminaProvider molecule that calls
// the session-authenticated generation endpoint.
//
// This molecule composes:
//   - retry.go: retryWithBackoff for transient API failures
//   - account.Account: session credential and cookies per request
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LinkuDev/dreamina/account"
	"github.com/LinkuDev/dreamina/core"
)

// generationsPath is the generation endpoint under the API origin.
const generationsPath = "/v1/images/generations"

// retryableStatuses are the HTTP statuses worth another attempt. The rest
// of 4xx is deterministic and fails immediately.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// DreaminaProvider implements Provider against the generation endpoint.
// Every request is authenticated with the acting account's session
// credential and cookies, so one provider instance serves all accounts.
//
// Thread Safety: DreaminaProvider is safe for concurrent use.
type DreaminaProvider struct {
	baseURL string
	model   string
	client  *http.Client
	retry   RetryConfig
}

// NewDreaminaProvider creates a provider from the pipeline configuration.
func NewDreaminaProvider(cfg *core.Config) (*DreaminaProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("imagegen: base URL is required")
	}

	model := cfg.Model
	if model == "" {
		model = "jimeng-3.0"
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	retry := RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = DefaultRetryConfig().MaxAttempts
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = DefaultRetryConfig().BaseDelay
	}

	return &DreaminaProvider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		retry:   retry,
	}, nil
}

// generationRequest is the wire shape of one generation call.
type generationRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	N              int     `json:"n"`
	SampleStrength float64 `json:"sample_strength"`
}

// generationResponse is the wire shape of the endpoint's answer.
type generationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate submits the prompt and returns hosted image URLs in response
// order. Transport errors, 429 and 5xx answers are retried with doubling
// backoff; other failures return immediately.
func (p *DreaminaProvider) Generate(ctx context.Context, acct *account.Account, req GenerationRequest) ([]string, error) {
	if acct == nil {
		return nil, fmt.Errorf("imagegen: account cannot be nil")
	}
	if req.Prompt == "" {
		return nil, fmt.Errorf("imagegen: prompt cannot be empty")
	}

	body, err := json.Marshal(generationRequest{
		Model:          p.model,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Width:          req.Width,
		Height:         req.Height,
		N:              req.Count,
		SampleStrength: req.SampleStrength,
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: encode generation request: %w", err)
	}

	var urls []string
	err = retryWithBackoff(ctx, p.retry, func() (bool, error) {
		got, retryable, err := p.generateOnce(ctx, acct, body)
		if err != nil {
			return retryable, err
		}
		urls = got
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// generateOnce performs a single generation call. The middle return reports
// whether the failure merits another attempt.
func (p *DreaminaProvider) generateOnce(ctx context.Context, acct *account.Account, body []byte) ([]string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+generationsPath, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("imagegen: build generation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+acct.SessionCredential)
	req.Header.Set("Content-Type", "application/json")
	if header := acct.CookieHeader(); header != "" {
		req.Header.Set("Cookie", header)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("imagegen: generation request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("imagegen: read generation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serviceErrorMessage(raw)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, retryableStatuses[resp.StatusCode], fmt.Errorf("imagegen: generation returned status %d: %s", resp.StatusCode, msg)
	}

	var parsed generationResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, false, fmt.Errorf("imagegen: malformed generation response: %w", err)
	}

	urls := make([]string, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		if item.URL != "" {
			urls = append(urls, item.URL)
		}
	}
	if len(urls) == 0 {
		// A well-formed answer with nothing in it means the service
		// refused the prompt; another attempt would refuse it again.
		msg := "no images in response"
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, false, fmt.Errorf("imagegen: generation returned no images: %s", msg)
	}

	return urls, false, nil
}

// serviceErrorMessage pulls the error message out of a failure body, when
// there is one.
func serviceErrorMessage(raw []byte) string {
	var parsed generationResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Error == nil {
		return ""
	}
	return parsed.Error.Message
}

// Model returns the configured model identifier.
func (p *DreaminaProvider) Model() string {
	return p.model
}

// Ensure DreaminaProvider implements Provider at compile time.
var _ Provider = (*DreaminaProvider)(nil)
