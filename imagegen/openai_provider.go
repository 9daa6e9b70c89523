// Package imagegen turns prompts into downloaded image artifacts.
//
// openai_provider.go implements the OpenAIProvider molecule for running a
// batch against an OpenAI-compatible images API instead of session
// accounts. The API key authenticates every call; accounts still gate
// scheduling, so a batch behaves the same under either provider.
//
// This molecule composes:
//   - core.Config: for API configuration
//   - go-openai client: for API calls
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/LinkuDev/dreamina/account"
	"github.com/LinkuDev/dreamina/core"
)

// OpenAIProvider implements Provider for the OpenAI images API.
//
// Thread Safety: OpenAIProvider is safe for concurrent use. The underlying
// client handles connection pooling.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	retry  RetryConfig
}

// NewOpenAIProvider creates a provider from the pipeline configuration.
// Returns an error if the API key is empty.
func NewOpenAIProvider(cfg *core.Config) (*OpenAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("imagegen: OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.OpenAIModel
	if model == "" {
		model = openai.CreateImageModelDallE3
	}

	retry := RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = DefaultRetryConfig().MaxAttempts
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = DefaultRetryConfig().BaseDelay
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		retry:  retry,
	}, nil
}

// Generate creates req.Count images and returns their hosted URLs in
// response order. The account is not consulted for authentication; quota
// still comes from the oracle like any other account. Rate limits, server
// errors and transport failures are retried with the same doubling backoff
// as the session provider.
func (p *OpenAIProvider) Generate(ctx context.Context, _ *account.Account, req GenerationRequest) ([]string, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("imagegen: prompt cannot be empty")
	}

	count := req.Count
	if count < 1 {
		count = 1
	}

	request := openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          p.model,
		N:              count,
		Size:           fmt.Sprintf("%dx%d", req.Width, req.Height),
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}

	var urls []string
	err := retryWithBackoff(ctx, p.retry, func() (bool, error) {
		response, err := p.client.CreateImage(ctx, request)
		if err != nil {
			return retryableOpenAIError(err), fmt.Errorf("imagegen: OpenAI image generation failed: %w", err)
		}

		got := make([]string, 0, len(response.Data))
		for _, item := range response.Data {
			if item.URL != "" {
				got = append(got, item.URL)
			}
		}
		if len(got) == 0 {
			// An empty answer is the API refusing the prompt, not a blip.
			return false, fmt.Errorf("imagegen: OpenAI returned no image URLs")
		}

		urls = got
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// retryableOpenAIError reports whether an SDK error merits another attempt.
// API answers are classified by their HTTP status; anything without one is
// a transport failure and always retryable.
func retryableOpenAIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatuses[apiErr.HTTPStatusCode]
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatuses[reqErr.HTTPStatusCode]
	}
	return true
}

// Model returns the configured image model identifier.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Ensure OpenAIProvider implements Provider at compile time.
var _ Provider = (*OpenAIProvider)(nil)
