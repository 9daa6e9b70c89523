// Package imagegen turns prompts into downloaded image artifacts.
//
// executor.go implements the Executor organism that runs one prompt end to
// end: generate through the configured provider, then land every returned
// URL as a named artifact.
//
// This organism composes:
//   - Provider: DreaminaProvider or OpenAIProvider
//   - Downloader: fetches generated images
//   - atoms.go: artifact naming
//   - logging.Logger: structured logging with correlation IDs
package imagegen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LinkuDev/dreamina/account"
	"github.com/LinkuDev/dreamina/core"
	"github.com/LinkuDev/dreamina/logging"
	"github.com/LinkuDev/dreamina/prompts"
)

// Executor runs single prompts against a provider and lands the results.
// It owns artifact naming; the scheduler owns which account and prompt are
// up next.
type Executor struct {
	provider   Provider
	downloader *Downloader
	logger     *logging.Logger
	config     ExecutorConfig
}

// ExecutorConfig holds the run-wide settings the executor needs. The
// source label half of the artifact path comes from the acting account at
// attempt time, so it does not appear here.
type ExecutorConfig struct {
	// OutputRoot is the directory all artifacts land under.
	OutputRoot string
	// RatioLabel is the path-safe aspect ratio, e.g. "16-9".
	RatioLabel string
	// Width and Height are the generation dimensions in pixels.
	Width  int
	Height int
	// ImageCount is how many images to request per prompt.
	ImageCount int
	// NegativePrompt, when set, is sent with every generation.
	NegativePrompt string
	// SampleStrength is forwarded to the provider.
	SampleStrength float64
}

// GeneratedImage is one landed artifact.
type GeneratedImage struct {
	// Letter is the artifact's position marker: A, B, C, ...
	Letter string
	// URL is the temporary hosted URL the image came from.
	URL string
	// Path is the final artifact path.
	Path string
	// Size is the artifact size in bytes.
	Size int64
	// Width and Height are decoded pixel bounds, zero when unknown.
	Width  int
	Height int
}

// PromptResult is the outcome of one prompt attempt.
type PromptResult struct {
	// PromptIndex is the prompt's 1-based number.
	PromptIndex int
	// Requested is how many URLs the provider returned.
	Requested int
	// Images holds the artifacts that downloaded successfully, lettered
	// A, B, C, ... with no gaps.
	Images []GeneratedImage
}

// NewExecutor creates an Executor. Returns an error if any required
// component is missing.
func NewExecutor(provider Provider, downloader *Downloader, logger *logging.Logger, config ExecutorConfig) (*Executor, error) {
	if provider == nil {
		return nil, fmt.Errorf("imagegen: provider cannot be nil")
	}
	if downloader == nil {
		return nil, fmt.Errorf("imagegen: downloader cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("imagegen: logger cannot be nil")
	}
	if config.OutputRoot == "" {
		return nil, fmt.Errorf("imagegen: output root is required")
	}
	if config.ImageCount < 1 {
		config.ImageCount = 1
	}

	return &Executor{
		provider:   provider,
		downloader: downloader,
		logger:     logger.Named("executor"),
		config:     config,
	}, nil
}

// GenerateAndDownload runs one prompt under one account: submit to the
// provider, then download every returned URL. A failed download costs the
// affected image only; the rest of the batch lands. A generation failure
// returns a PipelineError and no result.
//
// Cancellation mid-download returns the images landed so far together with
// a Cancelled error.
func (e *Executor) GenerateAndDownload(ctx context.Context, acct *account.Account, prompt prompts.Prompt) (*PromptResult, error) {
	if acct == nil {
		return nil, fmt.Errorf("imagegen: account cannot be nil")
	}

	correlationID := newCorrelationID()
	log := e.logger.With(
		zap.String(logging.FieldCorrelationID, correlationID),
		zap.String(logging.FieldAccount, acct.Name),
		zap.Int(logging.FieldPromptIndex, prompt.Index),
	)

	log.Info("Generating images",
		zap.String("prompt_preview", truncateText(prompt.Text, 50)),
		zap.Int("count", e.config.ImageCount),
	)

	urls, err := e.provider.Generate(ctx, acct, GenerationRequest{
		Prompt:         prompt.Text,
		NegativePrompt: e.config.NegativePrompt,
		Width:          e.config.Width,
		Height:         e.config.Height,
		Count:          e.config.ImageCount,
		SampleStrength: e.config.SampleStrength,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.ErrCancelled(ctx.Err())
		}
		log.Error("Generation failed", zap.Error(err))
		return nil, core.ErrRequestFailed(prompt.Index, err)
	}

	log.Debug("Generation succeeded", zap.Int("urls", len(urls)))

	result := &PromptResult{
		PromptIndex: prompt.Index,
		Requested:   len(urls),
	}

	sourceLabel := SanitizeLabel(acct.Name)
	dir := ArtifactDir(e.config.OutputRoot, sourceLabel, e.config.RatioLabel)
	for _, url := range urls {
		if ctx.Err() != nil {
			return result, core.ErrCancelled(ctx.Err())
		}

		// Letters track landed artifacts, not URL positions: a failed
		// download leaves no gap in the sequence.
		letter := Letter(len(result.Images))
		stem := ArtifactStem(prompt.Index, letter, sourceLabel, e.config.RatioLabel)

		dl, err := e.downloader.Download(ctx, url, dir, stem)
		if err != nil {
			if ctx.Err() != nil {
				return result, core.ErrCancelled(ctx.Err())
			}
			log.Warn("Image download failed",
				zap.String("error_code", core.ErrCodeDownloadFailed),
				zap.Error(core.ErrDownloadFailed(truncateText(url, 100), err)),
			)
			continue
		}

		result.Images = append(result.Images, GeneratedImage{
			Letter: letter,
			URL:    url,
			Path:   dl.Path,
			Size:   dl.Size,
			Width:  dl.Width,
			Height: dl.Height,
		})
		if dl.Width == 0 && dl.Height == 0 {
			// The artifact stays on disk; only the bounds are unknown.
			log.Warn("Artifact did not decode as an image",
				zap.String("letter", letter),
				zap.String("path", dl.Path),
				zap.String("content_type", dl.ContentType),
			)
		}
		log.Debug("Image downloaded",
			zap.String("letter", letter),
			zap.String("path", dl.Path),
			zap.String("size", core.FormatBytes(dl.Size)),
			zap.Int("width", dl.Width),
			zap.Int("height", dl.Height),
		)
	}

	log.Info("Prompt attempt finished",
		zap.Int("requested", result.Requested),
		zap.Int("downloaded", len(result.Images)),
	)

	return result, nil
}

// newCorrelationID returns a short id correlating one prompt attempt
// across log lines.
func newCorrelationID() string {
	return uuid.New().String()[:8]
}
