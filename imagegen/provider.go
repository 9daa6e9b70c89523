// Package imagegen turns prompts into downloaded image artifacts.
//
// provider.go defines the interface every generation backend implements.
package imagegen

import (
	"context"

	"github.com/LinkuDev/dreamina/account"
)

// GenerationRequest is one prompt's worth of work for a provider.
type GenerationRequest struct {
	// Prompt is the text driving the generation.
	Prompt string
	// NegativePrompt steers the model away from content; omitted from the
	// wire when empty.
	NegativePrompt string
	// Width and Height are the target dimensions in pixels.
	Width  int
	Height int
	// Count is how many images to request for the prompt.
	Count int
	// SampleStrength tunes how literally the model follows the prompt.
	SampleStrength float64
}

// Provider is the interface for image generation backends.
//
// Generate submits one prompt under the given account and returns the
// hosted URLs of the generated images, in response order. The URLs are
// temporary, so callers download them promptly; the Executor owns that.
type Provider interface {
	Generate(ctx context.Context, acct *account.Account, req GenerationRequest) ([]string, error)
}
