// Package imagegen turns prompts into downloaded image artifacts.
//
// downloader.go implements the Downloader molecule that fetches generated
// images from their temporary hosted URLs and lands them under their final
// artifact names.
//
// This molecule composes:
//   - retry.go: retryWithBackoff for transient download failures
//   - atoms.go: extensionFromContentType for artifact extensions
package imagegen

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	// Artifact bounds are sniffed after download; register the formats the
	// generation services actually serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/LinkuDev/dreamina/core"
)

// Downloader fetches generated images from temporary URLs.
//
// Hosted URLs expire quickly, so downloads run immediately after
// generation. Every image is written to a temp_-prefixed file first and
// renamed into place on success: a crash or cancellation never leaves a
// partial file under a final artifact name.
//
// Thread Safety: Downloader is safe for concurrent use. Each download
// creates its own HTTP request and temp file.
type Downloader struct {
	client *http.Client
	retry  RetryConfig
}

// NewDownloader creates a downloader from the pipeline configuration.
func NewDownloader(cfg *core.Config) (*Downloader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}

	timeout := cfg.DownloadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	retry := RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = DefaultRetryConfig().MaxAttempts
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = DefaultRetryConfig().BaseDelay
	}

	return &Downloader{
		client: &http.Client{Timeout: timeout},
		retry:  retry,
	}, nil
}

// NewDownloaderWithClient creates a downloader with an explicit HTTP client
// and retry policy.
func NewDownloaderWithClient(client *http.Client, retry RetryConfig) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Downloader{client: client, retry: retry}
}

// DownloadResult describes one landed artifact.
type DownloadResult struct {
	// Path is the final artifact path, extension included.
	Path string
	// Size is the artifact size in bytes.
	Size int64
	// ContentType is the MIME type the host served.
	ContentType string
	// Width and Height are the decoded pixel bounds; zero when the bytes
	// did not decode as a known image format.
	Width  int
	Height int
}

// Download fetches url into destDir under stem plus a content-type derived
// extension. Transport errors, 429 and 5xx answers are retried with
// doubling backoff; other failures return immediately.
func (d *Downloader) Download(ctx context.Context, url, destDir, stem string) (*DownloadResult, error) {
	if url == "" {
		return nil, fmt.Errorf("imagegen: URL cannot be empty")
	}
	if stem == "" {
		return nil, fmt.Errorf("imagegen: artifact stem cannot be empty")
	}

	var result *DownloadResult
	err := retryWithBackoff(ctx, d.retry, func() (bool, error) {
		got, retryable, err := d.downloadOnce(ctx, url, destDir, stem)
		if err != nil {
			return retryable, err
		}
		result = got
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// downloadOnce performs a single download attempt: fetch, write to a temp_
// file, rename to the final name.
func (d *Downloader) downloadOnce(ctx context.Context, url, destDir, stem string) (*DownloadResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("imagegen: build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("imagegen: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, retryableStatuses[resp.StatusCode], fmt.Errorf("imagegen: download returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	ext := extensionFromContentType(contentType)
	if ext == "" {
		// Contract fallback for unknown or missing content types
		ext = ".jpeg"
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("imagegen: create artifact directory: %w", err)
	}

	finalPath := filepath.Join(destDir, stem+ext)
	tempPath := filepath.Join(destDir, "temp_"+stem+ext)

	file, err := os.Create(tempPath)
	if err != nil {
		return nil, false, fmt.Errorf("imagegen: create artifact file: %w", err)
	}

	size, err := io.Copy(file, resp.Body)
	if err != nil {
		file.Close()
		os.Remove(tempPath)
		// A truncated body is as transient as a failed dial
		return nil, true, fmt.Errorf("imagegen: write artifact data: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return nil, false, fmt.Errorf("imagegen: close artifact file: %w", err)
	}

	width, height := imageBounds(tempPath)

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return nil, false, fmt.Errorf("imagegen: finalize artifact: %w", err)
	}

	return &DownloadResult{
		Path:        finalPath,
		Size:        size,
		ContentType: contentType,
		Width:       width,
		Height:      height,
	}, false, nil
}

// imageBounds decodes just the header of the artifact to report its pixel
// dimensions. Undecodable bytes are not an error here; the log only loses
// a detail.
func imageBounds(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
