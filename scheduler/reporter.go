// Package scheduler drives a generation run across accounts in fixed order.
//
// reporter.go narrates the run on the console: account activations and
// skips, per-prompt results as they land, and the closing banner. The
// reporter is presentation only; the log file and the ledger carry the
// durable record.
package scheduler

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// promptTextWidth is how much prompt text fits on a progress line next to
// the icon and index.
const promptTextWidth = 48

// Reporter prints run progress in the same visual language as the
// preflight suite. All methods are safe on a nil receiver and stay
// silent, so the scheduler never guards its narration calls.
type Reporter struct {
	output     io.Writer
	outputRoot string
}

// NewReporter creates a Reporter writing to stdout. outputRoot appears in
// the closing summary so the operator can find the artifacts.
func NewReporter(outputRoot string) *Reporter {
	return &Reporter{
		output:     os.Stdout,
		outputRoot: outputRoot,
	}
}

// WithOutput redirects the reporter's output, primarily for tests.
func (r *Reporter) WithOutput(w io.Writer) *Reporter {
	r.output = w
	return r
}

// RunStart prints the run header.
func (r *Reporter) RunStart(runID string, promptCount, accountCount int) {
	if r == nil {
		return
	}

	fmt.Fprintln(r.output)
	color.New(color.FgCyan, color.Bold).Fprintf(r.output, "━━━ Generation Run ━━━\n")
	color.New(color.FgHiBlack).Fprintf(r.output, "  run %s: %d prompts across %d accounts\n",
		runID, promptCount, accountCount)
	fmt.Fprintln(r.output)
}

// AccountActivated prints an account taking a slice of the queue.
func (r *Reporter) AccountActivated(name string, quota, allocated int) {
	if r == nil {
		return
	}

	color.New(color.FgGreen).Fprintf(r.output, "  ✓ %s", name)
	color.New(color.FgHiBlack).Fprintf(r.output, " - %d credits, %d prompts allocated\n",
		quota, allocated)
}

// AccountSkipped prints an account the run cannot use.
func (r *Reporter) AccountSkipped(name, reason string) {
	if r == nil {
		return
	}

	color.New(color.FgHiBlack).Fprintf(r.output, "  ○ %s - skipped: %s\n", name, reason)
}

// PromptStart prints the in-progress marker for one prompt. PromptResult
// overwrites it once the attempt lands.
func (r *Reporter) PromptStart(index, total int, text string) {
	if r == nil {
		return
	}

	fmt.Fprintf(r.output, "  ◌ [%d/%d] %s...", index, total, shorten(text, promptTextWidth))
}

// PromptResult replaces the in-progress marker with the attempt outcome.
func (r *Reporter) PromptResult(index, total int, text string, downloaded, requested int, err error) {
	if r == nil {
		return
	}

	var icon string
	var clr *color.Color
	switch {
	case err == nil && downloaded > 0 && downloaded == requested:
		icon, clr = "✓", color.New(color.FgGreen)
	case downloaded > 0:
		icon, clr = "!", color.New(color.FgYellow)
	default:
		icon, clr = "✗", color.New(color.FgRed)
	}

	fmt.Fprintf(r.output, "\r")
	clr.Fprintf(r.output, "  %s [%d/%d] %s", icon, index, total, shorten(text, promptTextWidth))
	if requested > 0 {
		color.New(color.FgHiBlack).Fprintf(r.output, " - %d/%d images", downloaded, requested)
	} else {
		color.New(color.FgHiBlack).Fprintf(r.output, " - no images")
	}
	fmt.Fprintln(r.output)

	if err != nil {
		color.New(color.FgRed).Fprintf(r.output, "    └─ %s\n", err.Error())
	}
}

// Summary prints the closing banner and counters.
func (r *Reporter) Summary(s *RunSummary) {
	if r == nil {
		return
	}

	banner := color.New(color.FgGreen, color.Bold)
	title := "Run Complete"
	switch {
	case s.Cancelled:
		banner, title = color.New(color.FgYellow, color.Bold), "Run Cancelled"
	case s.PartialCompletion:
		banner, title = color.New(color.FgYellow, color.Bold), "Run Incomplete"
	}

	fmt.Fprintln(r.output)
	banner.Fprintf(r.output, "━━━ %s ", title)
	color.New(color.FgHiBlack).Fprintf(r.output, "(%d/%d prompts in %s)",
		s.Processed, s.TotalPrompts, s.Duration.Round(time.Second))
	banner.Fprintln(r.output, " ━━━")
	fmt.Fprintln(r.output)

	fmt.Fprintf(r.output, "  Succeeded:   %d\n", s.Succeeded)
	fmt.Fprintf(r.output, "  Failed:      %d\n", s.Failed)
	if s.UnprocessedPrompts > 0 {
		reason := "accounts exhausted"
		if s.Cancelled {
			reason = "run cancelled"
		}
		fmt.Fprintf(r.output, "  Unprocessed: %d (%s)\n", s.UnprocessedPrompts, reason)
	}
	fmt.Fprintf(r.output, "  Images:      %d of %d downloaded\n", s.ImagesDownloaded, s.ImagesRequested)
	if r.outputRoot != "" {
		fmt.Fprintf(r.output, "  Output:      %s\n", r.outputRoot)
	}
	fmt.Fprintln(r.output)
}

// shorten trims prompt text to fit a progress line.
func shorten(text string, max int) string {
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
