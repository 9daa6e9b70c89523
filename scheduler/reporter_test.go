package scheduler

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestReporterRunStart(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter("./out").WithOutput(&buf)

	r.RunStart("run-abc123", 20, 3)

	out := buf.String()
	if !strings.Contains(out, "Generation Run") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "run run-abc123: 20 prompts across 3 accounts") {
		t.Errorf("missing run line in %q", out)
	}
}

func TestReporterAccountLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter("").WithOutput(&buf)

	r.AccountActivated("alpha", 50, 10)
	r.AccountSkipped("beta", "probe unavailable: auth rejected")

	out := buf.String()
	if !strings.Contains(out, "✓ alpha") {
		t.Errorf("missing activation in %q", out)
	}
	if !strings.Contains(out, "50 credits, 10 prompts allocated") {
		t.Errorf("missing allocation detail in %q", out)
	}
	if !strings.Contains(out, "○ beta - skipped: probe unavailable: auth rejected") {
		t.Errorf("missing skip line in %q", out)
	}
}

func TestReporterPromptResult(t *testing.T) {
	tests := []struct {
		name       string
		downloaded int
		requested  int
		err        error
		wantIcon   string
		wantDetail string
	}{
		{"full success", 4, 4, nil, "✓", "4/4 images"},
		{"partial", 2, 4, errors.New("download failed"), "!", "2/4 images"},
		{"failure with urls", 0, 4, errors.New("boom"), "✗", "0/4 images"},
		{"failure without urls", 0, 0, errors.New("boom"), "✗", "no images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewReporter("").WithOutput(&buf)

			r.PromptResult(3, 20, "a red fox in snow", tt.downloaded, tt.requested, tt.err)

			out := buf.String()
			if !strings.Contains(out, tt.wantIcon+" [3/20] a red fox in snow") {
				t.Errorf("missing %q result line in %q", tt.wantIcon, out)
			}
			if !strings.Contains(out, tt.wantDetail) {
				t.Errorf("missing %q in %q", tt.wantDetail, out)
			}
			if tt.err != nil && !strings.Contains(out, "└─ "+tt.err.Error()) {
				t.Errorf("missing error detail in %q", out)
			}
		})
	}
}

func TestReporterPromptStartTruncatesLongText(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter("").WithOutput(&buf)

	long := strings.Repeat("x", 100)
	r.PromptStart(1, 5, long)

	out := buf.String()
	if strings.Contains(out, long) {
		t.Error("long prompt text should be truncated")
	}
	if !strings.Contains(out, strings.Repeat("x", promptTextWidth-3)+"...") {
		t.Errorf("missing truncated text in %q", out)
	}
}

func TestReporterSummaryComplete(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter("./generated").WithOutput(&buf)

	r.Summary(&RunSummary{
		TotalPrompts:     10,
		Processed:        10,
		Succeeded:        9,
		Failed:           1,
		ImagesRequested:  40,
		ImagesDownloaded: 38,
		Duration:         95 * time.Second,
	})

	out := buf.String()
	if !strings.Contains(out, "Run Complete") {
		t.Errorf("missing banner in %q", out)
	}
	if !strings.Contains(out, "(10/10 prompts in 1m35s)") {
		t.Errorf("missing stats in %q", out)
	}
	if !strings.Contains(out, "Succeeded:   9") {
		t.Errorf("missing succeeded line in %q", out)
	}
	if !strings.Contains(out, "Images:      38 of 40 downloaded") {
		t.Errorf("missing images line in %q", out)
	}
	if !strings.Contains(out, "Output:      ./generated") {
		t.Errorf("missing output line in %q", out)
	}
	if strings.Contains(out, "Unprocessed") {
		t.Error("complete run should not print an unprocessed line")
	}
}

func TestReporterSummaryPartial(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter("").WithOutput(&buf)

	r.Summary(&RunSummary{
		TotalPrompts:       10,
		Processed:          6,
		Succeeded:          6,
		UnprocessedPrompts: 4,
		PartialCompletion:  true,
	})

	out := buf.String()
	if !strings.Contains(out, "Run Incomplete") {
		t.Errorf("missing banner in %q", out)
	}
	if !strings.Contains(out, "Unprocessed: 4 (accounts exhausted)") {
		t.Errorf("missing unprocessed line in %q", out)
	}
}

func TestReporterSummaryCancelled(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter("").WithOutput(&buf)

	r.Summary(&RunSummary{
		TotalPrompts:       10,
		Processed:          3,
		Succeeded:          3,
		UnprocessedPrompts: 7,
		Cancelled:          true,
	})

	out := buf.String()
	if !strings.Contains(out, "Run Cancelled") {
		t.Errorf("missing banner in %q", out)
	}
	if !strings.Contains(out, "Unprocessed: 7 (run cancelled)") {
		t.Errorf("missing unprocessed line in %q", out)
	}
}

func TestReporterNilIsSilent(t *testing.T) {
	var r *Reporter

	// Every method must be a no-op on a nil receiver.
	r.RunStart("run", 1, 1)
	r.AccountActivated("a", 10, 2)
	r.AccountSkipped("b", "reason")
	r.PromptStart(1, 1, "text")
	r.PromptResult(1, 1, "text", 1, 1, nil)
	r.Summary(&RunSummary{})
}

func TestShorten(t *testing.T) {
	tests := []struct {
		text string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is far too long", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
	}

	for _, tt := range tests {
		if got := shorten(tt.text, tt.max); got != tt.want {
			t.Errorf("shorten(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
		}
	}
}
