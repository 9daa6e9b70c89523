package imagegen

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLetter(t *testing.T) {
	tests := []struct {
		position int
		want     string
	}{
		{0, "A"},
		{1, "B"},
		{2, "C"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{-1, ""},
	}

	for _, tt := range tests {
		if got := Letter(tt.position); got != tt.want {
			t.Errorf("Letter(%d) = %q, want %q", tt.position, got, tt.want)
		}
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain identity", "england", "england"},
		{"hyphen kept", "backup-account", "backup-account"},
		{"underscores kept", "already_safe_name", "already_safe_name"},
		{"digits kept", "batch42", "batch42"},
		{"space becomes underscore", "city scenes", "city_scenes"},
		{"whitespace run collapses", "a \t  b", "a_b"},
		{"punctuation becomes underscores", "a,b.c!", "a_b_c_"},
		{"path separators neutralized", "../etc/passwd", "___etc_passwd"},
		{"non-ascii becomes underscore", "café", "caf_"},
		{"empty falls back", "", "account"},
		{"only symbols", "???", "___"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeLabel(tt.input); got != tt.want {
				t.Errorf("SanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeLabelCapsLength(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := SanitizeLabel(long)
	if len(got) != maxLabelLength {
		t.Errorf("sanitized length = %d, want %d", len(got), maxLabelLength)
	}
}

func TestRatioLabel(t *testing.T) {
	tests := []struct {
		ratio string
		want  string
	}{
		{"16:9", "16-9"},
		{"9:16", "9-16"},
		{"1:1", "1-1"},
		{"21:9", "21-9"},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		if got := RatioLabel(tt.ratio); got != tt.want {
			t.Errorf("RatioLabel(%q) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestArtifactDir(t *testing.T) {
	got := ArtifactDir("output", "city_scenes", "16-9")
	want := filepath.Join("output", "city_scenes_16-9")
	if got != want {
		t.Errorf("ArtifactDir = %q, want %q", got, want)
	}
}

func TestArtifactStem(t *testing.T) {
	got := ArtifactStem(7, "B", "city_scenes", "16-9")
	if got != "7B_city_scenes_16-9" {
		t.Errorf("ArtifactStem = %q, want %q", got, "7B_city_scenes_16-9")
	}
}

// TestArtifactPathComposition covers the documented layout end to end: the
// first image of prompt 1 for account "england" at 16:9 lands at
// output/england_16-9/1A_england_16-9.jpeg.
func TestArtifactPathComposition(t *testing.T) {
	ratio := RatioLabel("16:9")
	label := SanitizeLabel("england")
	dir := ArtifactDir("output", label, ratio)
	stem := ArtifactStem(1, Letter(0), label, ratio)

	got := filepath.Join(dir, stem+".jpeg")
	want := filepath.Join("output", "england_16-9", "1A_england_16-9.jpeg")
	if got != want {
		t.Errorf("artifact path = %q, want %q", got, want)
	}
}

func TestExtensionFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", ".jpeg"},
		{"image/jpg", ".jpeg"},
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"IMAGE/PNG", ".png"},
		{"image/jpeg; charset=utf-8", ".jpeg"},
		{" image/png ", ".png"},
		{"image/x-unknown", ""},
		{"application/json", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := extensionFromContentType(tt.contentType); got != tt.want {
			t.Errorf("extensionFromContentType(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{"short text unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long text truncated", "hello world", 8, "hello..."},
		{"tiny budget", "hello", 3, "hel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateText(tt.text, tt.maxLen); got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.text, tt.maxLen, got, tt.want)
			}
		})
	}
}
