// Package imagegen turns prompts into downloaded image artifacts.
//
// atoms.go contains pure naming and formatting helpers with no dependencies.
package imagegen

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// maxLabelLength caps sanitized labels so artifact paths stay well under
// filesystem limits even with long prompt-source names.
const maxLabelLength = 80

// Letter returns the artifact letter for a zero-based position: A..Z for
// the first 26, then AA, AB, and so on (bijective base-26).
//
// Example:
//
//	Letter(0)  // "A"
//	Letter(25) // "Z"
//	Letter(26) // "AA"
func Letter(position int) string {
	if position < 0 {
		return ""
	}
	n := position + 1
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// SanitizeLabel makes an account identity safe for file and directory
// names: runs of whitespace collapse to a single underscore, any other
// character outside [A-Za-z0-9_-] becomes an underscore, and the result is
// capped at maxLabelLength characters. An empty result falls back to
// "account".
//
// The label feeds the artifact path contract, so the rules here must not
// drift.
func SanitizeLabel(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte('_')
			inSpace = false
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if inSpace {
		b.WriteByte('_')
	}

	out := b.String()
	if len(out) > maxLabelLength {
		out = out[:maxLabelLength]
	}
	if out == "" {
		out = "account"
	}
	return out
}

// RatioLabel converts an aspect ratio like "16:9" into its path-safe form
// "16-9".
func RatioLabel(ratio string) string {
	return strings.ReplaceAll(ratio, ":", "-")
}

// ArtifactDir returns the directory holding every artifact of one run
// configuration: {outputRoot}/{sourceLabel}_{ratioLabel}.
func ArtifactDir(outputRoot, sourceLabel, ratioLabel string) string {
	return filepath.Join(outputRoot, sourceLabel+"_"+ratioLabel)
}

// ArtifactStem returns the artifact file name without extension:
// {promptIndex}{letter}_{sourceLabel}_{ratioLabel}. The downloader appends
// the extension once the content type is known.
func ArtifactStem(promptIndex int, letter, sourceLabel, ratioLabel string) string {
	return fmt.Sprintf("%d%s_%s_%s", promptIndex, letter, sourceLabel, ratioLabel)
}

// truncateText shortens text for log previews.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}

// extensionFromContentType returns the artifact extension for a download's
// Content-Type. Types outside the table return ""; the downloader falls
// back to ".jpeg", which is part of the artifact path contract.
func extensionFromContentType(contentType string) string {
	if contentType == "" {
		return ""
	}

	// Normalize to lowercase and strip parameters
	lower := strings.ToLower(contentType)
	if idx := strings.Index(lower, ";"); idx != -1 {
		lower = lower[:idx]
	}
	lower = strings.TrimSpace(lower)

	switch lower {
	case "image/jpeg", "image/jpg":
		return ".jpeg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
