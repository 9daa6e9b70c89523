package prompts

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/LinkuDev/dreamina/core"
)

// loadText reads a plain-text source: one prompt per line, blank lines
// dropped, a leading UTF-8 BOM stripped.
func loadText(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, core.ErrPromptSourceUnreadable(path, err)
	}

	content := strings.TrimPrefix(string(raw), "\uFEFF")
	return filterLines(strings.Split(content, "\n")), nil
}

// loadDelimited reads the first column of a CSV or TSV source. A first-row
// cell reading "prompt" or "prompts" (any case) is treated as a header and
// dropped.
func loadDelimited(path string, comma rune) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.ErrPromptSourceUnreadable(path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	// Prompt exports are ragged and hand-edited; tolerate both.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, core.ErrPromptSourceUnreadable(path, err)
	}

	texts := make([]string, 0, len(records))
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		cell := record[0]
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\uFEFF")
		}
		cell = strings.TrimSpace(cell)
		if i == 0 && isHeaderCell(cell) {
			continue
		}
		if cell == "" {
			continue
		}
		texts = append(texts, cell)
	}
	return texts, nil
}

// isHeaderCell reports whether a first-row cell is a column header rather
// than a prompt.
func isHeaderCell(cell string) bool {
	switch strings.ToLower(cell) {
	case "prompt", "prompts":
		return true
	}
	return false
}

// loadPDF extracts plain text from every page (1-indexed in ledongthuc/pdf)
// and treats each non-blank line as a prompt. A page that fails to extract
// fails the whole load: silently dropping prompts would shift the numbering
// of everything after it.
func loadPDF(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, core.ErrPromptSourceUnreadable(path, err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, core.ErrPromptSourceUnreadable(path, fmt.Errorf("page %d: %w", pageIndex, err))
		}
		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString(text)
	}

	return filterLines(strings.Split(textBuilder.String(), "\n")), nil
}

// filterLines trims each line and drops the blank ones.
func filterLines(lines []string) []string {
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	return texts
}
