// Package prompts loads the prompt list that drives a generation run.
//
// Sources are plain text (one prompt per line), CSV/TSV (first column), and
// PDF (plain-text extraction). Prompts are filtered, optionally repeated,
// and then numbered 1..N; the scheduler's cursor walks that numbering and
// never renumbers mid-run.
package prompts

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LinkuDev/dreamina/core"
)

// Prompt is one numbered prompt. Index is 1-based and assigned after
// filtering and repeat expansion, so it stays stable for the whole run.
type Prompt struct {
	Index int
	Text  string
}

// Load reads the prompt source at path, dispatching on the file extension
// (.txt, .csv, .tsv, .pdf). repeat duplicates each prompt consecutively
// before numbering; values below 1 mean no repetition.
func Load(path string, repeat int) ([]Prompt, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		texts []string
		err   error
	)
	switch ext {
	case ".txt":
		texts, err = loadText(path)
	case ".csv":
		texts, err = loadDelimited(path, ',')
	case ".tsv":
		texts, err = loadDelimited(path, '\t')
	case ".pdf":
		texts, err = loadPDF(path)
	default:
		return nil, core.ErrPromptSourceUnreadable(path, fmt.Errorf("unsupported extension %q", ext))
	}
	if err != nil {
		return nil, err
	}

	texts = expandRepeats(texts, repeat)
	if len(texts) == 0 {
		return nil, core.ErrNoPrompts(path)
	}

	numbered := make([]Prompt, len(texts))
	for i, text := range texts {
		numbered[i] = Prompt{Index: i + 1, Text: text}
	}
	return numbered, nil
}

// expandRepeats duplicates each prompt consecutively. Expansion happens
// before numbering so each copy gets its own index.
func expandRepeats(texts []string, repeat int) []string {
	if repeat <= 1 {
		return texts
	}
	expanded := make([]string, 0, len(texts)*repeat)
	for _, text := range texts {
		for i := 0; i < repeat; i++ {
			expanded = append(expanded, text)
		}
	}
	return expanded
}
