// Package extract turns source documents into raw text for segmentation.
// The output contract is one line of text per page, pages joined by newlines,
// with line breaks inside a page collapsed to spaces.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// File extracts the raw text of a document by file extension. PDF answer
// sheets go through the PDF text extractor; .txt files are read as a single
// page. An empty result is an error: downstream stages require text.
func File(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return fromPDF(path)
	case ".txt", ".text":
		return fromPlainText(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

func fromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		if text := JoinPageLines(content); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no extractable text found in %s", path)
	}
	return strings.Join(pages, "\n"), nil
}

func fromPlainText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("no text found in %s", path)
	}
	return text, nil
}

// JoinPageLines collapses the line breaks inside one page's text to spaces,
// giving the single-line-per-page form the segmenter expects.
func JoinPageLines(page string) string {
	lines := strings.Split(page, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}
