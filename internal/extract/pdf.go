package extract

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/go-fitz"
)

// PageExtractor pulls raw text out of a document, one string per page.
type PageExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// FitzExtractor extracts PDF text with go-fitz (MuPDF).
type FitzExtractor struct {
	logger *slog.Logger
}

func NewFitzExtractor(logger *slog.Logger) *FitzExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FitzExtractor{logger: logger}
}

// ExtractPages opens the PDF at path and returns the text of each page.
// Pages that fail to render are kept as empty strings so page numbers
// stay aligned with the document.
func (e *FitzExtractor) ExtractPages(path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, doc.NumPage())
	for i := range pages {
		text, err := doc.Text(i)
		if err != nil {
			e.logger.Warn("failed to extract page text", "path", path, "page", i+1, "error", err)
			continue
		}
		pages[i] = text
	}
	return pages, nil
}
