package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"convocatoria-ai/internal/contextutil"
	"convocatoria-ai/internal/document"
)

// Builder turns a folder of PDF documents into retrieval units: one unit
// per segmented article plus one per chunk of the remaining text.
type Builder struct {
	extractor PageExtractor
	chunker   *Chunker
}

// NewBuilder creates a builder over the given page extractor.
func NewBuilder(extractor PageExtractor, chunker *Chunker) *Builder {
	return &Builder{
		extractor: extractor,
		chunker:   chunker,
	}
}

// BuildUnits processes every PDF in folder and returns the extracted units.
// Errors for individual files are logged but don't stop the run; a folder
// without PDFs yields an empty result.
func (b *Builder) BuildUnits(ctx context.Context, folder string) ([]document.Unit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents folder: %w", err)
	}

	var units []document.Unit
	var errorCount int

	for _, entry := range entries {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}

		path := filepath.Join(folder, entry.Name())
		fileUnits, err := b.buildFile(ctx, path, entry.Name())
		if err != nil {
			errorCount++
			logger.ErrorContext(ctx, "failed to process document", "file", entry.Name(), "error", err)
			// Continue with next file
			continue
		}

		units = append(units, fileUnits...)
	}

	logger.InfoContext(ctx, "document extraction completed", "folder", folder, "units", len(units), "errors", errorCount)
	return units, nil
}

func (b *Builder) buildFile(ctx context.Context, path, name string) ([]document.Unit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pages, err := b.extractor.ExtractPages(path)
	if err != nil {
		return nil, err
	}

	// Join pages under numbered markers so article segmentation can tell
	// where each page ends. Empty pages keep their number but add no text.
	var sb strings.Builder
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n[PÁGINA %d]\n%s", i+1, page)
	}

	fullText := Normalize(sb.String())
	if fullText == "" {
		logger.WarnContext(ctx, "no text extracted from document", "file", name)
		return nil, nil
	}

	normPages := make([]string, len(pages))
	for i, page := range pages {
		normPages[i] = Normalize(page)
	}

	articles := SegmentArticles(fullText)
	units := make([]document.Unit, 0, len(articles))
	for _, art := range articles {
		units = append(units, document.Unit{
			Content:       art.Content,
			Type:          document.TypeArticle,
			ArticleNumber: art.Number,
			Source:        name,
			SourcePath:    path,
			Page:          pageFor(art.Content, normPages),
		})
	}

	// Chunk whatever the articles didn't cover. Plain substring removal:
	// repeated text may be deleted more than once, which is acceptable for
	// retrieval purposes.
	remaining := fullText
	for _, art := range articles {
		remaining = strings.ReplaceAll(remaining, art.Content, "")
	}

	for _, chunk := range b.chunker.Chunk(remaining) {
		units = append(units, document.Unit{
			Content:    chunk,
			Type:       document.TypeGeneral,
			Source:     name,
			SourcePath: path,
			Page:       pageFor(chunk, normPages),
		})
	}

	logger.DebugContext(ctx, "document processed", "file", name, "articles", len(articles), "units", len(units))
	return units, nil
}

// pageFor returns the 1-based number of the first page whose normalized
// text contains content, or 0 when no page does. Best-effort: content
// that spans a page boundary has no single page.
func pageFor(content string, pages []string) int {
	for i, page := range pages {
		if strings.Contains(page, content) {
			return i + 1
		}
	}
	return 0
}
