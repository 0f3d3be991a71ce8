package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	chunkSize    = 1500
	chunkOverlap = 300
	minChunkLen  = 100
)

// Chunker splits normalized text that remains after article extraction
// into overlapping fragments sized for embedding.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

func NewChunker() *Chunker {
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", ". "}),
		),
	}
}

// Chunk splits text into fragments, dropping any fragment shorter than
// minChunkLen after trimming. If the splitter fails the whole text is
// treated as a single fragment.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces, err := c.splitter.SplitText(text)
	if err != nil {
		pieces = []string{text}
	}

	chunks := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if utf8.RuneCountInString(piece) < minChunkLen {
			continue
		}
		chunks = append(chunks, piece)
	}
	return chunks
}
