package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Article is a legal provision segmented out of a normalized document.
type Article struct {
	// Number is the decimal numeral captured from the heading.
	Number string
	// Content is the reconstructed text, always starting with
	// "Artículo {number}. " regardless of how the heading was written.
	Content string
}

var (
	// Matches "Artículo 12." / "Art. 12 " / "ARTÍCULO 12." heading shapes.
	// Cross-references in running text match too; segmentation inherits
	// that from the marker shape.
	articleHeadingRe = regexp.MustCompile(`(?i)(?:artículo|art\.) *([0-9]+)[.\s]+`)

	// Page markers inserted by the builder. After normalization the
	// brackets are gone, so both forms are recognized.
	pageMarkerRe = regexp.MustCompile(`\[?PÁGINA [0-9]+\]?`)
)

// SegmentArticles splits normalized text into articles. Each body runs
// from the end of its heading to the next heading, the next page-break
// marker or the end of input, whichever comes first. regexp does not
// support lookahead, so bodies are sliced between heading match positions
// instead.
func SegmentArticles(text string) []Article {
	matches := articleHeadingRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	articles := make([]Article, 0, len(matches))
	for i, m := range matches {
		bodyStart := m[1]
		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}

		body := text[bodyStart:bodyEnd]
		if loc := pageMarkerRe.FindStringIndex(body); loc != nil {
			body = body[:loc[0]]
		}

		number := text[m[2]:m[3]]
		articles = append(articles, Article{
			Number:  number,
			Content: fmt.Sprintf("Artículo %s. %s", number, strings.TrimSpace(body)),
		})
	}

	return articles
}
