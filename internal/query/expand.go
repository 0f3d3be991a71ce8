package query

import (
	"regexp"
	"strings"
)

// synonyms maps a query word to extra terms appended when the word
// appears. Widens recall for frequent administrative vocabulary.
var synonyms = map[string][]string{
	"fecha":     {"plazo", "cuando"},
	"plazo":     {"fecha", "periodo"},
	"requisito": {"condicion", "requerimiento"},
	"documento": {"documentacion", "papel"},
	"ayuda":     {"subvencion", "financiacion"},
}

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// preprocessQuery lowercases the question and strips everything that is
// not a letter, digit, underscore or whitespace.
func preprocessQuery(q string) string {
	return nonWordRe.ReplaceAllString(strings.ToLower(q), "")
}

// expandQuery returns the processed query followed by the synonyms of
// every expandable word in it, in word order, without repeats.
func expandQuery(q string) string {
	processed := preprocessQuery(q)

	seen := map[string]bool{processed: true}
	terms := []string{processed}
	for _, word := range strings.Fields(processed) {
		for _, syn := range synonyms[word] {
			if seen[syn] {
				continue
			}
			seen[syn] = true
			terms = append(terms, syn)
		}
	}
	return strings.Join(terms, " ")
}
