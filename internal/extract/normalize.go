package extract

import (
	"regexp"
	"strings"
)

var (
	// Keeps Unicode letters/digits, underscore, whitespace and the
	// punctuation that matters in Spanish legal text. Everything else is
	// dropped.
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:()¿?¡!-]`)
	hspaceRe     = regexp.MustCompile(`[ \t]+`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw extracted text while preserving its structure:
// form feeds become paragraph breaks, characters outside the allowlist are
// dropped, horizontal whitespace runs collapse to a single space and runs
// of three or more newlines collapse to a blank line. The result is
// trimmed. Normalize never fails, maps empty input to empty output and is
// idempotent: character removal runs before whitespace collapsing so a
// removed character can never expose a fresh newline run.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\f", "\n\n")
	text = disallowedRe.ReplaceAllString(text, "")
	text = hspaceRe.ReplaceAllString(text, " ")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
