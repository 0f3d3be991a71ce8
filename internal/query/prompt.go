package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"convocatoria-ai/internal/document"
	"convocatoria-ai/internal/session"
)

// systemPrompt fixes how the model answers questions about institutional
// regulations.
const systemPrompt = `Eres un asistente especializado en normativa institucional. Al responder:

1. Si encuentras información en artículos específicos:
   - Cita el número de artículo y la página
   - Proporciona el texto exacto relevante
   - Explica el contexto si es necesario

2. Si la información involucra plazos o fechas:
   - Especifica si el plazo depende de algún evento o resolución
   - Menciona todas las condiciones relevantes
   - Indica si hay excepciones o casos especiales

3. Para cualquier tipo de información:
   - Cita la fuente y página exacta
   - Proporciona contexto cuando sea necesario
   - Si hay ambigüedad, menciona todas las interpretaciones posibles`

// pageMarkerRe matches page-marker tokens left over in chunked content,
// with or without their surrounding brackets.
var pageMarkerRe = regexp.MustCompile(`\[?PÁGINA [0-9]+\]?`)

// sourceFallback names units whose originating file is unknown.
const sourceFallback = "Documento sin nombre"

// buildContext renders the retrieved units as source-attributed blocks
// separated by blank lines.
func buildContext(units []document.Unit) string {
	blocks := make([]string, 0, len(units))
	for _, u := range units {
		source := u.Source
		if source == "" {
			source = sourceFallback
		}
		page := "N/A"
		if u.Page > 0 {
			page = strconv.Itoa(u.Page)
		}
		content := strings.TrimSpace(pageMarkerRe.ReplaceAllString(u.Content, ""))
		blocks = append(blocks, fmt.Sprintf("[Fuente: %s - Página %s]:\n%s", source, page, content))
	}
	return strings.Join(blocks, "\n\n")
}

// maxHistoryExchanges bounds FormatHistory to the most recent exchanges.
const maxHistoryExchanges = 5

// FormatHistory renders the most recent conversation turns with Spanish
// speaker labels, one per line, oldest first. Answer does not include
// history in the prompt yet; this is the formatting half for when it does.
func FormatHistory(history []session.Turn) string {
	recent := history
	if max := maxHistoryExchanges * 2; len(recent) > max {
		recent = recent[len(recent)-max:]
	}

	lines := make([]string, 0, len(recent))
	for _, turn := range recent {
		label := "Asistente"
		if turn.Role == session.RoleUser {
			label = "Usuario"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, turn.Content))
	}
	return strings.Join(lines, "\n")
}
