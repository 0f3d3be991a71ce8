package query

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_searcher.go -package=mocks convocatoria-ai/internal/query Searcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completer.go -package=mocks convocatoria-ai/internal/query Completer

import (
	"context"
	"fmt"

	"convocatoria-ai/internal/contextutil"
	"convocatoria-ai/internal/document"
	"convocatoria-ai/internal/index"
	"convocatoria-ai/internal/llm"
	"convocatoria-ai/internal/session"
)

const (
	// retrievalK is how many candidates are pulled from the index before
	// relevance filtering.
	retrievalK = 20

	// Articles get a lower threshold than general chunks so a provision
	// that answers the question outranks loosely related prose.
	articleThreshold = 0.03
	generalThreshold = 0.05

	// maxContextUnits caps how many units go into the prompt.
	maxContextUnits = 10

	answerTemperature = 0.2
	answerMaxTokens   = 800
)

// User-facing messages for the pipeline's failure paths.
const (
	msgNoIndex     = "La base de conocimiento no está disponible."
	msgNoResults   = "No encontré información relevante para tu pregunta. ¿Podrías reformularla?"
	msgNotRelevant = "No encontré información suficientemente relevante. ¿Podrías reformular tu pregunta?"
)

// Searcher retrieves the closest indexed units for a query text.
// Satisfied by *index.Manager.
type Searcher interface {
	Search(ctx context.Context, idx *index.Index, query string, k int) ([]index.Match, error)
}

// Completer produces a chat completion. Satisfied by *llm.Client.
type Completer interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Pipeline answers questions over the indexed document base.
type Pipeline struct {
	searcher  Searcher
	completer Completer
}

func NewPipeline(searcher Searcher, completer Completer) *Pipeline {
	return &Pipeline{searcher: searcher, completer: completer}
}

// Answer retrieves context for the question and asks the model for a
// grounded reply. It never returns an error: every failure maps to a
// Spanish message the user can act on. The history parameter is accepted
// for future prompt inclusion and is not used yet.
func (p *Pipeline) Answer(ctx context.Context, question string, idx *index.Index, history []session.Turn) string {
	logger := contextutil.LoggerFromContext(ctx)

	if idx == nil {
		return msgNoIndex
	}

	expanded := expandQuery(question)

	matches, err := p.searcher.Search(ctx, idx, expanded, retrievalK)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return msgNoResults
	}
	if len(matches) == 0 {
		return msgNoResults
	}

	relevant := filterByRelevance(matches)
	if len(relevant) == 0 {
		return msgNotRelevant
	}
	if len(relevant) > maxContextUnits {
		relevant = relevant[:maxContextUnits]
	}

	logger.DebugContext(ctx, "retrieval completed",
		"matches", len(matches),
		"relevant", len(relevant))

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Contexto:\n%s\n\nPregunta: %s", buildContext(relevant), question)},
	}

	answer, err := p.completer.ChatWithMessages(ctx, messages, llm.ChatParams{
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		logger.ErrorContext(ctx, "completion failed", "error", err)
		return fmt.Sprintf("Lo siento, ocurrió un error al procesar tu consulta: %v", err)
	}
	return answer
}

// filterByRelevance keeps article matches above the article threshold
// and general matches above the general threshold. Articles come first;
// each group keeps its retrieval (descending score) order.
func filterByRelevance(matches []index.Match) []document.Unit {
	var articles, general []document.Unit
	for _, m := range matches {
		switch {
		case m.Unit.Type == document.TypeArticle && m.Score > articleThreshold:
			articles = append(articles, m.Unit)
		case m.Unit.Type != document.TypeArticle && m.Score > generalThreshold:
			general = append(general, m.Unit)
		}
	}
	return append(articles, general...)
}
