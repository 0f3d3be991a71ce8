package index

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks convocatoria-ai/internal/index Embedder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"convocatoria-ai/internal/contextutil"
	"convocatoria-ai/internal/document"
	"convocatoria-ai/internal/vectorstore"
)

// batchSize is the number of units embedded per API request.
const batchSize = 64

// ErrNoUnits is returned by Build when there is nothing to index.
var ErrNoUnits = errors.New("no units to index")

// Embedder turns texts into vectors. Satisfied by llm.EmbeddingsClient.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is a handle to a built or loaded vector index. Holders obtained
// it from a Manager operation that verified the backing store is usable.
type Index struct {
	size int
}

// Size returns the number of indexed units. Safe on a nil handle.
func (i *Index) Size() int {
	if i == nil {
		return 0
	}
	return i.size
}

// Manager builds, persists and queries the vector index.
type Manager struct {
	embedder Embedder
	store    vectorstore.Store
}

func NewManager(embedder Embedder, store vectorstore.Store) *Manager {
	return &Manager{embedder: embedder, store: store}
}

// Match pairs a retrieved unit with its similarity score.
type Match struct {
	Unit  document.Unit
	Score float32
}

// Build resets the backing store and indexes all units, embedding them in
// batches. The vector dimension is taken from the first batch. Returns
// ErrNoUnits when units is empty.
func (m *Manager) Build(ctx context.Context, units []document.Unit) (*Index, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	var dim int
	for start := 0; start < len(units); start += batchSize {
		end := start + batchSize
		if end > len(units) {
			end = len(units)
		}

		points, err := m.embedBatch(ctx, units[start:end])
		if err != nil {
			return nil, err
		}

		if start == 0 {
			dim = len(points[0].Vec)
			if err := m.store.Reset(ctx, dim); err != nil {
				return nil, fmt.Errorf("failed to reset vector store: %w", err)
			}
		}

		if err := m.store.Upsert(ctx, points); err != nil {
			return nil, fmt.Errorf("failed to upsert points: %w", err)
		}
	}

	logger.InfoContext(ctx, "index built",
		"units", len(units),
		"dim", dim)

	return &Index{size: len(units)}, nil
}

// Update adds units to an existing index. A nil handle falls back to a
// full Build; an empty unit slice returns the handle unchanged.
func (m *Manager) Update(ctx context.Context, idx *Index, units []document.Unit) (*Index, error) {
	if idx == nil {
		return m.Build(ctx, units)
	}
	if len(units) == 0 {
		return idx, nil
	}

	logger := contextutil.LoggerFromContext(ctx)

	for start := 0; start < len(units); start += batchSize {
		end := start + batchSize
		if end > len(units) {
			end = len(units)
		}

		points, err := m.embedBatch(ctx, units[start:end])
		if err != nil {
			return nil, err
		}
		if err := m.store.Upsert(ctx, points); err != nil {
			return nil, fmt.Errorf("failed to upsert points: %w", err)
		}
	}

	logger.InfoContext(ctx, "index updated",
		"added", len(units),
		"units", idx.size+len(units))

	return &Index{size: idx.size + len(units)}, nil
}

// Save persists the index to the store's snapshot. Failures are logged
// rather than returned; the index keeps working in memory either way.
func (m *Manager) Save(ctx context.Context, idx *Index) bool {
	logger := contextutil.LoggerFromContext(ctx)

	if idx == nil {
		logger.WarnContext(ctx, "no index to save")
		return false
	}
	if err := m.store.Save(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to save index snapshot", "error", err)
		return false
	}
	return true
}

// Load restores the index from the store's snapshot. Returns nil when no
// usable snapshot exists, which callers treat as "build from scratch".
func (m *Manager) Load(ctx context.Context) *Index {
	logger := contextutil.LoggerFromContext(ctx)

	n, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, vectorstore.ErrNoSnapshot) {
			logger.InfoContext(ctx, "no index snapshot found")
		} else {
			logger.ErrorContext(ctx, "failed to load index snapshot", "error", err)
		}
		return nil
	}
	if n == 0 {
		logger.InfoContext(ctx, "index snapshot is empty")
		return nil
	}

	logger.InfoContext(ctx, "index loaded", "units", n)
	return &Index{size: n}
}

// Search embeds the query and returns the k nearest units, best first.
func (m *Manager) Search(ctx context.Context, idx *Index, query string, k int) ([]Match, error) {
	if idx == nil {
		return nil, errors.New("index not built")
	}

	vecs, err := m.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, errors.New("embedder returned no vector for query")
	}

	results, err := m.store.Search(ctx, vecs[0], k)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	matches := make([]Match, len(results))
	for i, res := range results {
		matches[i] = Match{
			Unit:  unitFromPayload(res.Meta),
			Score: res.Score,
		}
	}
	return matches, nil
}

// embedBatch embeds the contents of one batch of units and pairs each
// vector with a fresh point ID and the unit's payload.
func (m *Manager) embedBatch(ctx context.Context, units []document.Unit) ([]vectorstore.Point, error) {
	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Content
	}

	vecs, err := m.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed units: %w", err)
	}
	if len(vecs) != len(units) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d units", len(vecs), len(units))
	}

	points := make([]vectorstore.Point, len(units))
	for i, u := range units {
		points[i] = vectorstore.Point{
			ID:  uuid.New().String(),
			Vec: vecs[i],
			Meta: map[string]any{
				"content":        u.Content,
				"content_type":   string(u.Type),
				"article_number": u.ArticleNumber,
				"source":         u.Source,
				"source_path":    u.SourcePath,
				"page":           u.Page,
			},
		}
	}
	return points, nil
}

func unitFromPayload(meta map[string]any) document.Unit {
	return document.Unit{
		Content:       payloadString(meta, "content"),
		Type:          document.ContentType(payloadString(meta, "content_type")),
		ArticleNumber: payloadString(meta, "article_number"),
		Source:        payloadString(meta, "source"),
		SourcePath:    payloadString(meta, "source_path"),
		Page:          payloadInt(meta, "page"),
	}
}

func payloadString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

// payloadInt reads an integer that may come back as int, int64 or float64
// depending on the store backend.
func payloadInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
