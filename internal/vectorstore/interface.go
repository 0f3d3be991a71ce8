package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks convocatoria-ai/internal/vectorstore Store

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Load when no persisted state exists yet.
var ErrNoSnapshot = errors.New("no snapshot available")

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// Store defines the interface for vector storage operations. A Store is
// bound to a single collection of points.
type Store interface {
	// Reset clears all points and fixes the vector dimension for
	// subsequent upserts.
	Reset(ctx context.Context, dim int) error

	// Upsert inserts or updates points.
	Upsert(ctx context.Context, points []Point) error

	// Search returns the k most similar points, best first.
	Search(ctx context.Context, query []float32, k int) ([]SearchResult, error)

	// Count returns the number of stored points.
	Count(ctx context.Context) (int, error)

	// Save persists the current state, when the backend needs it.
	Save(ctx context.Context) error

	// Load restores persisted state and returns the point count.
	// Returns ErrNoSnapshot when nothing has been persisted.
	Load(ctx context.Context) (int, error)
}
