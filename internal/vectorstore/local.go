package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"convocatoria-ai/internal/contextutil"
	"convocatoria-ai/internal/storage"
)

// Local implements Store in memory with exact cosine similarity search.
// State survives restarts through a SQLite snapshot.
type Local struct {
	repo storage.SnapshotStore

	mu     sync.RWMutex
	dim    int
	points []Point
	byID   map[string]int
}

// NewLocal creates a local store persisting through the given repository.
func NewLocal(repo storage.SnapshotStore) *Local {
	return &Local{
		repo: repo,
		byID: make(map[string]int),
	}
}

// Reset clears all points and fixes the vector dimension for subsequent upserts.
func (s *Local) Reset(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid vector dimension %d", dim)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dim = dim
	s.points = nil
	s.byID = make(map[string]int)
	return nil
}

// Upsert inserts points, replacing any existing point with the same ID.
func (s *Local) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		return fmt.Errorf("store not initialized, call Reset first")
	}
	for _, p := range points {
		if len(p.Vec) != s.dim {
			return fmt.Errorf("point %s has dimension %d, expected %d", p.ID, len(p.Vec), s.dim)
		}
	}

	for _, p := range points {
		if i, ok := s.byID[p.ID]; ok {
			s.points[i] = p
			continue
		}
		s.byID[p.ID] = len(s.points)
		s.points = append(s.points, p)
	}
	return nil
}

// Search returns the k most similar points by cosine similarity, best first.
func (s *Local) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dim == 0 {
		return nil, fmt.Errorf("store not initialized, call Reset first")
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), s.dim)
	}

	results := make([]SearchResult, 0, len(s.points))
	for _, p := range s.points {
		results = append(results, SearchResult{
			PointID: p.ID,
			Score:   cosineSimilarity(query, p.Vec),
			Meta:    p.Meta,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of stored points.
func (s *Local) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points), nil
}

// Save writes the full point set to the snapshot repository.
func (s *Local) Save(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	s.mu.RLock()
	dim := s.dim
	records := make([]*storage.UnitRecord, len(s.points))
	for i, p := range s.points {
		records[i] = recordFromPoint(p)
	}
	s.mu.RUnlock()

	if err := s.repo.Replace(ctx, dim, records); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	logger.InfoContext(ctx, "snapshot saved", "points", len(records), "dim", dim)
	return nil
}

// Load replaces the in-memory state with the persisted snapshot.
// Returns ErrNoSnapshot when nothing has been saved yet.
func (s *Local) Load(ctx context.Context) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	dim, records, err := s.repo.LoadAll(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, ErrNoSnapshot
		}
		return 0, fmt.Errorf("failed to load snapshot: %w", err)
	}

	points := make([]Point, len(records))
	byID := make(map[string]int, len(records))
	for i, rec := range records {
		points[i] = pointFromRecord(rec)
		byID[points[i].ID] = i
	}

	s.mu.Lock()
	s.dim = dim
	s.points = points
	s.byID = byID
	s.mu.Unlock()

	logger.InfoContext(ctx, "snapshot loaded", "points", len(points), "dim", dim)
	return len(points), nil
}

// cosineSimilarity computes the cosine of the angle between a and b.
// Zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func recordFromPoint(p Point) *storage.UnitRecord {
	return &storage.UnitRecord{
		ID:            p.ID,
		Content:       metaString(p.Meta, "content"),
		ContentType:   metaString(p.Meta, "content_type"),
		ArticleNumber: metaString(p.Meta, "article_number"),
		Source:        metaString(p.Meta, "source"),
		SourcePath:    metaString(p.Meta, "source_path"),
		Page:          metaInt(p.Meta, "page"),
		Embedding:     p.Vec,
	}
}

func pointFromRecord(rec *storage.UnitRecord) Point {
	return Point{
		ID:  rec.ID,
		Vec: rec.Embedding,
		Meta: map[string]any{
			"content":        rec.Content,
			"content_type":   rec.ContentType,
			"article_number": rec.ArticleNumber,
			"source":         rec.Source,
			"source_path":    rec.SourcePath,
			"page":           rec.Page,
		},
	}
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaInt(meta map[string]any, key string) int {
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
