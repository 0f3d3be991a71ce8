package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"convocatoria-ai/internal/contextutil"
	"convocatoria-ai/internal/document"
	"convocatoria-ai/internal/index"
	"convocatoria-ai/internal/session"
)

// UnitBuilder extracts indexable units from every document in a folder.
// Satisfied by *extract.Builder.
type UnitBuilder interface {
	BuildUnits(ctx context.Context, folder string) ([]document.Unit, error)
}

// Indexer builds, persists and restores the vector index.
// Satisfied by *index.Manager.
type Indexer interface {
	Build(ctx context.Context, units []document.Unit) (*index.Index, error)
	Save(ctx context.Context, idx *index.Index) bool
	Load(ctx context.Context) *index.Index
}

// Answerer answers one question against an index and prior history.
// Satisfied by *query.Pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string, idx *index.Index, history []session.Turn) string
}

// Service owns the conversation session and coordinates extraction,
// indexing and answering for both the HTTP API and the terminal chat.
// Rebuilds and questions are serialized with a mutex so a search never
// observes a half-swapped index.
type Service struct {
	builder  UnitBuilder
	indexer  Indexer
	pipeline Answerer
	docsDir  string

	mu      sync.Mutex
	session session.Session
}

func New(builder UnitBuilder, indexer Indexer, pipeline Answerer, docsDir string) *Service {
	return &Service{
		builder:  builder,
		indexer:  indexer,
		pipeline: pipeline,
		docsDir:  docsDir,
	}
}

// Initialize restores the index from a snapshot when one exists and
// otherwise builds it from the documents folder, creating the folder if
// missing. It never fails hard: when nothing is available the service
// starts without an index and answers degrade accordingly.
func (s *Service) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := contextutil.LoggerFromContext(ctx)

	if err := os.MkdirAll(s.docsDir, 0o755); err != nil {
		logger.ErrorContext(ctx, "failed to create documents folder",
			"folder", s.docsDir,
			"error", err)
	}

	if idx := s.indexer.Load(ctx); idx != nil {
		s.session.Index = idx
		return
	}

	units, err := s.builder.BuildUnits(ctx, s.docsDir)
	if err != nil {
		logger.ErrorContext(ctx, "failed to extract documents", "error", err)
		return
	}

	idx, err := s.indexer.Build(ctx, units)
	if err != nil {
		if errors.Is(err, index.ErrNoUnits) {
			logger.WarnContext(ctx, "no documents to index", "folder", s.docsDir)
		} else {
			logger.ErrorContext(ctx, "failed to build index", "error", err)
		}
		return
	}

	s.indexer.Save(ctx, idx)
	s.session.Index = idx
}

// Rebuild re-extracts the whole documents folder, builds a fresh index,
// persists it and swaps it into the session. Returns the number of
// indexed units; index.ErrNoUnits when the folder yields nothing.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	units, err := s.builder.BuildUnits(ctx, s.docsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to extract documents: %w", err)
	}

	idx, err := s.indexer.Build(ctx, units)
	if err != nil {
		return 0, err
	}

	s.indexer.Save(ctx, idx)
	s.session.Index = idx
	return len(units), nil
}

// Ask answers one question with the current index and appends both turns
// to the history. Failure answers are recorded like any other.
func (s *Service) Ask(ctx context.Context, question string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	answer := s.pipeline.Answer(ctx, question, s.session.Index, s.session.History)
	s.session.Append(session.RoleUser, question)
	s.session.Append(session.RoleAssistant, answer)
	return answer
}

// Ready reports whether the service currently holds an index.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Index != nil
}

// Documents lists the PDF files in the documents folder, sorted
// case-insensitively. The extension match ignores case as well.
func (s *Service) Documents() ([]string, error) {
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents folder: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// SaveUpload writes an uploaded document into the documents folder under
// the sanitized base name. Callers follow up with Rebuild to index it.
func (s *Service) SaveUpload(name string, r io.Reader) error {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return fmt.Errorf("invalid file name %q", name)
	}

	if err := os.MkdirAll(s.docsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create documents folder: %w", err)
	}

	f, err := os.Create(filepath.Join(s.docsDir, base))
	if err != nil {
		return fmt.Errorf("failed to create document file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write document file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close document file: %w", err)
	}
	return nil
}

// History returns a copy of the conversation so far.
func (s *Service) History() []session.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]session.Turn, len(s.session.History))
	copy(out, s.session.History)
	return out
}

// ClearHistory drops the conversation. The index is kept.
func (s *Service) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ClearHistory()
}
