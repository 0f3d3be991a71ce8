package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"convocatoria-ai/internal/assistant"
	"convocatoria-ai/internal/config"
	"convocatoria-ai/internal/extract"
	"convocatoria-ai/internal/index"
	"convocatoria-ai/internal/llm"
	"convocatoria-ai/internal/query"
	"convocatoria-ai/internal/storage"
	"convocatoria-ai/internal/tui"
	"convocatoria-ai/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Bubble Tea owns the terminal, so structured logs go to a file.
	var logWriter io.Writer = io.Discard
	if f, err := os.OpenFile("chat.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		defer f.Close()
		logWriter = f
	}
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(logWriter, opts)
	} else {
		handler = slog.NewTextHandler(logWriter, opts)
	}
	slog.SetDefault(slog.New(handler))

	ctx := context.Background()

	var store vectorstore.Store
	switch cfg.IndexBackend {
	case config.BackendQdrant:
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		store = qdrantStore
	default:
		db, err := storage.New(cfg.IndexPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer func() {
			_ = db.Close()
		}()
		if err := storage.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		store = vectorstore.NewLocal(storage.NewSnapshotRepo(db))
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	manager := index.NewManager(embedder, store)
	builder := extract.NewBuilder(extract.NewFitzExtractor(nil), extract.NewChunker())
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	pipeline := query.NewPipeline(manager, llmClient)

	svc := assistant.New(builder, manager, pipeline, cfg.DocsDir)
	svc.Initialize(ctx)

	m := tui.New(svc, svc.Ready())
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
