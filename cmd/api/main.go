package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"convocatoria-ai/internal/assistant"
	"convocatoria-ai/internal/config"
	"convocatoria-ai/internal/extract"
	"convocatoria-ai/internal/http"
	"convocatoria-ai/internal/index"
	"convocatoria-ai/internal/llm"
	"convocatoria-ai/internal/query"
	"convocatoria-ai/internal/storage"
	"convocatoria-ai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx := context.Background()

	// Pick the vector store backend
	var store vectorstore.Store
	switch cfg.IndexBackend {
	case config.BackendQdrant:
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		store = qdrantStore
		slog.Info("Qdrant store ready", "url", cfg.QdrantURL, "collection", cfg.QdrantCollection)
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
		slog.Info("Local store ready", "path", cfg.IndexPath)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	manager := index.NewManager(embedder, store)
	builder := extract.NewBuilder(extract.NewFitzExtractor(nil), extract.NewChunker())
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	pipeline := query.NewPipeline(manager, llmClient)

	svc := assistant.New(builder, manager, pipeline, cfg.DocsDir)
	svc.Initialize(ctx)
	slog.Info("Assistant initialized", "docs_dir", cfg.DocsDir, "ready", svc.Ready())

	router := http.NewRouter(&http.Deps{Assistant: svc})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
