package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Index backends.
const (
	BackendLocal  = "local"
	BackendQdrant = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort          string
	DocsDir          string
	IndexPath        string
	IndexBackend     string
	LLMBaseURL       string
	LLMAPIKey        string
	LLMModel         string
	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string
	QdrantURL        string
	QdrantCollection string
	LogLevel         string
	LogFormat        string
}

// Load reads configuration from environment variables and returns a Config
// struct. It applies defaults for optional fields and validates required
// fields, reporting every missing key in one error. Environment variables
// already set take precedence over .env file values.
func Load() (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:          getEnv("API_PORT", "8080"),
		DocsDir:          getEnv("DOCS_DIR", "./convocatorias"),
		IndexPath:        getEnv("INDEX_PATH", "./data/index.db"),
		IndexBackend:     getEnv("INDEX_BACKEND", BackendLocal),
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		LLMModel:         getEnv("LLM_MODEL", "gpt-4o-mini"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		QdrantURL:        getEnv("QDRANT_URL", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "convocatorias"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	// The embeddings endpoint shares the chat credentials unless overridden.
	cfg.EmbeddingBaseURL = getEnv("EMBEDDING_BASE_URL", cfg.LLMBaseURL)
	cfg.EmbeddingAPIKey = getEnv("EMBEDDING_API_KEY", cfg.LLMAPIKey)

	var errs []error
	if cfg.LLMAPIKey == "" {
		errs = append(errs, fmt.Errorf("LLM_API_KEY is required"))
	}
	switch cfg.IndexBackend {
	case BackendLocal:
	case BackendQdrant:
		if cfg.QdrantURL == "" {
			errs = append(errs, fmt.Errorf("QDRANT_URL is required when INDEX_BACKEND is qdrant"))
		}
	default:
		errs = append(errs, fmt.Errorf("INDEX_BACKEND must be %q or %q, got %q", BackendLocal, BackendQdrant, cfg.IndexBackend))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if cfg.IndexBackend == BackendLocal {
		if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
