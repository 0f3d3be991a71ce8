package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"API_PORT", "DOCS_DIR", "INDEX_PATH", "INDEX_BACKEND",
	"LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL",
	"EMBEDDING_BASE_URL", "EMBEDDING_API_KEY", "EMBEDDING_MODEL",
	"QDRANT_URL", "QDRANT_COLLECTION", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every config key so values from the host environment
// cannot leak into a test. t.Setenv restores the originals afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		errContains []string
		checkConfig func(*Config) bool
	}{
		{
			name: "defaults with required key set",
			setupEnv: func(t *testing.T) {
				t.Setenv("LLM_API_KEY", "sk-test")
				t.Setenv("INDEX_PATH", filepath.Join(t.TempDir(), "index.db"))
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "8080" &&
					cfg.DocsDir == "./convocatorias" &&
					cfg.IndexBackend == BackendLocal &&
					cfg.LLMBaseURL == "https://api.openai.com" &&
					cfg.LLMModel == "gpt-4o-mini" &&
					cfg.EmbeddingModel == "text-embedding-3-small" &&
					cfg.QdrantCollection == "convocatorias" &&
					cfg.LogLevel == "info" &&
					cfg.LogFormat == "text"
			},
		},
		{
			name: "embedding endpoint inherits llm settings",
			setupEnv: func(t *testing.T) {
				t.Setenv("LLM_API_KEY", "sk-test")
				t.Setenv("LLM_BASE_URL", "http://localhost:8081")
				t.Setenv("INDEX_PATH", filepath.Join(t.TempDir(), "index.db"))
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.EmbeddingBaseURL == "http://localhost:8081" &&
					cfg.EmbeddingAPIKey == "sk-test"
			},
		},
		{
			name: "embedding endpoint overridden",
			setupEnv: func(t *testing.T) {
				t.Setenv("LLM_API_KEY", "sk-test")
				t.Setenv("EMBEDDING_BASE_URL", "http://localhost:9090")
				t.Setenv("EMBEDDING_API_KEY", "sk-embed")
				t.Setenv("INDEX_PATH", filepath.Join(t.TempDir(), "index.db"))
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.EmbeddingBaseURL == "http://localhost:9090" &&
					cfg.EmbeddingAPIKey == "sk-embed"
			},
		},
		{
			name: "qdrant backend",
			setupEnv: func(t *testing.T) {
				t.Setenv("LLM_API_KEY", "sk-test")
				t.Setenv("INDEX_BACKEND", BackendQdrant)
				t.Setenv("QDRANT_URL", "http://localhost:6334")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.IndexBackend == BackendQdrant &&
					cfg.QdrantURL == "http://localhost:6334" &&
					cfg.IndexPath == "./data/index.db"
			},
		},
		{
			name:        "missing api key",
			setupEnv:    func(t *testing.T) {},
			wantErr:     true,
			errContains: []string{"LLM_API_KEY"},
		},
		{
			name: "qdrant backend requires url",
			setupEnv: func(t *testing.T) {
				t.Setenv("LLM_API_KEY", "sk-test")
				t.Setenv("INDEX_BACKEND", BackendQdrant)
			},
			wantErr:     true,
			errContains: []string{"QDRANT_URL"},
		},
		{
			name: "unknown backend",
			setupEnv: func(t *testing.T) {
				t.Setenv("LLM_API_KEY", "sk-test")
				t.Setenv("INDEX_BACKEND", "faiss")
			},
			wantErr:     true,
			errContains: []string{"INDEX_BACKEND"},
		},
		{
			name: "every missing key reported",
			setupEnv: func(t *testing.T) {
				t.Setenv("INDEX_BACKEND", BackendQdrant)
			},
			wantErr:     true,
			errContains: []string{"LLM_API_KEY", "QDRANT_URL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				for _, want := range tt.errContains {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("Load() error = %v, want mention of %v", err, want)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesIndexDirectory(t *testing.T) {
	clearEnv(t)

	indexPath := filepath.Join(t.TempDir(), "nested", "index.db")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("INDEX_PATH", indexPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.IndexPath != indexPath {
		t.Errorf("Load() IndexPath = %v, want %v", cfg.IndexPath, indexPath)
	}

	info, err := os.Stat(filepath.Dir(indexPath))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.IsDir() {
		t.Error("Load() should create the index directory")
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
