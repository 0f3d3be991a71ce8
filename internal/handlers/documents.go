package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"convocatoria-ai/internal/contextutil"
	"convocatoria-ai/internal/index"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// files spill to disk.
const maxUploadMemory = 32 << 20

// DocumentsHandler lists, uploads and reindexes the documents folder.
type DocumentsHandler struct {
	assistant Assistant
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(assistant Assistant) *DocumentsHandler {
	return &DocumentsHandler{assistant: assistant}
}

// ListResponse names the documents currently in the folder.
type ListResponse struct {
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// UploadResponse reports an upload and the rebuild that followed it.
type UploadResponse struct {
	Indexed  int      `json:"indexed"`
	Uploaded []string `json:"uploaded"`
}

// RebuildResponse reports a full reindex.
type RebuildResponse struct {
	Indexed int `json:"indexed"`
}

// List responds with the PDF files in the documents folder.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := h.assistant.Documents()
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if docs == nil {
		docs = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ListResponse{Documents: docs, Count: len(docs)}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Upload saves the submitted PDFs into the folder and rebuilds the index.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.writeError(w, http.StatusBadRequest, "No files provided")
		return
	}

	uploaded := make([]string, 0, len(files))
	for _, hdr := range files {
		name := filepath.Base(hdr.Filename)
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Only PDF files are accepted: %s", name))
			return
		}

		f, err := hdr.Open()
		if err != nil {
			logger.ErrorContext(ctx, "failed to open uploaded file", "file", name, "error", err)
			h.writeError(w, http.StatusInternalServerError, "Failed to read uploaded file")
			return
		}
		err = h.assistant.SaveUpload(name, f)
		f.Close()
		if err != nil {
			logger.ErrorContext(ctx, "failed to save uploaded file", "file", name, "error", err)
			h.writeError(w, http.StatusInternalServerError, "Failed to save uploaded file")
			return
		}
		uploaded = append(uploaded, name)
	}

	// An upload of unreadable PDFs can still leave the folder without
	// indexable text; report zero rather than failing the upload.
	indexed, err := h.assistant.Rebuild(ctx)
	if err != nil && !errors.Is(err, index.ErrNoUnits) {
		logger.ErrorContext(ctx, "failed to rebuild index after upload", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to rebuild index")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(UploadResponse{Indexed: indexed, Uploaded: uploaded}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Rebuild reindexes the documents folder from scratch.
func (h *DocumentsHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	indexed, err := h.assistant.Rebuild(ctx)
	if err != nil {
		if errors.Is(err, index.ErrNoUnits) {
			h.writeError(w, http.StatusConflict, "No documents to index")
			return
		}
		logger.ErrorContext(ctx, "failed to rebuild index", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to rebuild index")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(RebuildResponse{Indexed: indexed}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *DocumentsHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
