package handlers

import (
	"encoding/json"
	"net/http"

	"convocatoria-ai/internal/contextutil"
)

// HistoryHandler exposes the conversation history.
type HistoryHandler struct {
	assistant Assistant
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(assistant Assistant) *HistoryHandler {
	return &HistoryHandler{assistant: assistant}
}

// TurnResponse is one history entry.
type TurnResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryResponse wraps the ordered turns, oldest first.
type HistoryResponse struct {
	History []TurnResponse `json:"history"`
}

// List returns the conversation so far.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	turns := h.assistant.History()
	resp := HistoryResponse{History: make([]TurnResponse, len(turns))}
	for i, turn := range turns {
		resp.History[i] = TurnResponse{Role: string(turn.Role), Content: turn.Content}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Clear drops the conversation history.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.assistant.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}
