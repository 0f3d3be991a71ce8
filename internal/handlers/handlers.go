package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_assistant.go -package=mocks convocatoria-ai/internal/handlers Assistant

import (
	"context"
	"io"

	"convocatoria-ai/internal/session"
)

// Assistant is the part of the assistant service the HTTP layer uses.
// Defined from the handlers' perspective; satisfied by *assistant.Service.
type Assistant interface {
	// Ask answers one question. It never fails; failure answers are
	// ordinary strings.
	Ask(ctx context.Context, question string) string
	// Rebuild reindexes the documents folder and returns the unit count.
	Rebuild(ctx context.Context) (int, error)
	// Documents lists the PDF files in the folder.
	Documents() ([]string, error)
	// SaveUpload stores an uploaded PDF in the folder.
	SaveUpload(name string, r io.Reader) error
	// History returns the conversation so far.
	History() []session.Turn
	// ClearHistory drops the conversation.
	ClearHistory()
}

// ErrorResponse is the JSON body for every error status.
type ErrorResponse struct {
	Error string `json:"error"`
}
