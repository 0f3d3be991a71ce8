package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"convocatoria-ai/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Assistant handlers.Assistant
}

// NewRouter creates the HTTP router with all API routes registered.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Assistant)
	documentsHandler := handlers.NewDocumentsHandler(deps.Assistant)
	historyHandler := handlers.NewHistoryHandler(deps.Assistant)

	r.Get("/healthz", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Get("/documents", documentsHandler.List)
		r.Post("/documents", documentsHandler.Upload)
		r.Post("/documents/rebuild", documentsHandler.Rebuild)
		r.Get("/history", historyHandler.List)
		r.Post("/history/clear", historyHandler.Clear)
	})

	return r
}
