package main

import (
	"net/http"

	"github.com/complyloop/extract-api/internal/api"
	apiMiddleware "github.com/complyloop/extract-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	extractionHandler := api.NewExtractionHandler(app.extractionService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/extractions", extractionHandler.SubmitExtraction)
		r.Get("/extractions/{id}", extractionHandler.GetExtraction)
		r.Post("/extractions/stream", extractionHandler.StreamExtraction)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
