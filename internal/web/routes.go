package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/card-generator/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	configHandler := handlers.NewConfigHandler(s.config)
	cardsHandler := handlers.NewCardsHandler(s.config, s.store)
	renderHandler := handlers.NewRenderHandler(s.config, s.store, s.backend)
	printHandler := handlers.NewPrintHandler(s.config, s.store, s.backend)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Config
		r.Get("/config", configHandler.Get)

		// Cards
		r.Get("/cards", cardsHandler.List)
		r.Post("/cards", cardsHandler.Upload)
		r.Post("/cards/labels", cardsHandler.BulkLabels)
		r.Put("/cards/reorder", cardsHandler.Reorder)
		r.Get("/cards/{id}", cardsHandler.Get)
		r.Put("/cards/{id}", cardsHandler.Update)
		r.Delete("/cards/{id}", cardsHandler.Delete)
		r.Get("/cards/{id}/image", cardsHandler.Image)
		r.Get("/cards/{id}/preview", cardsHandler.Preview)
		r.Post("/cards/{id}/crop", cardsHandler.Crop)

		// Rendering
		r.Get("/cards/{id}/render/{variant}", renderHandler.Card)
		r.Get("/bundle", renderHandler.Bundle)
		r.Get("/print", printHandler.Print)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}` + "\n"))
	})
}
