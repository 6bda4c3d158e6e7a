package database

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/rowdesk/internal/browser"
)

// SetupRoutes registers the browse and edit API routes.
func SetupRoutes(router chi.Router, svc *browser.Service, logger *slog.Logger) error {
	handlers := NewHandlers(svc, logger)

	router.Get("/tables", handlers.Tables)
	router.Get("/columns/{table}", handlers.Columns)
	router.Get("/values/{table}/{column}", handlers.Values)
	router.Get("/table/{name}", handlers.TableRows)

	router.Post("/query", handlers.Query)
	router.Post("/update/{table}/{column}", handlers.Update)
	router.Post("/delete/{table}/{column}", handlers.Delete)

	return nil
}
