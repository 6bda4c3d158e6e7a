// Package router sets up HTTP routes for the API server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/leapstack-labs/rowdesk/internal/browser"
	databaseFeature "github.com/leapstack-labs/rowdesk/internal/ui/features/database"
	"github.com/leapstack-labs/rowdesk/internal/ui/notifier"
	"github.com/leapstack-labs/rowdesk/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// Options configures SetupRoutes.
type Options struct {
	Service *browser.Service
	Logger  *slog.Logger

	// StaticDir serves the client from disk instead of the embedded copy.
	StaticDir string

	// Notifier, when set, drives /reload so pages refresh on asset changes.
	Notifier *notifier.Notifier
}

// SetupRoutes configures all routes for the API server.
func SetupRoutes(router chi.Router, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// The client may be served from another origin during development.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	setupReload(router, opts.Notifier)

	// Client
	fsys := resources.FS(opts.StaticDir)
	router.Get("/", resources.Index(fsys))
	router.Handle("/static/*", resources.Handler(fsys, opts.StaticDir != ""))

	// API
	if err := databaseFeature.SetupRoutes(router, opts.Service, logger); err != nil {
		return err
	}

	return nil
}

// setupReload registers /reload. Without a notifier it answers 204, which
// tells an EventSource not to reconnect.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		if notify == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		ch, cancel := notify.Subscribe()
		defer cancel()

		sse := datastar.NewSSE(w, r)
		select {
		case <-ch:
			_ = sse.ExecuteScript("window.location.reload()")
		case <-r.Context().Done():
		}
	})
}
