// Package ui provides rowdesk's HTTP API server and browser client.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/rowdesk/internal/browser"
	"github.com/leapstack-labs/rowdesk/internal/ui/notifier"
	"github.com/leapstack-labs/rowdesk/internal/ui/resources"
	"github.com/leapstack-labs/rowdesk/internal/ui/router"
	"golang.org/x/sync/errgroup"
)

// DefaultPort is the port the server listens on when none is configured.
const DefaultPort = 3000

// Server is the API server.
type Server struct {
	service   *browser.Service
	port      int
	watch     bool
	staticDir string
	logger    *slog.Logger
	notifier  *notifier.Notifier

	// ready receives the bound address once the listener is open.
	ready chan string
}

// Config holds configuration for the server.
type Config struct {
	Service *browser.Service
	Port    int
	Logger  *slog.Logger

	// Watch reloads connected pages when files under StaticDir change.
	Watch bool

	// StaticDir serves the client from disk. With Watch and no StaticDir,
	// the source tree's asset directory is used.
	StaticDir string
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	staticDir := cfg.StaticDir
	if cfg.Watch && staticDir == "" {
		staticDir = resources.StaticDirectoryPath
	}

	return &Server{
		service:   cfg.Service,
		port:      port,
		watch:     cfg.Watch,
		staticDir: staticDir,
		logger:    logger,
		notifier:  notifier.New(),
		ready:     make(chan string, 1),
	}
}

// Handler builds the server's routes and middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
			NoColor: true,
		}),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	opts := router.Options{
		Service:   s.service,
		Logger:    s.logger,
		StaticDir: s.staticDir,
	}
	if s.watch {
		opts.Notifier = s.notifier
	}
	if err := router.SetupRoutes(r, opts); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Ready returns a channel that receives the listen address once the server
// accepts connections.
func (s *Server) Ready() <-chan string {
	return s.ready
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	addr := ln.Addr().String()
	s.logger.Info("server listening", slog.String("addr", addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	s.ready <- addr
	return eg.Wait()
}

// Notifier returns the server's notifier for reload events.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles broadcasts a reload when client assets change.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.staticDir); err != nil {
		s.logger.Error("failed to watch static directory", "dir", s.staticDir, "error", err)
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			switch filepath.Ext(event.Name) {
			case ".html", ".js", ".css":
			default:
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				sent := s.notifier.Broadcast()
				s.logger.Debug("asset changed, reloading clients", "file", name, "clients", sent)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
