package commands

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/rowdesk/internal/browser"
	"github.com/leapstack-labs/rowdesk/internal/cli/config"
	"github.com/leapstack-labs/rowdesk/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	Watch     bool
	StaticDir string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser UI and REST API",
		Long: `Start a local web server for browsing and editing the target database.

The connection is checked before the server starts; a missing setting or an
unreachable database exits with an error.`,
		Example: `  # Serve on the default port (3000)
  rowdesk serve

  # Use a named target from rowdesk.yaml
  rowdesk serve --target staging --port 8080

  # Reload the page when client assets change
  rowdesk serve --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 3000)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload connected pages when client assets change")
	cmd.Flags().StringVar(&opts.StaticDir, "static-dir", "", "Serve client assets from this directory instead of the embedded copy")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	// CLI flags override config file
	port := cfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	staticDir := cfg.StaticDir
	if opts.StaticDir != "" {
		staticDir = opts.StaticDir
	}
	if staticDir != "" {
		if _, err := os.Stat(staticDir); err != nil {
			return fmt.Errorf("static directory does not exist: %s", staticDir)
		}
	}

	adp, err := connect(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = adp.Close() }()

	server := ui.NewServer(ui.Config{
		Service:   browser.New(adp, logger),
		Port:      port,
		Logger:    logger,
		Watch:     opts.Watch,
		StaticDir: staticDir,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		select {
		case addr := <-server.Ready():
			if _, p, err := net.SplitHostPort(addr); err == nil {
				addr = "localhost:" + p
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
		case <-ctx.Done():
		}
	}()

	return server.Serve(ctx)
}
