package sqlite

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/rowdesk/pkg/adapter"
	litedialect "github.com/leapstack-labs/rowdesk/pkg/adapters/sqlite/dialect"
	"github.com/leapstack-labs/rowdesk/pkg/dialect"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect opens a SQLite database file, or ":memory:".
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	a.Logger.Debug("opening sqlite", slog.String("path", path))

	// Each connection to :memory: is a separate database, and SQLite
	// serializes writers anyway.
	cfg.Params = adapter.DefaultParam(cfg.Params, "max_open_conns", 1)
	return a.Open(ctx, "sqlite", path, cfg)
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return litedialect.SQLite
}

// ListTablesSQL lists user tables and views.
func (a *Adapter) ListTablesSQL() (string, []any) {
	return `
		SELECT name
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`, nil
}

// ListColumnsSQL lists a table's columns in declaration order.
func (a *Adapter) ListColumnsSQL(table string) (string, []any) {
	return `SELECT name FROM pragma_table_info(?) ORDER BY cid`, []any{table}
}

// QualifyTable quotes the whole name as one identifier, matching the
// single-name lookup ListColumnsSQL does.
func (a *Adapter) QualifyTable(table string) string {
	return a.Dialect().QuoteIdentifier(table)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
