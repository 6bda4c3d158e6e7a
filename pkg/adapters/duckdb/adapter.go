package duckdb

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/rowdesk/pkg/adapter"
	duckdialect "github.com/leapstack-labs/rowdesk/pkg/adapters/duckdb/dialect"
	"github.com/leapstack-labs/rowdesk/pkg/dialect"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect opens a DuckDB database.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	a.Logger.Debug("opening duckdb", slog.String("path", path))

	return a.Open(ctx, "duckdb", path, cfg)
}

// Dialect returns the DuckDB dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return duckdialect.DuckDB
}

func (a *Adapter) schema() string {
	if a.Cfg.Schema != "" {
		return a.Cfg.Schema
	}
	return duckdialect.DuckDB.DefaultSchema
}

// ListTablesSQL lists the tables and views of the configured schema.
func (a *Adapter) ListTablesSQL() (string, []any) {
	return `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		ORDER BY table_name
	`, []any{a.schema()}
}

// ListColumnsSQL lists a table's columns, honoring "schema.table" references.
func (a *Adapter) ListColumnsSQL(table string) (string, []any) {
	schema, name := adapter.ParseQualifiedName(table, a.schema())
	return `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`, []any{schema, name}
}

// QualifyTable prefixes unqualified names with the configured schema.
func (a *Adapter) QualifyTable(table string) string {
	return adapter.QualifyTable(a.Dialect(), table, a.schema())
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
