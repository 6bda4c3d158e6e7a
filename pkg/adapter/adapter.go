// Package adapter provides the database adapter contract for rowdesk.
//
// An adapter owns one connection pool and knows how to ask its database's
// catalog for table and column names. Concrete adapter implementations are
// in pkg/adapters/ subdirectories and register themselves via init().
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/rowdesk/pkg/core"
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect opens the connection pool and verifies it with a ping.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the pool and releases resources.
	Close() error

	// Pool returns the underlying connection pool, or nil before Connect.
	Pool() *sql.DB

	// Dialect returns the SQL dialect used to quote identifiers and format placeholders.
	Dialect() *dialect.Dialect

	// ListTablesSQL returns the catalog query listing table names in name order.
	ListTablesSQL() (string, []any)

	// ListColumnsSQL returns the catalog query listing a table's column names
	// in ordinal order.
	ListColumnsSQL(table string) (string, []any)

	// QualifyTable returns the quoted table reference for data statements,
	// resolved against the same schema ListColumnsSQL reads.
	QualifyTable(table string) string
}
