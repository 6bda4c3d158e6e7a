// Package dialect provides the PostgreSQL SQL dialect definition.
// This package is lightweight and has no database driver dependencies.
package dialect

import (
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect configuration.
var Postgres = dialect.NewDialect("postgres").
	Identifiers(`"`, `"`, `""`, dialect.NormLowercase). // Postgres normalizes unquoted identifiers to lowercase
	DefaultSchema("public").
	PlaceholderStyle(dialect.PlaceholderDollar).
	ProjectionFunctions(dialect.StandardProjectionFunctions...).
	ProjectionFunctions("STRING_AGG", "ARRAY_AGG", "CHAR_LENGTH", "INITCAP").
	Build()
