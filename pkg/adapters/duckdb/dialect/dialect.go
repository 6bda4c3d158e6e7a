// Package dialect provides the DuckDB SQL dialect definition.
// This package is lightweight and has no database driver dependencies.
package dialect

import (
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect configuration.
var DuckDB = dialect.NewDialect("duckdb").
	Identifiers(`"`, `"`, `""`, dialect.NormCaseInsensitive).
	DefaultSchema("main").
	PlaceholderStyle(dialect.PlaceholderQuestion).
	ProjectionFunctions(dialect.StandardProjectionFunctions...).
	ProjectionFunctions("MEDIAN", "MODE", "LIST", "STRING_AGG", "ANY_VALUE").
	Build()
