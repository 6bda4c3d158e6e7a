// Package dialect provides the SQLite SQL dialect definition.
package dialect

import (
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect configuration.
// Backticks are used because SQLite reads an unmatched "name" as a string
// literal, which would turn a misspelled column into a constant.
var SQLite = dialect.NewDialect("sqlite").
	Identifiers("`", "`", "``", dialect.NormCaseInsensitive).
	DefaultSchema("main").
	PlaceholderStyle(dialect.PlaceholderQuestion).
	ProjectionFunctions(dialect.StandardProjectionFunctions...).
	ProjectionFunctions("GROUP_CONCAT", "TOTAL", "TYPEOF", "HEX").
	Build()
