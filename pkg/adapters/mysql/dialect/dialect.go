// Package dialect provides the MySQL SQL dialect definition.
// This package has no database driver dependencies.
package dialect

import (
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// MySQL is the MySQL dialect configuration.
// Backtick-quoted identifiers match the mysql driver's ?? escaping.
var MySQL = dialect.NewDialect("mysql").
	Identifiers("`", "`", "``", dialect.NormCaseSensitive).
	PlaceholderStyle(dialect.PlaceholderQuestion).
	ProjectionFunctions(dialect.StandardProjectionFunctions...).
	ProjectionFunctions("CHAR_LENGTH", "GROUP_CONCAT", "HEX").
	Build()
