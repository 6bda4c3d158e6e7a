// Package dialect provides SQL dialect configuration for identifier quoting,
// value placeholders and the projection function allow-list.
//
// Concrete dialects are registered from pkg/adapters/*/dialect packages.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/rowdesk/pkg/core"
)

// Re-exported normalization strategies so dialect packages need only this import.
const (
	NormLowercase       = core.NormLowercase
	NormUppercase       = core.NormUppercase
	NormCaseSensitive   = core.NormCaseSensitive
	NormCaseInsensitive = core.NormCaseInsensitive
)

// Re-exported placeholder styles.
const (
	PlaceholderQuestion = core.PlaceholderQuestion
	PlaceholderDollar   = core.PlaceholderDollar
)

// StandardProjectionFunctions are accepted inside a projection term by every dialect.
var StandardProjectionFunctions = []string{
	"COUNT", "SUM", "AVG", "MIN", "MAX",
	"UPPER", "LOWER", "LENGTH", "TRIM", "ABS", "ROUND",
}

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	DefaultSchema string                // "main" for DuckDB/SQLite, "public" for Postgres
	Placeholder   core.PlaceholderStyle // How to format query parameters

	projectionFuncs map[string]struct{} // stored uppercased
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	funcs := make([]string, 0, len(d.projectionFuncs))
	for f := range d.projectionFuncs {
		funcs = append(funcs, f)
	}
	return &core.DialectConfig{
		Name:                d.Name,
		Identifiers:         d.Identifiers,
		DefaultSchema:       d.DefaultSchema,
		Placeholder:         d.Placeholder,
		ProjectionFunctions: funcs,
	}
}

// NormalizeName normalizes an unquoted identifier according to the dialect.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormCaseSensitive:
		return name
	default:
		return strings.ToLower(name)
	}
}

// IsProjectionFunction reports whether fn may wrap a column in a projection term.
func (d *Dialect) IsProjectionFunction(fn string) bool {
	_, ok := d.projectionFuncs[strings.ToUpper(fn)]
	return ok
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default:
		return "?"
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ` -> ``)
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
// Defaults to ANSI double-quoted identifiers and ? placeholders.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
			projectionFuncs: make(map[string]struct{}),
		},
	}
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// ProjectionFunctions adds functions accepted inside projection terms.
func (b *Builder) ProjectionFunctions(funcs ...string) *Builder {
	for _, f := range funcs {
		b.dialect.projectionFuncs[strings.ToUpper(f)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
