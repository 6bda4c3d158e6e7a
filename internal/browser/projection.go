package browser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

var (
	// ErrEmptyQuery is returned when a projection is blank.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInvalidQuery is returned when a projection fails validation.
	ErrInvalidQuery = errors.New("invalid characters in query")
)

var (
	// projectionPattern is the allow-list applied before anything else.
	projectionPattern = regexp.MustCompile(`^[a-zA-Z0-9_ ,()]*$`)

	columnTerm   = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	functionTerm = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\(\s*([A-Za-z0-9_]+)\s*\)$`)
)

// ValidateProjection applies the character allow-list to a projection.
func ValidateProjection(projection string) error {
	if strings.TrimSpace(projection) == "" {
		return ErrEmptyQuery
	}
	if !projectionPattern.MatchString(projection) {
		return ErrInvalidQuery
	}
	return nil
}

// BuildProjection turns a comma-separated column list into a quoted SELECT
// list. A term is either a column name or fn(column) where fn is on the
// dialect's projection function allow-list.
func BuildProjection(d *dialect.Dialect, projection string) (string, error) {
	if err := ValidateProjection(projection); err != nil {
		return "", err
	}

	terms := strings.Split(projection, ",")
	out := make([]string, 0, len(terms))
	for _, raw := range terms {
		term := strings.TrimSpace(raw)

		if columnTerm.MatchString(term) {
			out = append(out, d.QuoteIdentifier(term))
			continue
		}

		if m := functionTerm.FindStringSubmatch(term); m != nil {
			if !d.IsProjectionFunction(m[1]) {
				return "", fmt.Errorf("%w: function %s is not allowed", ErrInvalidQuery, m[1])
			}
			out = append(out, strings.ToUpper(m[1])+"("+d.QuoteIdentifier(m[2])+")")
			continue
		}

		if term == "" {
			return "", fmt.Errorf("%w: empty column in list", ErrInvalidQuery)
		}
		return "", fmt.Errorf("%w: %q is not a column name", ErrInvalidQuery, term)
	}

	return strings.Join(out, ", "), nil
}
