package browser

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/rowdesk/pkg/adapter"
	"github.com/leapstack-labs/rowdesk/pkg/core"
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

// ErrTableNotFound is returned by ListColumns for a table the catalog does not know.
var ErrTableNotFound = errors.New("table not found")

// Service runs browse and edit operations against one adapter's pool.
type Service struct {
	adapter adapter.Adapter
	logger  *slog.Logger
}

// New creates a Service. If logger is nil, a discard logger is used.
func New(a adapter.Adapter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{adapter: a, logger: logger}
}

// IsClientError reports whether err came from request validation rather
// than from the database.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrInvalidQuery)
}

func (s *Service) pool() (*sql.DB, error) {
	db := s.adapter.Pool()
	if db == nil {
		return nil, adapter.ErrNotConnected
	}
	return db, nil
}

func (s *Service) dialect() *dialect.Dialect {
	return s.adapter.Dialect()
}

// ListTables returns the database's tables in name order.
func (s *Service) ListTables(ctx context.Context) ([]core.TableInfo, error) {
	db, err := s.pool()
	if err != nil {
		return nil, err
	}

	query, args := s.adapter.ListTablesSQL()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	names, err := adapter.ScanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read table names: %w", err)
	}

	tables := make([]core.TableInfo, len(names))
	for i, name := range names {
		tables[i] = core.TableInfo{Name: name}
	}
	return tables, nil
}

// ListColumns returns a table's column names in ordinal order.
func (s *Service) ListColumns(ctx context.Context, table string) ([]string, error) {
	db, err := s.pool()
	if err != nil {
		return nil, err
	}

	query, args := s.adapter.ListColumnsSQL(table)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	columns, err := adapter.ScanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return columns, nil
}

// DistinctValues returns the distinct values currently stored in a column.
func (s *Service) DistinctValues(ctx context.Context, table, column string) ([]any, error) {
	db, err := s.pool()
	if err != nil {
		return nil, err
	}

	query := "SELECT DISTINCT " + s.dialect().QuoteIdentifier(column) + " FROM " + s.adapter.QualifyTable(table)
	s.logger.Debug("distinct values", slog.String("sql", query))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	values, err := adapter.ScanColumn(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	return values, nil
}

// TableRows returns every row of a table.
func (s *Service) TableRows(ctx context.Context, table string) ([]core.Row, error) {
	query := "SELECT * FROM " + s.adapter.QualifyTable(table)
	return s.selectRows(ctx, query)
}

// Query runs a projection over a table. The projection is validated before
// any SQL is issued; there is no WHERE clause.
func (s *Service) Query(ctx context.Context, table, projection string) ([]core.Row, error) {
	selectList, err := BuildProjection(s.dialect(), projection)
	if err != nil {
		return nil, err
	}
	return s.selectRows(ctx, "SELECT "+selectList+" FROM "+s.adapter.QualifyTable(table))
}

func (s *Service) selectRows(ctx context.Context, query string) ([]core.Row, error) {
	db, err := s.pool()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("select", slog.String("sql", query))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	result, err := adapter.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return result, nil
}

// Update sets column to newValue on every row where column equals value.
// Returns the number of rows changed.
func (s *Service) Update(ctx context.Context, table, column string, value, newValue any) (int64, error) {
	d := s.dialect()
	col := d.QuoteIdentifier(column)
	stmt := fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
		s.adapter.QualifyTable(table), col, d.FormatPlaceholder(1), col, d.FormatPlaceholder(2))

	return s.execInTx(ctx, stmt, newValue, value)
}

// Delete removes every row where column equals value.
// Returns the number of rows removed.
func (s *Service) Delete(ctx context.Context, table, column string, value any) (int64, error) {
	d := s.dialect()
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		s.adapter.QualifyTable(table), d.QuoteIdentifier(column), d.FormatPlaceholder(1))

	return s.execInTx(ctx, stmt, value)
}

// execInTx runs one statement inside BEGIN/COMMIT and rolls back on failure.
func (s *Service) execInTx(ctx context.Context, stmt string, args ...any) (int64, error) {
	db, err := s.pool()
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	s.logger.Debug("exec", slog.String("sql", stmt))
	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report affected rows; the change is committed.
		return 0, nil
	}
	return n, nil
}
