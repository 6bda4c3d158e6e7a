package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/rowdesk/pkg/core"
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

// ErrNotConnected is returned when an operation needs a pool before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Open, Close and Pool implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

// Open opens a pool for the driver, applies pool params from cfg.Params and
// pings it. The pool is closed again if the ping fails.
func (b *BaseSQLAdapter) Open(ctx context.Context, driverName, dsn string, cfg core.AdapterConfig) error {
	if b.Logger == nil {
		b.Logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}

	if err := ConfigurePool(db, cfg.Params); err != nil {
		_ = db.Close()
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", driverName, err)
	}

	b.DB = db
	b.Cfg = cfg
	return nil
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Pool returns the connection pool.
func (b *BaseSQLAdapter) Pool() *sql.DB {
	return b.DB
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// DecodePoolParams extracts pool settings from adapter params.
// Durations may be given as Go duration strings ("5m") or nanoseconds.
func DecodePoolParams(params map[string]any) (core.PoolParams, error) {
	var pp core.PoolParams
	if len(params) == 0 {
		return pp, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &pp,
	})
	if err != nil {
		return pp, err
	}
	if err := dec.Decode(params); err != nil {
		return pp, fmt.Errorf("invalid pool params: %w", err)
	}
	return pp, nil
}

// ConfigurePool applies pool params to db. Zero values keep database/sql defaults.
func ConfigurePool(db *sql.DB, params map[string]any) error {
	pp, err := DecodePoolParams(params)
	if err != nil {
		return err
	}
	if pp.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pp.MaxOpenConns)
	}
	if pp.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pp.MaxIdleConns)
	}
	if pp.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pp.ConnMaxLifetime)
	}
	if pp.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pp.ConnMaxIdleTime)
	}
	return nil
}

// ScanRows reads every row of rows into ordered core.Rows and closes rows.
func ScanRows(rows *sql.Rows) ([]core.Row, error) {
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]core.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		results = append(results, core.NewRow(cols, values))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ScanColumn reads the first column of every row and closes rows.
func ScanColumn(rows *sql.Rows) ([]any, error) {
	defer func() { _ = rows.Close() }()

	values := make([]any, 0)
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, core.NormalizeValue(v))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// ScanStrings reads the first column of every row as a string and closes rows.
func ScanStrings(rows *sql.Rows) ([]string, error) {
	defer func() { _ = rows.Close() }()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// ParseQualifiedName splits a table reference into schema and name.
// Uses defaultSchema when the reference is unqualified.
func ParseQualifiedName(table, defaultSchema string) (schema, name string) {
	if parts := strings.SplitN(table, ".", 2); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return defaultSchema, table
}

// QualifyTable quotes a table reference with d. An unqualified name is
// prefixed with defaultSchema unless it is empty.
func QualifyTable(d *dialect.Dialect, table, defaultSchema string) string {
	schema, name := ParseQualifiedName(table, defaultSchema)
	if schema == "" {
		return d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(name)
}

// DefaultParam returns a copy of params with key set to value unless the
// caller already configured it.
func DefaultParam(params map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	if _, ok := out[key]; !ok {
		out[key] = value
	}
	return out
}
