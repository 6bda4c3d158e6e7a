package testutil

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/leapstack-labs/rowdesk/pkg/adapters/sqlite"
	"github.com/leapstack-labs/rowdesk/pkg/core"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// MigrateFixtures applies the fixture migrations (users, orders and the
// order_totals view) to db.
func MigrateFixtures(db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// NewSQLiteFile creates a migrated fixture database file in t.TempDir() and
// returns its path. No connection is left open.
func NewSQLiteFile(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixtures.db")
	adp := connectSQLite(t, path)
	require.NoError(t, MigrateFixtures(adp.Pool()))
	require.NoError(t, adp.Close())
	return path
}

// NewSQLiteAdapter returns a connected SQLite adapter on a fresh fixture
// database. It is closed when the test ends.
func NewSQLiteAdapter(t testing.TB) *sqlite.Adapter {
	t.Helper()

	adp := connectSQLite(t, NewSQLiteFile(t))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func connectSQLite(t testing.TB, path string) *sqlite.Adapter {
	t.Helper()

	adp := sqlite.New(NewTestLogger(t))
	err := adp.Connect(context.Background(), core.AdapterConfig{Type: "sqlite", Path: path})
	require.NoError(t, err)
	return adp
}
