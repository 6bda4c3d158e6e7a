package browser

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/rowdesk/pkg/adapter"
	mysqldialect "github.com/leapstack-labs/rowdesk/pkg/adapters/mysql/dialect"
	"github.com/leapstack-labs/rowdesk/pkg/adapters/postgres"
	pgdialect "github.com/leapstack-labs/rowdesk/pkg/adapters/postgres/dialect"
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter serves a sqlmock pool with a fixed dialect.
type stubAdapter struct {
	db *sql.DB
	d  *dialect.Dialect
}

func (s *stubAdapter) Connect(context.Context, adapter.Config) error { return nil }
func (s *stubAdapter) Close() error                                  { return nil }
func (s *stubAdapter) Pool() *sql.DB                                 { return s.db }
func (s *stubAdapter) Dialect() *dialect.Dialect                     { return s.d }
func (s *stubAdapter) ListTablesSQL() (string, []any) {
	return "SELECT name FROM catalog ORDER BY name", nil
}
func (s *stubAdapter) ListColumnsSQL(table string) (string, []any) {
	return "SELECT column_name FROM catalog WHERE table_name = ?", []any{table}
}
func (s *stubAdapter) QualifyTable(table string) string {
	return adapter.QualifyTable(s.d, table, "")
}

func newMockService(t *testing.T, d *dialect.Dialect) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(&stubAdapter{db: db, d: d}, nil), mock
}

func TestService_ListTables(t *testing.T) {
	svc, mock := newMockService(t, mysqldialect.MySQL)
	mock.ExpectQuery("SELECT name FROM catalog ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("orders").AddRow("users"))

	tables, err := svc.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "orders", tables[0].Name)
	assert.Equal(t, "users", tables[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ListColumns(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectQuery("SELECT column_name FROM catalog WHERE table_name = ?").
			WithArgs("users").
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("name"))

		cols, err := svc.ListColumns(context.Background(), "users")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, cols)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown table", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectQuery("SELECT column_name FROM catalog WHERE table_name = ?").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

		_, err := svc.ListColumns(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrTableNotFound)
		assert.Contains(t, err.Error(), "nope")
	})
}

func TestService_DistinctValues(t *testing.T) {
	svc, mock := newMockService(t, mysqldialect.MySQL)
	mock.ExpectQuery("SELECT DISTINCT `role` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("admin").AddRow([]byte("member")).AddRow(nil))

	values, err := svc.DistinctValues(context.Background(), "users", "role")
	require.NoError(t, err)
	assert.Equal(t, []any{"admin", "member", nil}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_TableRows_QuotesIdentifiers(t *testing.T) {
	svc, mock := newMockService(t, mysqldialect.MySQL)
	mock.ExpectQuery("SELECT * FROM `shop`.`odd``name`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	rows, err := svc.TableRows(context.Background(), "shop.odd`name")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"id"}, rows[0].Columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Query(t *testing.T) {
	t.Run("projection", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectQuery("SELECT `id`, `name` FROM `users`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Alice"))

		rows, err := svc.Query(context.Background(), "users", "id, name")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, []any{int64(1), "Alice"}, rows[0].Values)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected projections issue no SQL", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)

		_, err := svc.Query(context.Background(), "users", "id; DROP TABLE users")
		assert.ErrorIs(t, err, ErrInvalidQuery)
		assert.True(t, IsClientError(err))

		_, err = svc.Query(context.Background(), "users", "")
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.True(t, IsClientError(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectQuery("SELECT `nope` FROM `users`").
			WillReturnError(errors.New("Unknown column 'nope' in 'field list'"))

		_, err := svc.Query(context.Background(), "users", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown column 'nope'")
		assert.False(t, IsClientError(err))
	})
}

func TestService_Update(t *testing.T) {
	t.Run("commits", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `users` SET `name` = ? WHERE `name` = ?").
			WithArgs("Alicia", "Alice").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := svc.Update(context.Background(), "users", "name", "Alice", "Alicia")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `users` SET `nme` = ? WHERE `nme` = ?").
			WithArgs("Alicia", "Alice").
			WillReturnError(errors.New("Unknown column 'nme' in 'where clause'"))
		mock.ExpectRollback()

		_, err := svc.Update(context.Background(), "users", "nme", "Alice", "Alicia")
		require.Error(t, err)
		assert.Equal(t, "Unknown column 'nme' in 'where clause'", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `users` SET `name` = ? WHERE `name` = ?").
			WithArgs("Alicia", "Alice").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("deadlock"))

		_, err := svc.Update(context.Background(), "users", "name", "Alice", "Alicia")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deadlock")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("dollar placeholders", func(t *testing.T) {
		svc, mock := newMockService(t, pgdialect.Postgres)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET "name" = $1 WHERE "name" = $2`).
			WithArgs("Alicia", "Alice").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		n, err := svc.Update(context.Background(), "users", "name", "Alice", "Alicia")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("commits", func(t *testing.T) {
		svc, mock := newMockService(t, pgdialect.Postgres)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "users" WHERE "id" = $1`).
			WithArgs("2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := svc.Delete(context.Background(), "users", "id", "2")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `orders` WHERE `user_id` = ?").
			WithArgs(int64(1)).
			WillReturnError(errors.New("foreign key constraint fails"))
		mock.ExpectRollback()

		_, err := svc.Delete(context.Background(), "orders", "user_id", int64(1))
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		svc, mock := newMockService(t, mysqldialect.MySQL)
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		_, err := svc.Delete(context.Background(), "users", "id", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestService_NotConnected(t *testing.T) {
	svc := New(&stubAdapter{d: mysqldialect.MySQL}, nil)
	ctx := context.Background()

	_, err := svc.ListTables(ctx)
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	_, err = svc.TableRows(ctx, "users")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	_, err = svc.Update(ctx, "users", "name", "a", "b")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}

// A configured schema must reach every statement, not only the catalog, so
// the table the client was shown is the one it reads and edits.
func TestService_SchemaScopesDataStatements(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pg := postgres.New(nil)
	pg.DB = db
	pg.Cfg.Schema = "app"
	svc := New(pg, nil)
	ctx := context.Background()

	catalog, args := pg.ListColumnsSQL("users")
	mock.ExpectQuery(catalog).WithArgs(args...).
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("name"))
	mock.ExpectQuery(`SELECT DISTINCT "name" FROM "app"."users"`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))
	mock.ExpectQuery(`SELECT * FROM "app"."users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Alice"))
	mock.ExpectQuery(`SELECT "id" FROM "app"."users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "app"."users" SET "name" = $1 WHERE "name" = $2`).
		WithArgs("Alicia", "Alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "app"."users" WHERE "name" = $1`).
		WithArgs("Alicia").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cols, err := svc.ListColumns(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []any{"app", "users"}, args)

	_, err = svc.DistinctValues(ctx, "users", cols[1])
	require.NoError(t, err)
	_, err = svc.TableRows(ctx, "users")
	require.NoError(t, err)
	_, err = svc.Query(ctx, "users", "id")
	require.NoError(t, err)
	_, err = svc.Update(ctx, "users", "name", "Alice", "Alicia")
	require.NoError(t, err)
	_, err = svc.Delete(ctx, "users", "name", "Alicia")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
