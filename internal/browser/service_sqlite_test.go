package browser

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/rowdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureService(t *testing.T) *Service {
	t.Helper()
	return New(testutil.NewSQLiteAdapter(t), testutil.NewTestLogger(t))
}

func TestSQLite_Catalog(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	tables, err := svc.ListTables(ctx)
	require.NoError(t, err)
	names := make([]string, len(tables))
	for i, tbl := range tables {
		names[i] = tbl.Name
	}
	assert.Equal(t, []string{"goose_db_version", "order_totals", "orders", "users"}, names)

	cols, err := svc.ListColumns(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "role", "email"}, cols)

	_, err = svc.ListColumns(ctx, "missing")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

// requireEveryTableBrowsable walks every listed table through the column and
// value endpoints' service calls.
func requireEveryTableBrowsable(t *testing.T, svc *Service) []string {
	t.Helper()
	ctx := context.Background()

	tables, err := svc.ListTables(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, tables)

	names := make([]string, len(tables))
	for i, tbl := range tables {
		names[i] = tbl.Name
		cols, err := svc.ListColumns(ctx, tbl.Name)
		require.NoError(t, err, tbl.Name)
		require.NotEmpty(t, cols, tbl.Name)

		_, err = svc.DistinctValues(ctx, tbl.Name, cols[0])
		require.NoError(t, err, tbl.Name)
		_, err = svc.TableRows(ctx, tbl.Name)
		require.NoError(t, err, tbl.Name)
	}
	return names
}

func TestSQLite_EveryTableBrowsable(t *testing.T) {
	requireEveryTableBrowsable(t, newFixtureService(t))
}

func TestSQLite_TableRows(t *testing.T) {
	svc := newFixtureService(t)

	rows, err := svc.TableRows(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	data, err := json.Marshal(rows[0])
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"Alice","role":"admin","email":"alice@example.com"}`, string(data))

	email, ok := rows[2].Get("email")
	assert.True(t, ok)
	assert.Nil(t, email)
}

func TestSQLite_DistinctValues(t *testing.T) {
	svc := newFixtureService(t)

	values, err := svc.DistinctValues(context.Background(), "users", "role")
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"admin", "member"}, values)
}

func TestSQLite_Query(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	rows, err := svc.Query(ctx, "users", "id, name")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, []string{"id", "name"}, r.Columns)
	}

	rows, err = svc.Query(ctx, "orders", "SUM(amount)")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 50.0, rows[0].Values[0])

	_, err = svc.Query(ctx, "users", "id; DROP TABLE users")
	assert.ErrorIs(t, err, ErrInvalidQuery)

	// The table survives the rejected projection.
	rows, err = svc.TableRows(ctx, "users")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSQLite_UpdateRoundTrip(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	n, err := svc.Update(ctx, "users", "name", "Alice", "Alicia")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	names, err := svc.DistinctValues(ctx, "users", "name")
	require.NoError(t, err)
	assert.Contains(t, names, "Alicia")
	assert.NotContains(t, names, "Alice")

	n, err = svc.Update(ctx, "users", "role", "member", "guest")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = svc.Update(ctx, "users", "name", "Nobody", "Somebody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSQLite_UpdateFailureLeavesDataUnchanged(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "users", "nme", "Alice", "Alicia")
	require.Error(t, err)
	assert.False(t, IsClientError(err))

	names, err := svc.DistinctValues(ctx, "users", "name")
	require.NoError(t, err)
	assert.Contains(t, names, "Alice")
}

func TestSQLite_DeleteRoundTrip(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	// Values arrive from JSON as strings; column affinity converts them.
	n, err := svc.Delete(ctx, "users", "id", "3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Delete(ctx, "users", "role", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := svc.TableRows(ctx, "users")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	name, _ := rows[0].Get("name")
	assert.Equal(t, "Bob", name)

	values, err := svc.DistinctValues(ctx, "users", "role")
	require.NoError(t, err)
	assert.NotContains(t, values, "admin")
}

func TestSQLite_UnknownColumnIsAnError(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	_, err := svc.Delete(ctx, "users", "missing", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = svc.Query(ctx, "users", "missing")
	require.Error(t, err)
}
