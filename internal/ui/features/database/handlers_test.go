package database

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rowdesk/internal/testutil"
	"github.com/leapstack-labs/rowdesk/internal/ui/features"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Service, testutil.NewTestLogger(t)))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

// =============================================================================
// Read endpoints
// =============================================================================

func TestReadEndpoints(t *testing.T) {
	h := setupTestRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "tables",
			path:       "/tables",
			wantStatus: http.StatusOK,
			wantBody:   `[{"name":"goose_db_version"},{"name":"order_totals"},{"name":"orders"},{"name":"users"}]`,
		},
		{
			name:       "columns",
			path:       "/columns/users",
			wantStatus: http.StatusOK,
			wantBody:   `["id","name","role","email"]`,
		},
		{
			name:       "distinct values",
			path:       "/values/orders/user_id",
			wantStatus: http.StatusOK,
			wantBody:   `[1,2]`,
		},
		{
			name:       "table rows keep column order",
			path:       "/table/orders",
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":10,"user_id":1,"amount":12.5},{"id":11,"user_id":1,"amount":7.5},{"id":12,"user_id":2,"amount":30}]`,
		},
		{
			name:       "view rows",
			path:       "/table/order_totals",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown table columns",
			path:       "/columns/nope",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown table rows",
			path:       "/table/nope",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			}
			if tt.wantStatus == http.StatusBadRequest {
				assert.NotEmpty(t, errorMessage(t, rec))
			}
		})
	}
}

func TestEmptyTableAnswersEmptyArrays(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	_, err := fixture.Adapter.Pool().Exec("CREATE TABLE empty_things (id INTEGER, label TEXT)")
	require.NoError(t, err)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Service, testutil.NewTestLogger(t)))

	for _, path := range []string{"/values/empty_things/label", "/table/empty_things"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, r, http.MethodGet, path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestPathSegmentsDecodedOnce(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	for _, stmt := range []string{
		"CREATE TABLE `a%41` (pct INTEGER)",
		"CREATE TABLE `aA` (plain INTEGER)",
		"CREATE TABLE `a/b` (slash INTEGER)",
		"CREATE TABLE `order items` (spaced INTEGER)",
	} {
		_, err := fixture.Adapter.Pool().Exec(stmt)
		require.NoError(t, err, stmt)
	}
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Service, testutil.NewTestLogger(t)))

	tests := []struct {
		path     string
		wantBody string
	}{
		{"/columns/a%2541", `["pct"]`},
		{"/columns/aA", `["plain"]`},
		{"/columns/a%2Fb", `["slash"]`},
		{"/columns/order%20items", `["spaced"]`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, r, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}

// =============================================================================
// Query endpoint
// =============================================================================

func TestQuery(t *testing.T) {
	h := setupTestRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
		wantError  string
	}{
		{
			name:       "projection",
			body:       `{"table":"users","query":"id, name"}`,
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"},{"id":3,"name":"Carol"}]`,
		},
		{
			name:       "aggregate",
			body:       `{"table":"users","query":"COUNT(id)"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "injection attempt",
			body:       `{"table":"users","query":"id; DROP TABLE users"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid characters in query",
		},
		{
			name:       "empty projection",
			body:       `{"table":"users","query":""}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "query is empty",
		},
		{
			name:       "unknown column",
			body:       `{"table":"users","query":"nope"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "nope",
		},
		{
			name:       "malformed body",
			body:       `{"table":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/query", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			}
			if tt.wantError != "" {
				assert.Contains(t, errorMessage(t, rec), tt.wantError)
			}
		})
	}

	// The rejected statement must not have touched the table.
	rec := do(t, h, http.MethodGet, "/columns/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// Edit endpoints
// =============================================================================

func TestUpdate(t *testing.T) {
	h := setupTestRouter(t)

	rec := do(t, h, http.MethodPost, "/update/users/name", `{"value":"Alice","newValue":"Alicia"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Data updated successfully!"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/values/users/name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var names []any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Contains(t, names, "Alicia")
	assert.NotContains(t, names, "Alice")
}

func TestUpdate_NumericValue(t *testing.T) {
	h := setupTestRouter(t)

	rec := do(t, h, http.MethodPost, "/update/orders/user_id", `{"value":2,"newValue":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/values/orders/user_id", "")
	assert.Equal(t, `[1]`, strings.TrimSpace(rec.Body.String()))
}

func TestUpdate_Errors(t *testing.T) {
	h := setupTestRouter(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "unknown column", path: "/update/users/nme", body: `{"value":"Alice","newValue":"Alicia"}`},
		{name: "unknown table", path: "/update/nope/name", body: `{"value":"Alice","newValue":"Alicia"}`},
		{name: "object value", path: "/update/users/name", body: `{"value":{"a":1},"newValue":"Alicia"}`},
		{name: "array new value", path: "/update/users/name", body: `{"value":"Alice","newValue":[1]}`},
		{name: "empty body", path: "/update/users/name", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}

	// Nothing changed.
	rec := do(t, h, http.MethodGet, "/values/users/name", "")
	assert.Contains(t, rec.Body.String(), `"Alice"`)
}

func TestDelete(t *testing.T) {
	h := setupTestRouter(t)

	rec := do(t, h, http.MethodPost, "/delete/users/id", `{"value":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Data deleted successfully!"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/query", `{"table":"users","query":"id"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"id":1},{"id":3}]`, strings.TrimSpace(rec.Body.String()))

	rec = do(t, h, http.MethodPost, "/delete/users/missing", `{"value":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBindValue(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    any
		wantErr bool
	}{
		{name: "nil", in: nil, want: nil},
		{name: "string", in: "x", want: "x"},
		{name: "bool", in: true, want: true},
		{name: "number keeps text", in: json.Number("9007199254740993"), want: "9007199254740993"},
		{name: "object", in: map[string]any{}, wantErr: true},
		{name: "array", in: []any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bindValue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
