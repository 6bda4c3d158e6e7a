// Package features provides shared test utilities for UI feature tests.
package features

import (
	"testing"

	"github.com/leapstack-labs/rowdesk/internal/browser"
	"github.com/leapstack-labs/rowdesk/internal/testutil"
	"github.com/leapstack-labs/rowdesk/pkg/adapters/sqlite"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Adapter *sqlite.Adapter
	Service *browser.Service
}

// SetupTestFixture connects a migrated SQLite fixture database (users,
// orders, order_totals) and wraps it in a browser service.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	adp := testutil.NewSQLiteAdapter(t)
	return &TestFixture{
		Adapter: adp,
		Service: browser.New(adp, testutil.NewTestLogger(t)),
	}
}
