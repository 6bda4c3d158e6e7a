// Package mysql provides a MySQL database adapter for rowdesk.
//
// This file registers the MySQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/rowdesk/pkg/adapters/mysql"
package mysql

import (
	"log/slog"

	"github.com/leapstack-labs/rowdesk/pkg/adapter"
)

func init() {
	adapter.Register("mysql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
