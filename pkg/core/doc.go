// Package core defines the shared language of rowdesk.
//
// This package contains:
//   - Connection configuration (AdapterConfig, TargetConfig, PoolParams)
//   - Dialect data (DialectConfig, IdentifierConfig, PlaceholderStyle)
//   - Result shapes (Row, TableInfo)
//
// pkg/core imports only the standard library. All other packages depend on
// core, not the reverse.
package core
