// Package browser implements rowdesk's table browsing and editing operations.
//
// Every operation is a single statement against the adapter's connection
// pool. Table and column names are interpolated with the dialect's
// identifier quoting; values always travel as bind parameters. Names are not
// checked against the live schema: an unknown table or column surfaces as the
// database's own error.
package browser
