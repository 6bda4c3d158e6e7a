// Package config holds the database target rules shared by the CLI and the
// server: per-type defaults and validation.
package config

import (
	"strings"

	"github.com/leapstack-labs/rowdesk/pkg/core"
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

// DefaultTargetType is used when neither DB_TYPE nor target.type is set.
const DefaultTargetType = "mysql"

// MemoryDatabase selects an in-memory database for file-based targets.
const MemoryDatabase = ":memory:"

var defaultPorts = map[string]int{
	"mysql":    3306,
	"postgres": 5432,
}

// DefaultSchemaForType returns the default schema for a database type, or
// "" when the dialect has none (MySQL uses the connection's database).
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok {
		return d.DefaultSchema
	}
	return ""
}

// DefaultPortForType returns the default port for a network database type.
func DefaultPortForType(dbType string) int {
	return defaultPorts[dbType]
}

// ApplyTargetDefaults normalizes the type and fills in schema and port.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}

	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	if t.Type == "" {
		t.Type = DefaultTargetType
	}

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	if t.IsNetwork() && t.Port == 0 {
		t.Port = DefaultPortForType(t.Type)
	}
}
