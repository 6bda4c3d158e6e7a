package core

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // mysql, postgres, duckdb, sqlite

	// File-based databases (DuckDB, SQLite) use Database as the file path.
	Database string `koanf:"database"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Schema string `koanf:"schema"`

	// Additional driver-specific options (e.g. sslmode, tls)
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific settings such as pool sizing.
	Params map[string]any `koanf:"params"`
}

// IsNetwork reports whether the target connects over the network.
func (t *TargetConfig) IsNetwork() bool {
	switch t.Type {
	case "mysql", "postgres":
		return true
	default:
		return false
	}
}

// AdapterConfig converts the target into the adapter connection config.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:     t.Type,
		Path:     t.Database,
		Database: t.Database,
		Schema:   t.Schema,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
		Params:   t.Params,
	}
}
