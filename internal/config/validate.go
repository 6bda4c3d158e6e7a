package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/rowdesk/pkg/adapter"
	"github.com/leapstack-labs/rowdesk/pkg/core"
)

// ExampleEnvFile is shown when required connection settings are missing.
const ExampleEnvFile = `DB_TYPE=mysql
DB_HOST=localhost
DB_PORT=3306
DB_USER=root
DB_PASSWORD=secret
DB_NAME=mydb`

// MissingConfigError reports required connection settings that are not set.
type MissingConfigError struct {
	Type    string
	Missing []string // environment variable names, e.g. DB_HOST
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing required environment variables for %s target: %s\n"+
		"Hint: set them in the environment or in a .env file in the working directory, e.g.\n\n%s",
		e.Type, strings.Join(e.Missing, ", "), ExampleEnvFile)
}

// ValidateTarget checks that a target names a registered adapter and carries
// everything that adapter needs to connect. Call ApplyTargetDefaults first.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return errors.New("no database target configured")
	}
	if t.Type == "" {
		return errors.New("target type is required")
	}

	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	if t.IsNetwork() {
		var missing []string
		for _, f := range []struct {
			env   string
			value string
		}{
			{"DB_HOST", t.Host},
			{"DB_USER", t.User},
			{"DB_NAME", t.Database},
			{"DB_PASSWORD", t.Password},
		} {
			if f.value == "" {
				missing = append(missing, f.env)
			}
		}
		if len(missing) > 0 {
			return &MissingConfigError{Type: t.Type, Missing: missing}
		}
		return nil
	}

	if t.Database == "" {
		return fmt.Errorf("target.database (DB_NAME) is required for %s targets; use %s for an in-memory database",
			t.Type, MemoryDatabase)
	}
	return nil
}
