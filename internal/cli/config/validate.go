package config

import (
	"fmt"
	"slices"
	"strings"

	intconfig "github.com/leapstack-labs/rowdesk/internal/config"
)

// Validate checks the non-target settings.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d\nHint: use a value between 1 and 65535 (ROWDESK_PORT or --port)", c.Port)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of: %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q (expected one of: %s)", c.LogFormat, strings.Join(LogFormats, ", "))
	}
	return nil
}

// ValidateTarget checks that the selected target can be connected to.
func (c *Config) ValidateTarget() error {
	if err := intconfig.ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}
