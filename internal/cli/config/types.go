// Package config provides configuration management for the rowdesk CLI.
//
// Settings are layered with koanf: defaults, then rowdesk.yaml, then a .env
// file in the working directory, then the process environment, then flags
// that were explicitly set.
package config

import (
	"github.com/leapstack-labs/rowdesk/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/core.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	Port         int                  `koanf:"port"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	LogFormat    string               `koanf:"log_format"`
	StaticDir    string               `koanf:"static_dir"`
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`
}

// EnvConfig holds per-environment target overrides, selected with --target.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultPort      = 3000
	DefaultOutput    = "auto" // TTY=text, otherwise markdown
	DefaultLogFormat = "text"
	ConfigFileName   = "rowdesk.yaml"
	ConfigFileAlt    = "rowdesk.yml"
	DotEnvFileName   = ".env"
)

// Output formats accepted by --output.
var OutputFormats = []string{"auto", "text", "json", "markdown", "csv"}

// LogFormats accepted by --log-format.
var LogFormats = []string{"text", "json"}
