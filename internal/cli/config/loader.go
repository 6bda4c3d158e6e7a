package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/rowdesk/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	dotEnvUsed     string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// envKeys maps environment variable names (process env and .env) to
// config keys. Anything not listed is ignored.
var envKeys = map[string]string{
	"DB_TYPE":     "target.type",
	"DB_HOST":     "target.host",
	"DB_PORT":     "target.port",
	"DB_USER":     "target.user",
	"DB_NAME":     "target.database",
	"DB_PASSWORD": "target.password",
	"DB_SCHEMA":   "target.schema",

	"ROWDESK_PORT":       "port",
	"ROWDESK_VERBOSE":    "verbose",
	"ROWDESK_OUTPUT":     "output",
	"ROWDESK_LOG_FORMAT": "log_format",
	"ROWDESK_STATIC_DIR": "static_dir",
}

// flagKeys maps persistent flag names to config keys where they differ from
// the kebab-to-snake default.
var flagKeys = map[string]string{
	"db-type":     "target.type",
	"db-host":     "target.host",
	"db-port":     "target.port",
	"db-user":     "target.user",
	"db-name":     "target.database",
	"db-password": "target.password",
	"db-schema":   "target.schema",
}

// Flags that select how to load rather than what to load.
var skipFlags = map[string]bool{
	"config": true,
	"target": true,
}

// EnvVars returns every environment variable the loader reads, sorted.
func EnvVars() []string {
	return slices.Sorted(maps.Keys(envKeys))
}

// EnvKey returns the config key for an environment variable, or "".
func EnvKey(name string) string {
	return envKeys[name]
}

// mapEnv maps one variable for the env provider. Empty values count as unset.
func mapEnv(name, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return EnvKey(name), value
}

// findConfigFile finds the config file to use.
// Priority: explicit path > rowdesk.yaml > rowdesk.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	dotEnvUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, .env, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > .env > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithTarget(cfgFile, "", flags)
}

// LoadConfigWithTarget loads configuration with an optional environment
// override. targetOverride names an entry under environments whose target is
// merged over the file's base target; .env, env vars and flags still win.
func LoadConfigWithTarget(cfgFile string, targetOverride string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"port":       DefaultPort,
		"verbose":    false,
		"output":     DefaultOutput,
		"log_format": DefaultLogFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 2b. Named environment from the config file, merged over the base target
	if targetOverride != "" {
		envPath := "environments." + targetOverride
		if !k.Exists(envPath) {
			return nil, fmt.Errorf("unknown target %q\nHint: define it under environments in %s", targetOverride, ConfigFileName)
		}
		if err := k.MergeAt(k.Cut(envPath+".target"), "target"); err != nil {
			return nil, fmt.Errorf("failed to apply target %q: %w", targetOverride, err)
		}
	}

	// 3. .env in the working directory
	if err := loadDotEnv(DotEnvFileName); err != nil {
		return nil, err
	}

	// 4. Process environment
	if err := k.Load(env.ProviderWithValue("", ".", mapEnv), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || skipFlags[f.Name] {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 6. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{}
	}
	expandTargetEnvVars(cfg.Target)
	intconfig.ApplyTargetDefaults(cfg.Target)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// loadDotEnv merges a dotenv file, if present, using the same variable
// mapping as the process environment.
func loadDotEnv(path string) error {
	dotEnvUsed = ""
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	raw := koanf.New(".")
	if err := raw.Load(file.Provider(path), dotenv.Parser()); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	mapped := make(map[string]interface{})
	for name, value := range raw.All() {
		if key, v := mapEnv(name, fmt.Sprint(value)); key != "" {
			mapped[key] = v
		}
	}
	if err := k.Load(confmap.Provider(mapped, "."), nil); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	dotEnvUsed = path
	return nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetDotEnvUsed returns the .env file that was loaded, if any.
func GetDotEnvUsed() string {
	return dotEnvUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig or LoadConfigWithTarget is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandTargetEnvVars expands environment variables in target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	t.Schema = expandEnvVars(t.Schema)
}
