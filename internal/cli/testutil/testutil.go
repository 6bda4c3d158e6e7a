// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/rowdesk/internal/cli/config"
	dbtestutil "github.com/leapstack-labs/rowdesk/internal/testutil"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// connectionEnv lists the variables the config loader reads.
var connectionEnv = []string{
	"DB_TYPE", "DB_HOST", "DB_PORT", "DB_USER", "DB_NAME", "DB_PASSWORD", "DB_SCHEMA",
	"ROWDESK_PORT", "ROWDESK_VERBOSE", "ROWDESK_OUTPUT", "ROWDESK_LOG_FORMAT", "ROWDESK_STATIC_DIR",
}

// ClearEnv blanks every variable the config loader reads for the duration
// of the test. Blank values are treated as unset.
func ClearEnv(t *testing.T) {
	t.Helper()
	for _, name := range connectionEnv {
		t.Setenv(name, "")
	}
}

// SetupTestProject creates a temporary working directory whose rowdesk.yaml
// targets a migrated SQLite fixture, and changes into it. Returns the
// directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	ClearEnv(t)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	dbPath := dbtestutil.NewSQLiteFile(t)
	tmpDir := t.TempDir()

	WriteConfig(t, tmpDir, map[string]any{
		"target": map[string]any{
			"type":     "sqlite",
			"database": dbPath,
		},
	})

	t.Chdir(tmpDir)
	return tmpDir
}

// WriteConfig marshals settings into dir/rowdesk.yaml.
func WriteConfig(t *testing.T, dir string, settings map[string]any) {
	t.Helper()

	data, err := yaml.Marshal(settings)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), data, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

// Execute runs cmd with args and returns what it wrote to stdout.
func Execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdownTable checks that every non-empty line is a pipe table
// row and that the second line is the header separator.
func AssertValidMarkdownTable(t *testing.T, md string) {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) < 2 {
		t.Fatalf("markdown table needs a header and separator, got %q", md)
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
			t.Errorf("line %d is not a table row: %q", i+1, line)
		}
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("second line is not a separator: %q", lines[1])
	}
}
