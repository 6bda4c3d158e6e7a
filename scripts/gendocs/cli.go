package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/rowdesk/internal/cli"
	"github.com/leapstack-labs/rowdesk/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envDocs describes every variable the config loader reads. A variable with
// no entry fails generation.
var envDocs = map[string]string{
	"DB_TYPE":            "Adapter: mysql (default), postgres, duckdb or sqlite",
	"DB_HOST":            "Database host",
	"DB_PORT":            "Database port",
	"DB_USER":            "Database user",
	"DB_PASSWORD":        "Database password",
	"DB_NAME":            "Database name, or file path for duckdb and sqlite",
	"DB_SCHEMA":          "Schema for unqualified table names",
	"ROWDESK_PORT":       "HTTP port for serve (default 3000)",
	"ROWDESK_VERBOSE":    "Debug logging",
	"ROWDESK_OUTPUT":     "Default output format",
	"ROWDESK_LOG_FORMAT": "Log format: text or json",
	"ROWDESK_STATIC_DIR": "Serve client assets from this directory",
}

// generateCLIDocs writes an index page plus one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()
	index, err := cliIndex(rootCmd)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "index.md"), index, 0600); err != nil {
		return err
	}

	for _, cmd := range documentedCommands(rootCmd) {
		page := commandPage(cmd)
		if err := os.WriteFile(filepath.Join(outDir, cmd.Name()+".md"), page, 0600); err != nil {
			return fmt.Errorf("failed to write page for %s: %w", cmd.Name(), err)
		}
	}
	log.Printf("  Generated index.md and %d command pages", len(documentedCommands(rootCmd)))
	return nil
}

func documentedCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func cliIndex(root *cobra.Command) ([]byte, error) {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for rowdesk")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/rowdesk/cmd/rowdesk@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documentedCommands(root) {
		link := fmt.Sprintf("[%s](%s.md)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Read from the process environment and from a .env file in the working directory. " +
		"Flags win over the environment, which wins over .env and rowdesk.yaml.")
	var envRows [][]string
	for _, name := range config.EnvVars() {
		desc, ok := envDocs[name]
		if !ok {
			return nil, fmt.Errorf("environment variable %s is not documented", name)
		}
		envRows = append(envRows, []string{InlineCode(name), InlineCode(config.EnvKey(name)), desc})
	}
	w.Table([]string{"Variable", "Config key", "Description"}, envRows)

	return w.Bytes(), nil
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", unindentExample(cmd.Example))
	}
	return w.Bytes()
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		def := f.DefValue
		if f.Value.Type() == "string" && def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(name), def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Default", "Description"}, rows)
}

// unindentExample strips the two-space indent cobra examples are written with.
func unindentExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.Join(lines, "\n")
}
