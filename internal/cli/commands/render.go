package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/rowdesk/pkg/core"
	"golang.org/x/term"
)

// Output modes.
const (
	ModeAuto     = "auto"
	ModeText     = "text"
	ModeJSON     = "json"
	ModeMarkdown = "markdown"
	ModeCSV      = "csv"
)

// Renderer writes command results in the configured output format.
type Renderer struct {
	w    io.Writer
	mode string
}

// NewRenderer creates a renderer. ModeAuto resolves to text on a terminal
// and markdown otherwise.
func NewRenderer(w io.Writer, mode string) *Renderer {
	if mode == "" || mode == ModeAuto {
		mode = ModeMarkdown
		if isTerminal(w) {
			mode = ModeText
		}
	}
	return &Renderer{w: w, mode: mode}
}

// Mode returns the resolved output mode.
func (r *Renderer) Mode() string {
	return r.mode
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Rows renders a result set.
func (r *Renderer) Rows(rows []core.Row) error {
	if r.mode == ModeJSON {
		if rows == nil {
			rows = []core.Row{}
		}
		return r.json(rows)
	}
	if len(rows) == 0 {
		return r.empty()
	}

	t := table.NewWriter()
	header := make(table.Row, len(rows[0].Columns))
	for i, col := range rows[0].Columns {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, row := range rows {
		out := make(table.Row, len(row.Values))
		for i, v := range row.Values {
			out[i] = formatValue(v)
		}
		t.AppendRow(out)
	}
	return r.table(t, len(rows))
}

// List renders a single-column listing under title.
func (r *Renderer) List(title string, values []any) error {
	if r.mode == ModeJSON {
		if values == nil {
			values = []any{}
		}
		return r.json(values)
	}
	if len(values) == 0 {
		return r.empty()
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{title})
	for _, v := range values {
		t.AppendRow(table.Row{formatValue(v)})
	}
	return r.table(t, len(values))
}

// Strings renders a listing of names.
func (r *Renderer) Strings(title string, values []string) error {
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = v
	}
	return r.List(title, items)
}

func (r *Renderer) table(t table.Writer, n int) error {
	var out string
	switch r.mode {
	case ModeCSV:
		out = t.RenderCSV()
	case ModeMarkdown:
		out = t.RenderMarkdown()
	default:
		t.SetStyle(table.StyleLight)
		out = t.Render()
	}
	if _, err := fmt.Fprintln(r.w, out); err != nil {
		return err
	}
	if r.mode == ModeText {
		_, _ = fmt.Fprintf(r.w, "(%d rows)\n", n)
	}
	return nil
}

func (r *Renderer) empty() error {
	if r.mode == ModeCSV {
		return nil
	}
	_, err := fmt.Fprintln(r.w, "(0 rows)")
	return err
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
