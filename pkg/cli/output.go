// Package cli holds the output helpers shared by the graphbuilder commands:
// result rendering as YAML, JSON or a table, and styled status lines.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
)

// Format is an output format name.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat validates a --output flag value. Empty means YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatYAML, nil
	case FormatYAML, FormatJSON, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format %q (want yaml, json or table)", s)
}

// Tabular is implemented by results that can render as a table.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Output writes result to w in format f. The table format needs a Tabular
// result; other results fall back to YAML.
func Output(w io.Writer, result any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatTable:
		if t, ok := result.(Tabular); ok {
			_, err := fmt.Fprintln(w, RenderTable(DefaultStyles, t.Header(), t.Rows()))
			return err
		}
		fallthrough
	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unsupported output format: %s", f)
}

// RenderTable draws header and rows with a rounded border.
func RenderTable(st Styles, header []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return st.Cell
		}).
		Headers(header...).
		Rows(rows...).
		String()
}
