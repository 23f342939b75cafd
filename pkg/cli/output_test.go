package cli_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/cli"
)

type rooms []struct{ ID, Name string }

func (r rooms) Header() []string { return []string{"ID", "NAME"} }

func (r rooms) Rows() [][]string {
	var out [][]string
	for _, x := range r {
		out = append(out, []string{x.ID, x.Name})
	}
	return out
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := cli.Output(&buf, map[string]any{"id": "A101", "floor": 1}, cli.FormatJSON); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if got["id"] != "A101" {
		t.Errorf("id = %v, want A101", got["id"])
	}
}

func TestOutput_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := cli.Output(&buf, map[string]any{"id": "A101"}, cli.FormatYAML); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "id: A101") {
		t.Errorf("output should contain 'id: A101', got: %s", buf.String())
	}
}

func TestOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	data := rooms{{"A101", "Hall"}, {"B2", "Lab"}}
	if err := cli.Output(&buf, data, cli.FormatTable); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "NAME", "A101", "Lab"} {
		if !strings.Contains(out, want) {
			t.Errorf("table should contain %q, got:\n%s", want, out)
		}
	}

	// non-tabular results fall back to YAML
	buf.Reset()
	if err := cli.Output(&buf, map[string]int{"n": 1}, cli.FormatTable); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "n: 1") {
		t.Errorf("fallback output = %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := cli.ParseFormat(""); err != nil || f != cli.FormatYAML {
		t.Fatalf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := cli.ParseFormat("xml"); err == nil {
		t.Fatal("ParseFormat(xml) should fail")
	}
}

func TestPrintSuccess(t *testing.T) {
	var buf bytes.Buffer
	cli.PrintSuccess(&buf, "exported %d nodes", 3)
	if !strings.Contains(buf.String(), "exported 3 nodes") {
		t.Fatalf("PrintSuccess = %q", buf.String())
	}
}
