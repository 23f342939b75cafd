package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/codec"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/storage"
)

// Export writes the graph to name in fs as one .grser blob and returns the
// path written. The extension is appended when missing. The graph is encoded
// in full before anything is written.
func (s *Session) Export(ctx context.Context, fs storage.FileStore, name string) (string, error) {
	path := codec.WithExtension(name)

	var buf bytes.Buffer
	s.mu.Lock()
	nodes, edges := s.g.Len(), s.g.EdgeCount()
	err := codec.Encode(&buf, s.g)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	w, err := fs.Write(ctx, path)
	if err != nil {
		return "", fmt.Errorf("editor: export %s: %w", path, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		w.Close()
		return "", fmt.Errorf("editor: export %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("editor: export %s: %w", path, err)
	}
	s.logger.Info("graph exported", "path", path, "nodes", nodes, "edges", edges, "bytes", buf.Len())
	return path, nil
}

// ImportResult describes a merged blob.
type ImportResult struct {
	Path  string `json:"path" yaml:"path"`
	Nodes int    `json:"nodes" yaml:"nodes"`
	Edges int    `json:"edges" yaml:"edges"`
}

// Import reads the blob name from fs and merges it into the graph. Nodes of
// the blob replace nodes with the same id. If the blob cannot be read or
// decoded the graph is not touched.
func (s *Session) Import(ctx context.Context, fs storage.FileStore, name string) (ImportResult, error) {
	path := codec.WithExtension(name)
	r, err := fs.Read(ctx, path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("editor: import %s: %w", path, err)
	}
	defer r.Close()

	imported, err := codec.Decode(r, s.reg)
	if err != nil {
		return ImportResult{}, fmt.Errorf("editor: import %s: %w", path, err)
	}
	res := ImportResult{Path: path, Nodes: imported.Len(), Edges: imported.EdgeCount()}

	s.mu.Lock()
	s.g.AddAll(imported)
	s.mu.Unlock()
	s.logger.Info("graph imported", "path", path, "nodes", res.Nodes, "edges", res.Edges)
	return res, nil
}

// NodeSnapshot is the JSON view of one node.
type NodeSnapshot struct {
	ID          string         `json:"id" yaml:"id"`
	Type        string         `json:"type" yaml:"type"`
	Placeholder bool           `json:"placeholder" yaml:"placeholder"`
	Attrs       map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Snapshot is the JSON view of the whole graph.
type Snapshot struct {
	Nodes []NodeSnapshot     `json:"nodes" yaml:"nodes"`
	Edges []codec.EdgeRecord `json:"edges" yaml:"edges"`
}

// Snapshot returns a copy of the graph as plain data.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Nodes: []NodeSnapshot{}, Edges: []codec.EdgeRecord{}}
	for _, n := range s.g.Values() {
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:          n.ID(),
			Type:        n.TypeName(),
			Placeholder: graph.IsPlaceholder(n),
			Attrs:       attr.Typed(n),
		})
	}
	for _, e := range s.g.Edges() {
		snap.Edges = append(snap.Edges, codec.EdgeRecordOf(e))
	}
	return snap
}

// Query runs the jq expression expr over the snapshot and returns every
// result.
func (s *Session) Query(ctx context.Context, expr string) ([]any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	// gojq only accepts plain JSON values.
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}

	var out []any
	iter := q.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("jq error: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}
