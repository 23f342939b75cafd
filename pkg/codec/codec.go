// Package codec reads and writes whole graphs as .grser blobs.
//
// A blob is one msgpack document:
//
//	{format: "grser", version: 1,
//	 nodes: [{type, id, attrs}], edges: [{a, b, weight}]}
//
// Attributes are stored in their text form and restored through the node's
// attribute table, so a blob only depends on field names, never on Go types.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
)

// Extension is the file extension of graph blobs.
const Extension = ".grser"

const (
	formatName    = "grser"
	formatVersion = 1
)

var (
	// ErrFormat is returned for data that is not a readable graph blob.
	ErrFormat = errors.New("codec: not a graph file")

	// ErrUnknownType is returned for a node type with no registered factory.
	ErrUnknownType = errors.New("codec: unknown node type")
)

// NodeRecord is the persisted form of one node.
type NodeRecord struct {
	Type  string             `msgpack:"type" json:"type"`
	ID    string             `msgpack:"id" json:"id"`
	Attrs map[string]*string `msgpack:"attrs,omitempty" json:"attrs,omitempty"`
}

// EdgeRecord is the persisted form of one edge.
type EdgeRecord struct {
	A      string `msgpack:"a" json:"a" yaml:"a"`
	B      string `msgpack:"b" json:"b" yaml:"b"`
	Weight int    `msgpack:"weight" json:"weight" yaml:"weight"`
}

type document struct {
	Format  string       `msgpack:"format"`
	Version int          `msgpack:"version"`
	Nodes   []NodeRecord `msgpack:"nodes"`
	Edges   []EdgeRecord `msgpack:"edges"`
}

// RecordOf returns the persisted form of n.
func RecordOf(n graph.Node) NodeRecord {
	return NodeRecord{
		Type:  n.TypeName(),
		ID:    n.ID(),
		Attrs: attr.Values(n),
	}
}

// EdgeRecordOf returns the persisted form of e.
func EdgeRecordOf(e *graph.Edge) EdgeRecord {
	k := e.Key()
	return EdgeRecord{A: k.A, B: k.B, Weight: e.Weight()}
}

// Encode writes g to w as one blob.
func Encode(w io.Writer, g *graph.Graph) error {
	doc := document{
		Format:  formatName,
		Version: formatVersion,
	}
	for _, n := range g.Values() {
		doc.Nodes = append(doc.Nodes, RecordOf(n))
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeRecordOf(e))
	}
	if err := msgpack.NewEncoder(w).Encode(&doc); err != nil {
		return fmt.Errorf("codec: encode: %w", err)
	}
	return nil
}

// Decode reads one blob from r and builds a new graph from it, using reg to
// create nodes. Nothing outside the returned graph is touched, so a failed
// decode leaves callers' graphs as they were.
func Decode(r io.Reader, reg *Registry) (*graph.Graph, error) {
	var doc document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if doc.Format != formatName {
		return nil, fmt.Errorf("%w: format %q", ErrFormat, doc.Format)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, doc.Version)
	}
	return Build(reg, doc.Nodes, doc.Edges)
}

// Build assembles a graph from node and edge records. Later node records
// replace earlier ones with the same id.
func Build(reg *Registry, nodes []NodeRecord, edges []EdgeRecord) (*graph.Graph, error) {
	g := graph.New()
	for _, rec := range nodes {
		n, err := reg.Build(rec)
		if err != nil {
			return nil, err
		}
		if err := g.Add(n); err != nil {
			return nil, fmt.Errorf("codec: node %q: %w", rec.ID, err)
		}
	}
	for _, rec := range edges {
		a, okA := g.Get(rec.A)
		b, okB := g.Get(rec.B)
		if !okA || !okB {
			return nil, fmt.Errorf("%w: edge %s--%s references a missing node", ErrFormat, rec.A, rec.B)
		}
		if _, _, err := graph.Connect(a, b, rec.Weight); err != nil {
			return nil, fmt.Errorf("codec: edge %s--%s: %w", rec.A, rec.B, err)
		}
	}
	return g, nil
}

// WithExtension appends Extension to name unless it already ends with it.
func WithExtension(name string) string {
	if strings.HasSuffix(name, Extension) {
		return name
	}
	return name + Extension
}
