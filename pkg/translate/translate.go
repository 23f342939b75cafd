// Package translate migrates a graph from one node type to another. Ids,
// edge weights and every attribute the target type declares under the same
// name are carried over; placeholders stay placeholders.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
)

// Report summarizes a migration.
type Report struct {
	Nodes        int `json:"nodes" yaml:"nodes"`
	Edges        int `json:"edges" yaml:"edges"`
	SkippedNodes int `json:"skipped_nodes" yaml:"skipped_nodes"`
	SkippedEdges int `json:"skipped_edges" yaml:"skipped_edges"`
}

// Option configures Translate.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that receives skipped nodes and edges.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Translate builds a new graph from src, creating every complete node with
// factory. A node whose attributes cannot be carried over is logged and left
// out, together with its edges; the migration itself does not fail for it.
// Each edge is created once even though it is reachable from both endpoints.
func Translate(ctx context.Context, src *graph.Graph, factory func() graph.Node, opts ...Option) (*graph.Graph, Report, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if factory == nil {
		return nil, Report{}, errors.New("translate: nil node factory")
	}

	var rep Report
	dst := graph.New()
	nodes := src.Values()

	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		t, err := translateNode(n, factory)
		if err != nil {
			rep.SkippedNodes++
			o.logger.Warn("skip node", "id", n.ID(), "type", n.TypeName(), "error", err)
			continue
		}
		if err := dst.Add(t); err != nil {
			rep.SkippedNodes++
			o.logger.Warn("skip node", "id", n.ID(), "error", err)
			continue
		}
		rep.Nodes++
	}

	visited := make(map[graph.EdgeKey]struct{})
	for _, n := range nodes {
		for _, e := range n.Edges() {
			key := e.Key()
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}

			a, okA := dst.Get(key.A)
			b, okB := dst.Get(key.B)
			if !okA || !okB {
				rep.SkippedEdges++
				o.logger.Warn("skip edge", "edge", key.String(), "reason", "endpoint not translated")
				continue
			}
			if _, _, err := graph.Connect(a, b, e.Weight()); err != nil {
				rep.SkippedEdges++
				o.logger.Warn("skip edge", "edge", key.String(), "error", err)
				continue
			}
			rep.Edges++
		}
	}

	o.logger.Debug("translated graph",
		"nodes", rep.Nodes, "edges", rep.Edges,
		"skipped_nodes", rep.SkippedNodes, "skipped_edges", rep.SkippedEdges)
	return dst, rep, nil
}

func translateNode(n graph.Node, factory func() graph.Node) (graph.Node, error) {
	if graph.IsPlaceholder(n) {
		return graph.NewLazyNode(n.ID()), nil
	}

	t := factory()
	if err := graph.SetID(t, n.ID()); err != nil {
		return nil, err
	}

	values := attr.Values(n)
	if values == nil {
		return t, nil
	}
	target, ok := attr.SchemaOf(t)
	if !ok {
		return nil, fmt.Errorf("translate: %s nodes have no attributes", t.TypeName())
	}
	shared := make(map[string]*string, len(values))
	for name, v := range values {
		if _, ok := target.Field(name); ok {
			shared[name] = v
		}
	}
	if err := attr.Assign(t, shared); err != nil {
		return nil, err
	}
	return t, nil
}
