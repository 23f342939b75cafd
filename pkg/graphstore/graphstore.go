// Package graphstore keeps an editing workspace in a kv.Store so the graph
// survives between command invocations.
//
// Key layout (relative to the store prefix):
//
//	{prefix}:n:{id}     → msgpack-encoded node record
//	{prefix}:e:{a}:{b}  → msgpack-encoded weight, a < b
package graphstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/codec"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/kv"
)

// Store reads and writes one workspace.
type Store struct {
	kv     kv.Store
	prefix kv.Key
}

// New returns a workspace stored under prefix in s.
func New(s kv.Store, prefix kv.Key) *Store {
	return &Store{kv: s, prefix: prefix}
}

type nodeValue struct {
	Seq  int              `msgpack:"seq"`
	Node codec.NodeRecord `msgpack:"node"`
}

// Save replaces the stored workspace with g in one batch.
func (s *Store) Save(ctx context.Context, g *graph.Graph) error {
	b := new(kv.Batch).DeletePrefix(s.prefix)
	for i, n := range g.Values() {
		data, err := msgpack.Marshal(nodeValue{Seq: i, Node: codec.RecordOf(n)})
		if err != nil {
			return fmt.Errorf("graphstore: encode node %q: %w", n.ID(), err)
		}
		b.Put(s.key("n", n.ID()), data)
	}
	for _, e := range g.Edges() {
		k := e.Key()
		data, err := msgpack.Marshal(e.Weight())
		if err != nil {
			return fmt.Errorf("graphstore: encode edge %s: %w", k, err)
		}
		b.Put(s.key("e", k.A, k.B), data)
	}
	return s.kv.Apply(ctx, b)
}

// Load rebuilds the stored workspace. An empty workspace loads as an empty
// graph.
func (s *Store) Load(ctx context.Context, reg *codec.Registry) (*graph.Graph, error) {
	var nodes []nodeValue
	for entry, err := range s.kv.Scan(ctx, s.key("n")) {
		if err != nil {
			return nil, err
		}
		var v nodeValue
		if err := msgpack.Unmarshal(entry.Value, &v); err != nil {
			return nil, fmt.Errorf("graphstore: decode %s: %w", entry.Key, err)
		}
		nodes = append(nodes, v)
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Seq < nodes[j].Seq })

	var edges []codec.EdgeRecord
	for entry, err := range s.kv.Scan(ctx, s.key("e")) {
		if err != nil {
			return nil, err
		}
		if len(entry.Key) != len(s.prefix)+3 {
			return nil, fmt.Errorf("graphstore: malformed edge key %s", entry.Key)
		}
		var w int
		if err := msgpack.Unmarshal(entry.Value, &w); err != nil {
			return nil, fmt.Errorf("graphstore: decode %s: %w", entry.Key, err)
		}
		a, b := entry.Key[len(s.prefix)+1], entry.Key[len(s.prefix)+2]
		edges = append(edges, codec.EdgeRecord{A: a, B: b, Weight: w})
	}

	records := make([]codec.NodeRecord, len(nodes))
	for i, v := range nodes {
		records[i] = v.Node
	}
	return codec.Build(reg, records, edges)
}

// Clear removes the stored workspace.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Apply(ctx, new(kv.Batch).DeletePrefix(s.prefix))
}

func (s *Store) key(segs ...string) kv.Key {
	k := make(kv.Key, 0, len(s.prefix)+len(segs))
	k = append(k, s.prefix...)
	return append(k, segs...)
}
