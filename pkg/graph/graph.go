// Package graph provides the weighted, undirected room graph: nodes keyed by a
// unique id, placeholder nodes standing in for endpoints that are only known
// by id, and validated edges between nodes of the same graph.
//
// A Graph owns its nodes. Nodes refer back to their graph only through a
// membership token (the graph's uuid), never through a pointer, so a node
// removed from a graph can no longer be connected to the graph's members.
// Edges are reachable only through the incident sets of their two endpoints.
//
// The package is not safe for concurrent use. Callers sharing a Graph between
// goroutines guard it with a single lock (see package editor).
package graph

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

// Sentinel errors.
var (
	// ErrNoID is returned when a node without an id is added to a graph or
	// given an empty id.
	ErrNoID = errors.New("graph: node has no id")

	// ErrIDAlreadySet is returned when a node's id is reassigned.
	ErrIDAlreadySet = errors.New("graph: node id already set")

	// ErrNotInGraph is returned when an edge is built between nodes that are
	// not members of the same graph.
	ErrNotInGraph = errors.New("graph: nodes are not part of the same graph")

	// ErrSelfLoop is returned when both endpoints of an edge are the same node.
	ErrSelfLoop = errors.New("graph: nodes are equal")

	// ErrInvalidWeight is returned for edge weights that are not positive.
	ErrInvalidWeight = errors.New("graph: weight must be greater than zero")

	// ErrNotEndpoint is returned by Edge.Other for a node the edge does not touch.
	ErrNotEndpoint = errors.New("graph: node is not part of the edge")
)

// ResolveFunc is called when a placeholder is superseded by a complete node
// sharing its id.
type ResolveFunc func(placeholder *LazyNode, complete Node)

// Graph is a keyed collection of nodes. The zero value is not usable; call New.
type Graph struct {
	id       uuid.UUID
	nodes    map[string]Node
	order    []string
	resolved []ResolveFunc
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		id:    uuid.New(),
		nodes: make(map[string]Node),
	}
}

// Add inserts n under its id, replacing any node stored under the same id.
//
// When a different node is replaced, the old node's edges are rebound onto n
// (same weight) unless n already connects to that neighbor, and the old node
// stops being a member. Edges n carries to nodes that are not members of this
// graph are dropped first.
func (g *Graph) Add(n Node) error {
	id := n.ID()
	if id == "" {
		return ErrNoID
	}
	g.prune(n, func(id string) (Node, bool) {
		m, ok := g.nodes[id]
		return m, ok
	})
	g.put(n)
	return nil
}

// AddAll merges every node of other into g with the same replace semantics as
// Add. Edges reachable from the merged nodes are re-validated against the
// union: an edge whose far endpoint is not the node the union stores under
// that id is dropped from both endpoints.
func (g *Graph) AddAll(other *Graph) {
	if other == nil || other == g {
		return
	}
	incoming := other.Values()
	union := func(id string) (Node, bool) {
		if m, ok := other.nodes[id]; ok {
			return m, true
		}
		m, ok := g.nodes[id]
		return m, ok
	}
	for _, n := range incoming {
		g.prune(n, union)
	}
	for _, n := range incoming {
		g.put(n)
	}
}

// Remove deletes the node stored under n's id and detaches all of its edges
// from their far endpoints. It reports whether a node was removed.
func (g *Graph) Remove(n Node) bool {
	return g.RemoveKey(n.ID())
}

// RemoveKey is Remove by id.
func (g *Graph) RemoveKey(id string) bool {
	stored, ok := g.nodes[id]
	if !ok {
		return false
	}
	detach(stored)
	if b := stored.base(); b.owner == g.id {
		b.owner = uuid.Nil
	}
	delete(g.nodes, id)
	if i := slices.Index(g.order, id); i >= 0 {
		g.order = slices.Delete(g.order, i, i+1)
	}
	return true
}

// Contains reports whether a node with n's id is stored in g.
func (g *Graph) Contains(n Node) bool {
	if n == nil {
		return false
	}
	return g.ContainsKey(n.ID())
}

// ContainsKey reports whether a node is stored under id.
func (g *Graph) ContainsKey(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Get returns the node stored under id.
func (g *Graph) Get(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Values returns a snapshot of all nodes in insertion order.
func (g *Graph) Values() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Keys returns a snapshot of all node ids in insertion order.
func (g *Graph) Keys() []string {
	return slices.Clone(g.order)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Edges returns every edge of the graph exactly once, grouped by the first
// endpoint in insertion order.
func (g *Graph) Edges() []*Edge {
	seen := make(map[EdgeKey]struct{})
	var out []*Edge
	for _, id := range g.order {
		for _, e := range g.nodes[id].Edges() {
			if _, ok := seen[e.key]; ok {
				continue
			}
			seen[e.key] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.Edges())
}

// OnResolve registers fn to be called whenever Add or AddAll replaces a
// placeholder with a node that is not itself a placeholder.
func (g *Graph) OnResolve(fn ResolveFunc) {
	g.resolved = append(g.resolved, fn)
}

// put stores n, replacing and rebinding whatever occupied its slot.
func (g *Graph) put(n Node) {
	id := n.ID()
	old, exists := g.nodes[id]
	switch {
	case !exists:
		g.order = append(g.order, id)
	case old != n:
		g.rebind(old, n)
	}
	g.nodes[id] = n
	n.base().owner = g.id

	if exists && old != n {
		if lazy, ok := old.(*LazyNode); ok && !IsPlaceholder(n) {
			for _, fn := range g.resolved {
				fn(lazy, n)
			}
		}
	}
}

// rebind moves old's edges onto n and retires old.
func (g *Graph) rebind(old, n Node) {
	nb := n.base()
	for _, e := range old.Edges() {
		far, err := e.Other(old)
		if err != nil {
			continue
		}
		far.base().drop(e.key)
		old.base().drop(e.key)
		if _, has := nb.edges[e.key]; has || far.ID() == n.ID() {
			continue
		}
		moved := &Edge{ends: [2]Node{n, far}, weight: e.weight, key: e.key}
		nb.put(moved)
		far.base().put(moved)
	}
	if ob := old.base(); ob.owner == g.id {
		ob.owner = uuid.Nil
	}
}

// prune drops edges of n whose far endpoint is not the node lookup returns
// for that id.
func (g *Graph) prune(n Node, lookup func(id string) (Node, bool)) {
	for _, e := range n.Edges() {
		far, err := e.Other(n)
		if err != nil {
			n.base().drop(e.key)
			continue
		}
		if stored, ok := lookup(far.ID()); ok && stored == far {
			continue
		}
		n.base().drop(e.key)
		far.base().drop(e.key)
	}
}

// detach removes every edge of n from both endpoints.
func detach(n Node) {
	for _, e := range n.Edges() {
		if far, err := e.Other(n); err == nil {
			far.base().drop(e.key)
		}
		n.base().drop(e.key)
	}
}
