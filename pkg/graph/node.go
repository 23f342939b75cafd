package graph

import (
	"sort"

	"github.com/google/uuid"
)

// Node is a vertex of a Graph. Equality between nodes is equality of their
// ids. Concrete node types embed Base, which supplies everything except
// TypeName.
type Node interface {
	// ID returns the node's key within a graph.
	ID() string

	// TypeName names the node variant, e.g. "room" or "lazy". Persistence
	// uses it to rebuild the right type.
	TypeName() string

	// Edges returns a snapshot of the incident edges, ordered by key.
	Edges() []*Edge

	// AddEdge records e in the incident set and reports whether it was newly
	// added. Edges that do not touch the node are never recorded.
	AddEdge(e *Edge) bool

	// Neighbors returns the far endpoint of every incident edge.
	Neighbors() []Node

	base() *Base
}

// Base carries the id, membership and incident edges shared by all node
// variants.
type Base struct {
	id    string
	owner uuid.UUID
	edges map[EdgeKey]*Edge
}

// ID returns the node's id, or "" if none was assigned yet.
func (b *Base) ID() string {
	return b.id
}

// SetID assigns the node's id. The id is immutable once set: assigning a
// different id afterwards fails with ErrIDAlreadySet.
func (b *Base) SetID(id string) error {
	if id == "" {
		return ErrNoID
	}
	if b.id != "" && b.id != id {
		return ErrIDAlreadySet
	}
	b.id = id
	return nil
}

// Edges returns a snapshot of the incident edges, ordered by key.
func (b *Base) Edges() []*Edge {
	out := make([]*Edge, 0, len(b.edges))
	for _, e := range b.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].key.less(out[j].key)
	})
	return out
}

// AddEdge records e and reports whether it was newly added. An edge between
// the same pair of ids that is already recorded is not replaced.
func (b *Base) AddEdge(e *Edge) bool {
	if e == nil || (e.ends[0].ID() != b.id && e.ends[1].ID() != b.id) {
		return false
	}
	if _, ok := b.edges[e.key]; ok {
		return false
	}
	b.put(e)
	return true
}

// Neighbors returns the far endpoint of every incident edge.
func (b *Base) Neighbors() []Node {
	edges := b.Edges()
	out := make([]Node, 0, len(edges))
	for _, e := range edges {
		if e.ends[0].ID() == b.id {
			out = append(out, e.ends[1])
		} else {
			out = append(out, e.ends[0])
		}
	}
	return out
}

// SetID assigns n's id through its embedded Base.
func SetID(n Node, id string) error {
	return n.base().SetID(id)
}

func (b *Base) base() *Base {
	return b
}

func (b *Base) put(e *Edge) {
	if b.edges == nil {
		b.edges = make(map[EdgeKey]*Edge)
	}
	b.edges[e.key] = e
}

func (b *Base) drop(k EdgeKey) {
	delete(b.edges, k)
}

// LazyTypeName is the type name of placeholder nodes.
const LazyTypeName = "lazy"

// LazyNode is a placeholder for a node that is known only by its id, usually
// because an edge names it before its data was entered. It exposes no
// attributes and is superseded when a complete node with the same id is added.
type LazyNode struct {
	Base
}

// NewLazyNode returns a placeholder for id.
func NewLazyNode(id string) *LazyNode {
	return &LazyNode{Base: Base{id: id}}
}

// TypeName implements Node.
func (*LazyNode) TypeName() string {
	return LazyTypeName
}

// Placeholder marks the node as standing in for a node not yet defined.
func (*LazyNode) Placeholder() bool {
	return true
}

// IsPlaceholder reports whether n stands in for a node not yet defined.
func IsPlaceholder(n Node) bool {
	p, ok := n.(interface{ Placeholder() bool })
	return ok && p.Placeholder()
}
