package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// EdgeKey identifies the unordered pair of endpoint ids of an edge. A is
// always the lexicographically smaller id.
type EdgeKey struct {
	A, B string
}

// KeyOf returns the key for the unordered pair (a, b).
func KeyOf(a, b string) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

func (k EdgeKey) less(o EdgeKey) bool {
	if k.A != o.A {
		return k.A < o.A
	}
	return k.B < o.B
}

// String returns "a--b".
func (k EdgeKey) String() string {
	return k.A + "--" + k.B
}

// Edge is an immutable, weighted, undirected connection between two distinct
// nodes of the same graph. Construction does not register the edge; callers
// record it on both endpoints with AddEdge.
type Edge struct {
	ends   [2]Node
	weight int
	key    EdgeKey
}

// NewEdge validates and builds an edge between a and b.
//
// It fails with ErrNotInGraph if either node is not a member of a graph or
// the two are members of different graphs, with ErrSelfLoop if both have the
// same id, and with ErrInvalidWeight if weight is not positive.
func NewEdge(a, b Node, weight int) (*Edge, error) {
	ao, bo := a.base().owner, b.base().owner
	if ao == uuid.Nil || bo == uuid.Nil || ao != bo {
		return nil, fmt.Errorf("%w: %q, %q", ErrNotInGraph, a.ID(), b.ID())
	}
	if a.ID() == b.ID() {
		return nil, fmt.Errorf("%w: %q", ErrSelfLoop, a.ID())
	}
	if weight <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeight, weight)
	}
	return &Edge{
		ends:   [2]Node{a, b},
		weight: weight,
		key:    KeyOf(a.ID(), b.ID()),
	}, nil
}

// Other returns the endpoint that is not n.
func (e *Edge) Other(n Node) (Node, error) {
	switch n.ID() {
	case e.ends[0].ID():
		return e.ends[1], nil
	case e.ends[1].ID():
		return e.ends[0], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotEndpoint, n.ID())
}

// Weight returns the edge's cost.
func (e *Edge) Weight() int {
	return e.weight
}

// Endpoints returns both endpoints. Their order carries no meaning.
func (e *Edge) Endpoints() (Node, Node) {
	return e.ends[0], e.ends[1]
}

// Key returns the unordered endpoint id pair.
func (e *Edge) Key() EdgeKey {
	return e.key
}

// Connect builds an edge between a and b and records it on both endpoints.
// It reports whether either endpoint recorded it as new; an endpoint that
// accepts keeps the edge even when the other reports a duplicate.
func Connect(a, b Node, weight int) (*Edge, bool, error) {
	e, err := NewEdge(a, b, weight)
	if err != nil {
		return nil, false, err
	}
	addedA := a.AddEdge(e)
	addedB := b.AddEdge(e)
	return e, addedA || addedB, nil
}

// Disconnect removes the edge between n and the node with id other from both
// endpoints. It reports whether such an edge existed.
func Disconnect(n Node, other string) bool {
	k := KeyOf(n.ID(), other)
	e, ok := n.base().edges[k]
	if !ok {
		return false
	}
	if far, err := e.Other(n); err == nil {
		far.base().drop(k)
	}
	n.base().drop(k)
	return true
}
