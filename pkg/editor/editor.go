// Package editor is the editing session around one graph. It is what a
// presentation layer talks to: it lists and commits node attributes, creates
// edges from ids and weight text, and moves whole graphs in and out of .grser
// blobs. All methods are safe for concurrent use; one mutex guards the graph.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/codec"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/room"
)

var (
	// ErrNotFound is returned for ids with no node.
	ErrNotFound = errors.New("editor: node not found")

	// ErrNotEditable is returned when a placeholder's attributes are requested.
	ErrNotEditable = errors.New("editor: node has no editable attributes")

	// ErrUnknownType is returned for node types the session cannot create.
	ErrUnknownType = errors.New("editor: unknown node type")

	// ErrInvalidWeight is returned for weight text that is not a positive
	// integer.
	ErrInvalidWeight = errors.New("editor: weight must be a natural number")

	// ErrInvalidConnection wraps structural edge errors from package graph.
	ErrInvalidConnection = errors.New("editor: invalid connection")

	// ErrEdgeExists is returned when both endpoints already hold the edge.
	ErrEdgeExists = errors.New("editor: connection already exists")
)

// Session edits one graph.
type Session struct {
	mu       sync.Mutex
	g        *graph.Graph
	reg      *codec.Registry
	defType  string
	logger   *slog.Logger
	resolved int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithRegistry sets the node types the session can create and decode.
// Defaults to codec.DefaultRegistry().
func WithRegistry(r *codec.Registry) Option {
	return func(s *Session) { s.reg = r }
}

// WithDefaultType sets the type created when Commit is given no type name.
// Defaults to room.TypeName.
func WithDefaultType(name string) Option {
	return func(s *Session) { s.defType = name }
}

// New returns a session editing g, or a new empty graph if g is nil.
func New(g *graph.Graph, opts ...Option) *Session {
	s := &Session{
		reg:     codec.DefaultRegistry(),
		defType: room.TypeName,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.attach(g)
	return s
}

// attach makes g the edited graph. Callers hold s.mu or own s exclusively.
func (s *Session) attach(g *graph.Graph) {
	if g == nil {
		g = graph.New()
	}
	g.OnResolve(func(p *graph.LazyNode, n graph.Node) {
		s.resolved++
		s.logger.Info("placeholder resolved", "id", n.ID(), "type", n.TypeName(), "degree", len(n.Edges()))
	})
	s.g = g
}

// Registry returns the session's node type registry.
func (s *Session) Registry() *codec.Registry {
	return s.reg
}

// Resolved returns how many placeholders have been replaced by complete
// nodes during the session.
func (s *Session) Resolved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// Do runs fn with exclusive access to the graph.
func (s *Session) Do(fn func(g *graph.Graph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.g)
}

// Replace swaps the edited graph for g.
func (s *Session) Replace(g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attach(g)
}

// Exists reports whether a node is stored under id.
func (s *Session) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.ContainsKey(id)
}

// Lookup returns the node stored under id.
func (s *Session) Lookup(id string) (graph.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Get(id)
}

// Summary is one row of a node listing.
type Summary struct {
	ID          string `json:"id" yaml:"id"`
	Type        string `json:"type" yaml:"type"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Placeholder bool   `json:"placeholder" yaml:"placeholder"`
	Degree      int    `json:"degree" yaml:"degree"`
}

// List returns a summary of every node in insertion order.
func (s *Session) List() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes := s.g.Values()
	out := make([]Summary, 0, len(nodes))
	for _, n := range nodes {
		sum := Summary{
			ID:          n.ID(),
			Type:        n.TypeName(),
			Placeholder: graph.IsPlaceholder(n),
			Degree:      len(n.Edges()),
		}
		if name := attr.Values(n)["name"]; name != nil {
			sum.Name = *name
		}
		out = append(out, sum)
	}
	return out
}

// Fields lists the attributes of the node stored under id.
func (s *Session) Fields(id string) ([]attr.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.g.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	views, err := attr.Describe(n)
	if errors.Is(err, attr.ErrNotEditable) {
		return nil, fmt.Errorf("%w: %q is a %s node", ErrNotEditable, id, n.TypeName())
	}
	return views, err
}

// Blank lists the attributes of a new node of the given type, all empty. An
// empty type name means the session's default type.
func (s *Session) Blank(typeName string) ([]attr.View, error) {
	n, err := s.create(typeName)
	if err != nil {
		return nil, err
	}
	sc, ok := attr.SchemaOf(n)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotEditable, n.TypeName())
	}
	return attr.Blank(sc), nil
}

// Commit writes inputs to the node stored under id.
//
// A complete node of the requested type (or any type, if typeName is empty)
// is edited in place. Otherwise a new node of typeName is built from inputs
// and stored under id, replacing a placeholder or a node of another type and
// taking over its edges. Nothing changes if validation or coercion fails.
func (s *Session) Commit(id, typeName string, inputs []attr.Input) (graph.Node, error) {
	if id == "" {
		return nil, graph.ErrNoID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.g.Get(id); ok && !graph.IsPlaceholder(cur) && (typeName == "" || typeName == cur.TypeName()) {
		if err := attr.Commit(cur, inputs); err != nil {
			return nil, err
		}
		s.logger.Info("node updated", "id", id, "type", cur.TypeName())
		return cur, nil
	}

	n, err := s.create(typeName)
	if err != nil {
		return nil, err
	}
	if err := graph.SetID(n, id); err != nil {
		return nil, err
	}
	if err := attr.Commit(n, inputs); err != nil {
		return nil, err
	}
	if err := s.g.Add(n); err != nil {
		return nil, err
	}
	s.logger.Info("node stored", "id", id, "type", n.TypeName())
	return n, nil
}

// Node returns the node stored under id, creating and storing a placeholder
// if there is none. created reports whether a placeholder was made.
func (s *Session) Node(id string) (n graph.Node, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.node(id)
}

func (s *Session) node(id string) (graph.Node, bool, error) {
	if n, ok := s.g.Get(id); ok {
		return n, false, nil
	}
	lazy := graph.NewLazyNode(id)
	if err := s.g.Add(lazy); err != nil {
		return nil, false, err
	}
	s.logger.Debug("placeholder created", "id", id)
	return lazy, true, nil
}

// Connect creates the edge id1--id2 with the weight parsed from weightText.
// Unknown ids become placeholders. The weight is checked before any node is
// created.
func (s *Session) Connect(id1, id2, weightText string) (*graph.Edge, error) {
	raw, present := attr.Normalize(weightText)
	v, err := attr.Coerce(attr.KindInteger, raw, present)
	if err != nil || v == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWeight, weightText)
	}
	weight := v.(int)
	if weight <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeight, weight)
	}
	if id1 == id2 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConnection, graph.ErrSelfLoop)
	}
	if id1 == "" || id2 == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConnection, graph.ErrNoID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, _, err := s.node(id1)
	if err != nil {
		return nil, err
	}
	b, _, err := s.node(id2)
	if err != nil {
		return nil, err
	}
	e, added, err := graph.Connect(a, b, weight)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConnection, err)
	}
	if !added {
		return nil, fmt.Errorf("%w: %s", ErrEdgeExists, e.Key())
	}
	s.logger.Info("edge created", "edge", e.Key().String(), "weight", weight)
	return e, nil
}

// Disconnect removes the edge between id1 and id2.
func (s *Session) Disconnect(id1, id2 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.g.Get(id1)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id1)
	}
	if _, ok := s.g.Get(id2); !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id2)
	}
	if !graph.Disconnect(a, id2) {
		return fmt.Errorf("%w: no edge %s--%s", ErrNotFound, id1, id2)
	}
	return nil
}

// Remove deletes the node stored under id and all of its edges.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.g.RemoveKey(id) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	s.logger.Info("node removed", "id", id)
	return nil
}

// Neighbor is one connection of a node.
type Neighbor struct {
	ID          string `json:"id" yaml:"id"`
	Type        string `json:"type" yaml:"type"`
	Placeholder bool   `json:"placeholder" yaml:"placeholder"`
	Weight      int    `json:"weight" yaml:"weight"`
}

// Neighbors lists the nodes connected to id.
func (s *Session) Neighbors(id string) ([]Neighbor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.g.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	var out []Neighbor
	for _, e := range n.Edges() {
		far, err := e.Other(n)
		if err != nil {
			continue
		}
		out = append(out, Neighbor{
			ID:          far.ID(),
			Type:        far.TypeName(),
			Placeholder: graph.IsPlaceholder(far),
			Weight:      e.Weight(),
		})
	}
	return out, nil
}

func (s *Session) create(typeName string) (graph.Node, error) {
	if typeName == "" {
		typeName = s.defType
	}
	f, ok := s.reg.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return f(), nil
}
