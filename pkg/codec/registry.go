package codec

import (
	"fmt"
	"sort"
	"sync"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/legacy"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/room"
)

// Factory returns a new, empty node without an id.
type Factory func() graph.Node

// Registry maps node type names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry that knows rooms, legacy nodes and
// placeholders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(room.TypeName, room.New)
	r.Register(legacy.TypeName, legacy.New)
	r.Register(graph.LazyTypeName, func() graph.Node { return &graph.LazyNode{} })
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Lookup returns the factory registered for name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the node described by rec: a new node of rec.Type with
// rec.ID and the attributes restored from their text form.
func (r *Registry) Build(rec NodeRecord) (graph.Node, error) {
	f, ok := r.Lookup(rec.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, rec.Type)
	}
	n := f()
	if err := graph.SetID(n, rec.ID); err != nil {
		return nil, fmt.Errorf("codec: node %q: %w", rec.ID, err)
	}
	if len(rec.Attrs) > 0 {
		if err := attr.Assign(n, rec.Attrs); err != nil {
			return nil, fmt.Errorf("codec: node %q: %w", rec.ID, err)
		}
	}
	return n, nil
}
