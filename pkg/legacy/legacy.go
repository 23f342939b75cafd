// Package legacy defines the node type of graphs created before rooms carried
// building and toilet data. Such graphs are migrated with package translate.
package legacy

import (
	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
)

// TypeName identifies legacy nodes in persisted graphs.
const TypeName = "legacy.node"

// Node is a graph node of the older format.
type Node struct {
	graph.Base

	Name        string
	Description *string
	Floor       int
	BarrierFree *bool
}

var schema = attr.NewSchema[Node](TypeName,
	attr.Text("name", "Name", func(n *Node) *string { return &n.Name }),
	attr.OptionalText("description", "Description", func(n *Node) **string { return &n.Description }),
	attr.Int("floor", "Floor", func(n *Node) *int { return &n.Floor }),
	attr.OptionalBool("barrier_free", "Barrier-free", func(n *Node) **bool { return &n.BarrierFree }),
)

// New returns an empty node without an id.
func New() graph.Node {
	return &Node{}
}

func (*Node) TypeName() string {
	return TypeName
}

func (*Node) Schema() *attr.Schema {
	return schema
}
