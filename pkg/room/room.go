// Package room defines the room node used by the room finder: a named room in
// a building, with its floor and accessibility data.
package room

import (
	"fmt"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
)

// TypeName identifies rooms in persisted graphs.
const TypeName = "room"

// ToiletType classifies a room that is a toilet.
type ToiletType int

const (
	ToiletMale       ToiletType = 1
	ToiletFemale     ToiletType = 2
	ToiletAccessible ToiletType = 3
)

func (t ToiletType) String() string {
	switch t {
	case ToiletMale:
		return "male"
	case ToiletFemale:
		return "female"
	case ToiletAccessible:
		return "accessible"
	}
	return fmt.Sprintf("toilet(%d)", int(t))
}

// Valid reports whether t is a known toilet type.
func (t ToiletType) Valid() bool {
	return t >= ToiletMale && t <= ToiletAccessible
}

// Room is a graph node describing one room.
type Room struct {
	graph.Base

	Name        string
	Description *string
	Building    *string
	Floor       int
	Accessible  *bool
	Toilet      *int
}

var schema = attr.NewSchema[Room](TypeName,
	attr.Text("name", "Name of the room", func(r *Room) *string { return &r.Name }),
	attr.OptionalText("description", "Description", func(r *Room) **string { return &r.Description }),
	attr.OptionalText("building", "Building the room is in", func(r *Room) **string { return &r.Building }),
	attr.Int("floor", "Floor", func(r *Room) *int { return &r.Floor }),
	attr.OptionalBool("accessible", "Accessible without stairs", func(r *Room) **bool { return &r.Accessible }),
	attr.OptionalInt("toilet", "Toilet type (1 male, 2 female, 3 accessible)", func(r *Room) **int { return &r.Toilet }).
		Within(int(ToiletMale), int(ToiletAccessible)),
)

// New returns an empty room without an id.
func New() graph.Node {
	return &Room{}
}

// TypeName implements graph.Node.
func (*Room) TypeName() string {
	return TypeName
}

// Schema implements attr.Editable.
func (*Room) Schema() *attr.Schema {
	return schema
}

// ToiletType returns the room's toilet type, if it is a toilet.
func (r *Room) ToiletType() (ToiletType, bool) {
	if r.Toilet == nil {
		return 0, false
	}
	t := ToiletType(*r.Toilet)
	return t, t.Valid()
}
