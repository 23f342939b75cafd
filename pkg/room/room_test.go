package room_test

import (
	"errors"
	"testing"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/room"
)

func TestRoom_Commit(t *testing.T) {
	r := room.New().(*room.Room)
	err := attr.Commit(r, []attr.Input{
		{Name: "name", Raw: "A101"},
		{Name: "building", Raw: "Haus A"},
		{Name: "floor", Raw: "1"},
		{Name: "toilet", Raw: "3"},
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if r.Name != "A101" || r.Floor != 1 || r.Building == nil || *r.Building != "Haus A" {
		t.Fatalf("room = %+v", r)
	}
	tt, ok := r.ToiletType()
	if !ok || tt != room.ToiletAccessible {
		t.Fatalf("ToiletType() = %v, %v, want accessible", tt, ok)
	}
	if r.Accessible != nil {
		t.Fatal("Accessible should be unset")
	}
}

func TestRoom_ToiletOutOfRange(t *testing.T) {
	r := &room.Room{}
	err := attr.Commit(r, []attr.Input{
		{Name: "name", Raw: "WC"},
		{Name: "floor", Raw: "0"},
		{Name: "toilet", Raw: "4"},
	})
	if !errors.Is(err, attr.ErrOutOfRange) {
		t.Fatalf("Commit error = %v, want ErrOutOfRange", err)
	}
	if r.Name != "" {
		t.Fatal("room changed on failed commit")
	}
}

func TestRoom_IsEditableNode(t *testing.T) {
	var n graph.Node = room.New()
	if n.TypeName() != room.TypeName {
		t.Fatalf("TypeName() = %q, want %q", n.TypeName(), room.TypeName)
	}
	if _, ok := attr.SchemaOf(n); !ok {
		t.Fatal("room should expose attributes")
	}
	if _, ok := attr.SchemaOf(graph.NewLazyNode("X")); ok {
		t.Fatal("placeholder should not expose attributes")
	}
	views, err := attr.Describe(n)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if views[0].Name != "name" || views[3].Name != "floor" {
		t.Fatalf("unexpected field order: %v, %v", views[0].Name, views[3].Name)
	}
}

func TestToiletType_String(t *testing.T) {
	if got := room.ToiletFemale.String(); got != "female" {
		t.Fatalf("String() = %q, want female", got)
	}
	if room.ToiletType(0).Valid() {
		t.Fatal("0 should not be valid")
	}
}
