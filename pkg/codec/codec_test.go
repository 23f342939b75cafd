package codec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/codec"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/room"
)

func newRoom(t *testing.T, g *graph.Graph, id string, inputs ...attr.Input) *room.Room {
	t.Helper()
	r := &room.Room{}
	if err := r.SetID(id); err != nil {
		t.Fatalf("SetID failed: %v", err)
	}
	if err := attr.Commit(r, inputs); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := g.Add(r); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return r
}

func TestEncodeDecode(t *testing.T) {
	g := graph.New()
	a := newRoom(t, g, "A",
		attr.Input{Name: "name", Raw: "Hall"},
		attr.Input{Name: "floor", Raw: "0"},
		attr.Input{Name: "accessible", Raw: "true"},
	)
	b := newRoom(t, g, "B",
		attr.Input{Name: "name", Raw: "WC"},
		attr.Input{Name: "floor", Raw: "-1"},
		attr.Input{Name: "toilet", Raw: "2"},
	)
	x := graph.NewLazyNode("X")
	if err := g.Add(x); err != nil {
		t.Fatal(err)
	}
	if _, _, err := graph.Connect(a, b, 4); err != nil {
		t.Fatal(err)
	}
	if _, _, err := graph.Connect(b, x, 9); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, g); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := codec.Decode(&buf, codec.DefaultRegistry())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if keys := got.Keys(); len(keys) != 3 || keys[0] != "A" || keys[1] != "B" || keys[2] != "X" {
		t.Fatalf("Keys() = %v, want [A B X]", keys)
	}
	if got.EdgeCount() != 2 {
		t.Fatalf("EdgeCount() = %d, want 2", got.EdgeCount())
	}
	n, _ := got.Get("B")
	rb, ok := n.(*room.Room)
	if !ok {
		t.Fatalf("B is %T, want *room.Room", n)
	}
	if rb.Name != "WC" || rb.Floor != -1 || rb.Toilet == nil || *rb.Toilet != 2 || rb.Accessible != nil {
		t.Fatalf("room B = %+v", rb)
	}
	xn, _ := got.Get("X")
	if !graph.IsPlaceholder(xn) {
		t.Fatal("X should decode as a placeholder")
	}
	if xn.Edges()[0].Weight() != 9 {
		t.Fatalf("X edge weight = %d, want 9", xn.Edges()[0].Weight())
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := codec.Decode(bytes.NewReader([]byte("not a graph")), codec.DefaultRegistry())
	if !errors.Is(err, codec.ErrFormat) {
		t.Fatalf("Decode error = %v, want ErrFormat", err)
	}
}

func TestDecode_ForeignDocument(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"format": "other", "version": 1})
	if err != nil {
		t.Fatal(err)
	}
	_, err = codec.Decode(bytes.NewReader(data), codec.DefaultRegistry())
	if !errors.Is(err, codec.ErrFormat) {
		t.Fatalf("Decode error = %v, want ErrFormat", err)
	}
}

func TestBuild_UnknownType(t *testing.T) {
	_, err := codec.Build(codec.DefaultRegistry(), []codec.NodeRecord{{Type: "kitchen", ID: "K"}}, nil)
	if !errors.Is(err, codec.ErrUnknownType) {
		t.Fatalf("Build error = %v, want ErrUnknownType", err)
	}
}

func TestBuild_EdgeErrors(t *testing.T) {
	reg := codec.DefaultRegistry()
	nodes := []codec.NodeRecord{{Type: "lazy", ID: "A"}, {Type: "lazy", ID: "B"}}

	_, err := codec.Build(reg, nodes, []codec.EdgeRecord{{A: "A", B: "Z", Weight: 1}})
	if !errors.Is(err, codec.ErrFormat) {
		t.Fatalf("missing endpoint error = %v, want ErrFormat", err)
	}
	_, err = codec.Build(reg, nodes, []codec.EdgeRecord{{A: "A", B: "B", Weight: 0}})
	if !errors.Is(err, graph.ErrInvalidWeight) {
		t.Fatalf("zero weight error = %v, want ErrInvalidWeight", err)
	}
	_, err = codec.Build(reg, nodes, []codec.EdgeRecord{{A: "A", B: "A", Weight: 1}})
	if !errors.Is(err, graph.ErrSelfLoop) {
		t.Fatalf("self loop error = %v, want ErrSelfLoop", err)
	}
}

func TestBuild_BadAttribute(t *testing.T) {
	bad := "many"
	name := "A"
	_, err := codec.Build(codec.DefaultRegistry(), []codec.NodeRecord{{
		Type:  room.TypeName,
		ID:    "A",
		Attrs: map[string]*string{"name": &name, "floor": &bad},
	}}, nil)
	if !errors.Is(err, attr.ErrCoercion) {
		t.Fatalf("Build error = %v, want ErrCoercion", err)
	}
}

func TestWithExtension(t *testing.T) {
	if got := codec.WithExtension("campus"); got != "campus.grser" {
		t.Fatalf("WithExtension = %q", got)
	}
	if got := codec.WithExtension("campus.grser"); got != "campus.grser" {
		t.Fatalf("WithExtension = %q", got)
	}
}
