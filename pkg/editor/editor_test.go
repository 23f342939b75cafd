package editor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/attr"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/editor"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/legacy"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/room"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/storage"
)

func newSession(t *testing.T) *editor.Session {
	t.Helper()
	return editor.New(nil, editor.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func roomInputs(name, floor string) []attr.Input {
	return []attr.Input{{Name: "name", Raw: name}, {Name: "floor", Raw: floor}}
}

func mustCommit(t *testing.T, s *editor.Session, id string, inputs []attr.Input) graph.Node {
	t.Helper()
	n, err := s.Commit(id, "", inputs)
	if err != nil {
		t.Fatalf("Commit(%s): %v", id, err)
	}
	return n
}

func TestConnect_CreatesPlaceholder(t *testing.T) {
	s := newSession(t)
	mustCommit(t, s, "A", roomInputs("Hall", "0"))

	e, err := s.Connect("A", "X", "5")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if e.Weight() != 5 {
		t.Fatalf("Weight() = %d, want 5", e.Weight())
	}
	x, ok := s.Lookup("X")
	if !ok {
		t.Fatal("X should exist")
	}
	if !graph.IsPlaceholder(x) {
		t.Fatalf("X is %T, want placeholder", x)
	}
	if _, err := s.Fields("X"); !errors.Is(err, editor.ErrNotEditable) {
		t.Fatalf("Fields(X) = %v, want ErrNotEditable", err)
	}
	if _, ok := attr.SchemaOf(x); ok {
		t.Fatal("placeholder should expose no attributes")
	}
}

func TestConnect_Errors(t *testing.T) {
	s := newSession(t)
	tests := []struct {
		id1, id2, weight string
		want             error
	}{
		{"A", "B", "", editor.ErrInvalidWeight},
		{"A", "B", "abc", editor.ErrInvalidWeight},
		{"A", "B", "0", editor.ErrInvalidWeight},
		{"A", "B", "-3", editor.ErrInvalidWeight},
		{"A", "A", "1", editor.ErrInvalidConnection},
		{"A", "", "1", editor.ErrInvalidConnection},
	}
	for _, tt := range tests {
		_, err := s.Connect(tt.id1, tt.id2, tt.weight)
		if !errors.Is(err, tt.want) {
			t.Errorf("Connect(%q, %q, %q) = %v, want %v", tt.id1, tt.id2, tt.weight, err, tt.want)
		}
	}
	if len(s.List()) != 0 {
		t.Fatalf("failed connections created nodes: %v", s.List())
	}

	if _, err := s.Connect("A", "A", "1"); !errors.Is(err, graph.ErrSelfLoop) {
		t.Fatalf("self loop error = %v, want graph.ErrSelfLoop", err)
	}
}

func TestConnect_Duplicate(t *testing.T) {
	s := newSession(t)
	if _, err := s.Connect("A", "B", "2"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Connect("B", "A", "7"); !errors.Is(err, editor.ErrEdgeExists) {
		t.Fatalf("Connect duplicate = %v, want ErrEdgeExists", err)
	}
	n, err := s.Neighbors("A")
	if err != nil {
		t.Fatal(err)
	}
	if len(n) != 1 || n[0].ID != "B" || n[0].Weight != 2 {
		t.Fatalf("Neighbors(A) = %+v", n)
	}
}

func TestCommit_ResolvesPlaceholder(t *testing.T) {
	s := newSession(t)
	mustCommit(t, s, "A", roomInputs("Hall", "0"))
	if _, err := s.Connect("A", "X", "4"); err != nil {
		t.Fatal(err)
	}

	n := mustCommit(t, s, "X", roomInputs("Lab", "1"))
	if _, ok := n.(*room.Room); !ok {
		t.Fatalf("X is %T, want *room.Room", n)
	}
	if s.Resolved() != 1 {
		t.Fatalf("Resolved() = %d, want 1", s.Resolved())
	}
	nb, err := s.Neighbors("A")
	if err != nil {
		t.Fatal(err)
	}
	if len(nb) != 1 || nb[0].ID != "X" || nb[0].Placeholder || nb[0].Weight != 4 {
		t.Fatalf("Neighbors(A) = %+v", nb)
	}
	views, err := s.Fields("X")
	if err != nil {
		t.Fatalf("Fields(X): %v", err)
	}
	if views[0].Value != "Lab" {
		t.Fatalf("name = %q, want Lab", views[0].Value)
	}
}

func TestCommit_InPlaceAndAtomic(t *testing.T) {
	s := newSession(t)
	first := mustCommit(t, s, "A", roomInputs("Hall", "0"))

	_, err := s.Commit("A", "", roomInputs("Renamed", "x"))
	var cerr *attr.CoercionError
	if !errors.As(err, &cerr) || cerr.Field != "floor" {
		t.Fatalf("Commit = %v, want CoercionError for floor", err)
	}
	if first.(*room.Room).Name != "Hall" {
		t.Fatal("failed commit changed the node")
	}

	again := mustCommit(t, s, "A", roomInputs("Renamed", "3"))
	if again != first {
		t.Fatal("commit on an existing node should edit it in place")
	}
	if first.(*room.Room).Floor != 3 {
		t.Fatalf("Floor = %d, want 3", first.(*room.Room).Floor)
	}
}

func TestCommit_UnknownType(t *testing.T) {
	s := newSession(t)
	if _, err := s.Commit("A", "kitchen", nil); !errors.Is(err, editor.ErrUnknownType) {
		t.Fatalf("Commit = %v, want ErrUnknownType", err)
	}
	if _, err := s.Commit("", "", nil); !errors.Is(err, graph.ErrNoID) {
		t.Fatalf("Commit = %v, want ErrNoID", err)
	}
}

func TestBlank(t *testing.T) {
	s := newSession(t)
	views, err := s.Blank(legacy.TypeName)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 4 || views[3].Name != "barrier_free" || views[3].Value != "" {
		t.Fatalf("Blank = %+v", views)
	}
	if _, err := s.Blank(graph.LazyTypeName); !errors.Is(err, editor.ErrNotEditable) {
		t.Fatalf("Blank(lazy) = %v, want ErrNotEditable", err)
	}
}

func TestRemove(t *testing.T) {
	s := newSession(t)
	if _, err := s.Connect("A", "B", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("A"); err != nil {
		t.Fatal(err)
	}
	if s.Exists("A") {
		t.Fatal("A should be gone")
	}
	nb, _ := s.Neighbors("B")
	if len(nb) != 0 {
		t.Fatalf("Neighbors(B) = %+v, want none", nb)
	}
	if err := s.Remove("A"); !errors.Is(err, editor.ErrNotFound) {
		t.Fatalf("Remove missing = %v, want ErrNotFound", err)
	}
}

func TestDisconnect(t *testing.T) {
	s := newSession(t)
	if _, err := s.Connect("A", "B", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Disconnect("B", "A"); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if err := s.Disconnect("A", "B"); !errors.Is(err, editor.ErrNotFound) {
		t.Fatalf("second Disconnect = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := newSession(t)
	mustCommit(t, s, "B", roomInputs("Lab", "1"))
	if _, err := s.Connect("B", "A", "1"); err != nil {
		t.Fatal(err)
	}
	got := s.List()
	if len(got) != 2 {
		t.Fatalf("List = %+v", got)
	}
	if got[0].ID != "B" || got[0].Name != "Lab" || got[0].Degree != 1 || got[0].Placeholder {
		t.Fatalf("List[0] = %+v", got[0])
	}
	if got[1].ID != "A" || !got[1].Placeholder || got[1].Type != graph.LazyTypeName {
		t.Fatalf("List[1] = %+v", got[1])
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	fs, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	src := newSession(t)
	mustCommit(t, src, "A", roomInputs("Hall", "0"))
	if _, err := src.Connect("A", "B", "6"); err != nil {
		t.Fatal(err)
	}
	path, err := src.Export(ctx, fs, "campus")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if path != "campus.grser" {
		t.Fatalf("path = %q, want campus.grser", path)
	}

	dst := newSession(t)
	mustCommit(t, dst, "A", roomInputs("Old hall", "2"))
	mustCommit(t, dst, "C", roomInputs("Cafe", "0"))
	res, err := dst.Import(ctx, fs, "campus.grser")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Nodes != 2 || res.Edges != 1 {
		t.Fatalf("ImportResult = %+v", res)
	}
	if len(dst.List()) != 3 {
		t.Fatalf("List = %+v, want A, C, B", dst.List())
	}
	views, _ := dst.Fields("A")
	if views[0].Value != "Hall" {
		t.Fatalf("A name = %q, want imported Hall", views[0].Value)
	}
	nb, _ := dst.Neighbors("A")
	if len(nb) != 1 || nb[0].ID != "B" || nb[0].Weight != 6 {
		t.Fatalf("Neighbors(A) = %+v", nb)
	}
}

func TestImport_FailureLeavesGraph(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := storage.NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/bad.grser", []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newSession(t)
	mustCommit(t, s, "A", roomInputs("Hall", "0"))
	if _, err := s.Import(ctx, fs, "bad"); err == nil {
		t.Fatal("Import of garbage should fail")
	}
	if _, err := s.Import(ctx, fs, "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Import missing = %v, want os.ErrNotExist", err)
	}
	if len(s.List()) != 1 {
		t.Fatalf("List = %+v, want only A", s.List())
	}
}

func TestQuery(t *testing.T) {
	s := newSession(t)
	mustCommit(t, s, "A", roomInputs("Hall", "0"))
	mustCommit(t, s, "B", roomInputs("Lab", "2"))
	if _, err := s.Connect("A", "B", "3"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Query(context.Background(), `[.nodes[] | select(.attrs.floor > 1) | .id]`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Query results = %v", got)
	}
	ids, ok := got[0].([]any)
	if !ok || len(ids) != 1 || ids[0] != "B" {
		t.Fatalf("Query = %v, want [B]", got[0])
	}

	if _, err := s.Query(context.Background(), "[["); err == nil {
		t.Fatal("expected parse error")
	}
}
