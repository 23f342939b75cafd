package storage_test

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"testing"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/storage"
)

func TestLocal_WriteRead(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	w, err := s.Write(ctx, "campus/main.grser")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write([]byte("blob")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "campus/main.grser"); ok {
		t.Fatal("blob should not be visible before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := s.Read(ctx, "campus/main.grser")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "blob" {
		t.Fatalf("Read = %q, want %q", data, "blob")
	}

	names, err := s.List(ctx, ".grser")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(names, []string{"campus/main.grser"}) {
		t.Fatalf("List = %v", names)
	}
}

func TestLocal_Missing(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Read(ctx, "nope.grser"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read = %v, want os.ErrNotExist", err)
	}
	if err := s.Delete(ctx, "nope.grser"); err != nil {
		t.Fatalf("Delete missing = %v, want nil", err)
	}
	if ok, err := s.Exists(ctx, "nope.grser"); ok || err != nil {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
}

func TestLocal_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"../x.grser", "/etc/passwd", ""} {
		if _, err := s.Write(ctx, p); !errors.Is(err, storage.ErrInvalidPath) {
			t.Errorf("Write(%q) = %v, want ErrInvalidPath", p, err)
		}
	}
}

func TestOpen_Local(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.Open(context.Background(), dir, storage.S3Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if l, ok := fs.(*storage.Local); !ok || l.Root() == "" {
		t.Fatalf("Open(%q) = %T, want *storage.Local", dir, fs)
	}
}

func TestOpen_S3(t *testing.T) {
	fs, err := storage.Open(context.Background(), "s3://graphs/campus", storage.S3Config{Endpoint: "http://localhost:9000", PathStyle: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := fs.(*storage.S3Store); !ok {
		t.Fatalf("Open = %T, want *storage.S3Store", fs)
	}
	if _, err := storage.Open(context.Background(), "s3://", storage.S3Config{}); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}
