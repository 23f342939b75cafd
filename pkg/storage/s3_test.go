package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/auftraggeber/WHZ-graph-builder/pkg/storage"
)

type apiError struct {
	code string
}

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// mockS3 is an in-memory bucket. List pages hold at most pageSize keys.
type mockS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	pageSize int
	putErr   error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte), pageSize: 2}
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (m *mockS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) && k > aws.ToString(in.ContinuationToken) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{}
	if len(keys) > m.pageSize {
		keys = keys[:m.pageSize]
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[len(keys)-1])
	}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func put(t *testing.T, s storage.FileStore, path, data string) {
	t.Helper()
	w, err := s.Write(context.Background(), path)
	if err != nil {
		t.Fatalf("Write(%s): %v", path, err)
	}
	if _, err := io.WriteString(w, data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close(%s): %v", path, err)
	}
}

func TestS3_WriteRead(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	s := storage.NewS3(mock, "bucket", "graphs")

	w, err := s.Write(ctx, "a.grser")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "data")
	if len(mock.objects) != 0 {
		t.Fatal("nothing should be uploaded before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := mock.objects["graphs/a.grser"]; !ok {
		t.Fatalf("objects = %v, want graphs/a.grser", mock.objects)
	}

	r, err := s.Read(ctx, "a.grser")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	data, _ := io.ReadAll(r)
	r.Close()
	if string(data) != "data" {
		t.Fatalf("Read = %q, want data", data)
	}
	if ok, err := s.Exists(ctx, "a.grser"); !ok || err != nil {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if err := s.Delete(ctx, "a.grser"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "a.grser"); ok {
		t.Fatal("a.grser should be gone")
	}
}

func TestS3_ReadMissing(t *testing.T) {
	s := storage.NewS3(newMockS3(), "bucket", "")
	if _, err := s.Read(context.Background(), "x.grser"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read = %v, want os.ErrNotExist", err)
	}
}

func TestS3_FailedUpload(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("boom")
	s := storage.NewS3(mock, "bucket", "")
	w, err := s.Write(context.Background(), "a.grser")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "data")
	if err := w.Close(); err == nil {
		t.Fatal("Close should report the upload error")
	}
	if len(mock.objects) != 0 {
		t.Fatal("failed upload left an object")
	}
}

func TestS3_ListPages(t *testing.T) {
	mock := newMockS3()
	s := storage.NewS3(mock, "bucket", "graphs")
	for _, name := range []string{"c.grser", "a.grser", "notes.txt", "b.grser", "d.grser"} {
		put(t, s, name, name)
	}
	mock.objects["elsewhere/e.grser"] = nil

	got, err := s.List(context.Background(), ".grser")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"a.grser", "b.grser", "c.grser", "d.grser"}
	if !slices.Equal(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
}
