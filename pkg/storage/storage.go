// Package storage is where exported graph blobs live: a local directory or an
// S3-compatible bucket. Writes are all-or-nothing; a blob becomes visible only
// once its writer is closed without error.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidPath is returned for paths that leave the store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// FileStore reads and writes named blobs. Paths are slash separated and
// relative to the store root. Implementations are safe for concurrent use.
type FileStore interface {
	// Read opens the named blob. A missing blob yields an error wrapping
	// os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write returns a writer for the named blob. Nothing is visible to
	// readers until Close returns nil; a failed Close leaves any previous
	// blob in place.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named blob exists.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the paths of all blobs whose name ends with suffix, sorted.
	List(ctx context.Context, suffix string) ([]string, error)
}

// S3Config holds the connection settings for S3 locations.
type S3Config struct {
	Endpoint        string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Region          string `yaml:"region,omitempty" json:"region,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`
	PathStyle       bool   `yaml:"path_style,omitempty" json:"path_style,omitempty"`
}

// Open resolves a location to a store: "s3://bucket/prefix" opens a bucket
// with cfg, anything else is a local directory.
func Open(_ context.Context, location string, cfg S3Config) (FileStore, error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return NewLocal(location)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, fmt.Errorf("storage: %q has no bucket", location)
	}
	return NewS3(NewS3Client(cfg), bucket, strings.Trim(prefix, "/")), nil
}
