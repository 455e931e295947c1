// Package storage abstracts the backing store for uploaded files so handlers
// and services never touch the filesystem or an object-store client directly.
// Two backends exist: a flat local directory (the default) and an
// S3-compatible bucket (MinIO-supported).
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotExist is returned when the named object is absent from the backend.
var ErrNotExist = errors.New("object does not exist")

// PutObjectOptions define optional parameters for storing objects.
// Size should be the exact number of bytes if known. ContentType and
// Metadata are optional; backends persist Metadata on a best-effort basis
// (user metadata on object stores, a JSON sidecar on local disk).
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Name         string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the backing-store seam. All uploads live in a single flat
// namespace; names are `{id}.{ext}` where id is a generated UUID.
type Storage interface {
	// Put stores an object under the given name using the provided reader.
	Put(ctx context.Context, name string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error)
	// List returns info for every stored object. A backend that has never
	// been written to reports an empty listing, not an error.
	List(ctx context.Context) ([]ObjectInfo, error)
	// Delete removes an object by name.
	Delete(ctx context.Context, name string) error
}
