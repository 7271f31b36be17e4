// Package storage owns the placement and naming of stored file content.
// Backends are interchangeable: the catalog and the thumbnail worker only
// see the Store interface.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("content not found")

type Store interface {
	// Write persists data under a freshly generated collision-resistant
	// name and returns the resulting path.
	Write(ctx context.Context, data []byte) (string, error)
	// Put persists data at an explicit path. Derivatives use this with a
	// path produced by DerivativePath.
	Put(ctx context.Context, path string, data []byte) error
	// Read returns the content at path, ErrNotFound when it does not
	// exist (including derivative widths that were never generated).
	Read(ctx context.Context, path string) ([]byte, error)
	// DerivativePath is the deterministic name of the resized variant of
	// the content at path.
	DerivativePath(path string, width int) string
}

func derivativePath(path string, width int) string {
	return fmt.Sprintf("%s_%d", path, width)
}

// FromConfig builds the Store named by backend: "disk" (default) or
// "minio".
func FromConfig(ctx context.Context, backend, folderPath string, cfg MinIOConfig) (Store, error) {
	switch backend {
	case "", "disk":
		return NewDisk(folderPath), nil
	case "minio":
		return NewMinIO(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
