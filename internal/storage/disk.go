package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Disk is the reference Store backed by a local directory.
type Disk struct {
	root string
}

func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

func (d *Disk) Write(_ context.Context, data []byte) (string, error) {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir %q: %w", d.root, err)
	}
	path := filepath.Join(d.root, uuid.NewString())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write content: %w", err)
	}
	return path, nil
}

func (d *Disk) Put(_ context.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write content at %q: %w", path, err)
	}
	return nil
}

func (d *Disk) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read content at %q: %w", path, err)
	}
	return data, nil
}

func (d *Disk) DerivativePath(path string, width int) string {
	return derivativePath(path, width)
}
