package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirSink writes extracted files under a root directory, creating
// intermediate directories as needed.
type DirSink struct {
	root string
}

// NewDirSink creates the output root (if missing) and returns a sink over it.
func NewDirSink(root string) (*DirSink, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &DirSink{root: root}, nil
}

// Root returns the sink's root directory.
func (d *DirSink) Root() string {
	return d.root
}

// WriteFile writes data to root/name.
func (d *DirSink) WriteFile(name string, data []byte) error {
	path := filepath.Join(d.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
