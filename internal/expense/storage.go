package expense

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage persists per-request debug artifacts: the uploaded image and the
// visualization summary. Artifacts are never reclaimed automatically.
type Storage interface {
	// Save writes a file and returns its full path.
	Save(filename string, data []byte) (string, error)

	// Path returns the full path an artifact with this name would have.
	Path(filename string) string
}

// DebugStorage implements Storage on a local debug directory.
type DebugStorage struct {
	basePath string
}

// NewDebugStorage creates the debug directory if needed.
func NewDebugStorage(basePath string) (*DebugStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating debug directory: %w", err)
	}
	return &DebugStorage{basePath: basePath}, nil
}

// Save writes a file into the debug directory.
func (d *DebugStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(d.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return path, nil
}

// Path returns the full path for an artifact name.
func (d *DebugStorage) Path(filename string) string {
	return filepath.Join(d.basePath, filename)
}
