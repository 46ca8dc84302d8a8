package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes PDF artifacts to the local filesystem. It exists only as a
// development fallback when blob storage is unreachable; production
// deployments fail the submission instead of touching local disk.
type Store struct {
	dir string
}

// NewStore creates the target directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local storage dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the object under its filename and returns the absolute path.
func (s *Store) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write local file: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Open returns a reader for a previously saved file.
func (s *Store) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(filename)))
}
