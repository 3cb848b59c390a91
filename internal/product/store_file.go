package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var emptyCollection = []byte("[]")

// FileStore keeps the collection as one pretty-printed JSON array.
type FileStore struct {
	path string
}

// NewFileStore creates the data directory and an empty collection if the
// file does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrStorageWrite, err)
	}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.WriteFile(path, emptyCollection, filePerm); err != nil {
			return nil, fmt.Errorf("%w: init store file: %v", ErrStorageWrite, err)
		}
	case err != nil:
		return nil, fmt.Errorf("%w: stat store file: %v", ErrStorageRead, err)
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) ReadAll(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	var out []Product
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorageRead, s.path, err)
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

// WriteAll goes through a temp file and a rename so a reader never sees a
// half-written array.
func (s *FileStore) WriteAll(ctx context.Context, products []Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if products == nil {
		products = []Product{}
	}

	raw, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorageWrite, err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", s.path, uuid.NewString())
	if err := os.WriteFile(tmp, raw, filePerm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

func (s *FileStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		if _, err := os.Stat(s.path); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageRead, err)
		}
		return ctx.Err()
	})
}

func (s *FileStore) Close() error { return nil }
