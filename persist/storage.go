package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Storage reads and writes the serialized document. Load returns nil when
// nothing was saved yet.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
}

// FileStorage keeps the document in a single file. Saves write a temporary
// file first and rename it over the previous one.
type FileStorage struct {
	fs   afero.Fs
	path string
}

func NewFileStorage(fs afero.Fs, path string) *FileStorage {
	return &FileStorage{fs: fs, path: path}
}

func (f *FileStorage) Load(_ context.Context) ([]byte, error) {
	b, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

func (f *FileStorage) Save(_ context.Context, doc []byte) error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, doc, 0o600); err != nil {
		return err
	}
	return f.fs.Rename(tmp, f.path)
}
