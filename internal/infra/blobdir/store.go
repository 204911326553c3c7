package blobdir

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/roach88/journey/internal/domain/blob"
)

// Store keeps downloaded attachments under <dataDir>/blobs/<module_id>/,
// one file per blob. The content_blob row records the returned path.
type Store struct {
	root string
}

func New(dataDir string) *Store {
	return &Store{root: filepath.Join(dataDir, "blobs")}
}

func (s *Store) Save(ctx context.Context, moduleID int64, name string, data []byte) (string, error) {
	dir := filepath.Join(s.root, strconv.FormatInt(moduleID, 10))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", blob.IoErr{Name: name, Cause: err}
	}
	// Base() strips any path components a hostile filename might smuggle in.
	path := filepath.Join(dir, filepath.Base(name))

	// Write-then-rename so a crash mid-download never leaves a torn file at
	// the recorded path.
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", blob.IoErr{Name: name, Cause: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", blob.IoErr{Name: name, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", blob.IoErr{Name: name, Cause: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", blob.IoErr{Name: name, Cause: err}
	}
	return path, nil
}

func (s *Store) Remove(ctx context.Context, moduleID int64, name string) error {
	path := filepath.Join(s.root, strconv.FormatInt(moduleID, 10), filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return blob.IoErr{Name: name, Cause: err}
	}
	return nil
}
