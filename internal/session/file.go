package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FilePersister keeps every blob in <dir>/<key>.json.
type FilePersister struct {
	dir string
}

// NewFilePersister constructs a FilePersister rooted at dir.
func NewFilePersister(dir string) *FilePersister {
	return &FilePersister{dir: dir}
}

func (p *FilePersister) path(key string) string {
	return filepath.Join(p.dir, key+".json")
}

// Load decodes the blob into v. A missing file is not an error.
func (p *FilePersister) Load(key string, v any) (bool, error) {
	b, err := os.ReadFile(p.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Save writes the blob atomically through a temp file.
func (p *FilePersister) Save(key string, v any) error {
	if err := os.MkdirAll(p.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(p.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p.path(key))
}
