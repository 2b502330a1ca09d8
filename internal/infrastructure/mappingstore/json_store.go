package mappingstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONStore keeps learned mappings as one {"ocr name": "catalog id"} document
type JSONStore struct {
	path string
}

// NewJSONStore creates a store for the document at path
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the document. A missing file is an empty mapping set.
func (s *JSONStore) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	mappings := map[string]string{}
	if len(data) == 0 {
		return mappings, nil
	}
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return mappings, nil
}

// Save overwrites the document with mappings via a temp file and rename
func (s *JSONStore) Save(ctx context.Context, mappings map[string]string) error {
	data, err := json.MarshalIndent(mappings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mappings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
