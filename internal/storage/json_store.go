package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var validKey = regexp.MustCompile(`^[a-z0-9_-]+$`)

// JSONStore keeps one <key>.json file per document inside a directory.
type JSONStore struct {
	mu     sync.Mutex
	dir    string
	loaded bool
}

func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'trackfit init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", s.dir)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid document key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *JSONStore) GetDocument(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}

	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document %s: %w", key, err)
	}
	return data, nil
}

// PutDocument writes to a temp file and renames it over the old one, so a
// crash mid-write never leaves a truncated document.
func (s *JSONStore) PutDocument(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	path, err := s.path(key)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("document %s is not valid JSON", key)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write document %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write document %s: %w", key, err)
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.dir
}
