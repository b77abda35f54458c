package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/verte-zerg/tapdrill/internal/stats"
)

// JSONStore keeps the history in a single JSON document.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load implements HistoryStore.
func (s *JSONStore) Load(_ context.Context) (stats.Progress, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats.Progress{Results: []stats.TestResult{}}, nil
		}
		return stats.Progress{}, fmt.Errorf("read history: %w", err)
	}
	var p stats.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return stats.Progress{}, fmt.Errorf("decode history %s: %w", s.path, err)
	}
	p.Normalize()
	return p, nil
}

// Save implements HistoryStore. The file is replaced atomically.
func (s *JSONStore) Save(_ context.Context, p stats.Progress) error {
	p.Normalize()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "progress-*.json")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Clear implements HistoryStore by deleting the file.
func (s *JSONStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

// Close implements HistoryStore.
func (s *JSONStore) Close() error {
	return nil
}
