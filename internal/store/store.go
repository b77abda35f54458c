// Package store persists session history.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tapdrill/internal/model"
	"github.com/verte-zerg/tapdrill/internal/stats"
)

// HistoryStore loads and saves the whole session history at once.
type HistoryStore interface {
	// Load returns the persisted history. A missing history is empty, not an error.
	// On read or decode failure it returns an empty history together with the error.
	Load(ctx context.Context) (stats.Progress, error)
	// Save replaces the persisted history with p.
	Save(ctx context.Context, p stats.Progress) error
	// Clear removes the persisted history. Loaded copies are left untouched.
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the backend named by kind ("json" or "sqlite") rooted at path.
func Open(kind, path string) (HistoryStore, error) {
	switch kind {
	case "", model.StorageJSON:
		return NewJSONStore(path), nil
	case model.StorageSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}

// LoadOrEmpty loads the history, logging and discarding any failure.
func LoadOrEmpty(ctx context.Context, st HistoryStore, logger logrus.FieldLogger) *stats.Progress {
	p, err := st.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("failed to load history; starting fresh")
		p = stats.Progress{}
	}
	p.Normalize()
	return &p
}
