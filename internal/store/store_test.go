package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tapdrill/internal/model"
	"github.com/verte-zerg/tapdrill/internal/stats"
)

func sampleProgress() stats.Progress {
	base := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return stats.Progress{Results: []stats.TestResult{
		{WPM: 41.25, Accuracy: 96.5, Timestamp: base, DurationSecs: 31, CharErrors: stats.CharCounts{'e': 2, 't': 1}},
		{WPM: 55, Accuracy: 100, Timestamp: base.Add(time.Hour), DurationSecs: 18, CharErrors: stats.CharCounts{}},
		{WPM: 47.5, Accuracy: 92, Timestamp: base.Add(2 * time.Hour), DurationSecs: 25, CharErrors: stats.CharCounts{';': 3}},
	}}
}

func openBackends(t *testing.T) map[string]HistoryStore {
	t.Helper()
	dir := t.TempDir()
	jsonStore, err := Open(model.StorageJSON, filepath.Join(dir, "nested", "progress.json"))
	require.NoError(t, err)
	sqliteStore, err := Open(model.StorageSQLite, filepath.Join(dir, "db", "tapdrill.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = jsonStore.Close()
		_ = sqliteStore.Close()
	})
	return map[string]HistoryStore{"json": jsonStore, "sqlite": sqliteStore}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := st.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty.Results)

			want := sampleProgress()
			require.NoError(t, st.Save(ctx, want))
			got, err := st.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// A second save replaces rather than appends.
			want.Append(stats.TestResult{WPM: 60, Accuracy: 99, Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), DurationSecs: 9, CharErrors: stats.CharCounts{'x': 1}})
			require.NoError(t, st.Save(ctx, want))
			got, err = st.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestClearLeavesLoadedCopyAlone(t *testing.T) {
	ctx := context.Background()
	for name, st := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Save(ctx, sampleProgress()))
			loaded, err := st.Load(ctx)
			require.NoError(t, err)

			require.NoError(t, st.Clear(ctx))
			assert.Len(t, loaded.Results, 3)

			after, err := st.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, after.Results)

			require.NoError(t, st.Clear(ctx), "clearing twice is fine")
		})
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	st := NewJSONStore(path)

	p, err := st.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, p.Results)

	logger, hook := logtest.NewNullLogger()
	loaded := LoadOrEmpty(context.Background(), st, logger)
	require.NotNil(t, loaded)
	assert.Equal(t, 0, loaded.Len())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestJSONStoreSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	st := NewJSONStore(filepath.Join(blocker, "progress.json"))
	assert.Error(t, st.Save(context.Background(), sampleProgress()))
}

func TestJSONStoreLegacyRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	legacy := `{"results":[{"wpm":12.5,"accuracy":80,"timestamp":"2022-02-02T02:02:02Z","duration_secs":40}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	p, err := NewJSONStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, p.Results, 1)
	assert.Equal(t, stats.CharCounts{}, p.Results[0].CharErrors)
}

func TestJSONStoreMultiRuneKeyIsUnparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	bad := `{"results":[{"wpm":50,"accuracy":90,"timestamp":"2022-02-02T02:02:02Z","duration_secs":40,"char_errors":{"ab":7}}]}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
	st := NewJSONStore(path)

	_, err := st.Load(context.Background())
	require.Error(t, err)

	logger, hook := logtest.NewNullLogger()
	loaded := LoadOrEmpty(context.Background(), st, logger)
	assert.Equal(t, 0, loaded.Len())
	assert.Empty(t, loaded.WeakestChars(10))
	require.NotNil(t, hook.LastEntry())
}

func TestOpenUnknownStorage(t *testing.T) {
	_, err := Open("postgres", "ignored")
	assert.Error(t, err)
}
