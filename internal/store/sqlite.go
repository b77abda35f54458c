package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/tapdrill/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps the history in an SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	st := &SQLiteStore{db: db}
	if err := st.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return st, nil
}

// Close implements HistoryStore.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			timestamp TEXT NOT NULL,
			duration_secs INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_char_errors (
			result_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			errors INTEGER NOT NULL,
			PRIMARY KEY (result_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_result_char_errors_char ON result_char_errors(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load implements HistoryStore. Results come back in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) (stats.Progress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, wpm, accuracy, timestamp, duration_secs FROM results ORDER BY id ASC`)
	if err != nil {
		return stats.Progress{}, fmt.Errorf("query results: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var ids []int64
	results := []stats.TestResult{}
	for rows.Next() {
		var (
			id        int64
			r         stats.TestResult
			timestamp string
		)
		if err := rows.Scan(&id, &r.WPM, &r.Accuracy, &timestamp, &r.DurationSecs); err != nil {
			return stats.Progress{}, fmt.Errorf("scan result: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return stats.Progress{}, fmt.Errorf("parse timestamp %q: %w", timestamp, err)
		}
		r.Timestamp = parsed
		r.CharErrors = stats.CharCounts{}
		ids = append(ids, id)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return stats.Progress{}, fmt.Errorf("iterate results: %w", err)
	}

	errs, err := s.loadCharErrors(ctx)
	if err != nil {
		return stats.Progress{}, err
	}
	for i, id := range ids {
		if counts, ok := errs[id]; ok {
			results[i].CharErrors = counts
		}
	}
	return stats.Progress{Results: results}, nil
}

func (s *SQLiteStore) loadCharErrors(ctx context.Context) (map[int64]stats.CharCounts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT result_id, char, errors FROM result_char_errors`)
	if err != nil {
		return nil, fmt.Errorf("query char errors: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	out := map[int64]stats.CharCounts{}
	for rows.Next() {
		var (
			id    int64
			ch    string
			count int
		)
		if err := rows.Scan(&id, &ch, &count); err != nil {
			return nil, fmt.Errorf("scan char error: %w", err)
		}
		r, err := stats.ParseCharKey(ch)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", id, err)
		}
		if _, ok := out[id]; !ok {
			out[id] = stats.CharCounts{}
		}
		out[id][r] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate char errors: %w", err)
	}
	return out, nil
}

// Save implements HistoryStore by rewriting both tables in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, p stats.Progress) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if err = clearTables(ctx, tx); err != nil {
		return err
	}

	resultStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (id, wpm, accuracy, timestamp, duration_secs) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer func() {
		if cerr := resultStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	charStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO result_char_errors (result_id, char, errors) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare char insert: %w", err)
	}
	defer func() {
		if cerr := charStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for i, r := range p.Results {
		id := int64(i + 1)
		if _, err = resultStmt.ExecContext(ctx, id, r.WPM, r.Accuracy,
			r.Timestamp.UTC().Format(time.RFC3339Nano), r.DurationSecs); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
		for _, ch := range lo.Keys(r.CharErrors) {
			if _, err = charStmt.ExecContext(ctx, id, string(ch), r.CharErrors[ch]); err != nil {
				return fmt.Errorf("insert char error: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}

// Clear implements HistoryStore by deleting every stored result.
func (s *SQLiteStore) Clear(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err = clearTables(ctx, tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			// Best-effort rollback.
			_ = rerr
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{`DELETE FROM result_char_errors`, `DELETE FROM results`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}
	return nil
}
