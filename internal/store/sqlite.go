package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps statistics records in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, err
	}
	st := &SQLiteStore{db: db, logger: logger}
	if err := st.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS statistics (
			position INTEGER PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			exercises_count INTEGER NOT NULL,
			average_ms REAL NOT NULL,
			min_ms REAL NOT NULL,
			max_ms REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS store_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			version INTEGER NOT NULL
		);`,
		`INSERT OR IGNORE INTO store_meta (id, version) VALUES (1, 0);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReadStore returns every record in insertion order.
func (s *SQLiteStore) ReadStore(ctx context.Context) (model.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && rerr != sql.ErrTxDone {
			// Best-effort rollback; the read transaction never writes.
			_ = rerr
		}
	}()

	var snapshot model.Snapshot
	if err := tx.QueryRowContext(ctx, `SELECT version FROM store_meta WHERE id = 1`).Scan(&snapshot.Version); err != nil {
		return model.Snapshot{}, err
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT key, exercises_count, average_ms, min_ms, max_ms
		 FROM statistics
		 ORDER BY position ASC`)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var rec model.Record
		if err := rows.Scan(&rec.Key, &rec.Count, &rec.AverageMs, &rec.MinMs, &rec.MaxMs); err != nil {
			return model.Snapshot{}, err
		}
		snapshot.Records = append(snapshot.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return model.Snapshot{}, err
	}
	return snapshot, nil
}

// WriteStore replaces all records in one transaction if the stored version
// still matches snapshot.Version.
func (s *SQLiteStore) WriteStore(ctx context.Context, snapshot model.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var version uint64
	if err = tx.QueryRowContext(ctx, `SELECT version FROM store_meta WHERE id = 1`).Scan(&version); err != nil {
		return err
	}
	if version != snapshot.Version {
		err = fmt.Errorf("%w: database at version %d, snapshot at %d", stats.ErrVersionConflict, version, snapshot.Version)
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM statistics`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO statistics (position, key, exercises_count, average_ms, min_ms, max_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, rec := range snapshot.Records {
		if _, err = stmt.ExecContext(ctx, i, rec.Key, rec.Count, rec.AverageMs, rec.MinMs, rec.MaxMs); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `UPDATE store_meta SET version = ? WHERE id = 1`, snapshot.Version+1); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("statistics database written", zap.Uint64("version", snapshot.Version+1), zap.Int("records", len(snapshot.Records)))
	return nil
}
