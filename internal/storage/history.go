// Package storage persists finished test runs into a local sqlite file.
package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	_ "modernc.org/sqlite"

	vsmac "github.com/sunitjoshi/VSMac"
	"github.com/sunitjoshi/VSMac/internal/config"
)

const (
	defaultDBDirName  = ".droidtest"
	defaultDBFileName = "history.sqlite"
)

const historySchema = `CREATE TABLE IF NOT EXISTS test_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	device_serial TEXT NOT NULL,
	locale TEXT NOT NULL,
	runner TEXT NOT NULL,
	test_binary TEXT NOT NULL,
	category_filter TEXT NOT NULL,
	did_run INTEGER NOT NULL,
	total INTEGER NOT NULL,
	errors INTEGER NOT NULL,
	failures INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	diagnostics TEXT NOT NULL
)`

// History records run outcomes. It implements vsmac.RunRecorder.
type History struct {
	db *sql.DB
}

// DefaultPath resolves the history database location, preferring
// $DROIDTEST_DB_PATH over ./.droidtest/history.sqlite.
func DefaultPath() string {
	fallback := filepath.Join(defaultDBDirName, defaultDBFileName)
	return config.String(vsmac.EnvHistoryDBPath, fallback)
}

// Open opens (creating if needed) the history database at path and ensures
// its schema.
func Open(path string) (*History, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, pkgerrors.Wrapf(err, "storage: create history dir %s", dir)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "storage: open history db")
	}
	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, pkgerrors.Wrap(err, "storage: ensure history schema")
	}
	return &History{db: db}, nil
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// RecordRun inserts one finished run.
func (h *History) RecordRun(ctx context.Context, rec vsmac.RunRecord) error {
	if h == nil || h.db == nil {
		return pkgerrors.New("storage: history not open")
	}
	_, err := h.db.ExecContext(ctx, `INSERT INTO test_runs
		(started_at, device_serial, locale, runner, test_binary, category_filter,
		 did_run, total, errors, failures, elapsed_ms, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UTC().Format(time.RFC3339),
		rec.Serial, rec.Locale, rec.Runner, rec.TestBinary, rec.Filter,
		boolToInt(rec.DidRun), rec.Total, rec.Errors, rec.Failures,
		rec.Elapsed.Milliseconds(), rec.Diagnostics)
	return pkgerrors.Wrap(err, "storage: insert test run")
}

// Recent returns up to limit runs, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]vsmac.RunRecord, error) {
	if h == nil || h.db == nil {
		return nil, pkgerrors.New("storage: history not open")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx, `SELECT started_at, device_serial, locale,
		runner, test_binary, category_filter, did_run, total, errors, failures,
		elapsed_ms, diagnostics
		FROM test_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "storage: query test runs")
	}
	defer rows.Close()

	var out []vsmac.RunRecord
	for rows.Next() {
		var (
			rec       vsmac.RunRecord
			startedAt string
			didRun    int
			elapsedMS int64
		)
		if err := rows.Scan(&startedAt, &rec.Serial, &rec.Locale, &rec.Runner,
			&rec.TestBinary, &rec.Filter, &didRun, &rec.Total, &rec.Errors,
			&rec.Failures, &elapsedMS, &rec.Diagnostics); err != nil {
			return nil, pkgerrors.Wrap(err, "storage: scan test run")
		}
		if ts, err := time.Parse(time.RFC3339, startedAt); err == nil {
			rec.Timestamp = ts
		}
		rec.DidRun = didRun != 0
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		out = append(out, rec)
	}
	return out, pkgerrors.Wrap(rows.Err(), "storage: iterate test runs")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
