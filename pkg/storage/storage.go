// Package storage persists settings, the cached campus modules and the
// history of changes between syncs.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/creditscope/creditscope/pkg/settings"
	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
	now func() time.Time
}

var _ Backend = (*DB)(nil)

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS records (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS modules (
  id            INTEGER PRIMARY KEY,
  full_id       TEXT NOT NULL UNIQUE,
  short_name    TEXT NOT NULL,
  ects          REAL,
  state         TEXT NOT NULL,
  grade         TEXT,
  semester      TEXT NOT NULL,
  run_id        INTEGER NOT NULL DEFAULT 0,
  first_seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS module_changes (
  id          INTEGER PRIMARY KEY,
  occurred_at TEXT NOT NULL,
  full_id     TEXT NOT NULL,
  short_name  TEXT NOT NULL,
  semester    TEXT NOT NULL,
  change_type TEXT NOT NULL CHECK (change_type IN ('added','updated','removed')),
  detail      TEXT
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON module_changes(occurred_at);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db, now: time.Now}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) getRecord(ctx context.Context, key string, v any) error {
	var raw string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM records WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decoding %s record: %w", key, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putRecord(ctx context.Context, db execer, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", key, err)
	}
	_, err = db.ExecContext(ctx, `INSERT INTO records(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, string(raw))
	return err
}

func (d *DB) LoadSettings(ctx context.Context) (settings.Settings, error) {
	var s settings.Settings
	err := d.getRecord(ctx, settingsKey, &s)
	return s, err
}

func (d *DB) SaveSettings(ctx context.Context, s settings.Settings) error {
	return putRecord(ctx, d.sql, settingsKey, s)
}

// LoadLocal returns the last sync result. The module list comes from the
// modules table, everything else from the local record.
func (d *DB) LoadLocal(ctx context.Context) (settings.LocalData, error) {
	var data settings.LocalData
	if err := d.getRecord(ctx, localKey, &data); err != nil {
		return settings.LocalData{}, err
	}
	modules, err := listModules(ctx, d.sql)
	if err != nil {
		return settings.LocalData{}, err
	}
	data.Modules = modules
	return data, nil
}

func (d *DB) SaveLocal(ctx context.Context, data settings.LocalData) error {
	_, err := d.ReplaceLocal(ctx, data)
	return err
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listModules(ctx context.Context, db querier) ([]module.Module, error) {
	rows, err := db.QueryContext(ctx, "SELECT full_id, short_name, ects, state, grade, semester FROM modules ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []module.Module
	for rows.Next() {
		var (
			m                module.Module
			ects             sql.NullFloat64
			grade            sql.NullString
			stateStr, semStr string
		)
		if err := rows.Scan(&m.FullID, &m.ShortName, &ects, &stateStr, &grade, &semStr); err != nil {
			return nil, err
		}
		if ects.Valid {
			m.ECTS = module.ECTS(ects.Float64)
		}
		if grade.Valid {
			m.Grade = module.Grade(grade.String)
		}
		if m.State, err = module.ParseState(stateStr); err != nil {
			return nil, fmt.Errorf("module %s: %w", m.FullID, err)
		}
		if m.Semester, err = semester.Parse(semStr); err != nil {
			return nil, fmt.Errorf("module %s: %w", m.FullID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ReplaceLocal stores data as the latest sync result. Modules missing from
// data are swept and every difference is logged to module_changes.
func (d *DB) ReplaceLocal(ctx context.Context, data settings.LocalData) ([]Change, error) {
	now := d.now().UTC()
	runID := now.UnixNano()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	prev, err := listModules(ctx, tx)
	if err != nil {
		return nil, err
	}
	changes := DiffModules(prev, data.Modules, now)

	for _, m := range data.Modules {
		_, err = tx.ExecContext(ctx, `INSERT INTO modules(full_id, short_name, ects, state, grade, semester, run_id, first_seen_at, last_seen_at)
VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
ON CONFLICT(full_id) DO UPDATE SET short_name = excluded.short_name, ects = excluded.ects, state = excluded.state,
  grade = excluded.grade, semester = excluded.semester, run_id = excluded.run_id, last_seen_at = CURRENT_TIMESTAMP`,
			m.FullID, m.ShortName, nullFloat(m.ECTS), m.State.String(), nullString(m.Grade), m.Semester.String(), runID)
		if err != nil {
			return nil, err
		}
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM modules WHERE run_id != ?", runID); err != nil {
		return nil, err
	}

	for _, c := range changes {
		_, err = tx.ExecContext(ctx, `INSERT INTO module_changes(occurred_at, full_id, short_name, semester, change_type, detail) VALUES(?,?,?,?,?,?)`,
			c.OccurredAt.Format(time.RFC3339Nano), c.FullID, c.ShortName, c.Semester, c.ChangeType, nullIfEmpty(c.Detail))
		if err != nil {
			return nil, err
		}
	}

	meta := data
	meta.Modules = nil
	if err = putRecord(ctx, tx, localKey, meta); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

// RecentChanges returns the most recent changes, newest first.
func (d *DB) RecentChanges(ctx context.Context, limit int) ([]Change, error) {
	q := "SELECT occurred_at, full_id, short_name, semester, change_type, detail FROM module_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, changeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var (
			c             Change
			occurredAtStr string
			detail        sql.NullString
		)
		if err := rows.Scan(&occurredAtStr, &c.FullID, &c.ShortName, &c.Semester, &c.ChangeType, &detail); err != nil {
			return nil, err
		}
		c.OccurredAt = parseTimestamp(occurredAtStr)
		c.Detail = detail.String
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

// GetStats groups the synced modules by state.
func (d *DB) GetStats(ctx context.Context) ([]StateStats, error) {
	query := `
		SELECT
			state,
			COUNT(*),
			COALESCE(SUM(ects), 0)
		FROM
			modules
		GROUP BY
			state
		ORDER BY
			state;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []StateStats
	for rows.Next() {
		var s StateStats
		if err := rows.Scan(&s.State, &s.Modules, &s.ECTS); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// parseTimestamp accepts RFC 3339 and the CURRENT_TIMESTAMP layout.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
