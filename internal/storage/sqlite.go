package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures all tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id             TEXT PRIMARY KEY,
  started_at     TEXT,          -- RFC3339
  source         TEXT,
  engine_version TEXT,
  incomplete     INTEGER NOT NULL DEFAULT 0,
  run_json       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
  run_id    TEXT NOT NULL,
  rule_id   TEXT,
  category  TEXT,
  severity  INTEGER,
  band      TEXT,
  unit      TEXT,
  line      INTEGER,
  excerpt   TEXT,
  rationale TEXT,
  anomaly   INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
CREATE INDEX IF NOT EXISTS idx_findings_category ON findings(category);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);
`)
	return err
}

// SaveRun upserts the run JSON and (re)writes its finding rows.
func (db *DB) SaveRun(run *model.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	incomplete := 0
	if run.Report.Incomplete {
		incomplete = 1
	}
	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, source, engine_version, incomplete, run_json)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, source=excluded.source,
           engine_version=excluded.engine_version, incomplete=excluded.incomplete, run_json=excluded.run_json`,
		run.ID, ts, run.Source, run.EngineVersion, incomplete, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM findings WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Report.Findings) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO findings
			(run_id, rule_id, category, severity, band, unit, line, excerpt, rationale, anomaly)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, f := range run.Report.Findings {
			anomaly := 0
			if f.Anomaly {
				anomaly = 1
			}
			if _, err := stmt.Exec(
				run.ID, f.RuleID, string(f.Category), f.Severity, string(f.Band),
				f.Unit, f.Line, f.Excerpt, f.Rationale, anomaly,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full run from its stored JSON.
func (db *DB) LoadRun(id string) (model.Run, error) {
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return model.Run{}, err
	}
	var run model.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

// LoadLatestRun returns the most recently started run.
func (db *DB) LoadLatestRun() (model.Run, error) {
	var id string
	row := db.conn.QueryRow(`SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	if err := row.Scan(&id); err != nil {
		return model.Run{}, err
	}
	return db.LoadRun(id)
}
