package storage

import (
	"database/sql"
	"time"

	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

// ListRuns returns a lightweight list of runs with finding counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.source, r.engine_version, r.incomplete,
		       (SELECT COUNT(1) FROM findings f WHERE f.run_id = r.id) AS findings
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAt string
		var incomplete int
		if err := rows.Scan(&rr.ID, &startedAt, &rr.Source, &rr.EngineVersion, &incomplete, &rr.Findings); err != nil {
			return nil, err
		}
		rr.Incomplete = incomplete != 0
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAt); err2 == nil {
			rr.StartedAt = t2
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListFindings returns findings for a run at or above a minimum severity
// score, in the report's canonical order.
func (db *DB) ListFindings(runID string, minSeverity int) ([]model.Finding, error) {
	const q = `
		SELECT rule_id, category, severity, band, unit, line, excerpt, rationale, anomaly
		  FROM findings
		 WHERE run_id = ? AND severity >= ?
		 ORDER BY severity DESC, unit, line, rule_id`
	rows, err := db.conn.Query(q, runID, minSeverity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Finding
	for rows.Next() {
		var f model.Finding
		var cat, band string
		var anomaly int
		if err := rows.Scan(&f.RuleID, &cat, &f.Severity, &band, &f.Unit, &f.Line, &f.Excerpt, &f.Rationale, &anomaly); err != nil {
			return nil, err
		}
		f.Category = model.Category(cat)
		f.Band = model.Band(band)
		f.Anomaly = anomaly != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

// HasRun reports whether a run exists.
func (db *DB) HasRun(id string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM runs WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
