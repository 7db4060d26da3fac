package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/matsen/rendimento/internal/dataset"
	"github.com/matsen/rendimento/internal/relgraph"
)

// ReplaceRecords clears the cache and stores records with the fingerprint of
// the file they came from. It runs in one transaction.
func (d *DB) ReplaceRecords(records []dataset.Record, fingerprint string) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (
			seq, year, state, location, dependency, stage,
			approval_rate, failure_rate, dropout_rate,
			approval_count, failure_count, dropout_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing records insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err = stmt.Exec(
			i, r.Year, r.State, r.Location, r.Dependency, r.Stage,
			r.ApprovalRate, r.FailureRate, r.DropoutRate,
			r.ApprovalCount, r.FailureCount, r.DropoutCount,
		)
		if err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	meta := map[string]string{
		metaFingerprint: fingerprint,
		metaRebuiltAt:   time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err = tx.Exec(`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("saving metadata %s: %w", k, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

// SourceFingerprint returns the fingerprint stored by the last
// ReplaceRecords, or "" for an empty cache.
func (d *DB) SourceFingerprint() (string, error) {
	return d.getMeta(metaFingerprint)
}

// RebuiltAt returns when the cache was last rebuilt. The zero time means
// never.
func (d *DB) RebuiltAt() (time.Time, error) {
	v, err := d.getMeta(metaRebuiltAt)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing rebuild time: %w", err)
	}
	return t, nil
}

// IsStale reports whether the cache was built from different content than
// fingerprint describes. An empty cache is always stale.
func (d *DB) IsStale(fingerprint string) (bool, error) {
	stored, err := d.SourceFingerprint()
	if err != nil {
		return true, err
	}
	return stored == "" || stored != fingerprint, nil
}

// CountRecords returns the number of cached records.
func (d *DB) CountRecords() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// whereFilter renders f as a WHERE clause over the records table.
func whereFilter(f dataset.Filter) (string, []interface{}) {
	clause := " WHERE 1=1"
	var args []interface{}

	if f.Year != 0 {
		clause += " AND year = ?"
		args = append(args, f.Year)
	}
	if len(f.States) > 0 {
		clause += " AND state IN (?" + strings.Repeat(", ?", len(f.States)-1) + ")"
		for _, s := range f.States {
			args = append(args, s)
		}
	}
	return clause, args
}

// QueryRecords returns the cached records matching f in file order.
func (d *DB) QueryRecords(f dataset.Filter) ([]dataset.Record, error) {
	where, args := whereFilter(f)
	rows, err := d.db.Query(`SELECT `+selectRecordFields+` FROM records`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// DistinctGraphRows returns the distinct (state, location, dependency)
// triples matching f, ordered by first occurrence. Triples with a blank
// value are left out.
func (d *DB) DistinctGraphRows(f dataset.Filter) ([]relgraph.Row, error) {
	where, args := whereFilter(f)
	query := `SELECT state, location, dependency FROM records` + where + `
		AND state != '' AND location != '' AND dependency != ''
		GROUP BY state, location, dependency
		ORDER BY MIN(seq)`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying graph rows: %w", err)
	}
	defer rows.Close()

	var out []relgraph.Row
	for rows.Next() {
		var r relgraph.Row
		if err := rows.Scan(&r.State, &r.Location, &r.Dependency); err != nil {
			return nil, fmt.Errorf("scanning graph row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]dataset.Record, error) {
	var out []dataset.Record
	for rows.Next() {
		var r dataset.Record
		err := rows.Scan(
			&r.Year, &r.State, &r.Location, &r.Dependency, &r.Stage,
			&r.ApprovalRate, &r.FailureRate, &r.DropoutRate,
			&r.ApprovalCount, &r.FailureCount, &r.DropoutCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
