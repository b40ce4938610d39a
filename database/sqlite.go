package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shopclock/models"

	_ "modernc.org/sqlite"
)

const sqliteSchemaVersion = 1

// SQLiteRepository stores the collections in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the SQLite database at path and runs migrations.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

// NewSQLiteMemory creates an in-memory store for testing.
func NewSQLiteMemory() (*SQLiteRepository, error) {
	return NewSQLiteRepository(":memory:")
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) migrate() error {
	var version int
	if err := r.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= sqliteSchemaVersion {
		return nil
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS time_entries (
		id                     TEXT PRIMARY KEY,
		technician_id          TEXT NOT NULL,
		technician_name        TEXT NOT NULL DEFAULT '',
		clock_in_time          TEXT NOT NULL,
		clock_out_time         TEXT,
		break_duration_minutes INTEGER NOT NULL DEFAULT 0,
		total_hours            REAL,
		status                 TEXT NOT NULL,
		notes                  TEXT NOT NULL DEFAULT '',
		associated_repair_ids  TEXT NOT NULL DEFAULT '[]',
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_technician ON time_entries(technician_id);
	CREATE INDEX IF NOT EXISTS idx_entries_clock_in   ON time_entries(clock_in_time);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_per_technician
		ON time_entries(technician_id) WHERE status = 'active';

	CREATE TABLE IF NOT EXISTS time_adjustments (
		id                      TEXT PRIMARY KEY,
		time_entry_id           TEXT NOT NULL,
		adjusted_by             TEXT NOT NULL,
		previous_clock_in       TEXT NOT NULL,
		new_clock_in            TEXT NOT NULL,
		previous_clock_out      TEXT,
		new_clock_out           TEXT,
		previous_break_duration INTEGER NOT NULL,
		new_break_duration      INTEGER NOT NULL,
		reason                  TEXT NOT NULL,
		timestamp               TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjustments_entry ON time_adjustments(time_entry_id);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return err
	}
	_, err := r.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion))
	return err
}

func (r *SQLiteRepository) LoadTimeEntries(ctx context.Context) ([]models.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, technician_id, technician_name, clock_in_time, clock_out_time,
		       break_duration_minutes, total_hours, status, notes, associated_repair_ids,
		       created_at, updated_at
		FROM time_entries ORDER BY clock_in_time, id`)
	if err != nil {
		return nil, fmt.Errorf("load time entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		var e models.TimeEntry
		var clockIn, createdAt, updatedAt string
		var clockOut sql.NullString
		var total sql.NullFloat64
		var status string
		if err := rows.Scan(&e.ID, &e.TechnicianID, &e.TechnicianName, &clockIn, &clockOut,
			&e.BreakDurationMinutes, &total, &status, &e.Notes, &e.AssociatedRepairIDs,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		e.Status = models.EntryStatus(status)
		if e.ClockInTime, err = parseTime(clockIn); err != nil {
			return nil, err
		}
		if e.ClockOutTime, err = parseNullTime(clockOut); err != nil {
			return nil, err
		}
		if total.Valid {
			h := total.Float64
			e.TotalHours = &h
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) SaveTimeEntries(ctx context.Context, entries []models.TimeEntry) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO time_entries (id, technician_id, technician_name, clock_in_time, clock_out_time,
				break_duration_minutes, total_hours, status, notes, associated_repair_ids, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				technician_id = excluded.technician_id,
				technician_name = excluded.technician_name,
				clock_in_time = excluded.clock_in_time,
				clock_out_time = excluded.clock_out_time,
				break_duration_minutes = excluded.break_duration_minutes,
				total_hours = excluded.total_hours,
				status = excluded.status,
				notes = excluded.notes,
				associated_repair_ids = excluded.associated_repair_ids,
				updated_at = excluded.updated_at`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			var total sql.NullFloat64
			if e.TotalHours != nil {
				total = sql.NullFloat64{Float64: *e.TotalHours, Valid: true}
			}
			_, err := stmt.ExecContext(ctx, e.ID, e.TechnicianID, e.TechnicianName,
				formatTime(e.ClockInTime), formatNullTime(e.ClockOutTime),
				e.BreakDurationMinutes, total, string(e.Status), e.Notes, e.AssociatedRepairIDs,
				formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
			if err != nil {
				return fmt.Errorf("upsert entry %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) LoadAdjustments(ctx context.Context) ([]models.TimeAdjustment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, time_entry_id, adjusted_by, previous_clock_in, new_clock_in,
		       previous_clock_out, new_clock_out, previous_break_duration, new_break_duration,
		       reason, timestamp
		FROM time_adjustments ORDER BY timestamp, id`)
	if err != nil {
		return nil, fmt.Errorf("load adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []models.TimeAdjustment
	for rows.Next() {
		var a models.TimeAdjustment
		var prevIn, newIn, ts string
		var prevOut, newOut sql.NullString
		if err := rows.Scan(&a.ID, &a.TimeEntryID, &a.AdjustedBy, &prevIn, &newIn, &prevOut, &newOut,
			&a.PreviousBreakDuration, &a.NewBreakDuration, &a.Reason, &ts); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		if a.PreviousClockIn, err = parseTime(prevIn); err != nil {
			return nil, err
		}
		if a.NewClockIn, err = parseTime(newIn); err != nil {
			return nil, err
		}
		if a.PreviousClockOut, err = parseNullTime(prevOut); err != nil {
			return nil, err
		}
		if a.NewClockOut, err = parseNullTime(newOut); err != nil {
			return nil, err
		}
		if a.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

// SaveAdjustments inserts adjustments not yet stored; stored rows are never rewritten.
func (r *SQLiteRepository) SaveAdjustments(ctx context.Context, adjustments []models.TimeAdjustment) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO time_adjustments (id, time_entry_id, adjusted_by, previous_clock_in, new_clock_in,
				previous_clock_out, new_clock_out, previous_break_duration, new_break_duration, reason, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, a := range adjustments {
			_, err := stmt.ExecContext(ctx, a.ID, a.TimeEntryID, a.AdjustedBy,
				formatTime(a.PreviousClockIn), formatTime(a.NewClockIn),
				formatNullTime(a.PreviousClockOut), formatNullTime(a.NewClockOut),
				a.PreviousBreakDuration, a.NewBreakDuration, a.Reason, formatTime(a.Timestamp))
			if err != nil {
				return fmt.Errorf("insert adjustment %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
