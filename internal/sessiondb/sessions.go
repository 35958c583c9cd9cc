package sessiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"storevisit/internal/findings"
	"storevisit/internal/services"
)

const componentName = "sessiondb"

// SessionInfo summarizes one stored session.
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Records   int       `json:"records"`
	Entries   int       `json:"transcript_entries"`
}

const sessionColumns = `s.id, s.created_at, s.updated_at,
    (SELECT COUNT(1) FROM records r WHERE r.session_id = s.id),
    (SELECT COUNT(1) FROM transcript_entries t WHERE t.session_id = s.id)`

func scanSession(scanner interface{ Scan(dest ...any) error }) (*SessionInfo, error) {
	var (
		info       SessionInfo
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&info.ID, &createdRaw, &updatedRaw, &info.Records, &info.Entries); err != nil {
		return nil, err
	}
	info.CreatedAt = parseTime(createdRaw)
	info.UpdatedAt = parseTime(updatedRaw)
	return &info, nil
}

// CreateSession inserts an empty session.
func (d *DB) CreateSession(ctx context.Context, id string, at time.Time) (*SessionInfo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, componentName, "create session", "session id is empty", nil)
	}
	stamp := formatTime(at)
	err := retryOnBusy(ctx, func() error {
		_, execErr := d.db.ExecContext(ctx,
			"INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)", id, stamp, stamp)
		return execErr
	})
	if err != nil {
		return nil, services.Wrap(services.ErrStoreWrite, componentName, "create session", "insert session", err)
	}
	return &SessionInfo{ID: id, CreatedAt: parseTime(stamp), UpdatedAt: parseTime(stamp)}, nil
}

// GetSession returns the session with id or a services.ErrNotFound error.
func (d *DB) GetSession(ctx context.Context, id string) (*SessionInfo, error) {
	row := d.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions s WHERE s.id = ?", id)
	info, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, componentName, "get session", "no session "+id, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return info, nil
}

// LatestSession returns the most recently updated session, or nil when the
// database holds none.
func (d *DB) LatestSession(ctx context.Context) (*SessionInfo, error) {
	row := d.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions s ORDER BY s.updated_at DESC, s.created_at DESC LIMIT 1")
	info, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return info, nil
}

// ListSessions returns every session, newest first.
func (d *DB) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions s ORDER BY s.updated_at DESC, s.created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		info, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, *info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// Commit stores one invocation: its records and its transcript entry land
// together or not at all.
func (d *DB) Commit(ctx context.Context, sessionID, invocationID string, records []findings.Record, entry findings.Entry) error {
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE sessions SET updated_at = ? WHERE id = ?", formatTime(entry.RecordedAt), sessionID)
		if err != nil {
			return fmt.Errorf("touch session: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return services.Wrap(services.ErrNotFound, componentName, "commit", "no session "+sessionID, nil)
		}
		for _, rec := range records {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO records (session_id, invocation_id, category, text, confidence, recorded_at)
                 VALUES (?, ?, ?, ?, ?, ?)`,
				sessionID, invocationID, rec.Category, rec.Text, rec.Confidence, formatTime(rec.RecordedAt),
			); err != nil {
				return fmt.Errorf("insert record: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO transcript_entries (session_id, invocation_id, text, recorded_at) VALUES (?, ?, ?, ?)",
			sessionID, invocationID, entry.Text, formatTime(entry.RecordedAt),
		); err != nil {
			return fmt.Errorf("insert transcript entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return services.Wrap(services.ErrStoreWrite, componentName, "commit", "persist invocation", err)
	}
	return nil
}

// Load returns a session's records and transcript entries in insertion order.
func (d *DB) Load(ctx context.Context, sessionID string) ([]findings.Record, []findings.Entry, error) {
	if _, err := d.GetSession(ctx, sessionID); err != nil {
		return nil, nil, err
	}
	records, err := d.loadRecords(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := d.loadEntries(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return records, entries, nil
}

func (d *DB) loadRecords(ctx context.Context, sessionID string) ([]findings.Record, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT category, text, confidence, recorded_at FROM records WHERE session_id = ? ORDER BY id", sessionID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()
	var out []findings.Record
	for rows.Next() {
		var (
			rec findings.Record
			raw string
		)
		if err := rows.Scan(&rec.Category, &rec.Text, &rec.Confidence, &raw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.RecordedAt = parseTime(raw)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (d *DB) loadEntries(ctx context.Context, sessionID string) ([]findings.Entry, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT text, recorded_at FROM transcript_entries WHERE session_id = ? ORDER BY id", sessionID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	defer rows.Close()
	var out []findings.Entry
	for rows.Next() {
		var (
			entry findings.Entry
			raw   string
		)
		if err := rows.Scan(&entry.Text, &raw); err != nil {
			return nil, fmt.Errorf("scan transcript entry: %w", err)
		}
		entry.RecordedAt = parseTime(raw)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcript: %w", err)
	}
	return out, nil
}

// Reset deletes every record and transcript entry of a session. The session
// itself is kept.
func (d *DB) Reset(ctx context.Context, sessionID string, at time.Time) error {
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE sessions SET updated_at = ? WHERE id = ?", formatTime(at), sessionID)
		if err != nil {
			return fmt.Errorf("touch session: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return services.Wrap(services.ErrNotFound, componentName, "reset", "no session "+sessionID, nil)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE session_id = ?", sessionID); err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM transcript_entries WHERE session_id = ?", sessionID); err != nil {
			return fmt.Errorf("delete transcript: %w", err)
		}
		return nil
	})
	if err != nil {
		return services.Wrap(services.ErrStoreWrite, componentName, "reset", "clear session", err)
	}
	return nil
}
