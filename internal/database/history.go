package database

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultHistoryLimit caps Recent when no limit is given.
const DefaultHistoryLimit = 20

// HistoryEntry records one generator run.
type HistoryEntry struct {
	CreatedAt     time.Time
	ProjectRoot   string
	OutputPath    string
	ContentSHA256 string
	ID            int64
	Duration      time.Duration
	Constants     int
	Changed       bool
}

// Record appends a history entry and returns its id. A zero CreatedAt is
// filled in by the database.
func (m *Manager) Record(ctx context.Context, entry HistoryEntry) (int64, error) {
	if entry.ProjectRoot == "" || entry.OutputPath == "" {
		return 0, errors.New("history entry requires project root and output path")
	}

	var createdAt any
	if !entry.CreatedAt.IsZero() {
		createdAt = entry.CreatedAt.Unix()
	}

	res, err := m.db.ExecContext(ctx, `
		INSERT INTO history (project_root, output_path, constants, changed, content_sha256, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, COALESCE(?, unixepoch()))`,
		entry.ProjectRoot, entry.OutputPath, entry.Constants, entry.Changed, entry.ContentSHA256,
		entry.Duration.Milliseconds(), createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to record history: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read history id: %w", err)
	}
	return id, nil
}

// Recent returns the newest entries for projectRoot, newest first. An empty
// projectRoot lists every project.
func (m *Manager) Recent(ctx context.Context, projectRoot string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, project_root, output_path, constants, changed, content_sha256, duration_ms, created_at
		FROM history
		WHERE ? = '' OR project_root = ?
		ORDER BY id DESC
		LIMIT ?`,
		projectRoot, projectRoot, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			e          HistoryEntry
			durationMS int64
			created    int64
		)
		if err := rows.Scan(&e.ID, &e.ProjectRoot, &e.OutputPath, &e.Constants,
			&e.Changed, &e.ContentSHA256, &durationMS, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

// Prune deletes entries older than cutoff and returns how many were removed.
func (m *Manager) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := m.db.ExecContext(ctx, "DELETE FROM history WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned history: %w", err)
	}
	return n, nil
}
