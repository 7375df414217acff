// Package database stores generation history in SQLite.
//
// The history file is shared by every project on the machine, so one-shot
// runs and watch sessions in other processes may write to it at once.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	memoryPath = ":memory:"

	// busyTimeout covers a concurrent writer committing one history row.
	busyTimeout = 5 * time.Second
)

// Manager owns the connection pool of one history database.
type Manager struct {
	db *sql.DB
}

// historyPragmas run on every new connection. Unlike a one-off PRAGMA
// statement they also reach connections the pool opens later.
func historyPragmas() []string {
	return []string{
		fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()),
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
		"temp_store(MEMORY)",
	}
}

// historyDSN builds the driver DSN for path with historyPragmas attached.
func historyDSN(path string) string {
	query := url.Values{"_pragma": historyPragmas()}
	return path + "?" + query.Encode()
}

// NewManager opens the history database at path and applies pending
// migrations. ":memory:" opens a private in-memory database.
func NewManager(ctx context.Context, path string) (*Manager, error) {
	if strings.ContainsRune(path, '?') {
		return nil, fmt.Errorf("history path %q must not contain '?'", path)
	}

	db, err := sql.Open("sqlite", historyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}

	if path == memoryPath {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}

	m := &Manager{db: db}
	if err := m.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// Close releases the pool. It is safe to call more than once.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	db := m.db
	m.db = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close history: %w", err)
	}
	return nil
}
