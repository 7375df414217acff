package database

import (
	"context"
	"fmt"

	"github.com/wizzomafizzo/assetgen/internal/logging"
)

type migration struct {
	sql     string
	version int
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				project_root TEXT NOT NULL,
				output_path TEXT NOT NULL,
				constants INTEGER NOT NULL,
				changed INTEGER NOT NULL,
				content_sha256 TEXT NOT NULL,
				created_at INTEGER NOT NULL DEFAULT (unixepoch())
			);

			CREATE INDEX idx_history_project ON history(project_root);
			CREATE INDEX idx_history_created ON history(created_at);
		`,
	},
	{
		version: 2,
		sql:     `ALTER TABLE history ADD COLUMN duration_ms INTEGER NOT NULL DEFAULT 0;`,
	},
}

// runMigrations applies every migration newer than PRAGMA user_version, each
// in its own transaction.
func (m *Manager) runMigrations(ctx context.Context) error {
	var currentVersion int
	err := m.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current database version: %w", err)
	}

	for _, migration := range migrations {
		if migration.version <= currentVersion {
			continue
		}
		if err := m.executeMigration(ctx, migration); err != nil {
			return err
		}
		logging.Get(ctx).Debug().
			Int("from", currentVersion).
			Int("to", migration.version).
			Msg("applied history migration")
	}

	return nil
}

func (m *Manager) executeMigration(ctx context.Context, migration migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, migration.sql); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.version, err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", migration.version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update database version to %d: %w", migration.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.version, err)
	}
	return nil
}
