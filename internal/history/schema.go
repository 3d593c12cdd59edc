package history

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS load_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			outcome TEXT NOT NULL,
			message TEXT,
			clip_duration_ms INTEGER,
			elapsed_ms INTEGER NOT NULL,
			attempted_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_attempts_at ON load_attempts(attempted_at DESC);
		CREATE INDEX IF NOT EXISTS idx_attempts_path ON load_attempts(path);

		CREATE TABLE IF NOT EXISTS recent_clips (
			path TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			clip_duration_ms INTEGER NOT NULL,
			last_played_at INTEGER NOT NULL,
			play_count INTEGER NOT NULL DEFAULT 1
		);

		CREATE INDEX IF NOT EXISTS idx_recent_last_played ON recent_clips(last_played_at DESC);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add play_count column if missing
	_, _ = db.Exec(`ALTER TABLE recent_clips ADD COLUMN play_count INTEGER NOT NULL DEFAULT 1`)

	return nil
}
