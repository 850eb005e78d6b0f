package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS stream_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			service_id INTEGER NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			uploader TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			access_date INTEGER NOT NULL,
			repeat_count INTEGER NOT NULL DEFAULT 1,
			UNIQUE(service_id, url)
		);

		CREATE INDEX IF NOT EXISTS idx_stream_history_access ON stream_history(access_date DESC);

		CREATE TABLE IF NOT EXISTS stream_state (
			service_id INTEGER NOT NULL,
			url TEXT NOT NULL,
			position_ms INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (service_id, url)
		);

		CREATE TABLE IF NOT EXISTS detail_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			selected_tab TEXT,
			stack TEXT
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
