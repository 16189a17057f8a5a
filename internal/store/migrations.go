package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activity photo URLs, fetched once per activity and kept so
		// media lookups are never repeated.
		`CREATE TABLE IF NOT EXISTS media (
			activity_id INTEGER PRIMARY KEY,
			photo_url TEXT NOT NULL,
			sport_type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_media_sport_type ON media(sport_type)`,

		// Sign-in audit log
		`CREATE TABLE IF NOT EXISTS signins (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			athlete_id INTEGER NOT NULL,
			athlete_name TEXT NOT NULL,
			signed_in_at TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_signins_athlete ON signins(athlete_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
