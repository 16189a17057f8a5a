package store

import (
	"fmt"
	"time"
)

// MediaRecord is one activity's primary photo URL, keyed by activity ID.
// An empty PhotoURL marks an activity that was checked and turned out to
// have no primary photo; it is kept so the lookup is never repeated.
type MediaRecord struct {
	ActivityID int64     `db:"activity_id"`
	PhotoURL   string    `db:"photo_url"`
	SportType  string    `db:"sport_type"`
	StartDate  time.Time `db:"start_date"`
}

// InsertMediaRecords appends new media records. Calling with an empty
// slice is a no-op. An activity ID already present is left untouched:
// the candidate filter should have excluded it, but the store enforces
// the invariant too so reprocessing a covered day never duplicates rows.
func (s *Store) InsertMediaRecords(records []MediaRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO media (activity_id, photo_url, sport_type, start_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(activity_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.ActivityID, r.PhotoURL, r.SportType, r.StartDate.Format("2006-01-02")); err != nil {
			return fmt.Errorf("inserting media for activity %d: %w", r.ActivityID, err)
		}
	}

	return tx.Commit()
}

// MediaActivityIDs returns the set of activity IDs already covered by a
// persisted media record.
func (s *Store) MediaActivityIDs() (map[int64]struct{}, error) {
	rows, err := s.db.Query(`SELECT activity_id FROM media`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// ListMedia returns the records that carry a photo, most recent activity
// first. Photoless markers stay out of the listing.
func (s *Store) ListMedia() ([]MediaRecord, error) {
	rows, err := s.db.Query(`
		SELECT activity_id, photo_url, sport_type, start_date
		FROM media
		WHERE photo_url != ''
		ORDER BY start_date DESC, activity_id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MediaRecord
	for rows.Next() {
		var r MediaRecord
		var startDate string
		if err := rows.Scan(&r.ActivityID, &r.PhotoURL, &r.SportType, &startDate); err != nil {
			return nil, err
		}
		r.StartDate, _ = time.Parse("2006-01-02", startDate)
		records = append(records, r)
	}
	return records, rows.Err()
}
