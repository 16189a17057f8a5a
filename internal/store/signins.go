package store

import (
	"time"
)

// SignIn is one entry in the sign-in audit log.
type SignIn struct {
	ID          int64     `db:"id"`
	AthleteID   int64     `db:"athlete_id"`
	AthleteName string    `db:"athlete_name"`
	SignedInAt  time.Time `db:"signed_in_at"`
}

// RecordSignIn appends a sign-in event for the given athlete.
func (s *Store) RecordSignIn(athleteID int64, name string, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO signins (athlete_id, athlete_name, signed_in_at)
		VALUES (?, ?, ?)
	`, athleteID, name, at.UTC().Format(time.RFC3339))
	return err
}

// RecentSignIns returns the most recent sign-in events, newest first.
func (s *Store) RecentSignIns(limit int) ([]SignIn, error) {
	rows, err := s.db.Query(`
		SELECT id, athlete_id, athlete_name, signed_in_at
		FROM signins
		ORDER BY signed_in_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signins []SignIn
	for rows.Next() {
		var si SignIn
		var at string
		if err := rows.Scan(&si.ID, &si.AthleteID, &si.AthleteName, &at); err != nil {
			return nil, err
		}
		si.SignedInAt, _ = time.Parse(time.RFC3339, at)
		signins = append(signins, si)
	}
	return signins, rows.Err()
}
