package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertMediaRecords(t *testing.T) {
	s := NewTestStore(t)

	records := []MediaRecord{
		{ActivityID: 1, PhotoURL: "https://cdn.example/1.jpg", SportType: "Run", StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ActivityID: 2, PhotoURL: "https://cdn.example/2.jpg", SportType: "Ride", StartDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, s.InsertMediaRecords(records))

	got, err := s.ListMedia()
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Most recent first.
	assert.Equal(t, int64(2), got[0].ActivityID)
	assert.Equal(t, int64(1), got[1].ActivityID)
	assert.Equal(t, "https://cdn.example/1.jpg", got[1].PhotoURL)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got[1].StartDate)
}

func TestInsertMediaRecordsEmptyIsNoop(t *testing.T) {
	s := NewTestStore(t)
	require.NoError(t, s.InsertMediaRecords(nil))

	got, err := s.ListMedia()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInsertMediaRecordsKeepsExistingOnConflict(t *testing.T) {
	s := NewTestStore(t)

	orig := MediaRecord{ActivityID: 7, PhotoURL: "https://cdn.example/orig.jpg", SportType: "Run", StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.InsertMediaRecords([]MediaRecord{orig}))

	// Reprocessing the same activity must not duplicate or overwrite.
	dup := orig
	dup.PhotoURL = "https://cdn.example/other.jpg"
	require.NoError(t, s.InsertMediaRecords([]MediaRecord{dup}))

	got, err := s.ListMedia()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example/orig.jpg", got[0].PhotoURL)
}

func TestListMediaExcludesPhotolessMarkers(t *testing.T) {
	s := NewTestStore(t)

	require.NoError(t, s.InsertMediaRecords([]MediaRecord{
		{ActivityID: 1, PhotoURL: "https://cdn.example/1.jpg", SportType: "Run", StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{ActivityID: 2, PhotoURL: "", SportType: "Ride", StartDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)},
	}))

	got, err := s.ListMedia()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ActivityID)

	// The marker still counts as covered for dedup purposes.
	ids, err := s.MediaActivityIDs()
	require.NoError(t, err)
	assert.Contains(t, ids, int64(2))
}

func TestMediaActivityIDs(t *testing.T) {
	s := NewTestStore(t)

	ids, err := s.MediaActivityIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.InsertMediaRecords([]MediaRecord{
		{ActivityID: 1, PhotoURL: "u1", SportType: "Run", StartDate: time.Now()},
		{ActivityID: 9, PhotoURL: "u9", SportType: "Hike", StartDate: time.Now()},
	}))

	ids, err = s.MediaActivityIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, int64(1))
	assert.Contains(t, ids, int64(9))
}

func TestRecordSignIn(t *testing.T) {
	s := NewTestStore(t)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordSignIn(42, "Ada Lovelace", base))
	require.NoError(t, s.RecordSignIn(42, "Ada Lovelace", base.Add(time.Hour)))

	signins, err := s.RecentSignIns(10)
	require.NoError(t, err)
	require.Len(t, signins, 2)

	assert.Equal(t, int64(42), signins[0].AthleteID)
	assert.Equal(t, "Ada Lovelace", signins[0].AthleteName)
	assert.True(t, signins[0].SignedInAt.After(signins[1].SignedInAt))

	limited, err := s.RecentSignIns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
