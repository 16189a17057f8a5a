// Package media cross-references fetched activities against the
// persisted media store and fetches photo URLs only for activities not
// seen before.
package media

import (
	"context"
	"fmt"
	"log/slog"

	"stravadash/internal/activity"
	"stravadash/internal/store"
	"stravadash/internal/strava"
)

// EnrichmentError is a failed photo lookup for a single activity. It is
// reported but never aborts the rest of the batch.
type EnrichmentError struct {
	ActivityID int64
	Err        error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("fetching media for activity %d: %v", e.ActivityID, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// NewCandidates returns the activities worth a media lookup: not yet in
// the persisted set, carrying at least one photo, and not of an excluded
// sport type. Pure set-difference plus filter; calling it twice with the
// same persisted set returns the same result.
func NewCandidates(activities []activity.Canonical, persisted map[int64]struct{}, excludedSports []string) []activity.Canonical {
	excluded := make(map[string]struct{}, len(excludedSports))
	for _, s := range excludedSports {
		excluded[s] = struct{}{}
	}

	var candidates []activity.Canonical
	for _, a := range activities {
		if _, ok := persisted[a.ID]; ok {
			continue
		}
		if a.PhotoCount <= 0 {
			continue
		}
		if _, ok := excluded[a.SportType]; ok {
			continue
		}
		candidates = append(candidates, a)
	}
	return candidates
}

// Linker fetches and persists photo URLs for newly seen activities.
type Linker struct {
	client         *strava.Client
	store          *store.Store
	excludedSports []string
	logger         *slog.Logger
}

// NewLinker creates a Linker. excludedSports lists sport types that
// never get a media lookup.
func NewLinker(client *strava.Client, st *store.Store, excludedSports []string, logger *slog.Logger) *Linker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{
		client:         client,
		store:          st,
		excludedSports: excludedSports,
		logger:         logger,
	}
}

// Enrich looks up the primary photo URL for each candidate, one request
// per activity. Failures are isolated per item: a failed lookup is
// logged and collected, and the remaining candidates still run.
// Candidates whose detail record carries no primary photo are persisted
// with an empty URL so they leave the candidate set for good; failed
// lookups are not persisted and get retried on the next sync.
func (l *Linker) Enrich(ctx context.Context, candidates []activity.Canonical) ([]store.MediaRecord, []error) {
	var records []store.MediaRecord
	var errs []error
	for _, c := range candidates {
		detail, err := l.client.GetActivity(ctx, c.ID)
		if err != nil {
			l.logger.Warn("media lookup failed", "activity_id", c.ID, "error", err)
			errs = append(errs, &EnrichmentError{ActivityID: c.ID, Err: err})
			continue
		}
		records = append(records, store.MediaRecord{
			ActivityID: c.ID,
			PhotoURL:   detail.PrimaryPhotoURL(),
			SportType:  c.SportType,
			StartDate:  c.StartDate,
		})
	}
	return records, errs
}

// Sync runs the full media pass over the canonical table: compute
// candidates against the persisted set, enrich, persist. Returns the
// number of new records stored.
func (l *Linker) Sync(ctx context.Context, activities []activity.Canonical) (int, error) {
	persisted, err := l.store.MediaActivityIDs()
	if err != nil {
		return 0, fmt.Errorf("loading persisted media ids: %w", err)
	}

	candidates := NewCandidates(activities, persisted, l.excludedSports)
	if len(candidates) == 0 {
		return 0, nil
	}

	records, errs := l.Enrich(ctx, candidates)
	if len(errs) > 0 {
		l.logger.Warn("media lookups failed", "failed", len(errs), "candidates", len(candidates))
	}

	if err := l.store.InsertMediaRecords(records); err != nil {
		return 0, fmt.Errorf("persisting media records: %w", err)
	}
	return len(records), nil
}
