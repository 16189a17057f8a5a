// Package service holds the per-session state: the credential, the
// normalized activity table, and lazily derived display datasets. All
// session state lives in an explicit Session value with caller-owned
// lifetime; there is no ambient global cache.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"stravadash/internal/activity"
	"stravadash/internal/analysis"
	"stravadash/internal/auth"
	"stravadash/internal/media"
	"stravadash/internal/strava"
)

// Session is one authenticated user's loaded dashboard data.
type Session struct {
	cred   *auth.Credential
	client *strava.Client
	linker *media.Linker
	logger *slog.Logger

	mu    sync.Mutex
	table []activity.Canonical
	paths []analysis.GeoPath // derived lazily from table
}

// NewSession creates a session for an authenticated credential. The
// client must be built from the same credential.
func NewSession(cred *auth.Credential, client *strava.Client, linker *media.Linker, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		cred:   cred,
		client: client,
		linker: linker,
		logger: logger,
	}
}

// Athlete returns the athlete summary from the credential.
func (s *Session) Athlete() strava.Athlete {
	return s.cred.Athlete
}

// Loaded reports whether the activity table has been fetched.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table != nil
}

// Load fetches the full activity history and normalizes it into the
// session's canonical table, replacing whatever was cached. An expired
// or absent credential fails up front with ErrCredentialExpired rather
// than producing a half-authenticated fetch.
func (s *Session) Load(ctx context.Context) error {
	if !s.cred.Valid() {
		return auth.ErrCredentialExpired
	}

	raws, err := s.client.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("loading activities: %w", err)
	}
	s.logger.Info("activities fetched", "count", len(raws), "athlete_id", s.cred.Athlete.ID)

	table := activity.Normalize(raws)

	s.mu.Lock()
	s.table = table
	s.paths = nil
	s.mu.Unlock()
	return nil
}

// Table returns the normalized activity table, most recent first.
func (s *Session) Table() []activity.Canonical {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Paths returns the decoded geo paths for the loaded table, computing
// them on first use and caching until the next Load.
func (s *Session) Paths() []analysis.GeoPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paths == nil && s.table != nil {
		s.paths = analysis.ExtractPaths(s.table)
	}
	return s.paths
}

// Calendar returns the dense daily-distance cells for the given year.
func (s *Session) Calendar(year int) []analysis.CalendarCell {
	return analysis.AggregateCalendar(s.Table(), year)
}

// Stats summarizes the loaded table.
func (s *Session) Stats(includeAlpineSki bool) analysis.Stats {
	return analysis.Summarize(s.Table(), includeAlpineSki)
}

// RateLimit reports the remaining Strava request budget in each window.
func (s *Session) RateLimit() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

// SyncMedia runs the media enrichment pass over the loaded table.
func (s *Session) SyncMedia(ctx context.Context) (int, error) {
	if s.linker == nil {
		return 0, nil
	}
	return s.linker.Sync(ctx, s.Table())
}
