// Package web is the thin presentation surface: a login redirect, the
// OAuth callback, and JSON endpoints over the session's datasets. It
// holds no data logic of its own.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stravadash/internal/activity"
	"stravadash/internal/analysis"
	"stravadash/internal/auth"
	"stravadash/internal/config"
	"stravadash/internal/media"
	"stravadash/internal/service"
	"stravadash/internal/store"
	"stravadash/internal/strava"
)

const stateCookie = "oauth_state"

// Server wires the core operations to HTTP. The dashboard is
// single-user, so it holds at most one live session at a time.
type Server struct {
	cfg        *config.Config
	authClient *auth.Client
	store      *store.Store
	logger     *slog.Logger
	apiBaseURL string

	mu      sync.Mutex
	session *service.Session
}

// NewServer creates the HTTP layer.
func NewServer(cfg *config.Config, authClient *auth.Client, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		authClient: authClient,
		store:      st,
		logger:     logger,
		apiBaseURL: strava.BaseURL,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/login", s.handleLogin)
	r.Get("/callback", s.handleCallback)
	r.Get("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/athlete", s.handleAthlete)
		r.Get("/activities", s.handleActivities)
		r.Get("/sports", s.handleSports)
		r.Get("/paths", s.handlePaths)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/stats", s.handleStats)
		r.Get("/histogram", s.handleHistogram)
		r.Get("/media", s.handleMedia)
		r.Post("/media/sync", s.handleMediaSync)
		r.Get("/signins", s.handleSignIns)
		r.Get("/ratelimit", s.handleRateLimit)
	})

	return r
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		s.error(w, http.StatusInternalServerError, "generating state")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   300,
	})
	http.Redirect(w, r, s.authClient.AuthorizationURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || r.URL.Query().Get("state") != cookie.Value {
		s.error(w, http.StatusBadRequest, "state mismatch")
		return
	}
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		s.error(w, http.StatusBadRequest, "authorization denied: "+errMsg)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		s.error(w, http.StatusBadRequest, "no authorization code")
		return
	}

	cred, err := s.authClient.ExchangeCode(r.Context(), code)
	if err != nil {
		s.logger.Error("code exchange failed", "error", err)
		s.error(w, http.StatusUnauthorized, "could not authenticate with Strava")
		return
	}

	// The token source must outlive this request: the oauth2 transport
	// refreshes through it for as long as the session lives, and a
	// request-scoped context would cancel every later refresh.
	tokenSource := s.authClient.TokenSource(context.Background(), cred)
	client := strava.NewClientWithBaseURL(tokenSource, s.apiBaseURL)
	linker := media.NewLinker(client, s.store, s.cfg.Media.ExcludedSports, s.logger)

	s.mu.Lock()
	s.session = service.NewSession(cred, client, linker, s.logger)
	s.mu.Unlock()

	if err := s.store.RecordSignIn(cred.Athlete.ID, cred.Athlete.FirstName+" "+cred.Athlete.LastName, time.Now()); err != nil {
		s.logger.Warn("recording sign-in failed", "error", err)
	}
	s.logger.Info("signed in", "athlete_id", cred.Athlete.ID)

	http.Redirect(w, r, "/api/athlete", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleAthlete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Athlete())
}

// handleActivities serves the canonical table, optionally filtered by
// sport type and date range (?sport=Run&sport=Ride&from=2024-01-01&to=...).
func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadedSession(w, r)
	if !ok {
		return
	}

	table := sess.Table()
	if sports := r.URL.Query()["sport"]; len(sports) > 0 {
		table = activity.FilterSport(table, sports)
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		s.error(w, http.StatusBadRequest, err.Error())
		return
	}
	table = activity.FilterDateRange(table, from, to)

	s.writeJSON(w, http.StatusOK, table)
}

// handleSports serves the distinct sport types in the table, the value
// set the activity filter is built from.
func (s *Server) handleSports(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadedSession(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, activity.SportTypes(sess.Table()))
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadedSession(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Paths())
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadedSession(w, r)
	if !ok {
		return
	}
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			s.error(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	s.writeJSON(w, http.StatusOK, sess.Calendar(year))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadedSession(w, r)
	if !ok {
		return
	}
	includeAlpine := r.URL.Query().Get("include_alpine_ski") == "true"
	s.writeJSON(w, http.StatusOK, sess.Stats(includeAlpine))
}

// handleHistogram serves the value distribution of one canonical metric
// (?metric=distance&bins=20).
func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadedSession(w, r)
	if !ok {
		return
	}

	bins := 10
	if b := r.URL.Query().Get("bins"); b != "" {
		parsed, err := strconv.Atoi(b)
		if err != nil || parsed < 1 {
			s.error(w, http.StatusBadRequest, "invalid bins")
			return
		}
		bins = parsed
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "distance"
	}
	values, ok := metricValues(sess.Table(), metric)
	if !ok {
		s.error(w, http.StatusBadRequest, "unknown metric: "+metric)
		return
	}

	s.writeJSON(w, http.StatusOK, analysis.Histogram(values, bins))
}

func metricValues(table []activity.Canonical, metric string) ([]float64, bool) {
	values := make([]float64, len(table))
	for i, a := range table {
		switch metric {
		case "distance":
			values[i] = a.DistanceKm
		case "elevation":
			values[i] = a.ElevationGainM
		case "moving_time":
			values[i] = float64(a.MovingTimeS)
		case "average_speed":
			values[i] = a.AverageSpeedKmh
		default:
			return nil, false
		}
	}
	return values, true
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListMedia()
	if err != nil {
		s.logger.Error("listing media failed", "error", err)
		s.error(w, http.StatusInternalServerError, "could not list media")
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleMediaSync(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadedSession(w, r)
	if !ok {
		return
	}
	stored, err := sess.SyncMedia(r.Context())
	if err != nil {
		s.logger.Error("media sync failed", "error", err)
		s.error(w, http.StatusBadGateway, "media sync failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"stored": stored})
}

func (s *Server) handleSignIns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	signins, err := s.store.RecentSignIns(limit)
	if err != nil {
		s.logger.Error("listing sign-ins failed", "error", err)
		s.error(w, http.StatusInternalServerError, "could not list sign-ins")
		return
	}
	s.writeJSON(w, http.StatusOK, signins)
}

func (s *Server) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w)
	if !ok {
		return
	}
	short, daily := sess.RateLimit()
	s.writeJSON(w, http.StatusOK, map[string]int{
		"short_remaining": short,
		"daily_remaining": daily,
	})
}

// currentSession returns the live session or writes 401.
func (s *Server) currentSession(w http.ResponseWriter) (*service.Session, bool) {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess == nil {
		s.error(w, http.StatusUnauthorized, "not signed in")
		return nil, false
	}
	return sess, true
}

// loadedSession returns the live session with its activity table
// loaded, fetching on first use. A failed fetch is surfaced as an
// explicit error response, never as an empty dashboard.
func (s *Server) loadedSession(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	sess, ok := s.currentSession(w)
	if !ok {
		return nil, false
	}
	if !sess.Loaded() {
		if err := sess.Load(r.Context()); err != nil {
			if errors.Is(err, auth.ErrCredentialExpired) {
				s.error(w, http.StatusUnauthorized, "session expired, sign in again")
				return nil, false
			}
			s.logger.Error("loading activities failed", "error", err)
			s.error(w, http.StatusBadGateway, "could not retrieve activity data")
			return nil, false
		}
	}
	return sess, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", "error", err)
	}
}

func (s *Server) error(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func parseDateRange(r *http.Request) (from, to time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, errors.New("invalid from date, want YYYY-MM-DD")
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, errors.New("invalid to date, want YYYY-MM-DD")
		}
	}
	return from, to, nil
}

// generateState creates a random state string for CSRF protection
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
