package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("Server.ListenAddr = %q, want %q", cfg.Server.ListenAddr, ":8080")
	}

	// Strava config should be empty by default
	if cfg.Strava.ClientID != "" {
		t.Errorf("Strava.ClientID should be empty, got %q", cfg.Strava.ClientID)
	}
	if cfg.Strava.ClientSecret != "" {
		t.Errorf("Strava.ClientSecret should be empty, got %q", cfg.Strava.ClientSecret)
	}
	if cfg.Media.ExcludedSports != nil {
		t.Errorf("Media.ExcludedSports should be nil, got %v", cfg.Media.ExcludedSports)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := StravaConfig{
		ClientID:     "12345",
		ClientSecret: "abc123secret",
		RedirectURL:  "http://localhost:8080/callback",
	}

	tests := []struct {
		name        string
		mutate      func(*StravaConfig)
		expectError bool
		errContains string
	}{
		{
			name:        "valid config",
			mutate:      func(s *StravaConfig) {},
			expectError: false,
		},
		{
			name:        "empty client ID",
			mutate:      func(s *StravaConfig) { s.ClientID = "" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "placeholder client ID",
			mutate:      func(s *StravaConfig) { s.ClientID = "YOUR_CLIENT_ID" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "empty client secret",
			mutate:      func(s *StravaConfig) { s.ClientSecret = "" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "placeholder client secret",
			mutate:      func(s *StravaConfig) { s.ClientSecret = "YOUR_CLIENT_SECRET" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "missing redirect URL",
			mutate:      func(s *StravaConfig) { s.RedirectURL = "" },
			expectError: true,
			errContains: "redirect_url",
		},
		{
			name:        "malformed redirect URL",
			mutate:      func(s *StravaConfig) { s.RedirectURL = "not a url" },
			expectError: true,
			errContains: "redirect_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Strava: valid}
			tt.mutate(&cfg.Strava)
			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STRAVA_CLIENT_ID", "env-id")
	t.Setenv("STRAVA_CLIENT_SECRET", "env-secret")
	t.Setenv("APP_URL", "http://example.com/callback")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("MEDIA_EXCLUDED_SPORTS", "Workout, WeightTraining,")

	cfg := Config{
		Strava: StravaConfig{ClientID: "file-id", ClientSecret: "file-secret"},
	}
	cfg.applyEnv()

	if cfg.Strava.ClientID != "env-id" {
		t.Errorf("ClientID = %q, want env override", cfg.Strava.ClientID)
	}
	if cfg.Strava.ClientSecret != "env-secret" {
		t.Errorf("ClientSecret = %q, want env override", cfg.Strava.ClientSecret)
	}
	if cfg.Strava.RedirectURL != "http://example.com/callback" {
		t.Errorf("RedirectURL = %q", cfg.Strava.RedirectURL)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.Server.ListenAddr)
	}
	want := []string{"Workout", "WeightTraining"}
	if len(cfg.Media.ExcludedSports) != len(want) {
		t.Fatalf("ExcludedSports = %v, want %v", cfg.Media.ExcludedSports, want)
	}
	for i := range want {
		if cfg.Media.ExcludedSports[i] != want[i] {
			t.Errorf("ExcludedSports[%d] = %q, want %q", i, cfg.Media.ExcludedSports[i], want[i])
		}
	}
}

func TestApplyEnvEmptyValuesIgnored(t *testing.T) {
	t.Setenv("STRAVA_CLIENT_ID", "")
	t.Setenv("LISTEN_ADDR", "")

	cfg := Config{
		Strava: StravaConfig{ClientID: "file-id"},
		Server: ServerConfig{ListenAddr: ":8080"},
	}
	cfg.applyEnv()

	if cfg.Strava.ClientID != "file-id" {
		t.Errorf("ClientID = %q, empty env var should not clear it", cfg.Strava.ClientID)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, empty env var should not clear it", cfg.Server.ListenAddr)
	}
}
