package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the application configuration
type Config struct {
	Strava StravaConfig `json:"strava"`
	Server ServerConfig `json:"server"`
	Media  MediaConfig  `json:"media"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	// RedirectURL is the app URL Strava sends the browser back to
	// after authorization, e.g. "http://localhost:8080/callback".
	RedirectURL string `json:"redirect_url"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	ListenAddr string `json:"listen_addr"`
}

// MediaConfig controls the photo enrichment pass
type MediaConfig struct {
	// ExcludedSports lists sport types that never get a photo lookup.
	ExcludedSports []string `json:"excluded_sports"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
	}
}

// Load reads the configuration from ~/.stravadash/config.json and then
// applies environment overrides (STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET,
// APP_URL), so credentials can come from a .env file instead of the
// config file.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultConfig().Server.ListenAddr
	}

	return &cfg, nil
}

// applyEnv overlays environment variables onto the file config.
func (c *Config) applyEnv() {
	if v := os.Getenv("STRAVA_CLIENT_ID"); v != "" {
		c.Strava.ClientID = v
	}
	if v := os.Getenv("STRAVA_CLIENT_SECRET"); v != "" {
		c.Strava.ClientSecret = v
	}
	if v := os.Getenv("APP_URL"); v != "" {
		c.Strava.RedirectURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("MEDIA_EXCLUDED_SPORTS"); v != "" {
		c.Media.ExcludedSports = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Save writes the configuration to ~/.stravadash/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := Config{
		Strava: StravaConfig{
			ClientID:     "YOUR_CLIENT_ID",
			ClientSecret: "YOUR_CLIENT_SECRET",
			RedirectURL:  "http://localhost:8080/callback",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Media: MediaConfig{
			ExcludedSports: []string{"WeightTraining", "Workout"},
		},
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.RedirectURL == "" {
		return errors.New("strava.redirect_url is required - the callback URL registered with your Strava app")
	}
	if _, err := url.ParseRequestURI(c.Strava.RedirectURL); err != nil {
		return fmt.Errorf("strava.redirect_url is not a valid URL: %w", err)
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".stravadash", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".stravadash"), nil
}
