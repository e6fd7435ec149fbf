// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Log       LogConfig               `yaml:"log"`
	Catalog   CatalogConfig           `yaml:"catalog"`
	Spotify   SpotifyConfig           `yaml:"spotify"`
	YouTube   YouTubeConfig           `yaml:"youtube"`
	Storage   StorageConfig           `yaml:"storage"`
	History   HistoryConfig           `yaml:"history"`
	Playlists PlaylistsConfig         `yaml:"playlists"`
	Filters   map[string]FilterConfig `yaml:"filters"`
	Messages  MessagesConfig          `yaml:"messages"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr               string      `yaml:"addr" default:":8080"`
	ShutdownTimeoutSec int         `yaml:"shutdown_timeout_sec" default:"10" validate:"gte=1,lte=300"`
	Hooks              HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// LogConfig represents logging configuration.
// Command-line flags take precedence.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" default:"stdout"`
}

// CatalogConfig represents track catalog configuration.
type CatalogConfig struct {
	DefaultLimit      int              `yaml:"default_limit" default:"20" validate:"gte=1,lte=50"`
	RelatedLimit      int              `yaml:"related_limit" default:"5" validate:"gte=1,lte=50"`
	SkipEnrichment    bool             `yaml:"skip_enrichment"`
	EnrichConcurrency int              `yaml:"enrich_concurrency" default:"4" validate:"gte=1,lte=16"`
	Providers         []ProviderConfig `yaml:"providers" validate:"required,min=1,dive"`
}

// ProviderConfig represents a single catalog provider configuration.
type ProviderConfig struct {
	Type        string         `yaml:"type" validate:"required,oneof=spotify lastfm mock"`
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID      string `yaml:"client_id"`
	ClientSecret  string `yaml:"client_secret"`
	Market        string `yaml:"market" validate:"omitempty,len=2" default:"US"`
	TopPlaylistID string `yaml:"top_playlist_id" default:"37i9dQZEVXbMDoHDwVN2tF"`
}

// YouTubeConfig represents video lookup configuration.
// An empty API key disables enrichment.
type YouTubeConfig struct {
	APIKey      string `yaml:"api_key"`
	QuerySuffix string `yaml:"query_suffix" default:"official music video"`
	MaxResults  int64  `yaml:"max_results" default:"1" validate:"gte=1,lte=5"`
}

// StorageConfig represents durable storage configuration.
type StorageConfig struct {
	Path         string `yaml:"path" default:"tunewave.db" validate:"required"`
	PersistEmpty bool   `yaml:"persist_empty"`
}

// HistoryConfig represents listening history configuration.
type HistoryConfig struct {
	Limit int `yaml:"limit" default:"50" validate:"gte=1,lte=500"`
}

// PlaylistsConfig represents playlist configuration.
type PlaylistsConfig struct {
	DefaultCover string `yaml:"default_cover" default:"https://picsum.photos/seed/playlist/300/300"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	DefaultError          string `yaml:"default_error" default:"Something went wrong."`
	PlayFailed            string `yaml:"play_failed" default:"Unable to play this song."`
	CatalogFallback       string `yaml:"catalog_fallback" default:"Failed to load some data. Using sample data instead."`
	ChartFallback         string `yaml:"chart_fallback" default:"Failed to load chart data. Using sample data instead."`
	CountryFallback       string `yaml:"country_fallback" default:"Failed to load {country} chart data. Using sample data instead."`
	TrackFallback         string `yaml:"track_fallback" default:"Could not load the requested track. Using a sample track instead."`
	HistoryCleared        string `yaml:"history_cleared" default:"Listening history cleared"`
	HistoryRemoved        string `yaml:"history_removed" default:"Track removed from history"`
	PlaylistCreated       string `yaml:"playlist_created" default:"Playlist created successfully"`
	PlaylistUpdated       string `yaml:"playlist_updated" default:"Playlist updated successfully"`
	PlaylistDeleted       string `yaml:"playlist_deleted" default:"Playlist deleted successfully"`
	TrackAdded            string `yaml:"track_added" default:"Track added to playlist"`
	TrackRemoved          string `yaml:"track_removed" default:"Track removed from playlist"`
	NameRequired          string `yaml:"name_required" default:"Playlist name is required"`
	DuplicateTrack        string `yaml:"duplicate_track" default:"This track is already in the playlist"`
	DurationLimitExceeded string `yaml:"duration_limit_exceeded" default:"Track duration is outside the allowed range"`
	PlaylistFull          string `yaml:"playlist_full" default:"This playlist is full"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv("TUNEWAVE_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("LASTFM_API_KEY"); v != "" {
		for i := range c.Catalog.Providers {
			if c.Catalog.Providers[i].Type == "lastfm" {
				if c.Catalog.Providers[i].Settings == nil {
					c.Catalog.Providers[i].Settings = make(map[string]any)
				}
				c.Catalog.Providers[i].Settings["api_key"] = v
			}
		}
	}
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "play_failed":
		return c.Messages.PlayFailed
	case "catalog_fallback":
		return c.Messages.CatalogFallback
	case "chart_fallback":
		return c.Messages.ChartFallback
	case "track_fallback":
		return c.Messages.TrackFallback
	case "history_cleared":
		return c.Messages.HistoryCleared
	case "history_removed":
		return c.Messages.HistoryRemoved
	case "playlist_created":
		return c.Messages.PlaylistCreated
	case "playlist_updated":
		return c.Messages.PlaylistUpdated
	case "playlist_deleted":
		return c.Messages.PlaylistDeleted
	case "track_added":
		return c.Messages.TrackAdded
	case "track_removed":
		return c.Messages.TrackRemoved
	case "name_required":
		return c.Messages.NameRequired
	case "duplicate_track":
		return c.Messages.DuplicateTrack
	case "duration_limit_exceeded":
		return c.Messages.DurationLimitExceeded
	case "playlist_full":
		return c.Messages.PlaylistFull
	default:
		return c.Messages.DefaultError
	}
}

// CountryFallbackMessage returns the fallback message for a country chart.
func (c *Config) CountryFallbackMessage(countryName string) string {
	return strings.ReplaceAll(c.Messages.CountryFallback, "{country}", countryName)
}

// HasProvider reports whether a provider of the given type is configured.
func (c *Config) HasProvider(providerType string) bool {
	for _, p := range c.Catalog.Providers {
		if p.Type == providerType {
			return true
		}
	}
	return false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if err := c.validateCredentials(); err != nil {
		return err
	}

	if err := ValidateProviderChain(c.Catalog.Providers); err != nil {
		return err
	}

	return nil
}

// ValidateProviderChain rejects a mock provider chained with other providers.
// Sample data is only served as the announced fallback of a failed chain, or as the whole catalog.
func ValidateProviderChain(providers []ProviderConfig) error {
	if len(providers) < 2 {
		return nil
	}
	for i, p := range providers {
		if p.Type == "mock" {
			return errors.Newf("mock provider (index %d) must be the only catalog provider", i)
		}
	}
	return nil
}

// validateCredentials checks that every configured remote provider can authenticate.
func (c *Config) validateCredentials() error {
	if c.HasProvider("spotify") {
		if c.Spotify.ClientID == "" {
			return errors.New("spotify provider configured but spotify.client_id (SPOTIFY_CLIENT_ID) is empty")
		}
		if c.Spotify.ClientSecret == "" {
			return errors.New("spotify provider configured but spotify.client_secret (SPOTIFY_CLIENT_SECRET) is empty")
		}
	}
	for i, p := range c.Catalog.Providers {
		if p.Type != "lastfm" {
			continue
		}
		if key, _ := p.Settings["api_key"].(string); key == "" {
			return errors.Newf("lastfm provider (index %d) requires settings.api_key (LASTFM_API_KEY)", i)
		}
	}
	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// GetFilterSettings returns the settings for a filter.
func (c *Config) GetFilterSettings(filterName string) map[string]any {
	if f, ok := c.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}
