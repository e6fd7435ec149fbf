// Package catalog resolves track collections from the configured music providers.
package catalog

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tunewave/internal/domain/track"
	"github.com/osa030/tunewave/internal/infra/lastfm"
)

// ErrUnsupported is returned by a provider that cannot serve an operation.
var ErrUnsupported = errors.New("operation not supported by provider")

// Provider defines the interface for track catalog providers.
type Provider interface {
	// TopTracks returns currently trending tracks.
	TopTracks(ctx context.Context, limit int) ([]track.Track, error)

	// NewReleases returns recently released tracks.
	NewReleases(ctx context.Context, limit int) ([]track.Track, error)

	// CountryChart returns the chart of an ISO 3166-1 alpha-2 country code.
	CountryChart(ctx context.Context, countryCode string, limit int) ([]track.Track, error)

	// TrackDetails returns a single track.
	TrackDetails(ctx context.Context, trackID string) (track.Track, error)

	// Search returns typed results for a free-text query.
	Search(ctx context.Context, query string, limit int) ([]track.SearchResultItem, error)

	// Name returns the provider name.
	Name() string
}

// SpotifyClient defines the interface for Spotify operations.
type SpotifyClient interface {
	TopTracks(ctx context.Context, limit int) ([]track.Track, error)
	NewReleases(ctx context.Context, limit int) ([]track.Track, error)
	CountryChart(ctx context.Context, countryCode string, limit int) ([]track.Track, error)
	GetTrack(ctx context.Context, trackID string) (track.Track, error)
	Search(ctx context.Context, query string, limit int) ([]track.SearchResultItem, error)
}

// LastFmClient defines the interface for Last.fm operations.
type LastFmClient interface {
	GetChartTopTracks(ctx context.Context, limit int) ([]lastfm.TopTrack, error)
	GetGeoTopTracks(ctx context.Context, country string, limit int) ([]lastfm.TopTrack, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]lastfm.TopTrack, error)
}
