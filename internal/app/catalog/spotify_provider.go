package catalog

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tunewave/internal/domain/track"
)

// SpotifyProvider serves every catalog operation from the Spotify Web API.
type SpotifyProvider struct {
	spotify SpotifyClient
}

// NewSpotifyProvider creates a new SpotifyProvider.
func NewSpotifyProvider(spotify SpotifyClient) (*SpotifyProvider, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is required")
	}
	return &SpotifyProvider{spotify: spotify}, nil
}

// TopTracks returns the configured top playlist.
func (p *SpotifyProvider) TopTracks(ctx context.Context, limit int) ([]track.Track, error) {
	return p.spotify.TopTracks(ctx, limit)
}

// NewReleases returns one track per newly released album.
func (p *SpotifyProvider) NewReleases(ctx context.Context, limit int) ([]track.Track, error) {
	return p.spotify.NewReleases(ctx, limit)
}

// CountryChart returns the featured chart for a country.
func (p *SpotifyProvider) CountryChart(ctx context.Context, countryCode string, limit int) ([]track.Track, error) {
	return p.spotify.CountryChart(ctx, countryCode, limit)
}

// TrackDetails returns a single track.
func (p *SpotifyProvider) TrackDetails(ctx context.Context, trackID string) (track.Track, error) {
	return p.spotify.GetTrack(ctx, trackID)
}

// Search searches tracks, artists, albums and playlists.
func (p *SpotifyProvider) Search(ctx context.Context, query string, limit int) ([]track.SearchResultItem, error) {
	return p.spotify.Search(ctx, query, limit)
}

// Name returns the provider name.
func (p *SpotifyProvider) Name() string {
	return "spotify"
}
