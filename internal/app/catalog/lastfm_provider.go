package catalog

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/tunewave/internal/domain/track"
	"github.com/osa030/tunewave/internal/infra/lastfm"
)

// LastFmProviderConfig represents the settings block of a lastfm provider.
type LastFmProviderConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key" validate:"required"`
}

// LastFmProvider serves charts and track search from Last.fm.
// Last.fm has no release feed or track lookup by id, so those return ErrUnsupported.
type LastFmProvider struct {
	lastfm LastFmClient
}

// NewLastFmProvider creates a new LastFmProvider from provider settings.
func NewLastFmProvider(settings map[string]any) (*LastFmProvider, error) {
	if len(settings) == 0 {
		return nil, errors.New("settings are required")
	}

	var config LastFmProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	client, err := lastfm.New(lastfm.Config{APIKey: config.APIKey})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create last.fm client")
	}
	return newLastFmProvider(client), nil
}

func newLastFmProvider(client LastFmClient) *LastFmProvider {
	return &LastFmProvider{lastfm: client}
}

// TopTracks returns the global Last.fm chart.
func (p *LastFmProvider) TopTracks(ctx context.Context, limit int) ([]track.Track, error) {
	top, err := p.lastfm.GetChartTopTracks(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chart top tracks")
	}
	return convertLastFm(top), nil
}

// NewReleases is not available on Last.fm.
func (p *LastFmProvider) NewReleases(ctx context.Context, limit int) ([]track.Track, error) {
	return nil, ErrUnsupported
}

// CountryChart returns the Last.fm geo chart of a country.
func (p *LastFmProvider) CountryChart(ctx context.Context, countryCode string, limit int) ([]track.Track, error) {
	name, ok := CountryName(countryCode)
	if !ok {
		return nil, errors.Newf("unsupported country code: %s", countryCode)
	}
	top, err := p.lastfm.GetGeoTopTracks(ctx, name, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get geo top tracks: country=%s", name)
	}
	return convertLastFm(top), nil
}

// TrackDetails is not available on Last.fm.
func (p *LastFmProvider) TrackDetails(ctx context.Context, trackID string) (track.Track, error) {
	return track.Track{}, ErrUnsupported
}

// Search searches tracks by name. Only track items are returned.
func (p *LastFmProvider) Search(ctx context.Context, query string, limit int) ([]track.SearchResultItem, error) {
	found, err := p.lastfm.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search tracks: query=%s", query)
	}
	tracks := convertLastFm(found)
	items := make([]track.SearchResultItem, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, track.TrackItem(t))
	}
	return items, nil
}

// Name returns the provider name.
func (p *LastFmProvider) Name() string {
	return "lastfm"
}

func convertLastFm(in []lastfm.TopTrack) []track.Track {
	tracks := make([]track.Track, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		id := lastFmTrackID(t.Artist, t.Name)
		if seen[id] {
			continue
		}
		seen[id] = true
		tracks = append(tracks, track.Track{
			ID:       id,
			Title:    t.Name,
			Artist:   t.Artist,
			AlbumArt: t.ImageURL,
			Duration: track.FormatDuration(t.DurationSec * 1000),
			Source:   track.SourceLastFM,
		})
	}
	return tracks
}

// lastFmTrackID derives a stable id from artist and title, since Last.fm has no track ids.
func lastFmTrackID(artist, title string) string {
	slug := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), "-")
	}
	return "lastfm:" + slug(artist) + ":" + slug(title)
}
