package catalog

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunewave/internal/domain/track"
)

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// ProviderChain tries providers in order until one returns a non-empty result.
type ProviderChain struct {
	providers []ProviderWithMetadata
}

// NewProviderChain creates a new provider chain.
func NewProviderChain(providers []ProviderWithMetadata) *ProviderChain {
	return &ProviderChain{
		providers: providers,
	}
}

// Providers returns the display names of the chained providers in order.
func (c *ProviderChain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, pm := range c.providers {
		names = append(names, pm.DisplayName)
	}
	return names
}

// firstNonEmpty runs fetch against each provider until one succeeds with at least one element.
func firstNonEmpty[T any](ctx context.Context, c *ProviderChain, operation string, fetch func(p Provider) ([]T, error)) ([]T, error) {
	for i, pm := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "provider chain canceled")
		}
		zlog.Debug().Msgf("trying provider: operation=%s index=%d total=%d name=%s provider_type=%s",
			operation, i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		items, err := fetch(pm.Provider)
		if errors.Is(err, ErrUnsupported) {
			zlog.Debug().Msgf("provider does not support operation: provider=%s operation=%s", pm.DisplayName, operation)
			continue
		}
		if err != nil {
			zlog.Warn().Msgf("provider failed, trying next: provider=%s operation=%s error=%v", pm.DisplayName, operation, err)
			continue
		}
		if len(items) == 0 {
			zlog.Debug().Msgf("provider returned no results: provider=%s operation=%s", pm.DisplayName, operation)
			continue
		}

		zlog.Info().Msgf("provider returned results: provider=%s operation=%s count=%d", pm.DisplayName, operation, len(items))
		return items, nil
	}
	return nil, errors.Newf("all providers failed: operation=%s", operation)
}

// TopTracks returns the first non-empty trending list.
func (c *ProviderChain) TopTracks(ctx context.Context, limit int) ([]track.Track, error) {
	return firstNonEmpty(ctx, c, "top_tracks", func(p Provider) ([]track.Track, error) {
		return p.TopTracks(ctx, limit)
	})
}

// NewReleases returns the first non-empty new release list.
func (c *ProviderChain) NewReleases(ctx context.Context, limit int) ([]track.Track, error) {
	return firstNonEmpty(ctx, c, "new_releases", func(p Provider) ([]track.Track, error) {
		return p.NewReleases(ctx, limit)
	})
}

// CountryChart returns the first non-empty chart for a country.
func (c *ProviderChain) CountryChart(ctx context.Context, countryCode string, limit int) ([]track.Track, error) {
	return firstNonEmpty(ctx, c, "country_chart", func(p Provider) ([]track.Track, error) {
		return p.CountryChart(ctx, countryCode, limit)
	})
}

// TrackDetails returns the track from the first provider that knows it.
func (c *ProviderChain) TrackDetails(ctx context.Context, trackID string) (track.Track, error) {
	found, err := firstNonEmpty(ctx, c, "track_details", func(p Provider) ([]track.Track, error) {
		t, err := p.TrackDetails(ctx, trackID)
		if err != nil {
			return nil, err
		}
		return []track.Track{t}, nil
	})
	if err != nil {
		return track.Track{}, err
	}
	return found[0], nil
}

// Search returns the first non-empty search result.
func (c *ProviderChain) Search(ctx context.Context, query string, limit int) ([]track.SearchResultItem, error) {
	return firstNonEmpty(ctx, c, "search", func(p Provider) ([]track.SearchResultItem, error) {
		return p.Search(ctx, query, limit)
	})
}

// Name returns the chain name.
func (c *ProviderChain) Name() string {
	return "provider_chain"
}
