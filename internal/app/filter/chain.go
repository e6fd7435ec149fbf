package filter

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunewave/internal/domain/playlist"
	"github.com/osa030/tunewave/internal/domain/track"
	"github.com/osa030/tunewave/internal/infra/config"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// NewChainFromConfig builds the chain from the configured filters.
// The duplicate track filter is always installed. Filters whose settings fail validation are skipped.
func NewChainFromConfig(cfg *config.Config) *Chain {
	c := NewChain()

	dup := NewDuplicateTrackFilter()
	if err := dup.ValidateConfig(cfg.GetFilterSettings(dup.Name())); err != nil {
		zlog.Error().Msgf("failed to validate duplicate track filter config: %v", err)
	}
	c.Add(dup)

	for _, name := range RegisteredNames() {
		if name == dup.Name() || !cfg.IsFilterEnabled(name) {
			continue
		}
		f := registry[name]()
		if err := f.ValidateConfig(cfg.GetFilterSettings(name)); err != nil {
			zlog.Error().Msgf("failed to validate filter config: filter=%s error=%v", name, err)
			continue
		}
		c.Add(f)
		zlog.Info().Msgf("filter enabled: %s", name)
	}
	return c
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the track.
func (c *Chain) Execute(ctx context.Context, p *playlist.Playlist, t track.Track) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, p, t)
		if !result.Accepted {
			zlog.Debug().Msgf("track rejected by filter: filter=%s track=%s playlist=%s code=%s", f.Name(), t.ID, p.ID, result.Code)
			return result
		}
	}
	return Accept()
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
