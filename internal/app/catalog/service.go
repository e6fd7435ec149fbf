package catalog

import (
	"context"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunewave/internal/app/notification"
	"github.com/osa030/tunewave/internal/domain/track"
	"github.com/osa030/tunewave/internal/infra/metrics"
)

// Notice codes emitted when sample data replaces a provider result.
const (
	CodeCatalogFallback = "catalog_fallback"
	CodeChartFallback   = "chart_fallback"
	CodeCountryFallback = "country_fallback"
	CodeTrackFallback   = "track_fallback"
)

// Messages resolves user-facing texts.
type Messages interface {
	GetMessage(code string) string
	CountryFallbackMessage(countryName string) string
}

// Result is the outcome of one catalog fetch.
type Result struct {
	Tracks   track.Collection
	Items    []track.SearchResultItem // search only
	Fallback bool                     // sample data was substituted
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Provider     Provider
	Enricher     *Enricher // nil disables enrichment
	Notifier     notification.Notifier
	Messages     Messages
	Metrics      *metrics.Metrics
	DefaultLimit int
	RelatedLimit int
}

// Service answers catalog requests. Provider errors never escape it:
// a failed or empty fetch is answered with sample data and a notice.
type Service struct {
	provider     Provider
	enricher     *Enricher
	notifier     notification.Notifier
	messages     Messages
	metrics      *metrics.Metrics
	mock         *MockCatalog
	defaultLimit int
	relatedLimit int
}

// NewService creates a new Service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Provider == nil {
		cfg.Provider = NewMockCatalog()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.RelatedLimit <= 0 {
		cfg.RelatedLimit = 5
	}
	return &Service{
		provider:     cfg.Provider,
		enricher:     cfg.Enricher,
		notifier:     cfg.Notifier,
		messages:     cfg.Messages,
		metrics:      cfg.Metrics,
		mock:         NewMockCatalog(),
		defaultLimit: cfg.DefaultLimit,
		relatedLimit: cfg.RelatedLimit,
	}
}

// TopTracks returns trending tracks.
func (s *Service) TopTracks(ctx context.Context, limit int) Result {
	limit = s.limit(limit)
	return s.fetch(ctx, "top_tracks", CodeCatalogFallback, "", limit, s.provider.TopTracks)
}

// NewReleases returns recent releases.
func (s *Service) NewReleases(ctx context.Context, limit int) Result {
	limit = s.limit(limit)
	return s.fetch(ctx, "new_releases", CodeCatalogFallback, "", limit, s.provider.NewReleases)
}

// GlobalChart returns the global chart.
func (s *Service) GlobalChart(ctx context.Context, limit int) Result {
	limit = s.limit(limit)
	return s.fetch(ctx, "global_chart", CodeChartFallback, "", limit, s.provider.TopTracks)
}

// CountryChart returns the chart of a country code.
func (s *Service) CountryChart(ctx context.Context, countryCode string, limit int) Result {
	limit = s.limit(limit)
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	name, ok := CountryName(code)
	if !ok {
		name = code
	}
	message := ""
	if s.messages != nil {
		message = s.messages.CountryFallbackMessage(name)
	}
	return s.fetch(ctx, "country_chart", CodeCountryFallback, message, limit, func(ctx context.Context, limit int) ([]track.Track, error) {
		return s.provider.CountryChart(ctx, code, limit)
	})
}

// Related returns tracks related to the one playing. Top tracks serve as the proxy.
func (s *Service) Related(ctx context.Context, limit int) Result {
	if limit <= 0 {
		limit = s.relatedLimit
	}
	tracks, err := s.provider.TopTracks(ctx, limit)
	if err == nil && len(tracks) > 0 {
		s.metrics.CatalogRequest("related", metrics.OutcomeOK)
		return Result{Tracks: s.enrich(ctx, tracks)}
	}
	s.recordFailure("related", err)
	// Sample tracks 2..6 stand in for related tracks.
	return s.fallback("related", CodeCatalogFallback, "", mockTracks[1:6].Clone())
}

// TrackDetails returns a single track. Unknown ids resolve to the sample track with that id,
// else the first sample track.
func (s *Service) TrackDetails(ctx context.Context, trackID string) (track.Track, bool) {
	t, err := s.provider.TrackDetails(ctx, trackID)
	if err == nil && t.ID != "" {
		s.metrics.CatalogRequest("track_details", metrics.OutcomeOK)
		return s.enrichOne(ctx, t), false
	}
	s.recordFailure("track_details", err)

	sample, ok := mockTracks.Find(trackID)
	if !ok {
		sample = mockTracks[0]
	}
	res := s.fallback("track_details", CodeTrackFallback, "", track.Collection{sample})
	return res.Tracks[0], true
}

// Search returns typed results for query. An empty query returns an empty result.
func (s *Service) Search(ctx context.Context, query string, limit int) Result {
	limit = s.limit(limit)
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Tracks: track.Collection{}, Items: []track.SearchResultItem{}}
	}

	items, err := s.provider.Search(ctx, query, limit)
	if err == nil && len(items) > 0 {
		s.metrics.CatalogRequest("search", metrics.OutcomeOK)
		items = s.validItems(items)
		tracks := s.enrich(ctx, track.Tracks(items))
		return Result{Tracks: tracks, Items: replaceTracks(items, tracks)}
	}
	s.recordFailure("search", err)

	mockItems, _ := s.mock.Search(ctx, query, limit)
	res := s.fallback("search", CodeCatalogFallback, "", track.Tracks(mockItems))
	res.Items = mockItems
	return res
}

type fetchFunc func(ctx context.Context, limit int) ([]track.Track, error)

func (s *Service) fetch(ctx context.Context, operation, fallbackCode, fallbackMessage string, limit int, fn fetchFunc) Result {
	tracks, err := fn(ctx, limit)
	if err == nil && len(tracks) > 0 {
		s.metrics.CatalogRequest(operation, metrics.OutcomeOK)
		return Result{Tracks: s.enrich(ctx, tracks)}
	}
	s.recordFailure(operation, err)
	return s.fallback(operation, fallbackCode, fallbackMessage, firstN(limit))
}

func (s *Service) recordFailure(operation string, err error) {
	if err != nil {
		s.metrics.CatalogRequest(operation, metrics.OutcomeError)
		zlog.Warn().Msgf("catalog request failed, using sample data: operation=%s error=%v", operation, err)
		return
	}
	s.metrics.CatalogRequest(operation, metrics.OutcomeEmpty)
	zlog.Info().Msgf("catalog request returned no tracks, using sample data: operation=%s", operation)
}

func (s *Service) fallback(operation, code, message string, tracks track.Collection) Result {
	s.metrics.CatalogFallback(operation)
	if message == "" && s.messages != nil {
		message = s.messages.GetMessage(code)
	}
	if s.notifier != nil && message != "" {
		s.notifier.Notify(notification.Error(code, message))
	}
	return Result{Tracks: tracks, Fallback: true}
}

func (s *Service) enrich(ctx context.Context, tracks []track.Track) track.Collection {
	return track.Collection(s.enricher.Enrich(ctx, tracks))
}

func (s *Service) enrichOne(ctx context.Context, t track.Track) track.Track {
	return s.enricher.EnrichOne(ctx, t)
}

func (s *Service) limit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	return limit
}

// validItems drops malformed items reported by a provider.
func (s *Service) validItems(items []track.SearchResultItem) []track.SearchResultItem {
	out := make([]track.SearchResultItem, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			zlog.Warn().Msgf("dropping invalid search item: error=%v", err)
			continue
		}
		out = append(out, it)
	}
	return out
}

// replaceTracks substitutes enriched tracks into the track items, in order.
func replaceTracks(items []track.SearchResultItem, tracks track.Collection) []track.SearchResultItem {
	out := make([]track.SearchResultItem, len(items))
	copy(out, items)
	next := 0
	for i := range out {
		if out[i].Kind != track.KindTrack || out[i].Track == nil {
			continue
		}
		if next < len(tracks) {
			t := tracks[next]
			out[i].Track = &t
		}
		next++
	}
	return out
}
