package catalog

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/osa030/tunewave/internal/domain/track"
	"github.com/osa030/tunewave/internal/infra/metrics"
	"github.com/osa030/tunewave/internal/infra/youtube"
)

const outcomeCached = "cached"

// VideoSearcher finds a video for an enrichment key.
type VideoSearcher interface {
	Search(ctx context.Context, key string) (youtube.Video, error)
}

// Enricher attaches video references to tracks.
type Enricher struct {
	videos      VideoSearcher
	concurrency int
	metrics     *metrics.Metrics

	mu    sync.RWMutex
	cache map[string]youtube.Video // keyed by EnrichmentKey; misses are cached as zero values
}

// NewEnricher creates a new Enricher. concurrency bounds parallel lookups.
func NewEnricher(videos VideoSearcher, concurrency int, m *metrics.Metrics) *Enricher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Enricher{
		videos:      videos,
		concurrency: concurrency,
		metrics:     m,
		cache:       make(map[string]youtube.Video),
	}
}

// Enrich returns a copy of tracks with videos attached where a lookup succeeded.
// Tracks that already carry a video, or whose lookup fails, are returned unchanged.
func (e *Enricher) Enrich(ctx context.Context, tracks []track.Track) []track.Track {
	out := make([]track.Track, len(tracks))
	copy(out, tracks)
	if e == nil || e.videos == nil {
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range out {
		if out[i].HasVideo() || out[i].EnrichmentKey() == "" {
			continue
		}
		i := i
		g.Go(func() error {
			video, ok := e.lookup(gctx, out[i].EnrichmentKey())
			if ok {
				out[i] = out[i].WithVideo(video.ID, video.ThumbnailURL)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// EnrichOne enriches a single track.
func (e *Enricher) EnrichOne(ctx context.Context, t track.Track) track.Track {
	return e.Enrich(ctx, []track.Track{t})[0]
}

func (e *Enricher) lookup(ctx context.Context, key string) (youtube.Video, bool) {
	e.mu.RLock()
	video, cached := e.cache[key]
	e.mu.RUnlock()
	if cached {
		e.metrics.Enrichment(outcomeCached)
		return video, video.ID != ""
	}

	video, err := e.videos.Search(ctx, key)
	switch {
	case errors.Is(err, youtube.ErrNoResults):
		e.metrics.Enrichment(metrics.OutcomeEmpty)
		zlog.Debug().Msgf("no video found: key=%s", key)
		e.store(key, youtube.Video{})
		return youtube.Video{}, false
	case err != nil:
		// Transient failures are not cached.
		e.metrics.Enrichment(metrics.OutcomeError)
		zlog.Warn().Msgf("video lookup failed: key=%s error=%v", key, err)
		return youtube.Video{}, false
	}

	e.metrics.Enrichment(metrics.OutcomeOK)
	e.store(key, video)
	return video, true
}

func (e *Enricher) store(key string, video youtube.Video) {
	e.mu.Lock()
	e.cache[key] = video
	e.mu.Unlock()
}
