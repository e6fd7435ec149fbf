package storage

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunewave/internal/domain/history"
	"github.com/osa030/tunewave/internal/domain/playlist"
	"github.com/osa030/tunewave/internal/domain/track"
)

// Repository reads and writes the history and playlist documents.
type Repository struct {
	store        Store
	persistEmpty bool
}

// NewRepository creates a repository over store.
// Unless persistEmpty is set, an empty collection is never written.
func NewRepository(store Store, persistEmpty bool) *Repository {
	return &Repository{store: store, persistEmpty: persistEmpty}
}

// LoadHistory returns the stored history entries, most recent first.
// A malformed document yields no entries; malformed entries are skipped.
func (r *Repository) LoadHistory(ctx context.Context) ([]history.Entry, error) {
	raw, err := r.loadArray(ctx, KeyHistory)
	if err != nil || raw == nil {
		return nil, err
	}

	entries := make([]history.Entry, 0, len(raw))
	for i, item := range raw {
		var e history.Entry
		if err := json.Unmarshal(item, &e); err != nil {
			zlog.Warn().Msgf("skipping malformed history entry: index=%d error=%v", i, err)
			continue
		}
		if e.ID == "" || e.ListenedAt.IsZero() {
			zlog.Warn().Msgf("skipping incomplete history entry: index=%d", i)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SaveHistory writes the full history document.
func (r *Repository) SaveHistory(ctx context.Context, entries []history.Entry) error {
	if len(entries) == 0 && !r.persistEmpty {
		return nil
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return r.save(ctx, KeyHistory, entries)
}

// LoadPlaylists returns the stored playlists in store order.
// A malformed document yields no playlists; malformed playlists are skipped.
func (r *Repository) LoadPlaylists(ctx context.Context) ([]playlist.Playlist, error) {
	raw, err := r.loadArray(ctx, KeyPlaylists)
	if err != nil || raw == nil {
		return nil, err
	}

	playlists := make([]playlist.Playlist, 0, len(raw))
	for i, item := range raw {
		var p playlist.Playlist
		if err := json.Unmarshal(item, &p); err != nil {
			zlog.Warn().Msgf("skipping malformed playlist: index=%d error=%v", i, err)
			continue
		}
		if p.ID == "" || p.Name == "" {
			zlog.Warn().Msgf("skipping incomplete playlist: index=%d", i)
			continue
		}
		if p.Tracks == nil {
			p.Tracks = make([]track.Track, 0)
		}
		if p.CoverImage == "" {
			p.CoverImage = playlist.DefaultCoverImage
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

// SavePlaylists writes the full playlist document.
func (r *Repository) SavePlaylists(ctx context.Context, playlists []playlist.Playlist) error {
	if len(playlists) == 0 && !r.persistEmpty {
		return nil
	}
	if playlists == nil {
		playlists = []playlist.Playlist{}
	}
	return r.save(ctx, KeyPlaylists, playlists)
}

func (r *Repository) loadArray(ctx context.Context, key string) ([]json.RawMessage, error) {
	data, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", key)
	}
	if !ok {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		zlog.Warn().Msgf("ignoring malformed stored document: key=%s error=%v", key, err)
		return nil, nil
	}
	return raw, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", key)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return errors.Wrapf(err, "failed to save %s", key)
	}
	return nil
}
