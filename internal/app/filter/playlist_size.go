package filter

import (
	"context"

	"github.com/osa030/tunewave/internal/domain/playlist"
	"github.com/osa030/tunewave/internal/domain/track"
)

// PlaylistSizeConfig represents the configuration for PlaylistSizeFilter.
type PlaylistSizeConfig struct {
	MaxTracks int `yaml:"max_tracks" mapstructure:"max_tracks" default:"500" validate:"gte=1"`
}

// PlaylistSizeFilter caps the number of tracks in a playlist.
type PlaylistSizeFilter struct {
	config *PlaylistSizeConfig
}

// NewPlaylistSizeFilter creates a new playlist size filter.
func NewPlaylistSizeFilter() *PlaylistSizeFilter {
	return &PlaylistSizeFilter{}
}

func (f *PlaylistSizeFilter) Name() string {
	return "playlist_size_filter"
}

func (f *PlaylistSizeFilter) Description() string {
	return "Rejects additions once a playlist holds max_tracks tracks"
}

func (f *PlaylistSizeFilter) ReturnCodes() []string {
	return []string{"playlist_full"}
}

func (f *PlaylistSizeFilter) ValidateConfig(settings map[string]any) error {
	var config PlaylistSizeConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	f.config = &config
	return nil
}

func (f *PlaylistSizeFilter) Check(ctx context.Context, p *playlist.Playlist, t track.Track) Result {
	if f.config == nil {
		return Accept()
	}
	if len(p.Tracks) >= f.config.MaxTracks {
		return Reject("playlist_full")
	}
	return Accept()
}

func init() {
	Register("playlist_size_filter", func() Filter {
		return NewPlaylistSizeFilter()
	})
}
