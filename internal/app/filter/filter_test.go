package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunewave/internal/domain/track"
	"github.com/osa030/tunewave/internal/infra/config"
)

func TestPlaylistSizeFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		maxTracks    int
		existing     int
		wantAccepted bool
	}{
		{name: "room left", maxTracks: 3, existing: 2, wantAccepted: true},
		{name: "full", maxTracks: 2, existing: 2, wantAccepted: false},
		{name: "empty playlist", maxTracks: 1, existing: 0, wantAccepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewPlaylistSizeFilter()
			require.NoError(t, f.ValidateConfig(map[string]any{"max_tracks": tt.maxTracks}))

			p := playlistWith()
			for i := 0; i < tt.existing; i++ {
				p.AppendTrack(track.Track{ID: string(rune('a' + i))})
			}

			result := f.Check(context.Background(), p, track.Track{ID: "new"})
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, "playlist_full", result.Code)
			}
		})
	}
}

func TestPlaylistSizeFilter_ValidateConfig(t *testing.T) {
	f := NewPlaylistSizeFilter()
	require.NoError(t, f.ValidateConfig(nil))
	assert.Equal(t, 500, f.config.MaxTracks)

	assert.Error(t, NewPlaylistSizeFilter().ValidateConfig(map[string]any{"max_tracks": -3}))
}

func TestRegisteredNames(t *testing.T) {
	assert.Equal(t, []string{"duplicate_track_filter", "duration_limit_filter", "playlist_size_filter"}, RegisteredNames())
	for name, factory := range GetRegistered() {
		f := factory()
		assert.Equal(t, name, f.Name())
		assert.NotEmpty(t, f.Description())
		assert.NotEmpty(t, f.ReturnCodes())
	}
}

func TestNewChainFromConfig(t *testing.T) {
	cfg := &config.Config{
		Filters: map[string]config.FilterConfig{
			"duration_limit_filter": {Enabled: true, Settings: map[string]any{"max_minutes": 4}},
			"playlist_size_filter":  {Enabled: false},
		},
	}

	chain := NewChainFromConfig(cfg)

	var names []string
	for _, f := range chain.Filters() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"duplicate_track_filter", "duration_limit_filter"}, names)

	p := playlistWith(track.Track{ID: "1", Duration: "3:00"})
	assert.Equal(t, "duplicate_track", chain.Execute(context.Background(), p, track.Track{ID: "1", Duration: "3:00"}).Code)
	assert.Equal(t, "duration_limit_exceeded", chain.Execute(context.Background(), p, track.Track{ID: "2", Duration: "4:30"}).Code)
	assert.True(t, chain.Execute(context.Background(), p, track.Track{ID: "3", Duration: "2:00"}).Accepted)
}

func TestNewChainFromConfig_InvalidSettingsSkipped(t *testing.T) {
	cfg := &config.Config{
		Filters: map[string]config.FilterConfig{
			"duration_limit_filter": {Enabled: true, Settings: map[string]any{"min_minutes": 9, "max_minutes": 1}},
		},
	}

	chain := NewChainFromConfig(cfg)
	assert.Len(t, chain.Filters(), 1)
}
