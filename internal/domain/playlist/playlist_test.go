package playlist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunewave/internal/domain/track"
)

func TestNew_Defaults(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := New("1704067200000", "Road Trip", "", "", at)

	assert.Equal(t, DefaultCoverImage, p.CoverImage)
	assert.NotNil(t, p.Tracks)
	assert.Empty(t, p.Tracks)
	assert.Equal(t, at, p.CreatedAt)

	custom := New("2", "Gym", "", "https://example.com/c.png", at)
	assert.Equal(t, "https://example.com/c.png", custom.CoverImage)
}

func TestPlaylist_TrackIDs(t *testing.T) {
	tests := []struct {
		name     string
		tracks   []track.Track
		expected []string
	}{
		{
			name:     "empty playlist",
			tracks:   []track.Track{},
			expected: []string{},
		},
		{
			name: "single track",
			tracks: []track.Track{
				{ID: "track-1"},
			},
			expected: []string{"track-1"},
		},
		{
			name: "multiple tracks",
			tracks: []track.Track{
				{ID: "track-1"},
				{ID: "track-2"},
				{ID: "track-3"},
			},
			expected: []string{"track-1", "track-2", "track-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{
				ID:     "playlist-1",
				Tracks: tt.tracks,
			}

			result := p.TrackIDs()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPlaylist_AppendTrack(t *testing.T) {
	p := New("p1", "Mix", "", "", time.Now())

	assert.True(t, p.AppendTrack(track.Track{ID: "t1"}))
	assert.True(t, p.AppendTrack(track.Track{ID: "t2"}))
	assert.False(t, p.AppendTrack(track.Track{ID: "t1"}))

	assert.Equal(t, []string{"t1", "t2"}, p.TrackIDs())
	assert.True(t, p.HasTrack("t2"))
	assert.False(t, p.HasTrack("t3"))
}

func TestPlaylist_RemoveTrack(t *testing.T) {
	tests := []struct {
		name     string
		remove   string
		removed  bool
		expected []string
	}{
		{name: "present", remove: "t2", removed: true, expected: []string{"t1", "t3"}},
		{name: "absent", remove: "t5", removed: false, expected: []string{"t1", "t2", "t3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{ID: "p1", Tracks: []track.Track{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}}
			assert.Equal(t, tt.removed, p.RemoveTrack(tt.remove))
			assert.Equal(t, tt.expected, p.TrackIDs())
		})
	}
}

func TestPlaylist_TotalDuration(t *testing.T) {
	tests := []struct {
		name     string
		tracks   []track.Track
		expected int64
	}{
		{
			name:     "empty playlist",
			tracks:   []track.Track{},
			expected: 0,
		},
		{
			name: "single track",
			tracks: []track.Track{
				{ID: "track-1", Duration: "3:00"},
			},
			expected: 180,
		},
		{
			name: "multiple tracks",
			tracks: []track.Track{
				{ID: "track-1", Duration: "3:00"},
				{ID: "track-2", Duration: "4:30"},
				{ID: "track-3", Duration: "2:15"},
			},
			expected: 585,
		},
		{
			name: "malformed durations are skipped",
			tracks: []track.Track{
				{ID: "track-1", Duration: "3:00"},
				{ID: "track-2", Duration: "n/a"},
			},
			expected: 180,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Playlist{
				ID:     "playlist-1",
				Tracks: tt.tracks,
			}

			result := p.TotalDuration()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPlaylist_CloneIsDeep(t *testing.T) {
	p := New("p1", "Mix", "", "", time.Now())
	p.AppendTrack(track.Track{ID: "t1", Title: "a"})

	c := p.Clone()
	c.Tracks[0].Title = "b"
	c.Name = "Other"

	assert.Equal(t, "a", p.Tracks[0].Title)
	assert.Equal(t, "Mix", p.Name)
}

func TestPlaylist_JSONLayout(t *testing.T) {
	p := New("1700000000000", "Favorites", "all-time", "", time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC))

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "1700000000000",
		"name": "Favorites",
		"description": "all-time",
		"coverImage": "https://picsum.photos/seed/playlist/300/300",
		"tracks": [],
		"createdAt": "2023-11-14T22:13:20Z"
	}`, string(data))
}
