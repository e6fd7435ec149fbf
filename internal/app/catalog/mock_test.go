package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunewave/internal/domain/track"
)

func TestMockTracks(t *testing.T) {
	tracks := MockTracks()
	require.Len(t, tracks, 10)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, tracks.IDs())

	first := tracks[0]
	assert.Equal(t, "Blinding Lights", first.Title)
	assert.Equal(t, "The Weeknd", first.Artist)
	assert.Equal(t, "3:20", first.Duration)
	assert.True(t, first.HasPreview())
	assert.Equal(t, "https://www.youtube.com/watch?v=J7p4bzqLvCw", first.YouTubeURL)
	assert.Equal(t, "https://img.youtube.com/vi/J7p4bzqLvCw/maxresdefault.jpg", first.BackgroundImage)
	assert.Equal(t, "https://i.scdn.co/image/ab67616d0000b273c5649add07ed3720be9d5526", first.AlbumArt)

	for _, tr := range tracks[1:] {
		assert.False(t, tr.HasPreview(), tr.ID)
		assert.True(t, tr.HasVideo(), tr.ID)
		assert.True(t, tr.IsMock(), tr.ID)
	}

	tracks[0].Title = "changed"
	assert.Equal(t, "Blinding Lights", MockTracks()[0].Title)
}

func TestMockCatalog_Limits(t *testing.T) {
	m := NewMockCatalog()
	ctx := context.Background()

	top, err := m.TopTracks(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, top, 3)

	all, err := m.CountryChart(ctx, "JP", 50)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	got, err := m.TrackDetails(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "Bad Guy", got.Title)

	_, err = m.TrackDetails(ctx, "99")
	assert.Error(t, err)
}

func TestMockCatalog_Search(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title", query: "lights", want: []string{"1"}},
		{name: "artist case insensitive", query: "DUA", want: []string{"5"}},
		{name: "album", query: "future nostalgia", want: []string{"5"}},
		{name: "shared title and album", query: "memories", want: []string{"10"}},
		{name: "no match", query: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := NewMockCatalog().Search(context.Background(), tt.query, 20)
			require.NoError(t, err)
			assert.Equal(t, tt.want, track.Tracks(items).IDs())
		})
	}
}

func TestCountries(t *testing.T) {
	all := Countries()
	assert.Len(t, all, 20)
	assert.Equal(t, Country{Code: "US", Name: "United States", Region: "North America"}, all[0])

	name, ok := CountryName("jp")
	assert.True(t, ok)
	assert.Equal(t, "Japan", name)

	_, ok = CountryName("XX")
	assert.False(t, ok)
}
