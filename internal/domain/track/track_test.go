package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_WithVideo(t *testing.T) {
	tests := []struct {
		name           string
		videoID        string
		thumbnail      string
		wantURL        string
		wantBackground string
	}{
		{
			name:           "thumbnail supplied",
			videoID:        "J7p4bzqLvCw",
			thumbnail:      "https://i.ytimg.com/vi/J7p4bzqLvCw/hqdefault.jpg",
			wantURL:        "https://www.youtube.com/watch?v=J7p4bzqLvCw",
			wantBackground: "https://i.ytimg.com/vi/J7p4bzqLvCw/hqdefault.jpg",
		},
		{
			name:           "thumbnail missing falls back to maxres",
			videoID:        "abc",
			wantURL:        "https://www.youtube.com/watch?v=abc",
			wantBackground: "https://img.youtube.com/vi/abc/maxresdefault.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := Track{ID: "1", Title: "Blinding Lights", Artist: "The Weeknd"}
			got := base.WithVideo(tt.videoID, tt.thumbnail)

			assert.Equal(t, tt.videoID, got.YouTubeID)
			assert.Equal(t, tt.wantURL, got.YouTubeURL)
			assert.Equal(t, tt.wantBackground, got.BackgroundImage)
			assert.True(t, got.HasVideo())
			assert.False(t, base.HasVideo(), "original must stay untouched")
		})
	}
}

func TestTrack_WithVideo_EmptyID(t *testing.T) {
	base := Track{ID: "1", Title: "Circles"}
	assert.Equal(t, base, base.WithVideo("", "thumb"))
}

func TestTrack_EnrichmentKey(t *testing.T) {
	tr := Track{Title: "Bad Guy", Artist: "Billie Eilish"}
	assert.Equal(t, "Bad Guy Billie Eilish", tr.EnrichmentKey())
}

func TestCollection_Navigation(t *testing.T) {
	c := Collection{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	assert.Equal(t, 1, c.IndexOf("2"))
	assert.Equal(t, -1, c.IndexOf("9"))

	found, ok := c.Find("3")
	assert.True(t, ok)
	assert.Equal(t, "3", found.ID)

	_, ok = c.Find("9")
	assert.False(t, ok)

	assert.Equal(t, []string{"1", "2", "3"}, c.IDs())
}

func TestCollection_CloneIsDetached(t *testing.T) {
	c := Collection{{ID: "1", Title: "a"}}
	clone := c.Clone()
	clone[0].Title = "b"

	assert.Equal(t, "a", c[0].Title)
	assert.NotNil(t, Collection(nil).Clone())
}

func TestConcat(t *testing.T) {
	got := Concat(Collection{{ID: "1"}}, nil, Collection{{ID: "2"}, {ID: "3"}})
	assert.Equal(t, []string{"1", "2", "3"}, got.IDs())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms       int
		expected string
	}{
		{0, "0:00"},
		{999, "0:00"},
		{200040, "3:20"},
		{234000, "3:54"},
		{59999, "0:59"},
		{600000, "10:00"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.ms))
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{input: "3:20", expected: 3*time.Minute + 20*time.Second},
		{input: "0:05", expected: 5 * time.Second},
		{input: "12:00", expected: 12 * time.Minute},
		{input: "3:2", wantErr: true},
		{input: "3:60", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVideoURLs(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/xyz", EmbedURL("xyz"))
	assert.Equal(t, "https://img.youtube.com/vi/xyz/hqdefault.jpg", ThumbnailURL("xyz", ThumbnailHigh))
}
