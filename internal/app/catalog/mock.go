package catalog

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tunewave/internal/domain/track"
)

const albumArtBase = "https://i.scdn.co/image/ab67616d0000b273"

func mockTrack(id, title, artist, duration, art, album, videoID string, popularity int) track.Track {
	return track.Track{
		ID:              id,
		Title:           title,
		Artist:          artist,
		AlbumArt:        albumArtBase + art,
		Duration:        duration,
		YouTubeID:       videoID,
		YouTubeURL:      track.WatchURL(videoID),
		BackgroundImage: track.ThumbnailURL(videoID, track.ThumbnailMaxRes),
		Popularity:      popularity,
		AlbumName:       album,
		Source:          track.SourceMock,
	}
}

// mockTracks is the built-in sample collection served when every provider fails.
var mockTracks = func() track.Collection {
	tracks := track.Collection{
		mockTrack("1", "Blinding Lights", "The Weeknd", "3:20", "c5649add07ed3720be9d5526", "After Hours", "J7p4bzqLvCw", 95),
		mockTrack("2", "Shape of You", "Ed Sheeran", "3:54", "ba5db46f4b838ef6027e6f96", "÷ (Divide)", "JGwWNGJdvx8", 92),
		mockTrack("3", "Dance Monkey", "Tones and I", "3:29", "c6f7af36ecbaae847a1fc62e", "The Kids Are Coming", "q0hyYWKXF0Q", 88),
		mockTrack("4", "Someone You Loved", "Lewis Capaldi", "3:02", "fc2101e6889d6ce9025f85f2", "Divinely Uninspired To A Hellish Extent", "zABLecsR5UE", 89),
		mockTrack("5", "Don't Start Now", "Dua Lipa", "3:03", "bd26ede1ae69327010d49946", "Future Nostalgia", "oygrmJFKYZY", 87),
		mockTrack("6", "Watermelon Sugar", "Harry Styles", "2:54", "d9d50543cca98f5a06508f24", "Fine Line", "E07s5ZYygMg", 90),
		mockTrack("7", "Bad Guy", "Billie Eilish", "3:14", "7005885df706891a3c182a57", "WHEN WE ALL FALL ASLEEP, WHERE DO WE GO?", "DyDfgMOUjCI", 91),
		mockTrack("8", "Circles", "Post Malone", "3:35", "b1c4b76e23414c9f20242268", "Hollywood's Bleeding", "wXhTHyIgQ_U", 88),
		mockTrack("9", "Señorita", "Shawn Mendes, Camila Cabello", "3:11", "68768acf47f28983f8e3bedb", "Señorita", "Pkh8UtuejGw", 86),
		mockTrack("10", "Memories", "Maroon 5", "3:09", "c0e7bf5cdd630f314f20586a", "Memories", "SlPhMPnQ58k", 84),
	}
	tracks[0].AudioURL = "https://p.scdn.co/mp3-preview/31f65c6be5a4c0f69b99fcee5a5b98f13fffee9f?cid=e6cf501fb09b4b3783545232ca6e696d"
	return tracks
}()

// MockTracks returns a copy of the sample collection.
func MockTracks() track.Collection {
	return mockTracks.Clone()
}

// MockCatalog serves the sample collection for every operation.
type MockCatalog struct{}

// NewMockCatalog creates a new MockCatalog.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{}
}

// TopTracks returns the first limit sample tracks.
func (m *MockCatalog) TopTracks(ctx context.Context, limit int) ([]track.Track, error) {
	return firstN(limit), nil
}

// NewReleases returns the first limit sample tracks.
func (m *MockCatalog) NewReleases(ctx context.Context, limit int) ([]track.Track, error) {
	return firstN(limit), nil
}

// CountryChart returns the first limit sample tracks for any country.
func (m *MockCatalog) CountryChart(ctx context.Context, countryCode string, limit int) ([]track.Track, error) {
	return firstN(limit), nil
}

// TrackDetails returns the sample track with the given id.
func (m *MockCatalog) TrackDetails(ctx context.Context, trackID string) (track.Track, error) {
	if t, ok := mockTracks.Find(trackID); ok {
		return t, nil
	}
	return track.Track{}, errors.Newf("mock track not found: id=%s", trackID)
}

// Search matches the query against title, artist and album, case-insensitively.
func (m *MockCatalog) Search(ctx context.Context, query string, limit int) ([]track.SearchResultItem, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	items := make([]track.SearchResultItem, 0)
	for _, t := range mockTracks {
		if limit > 0 && len(items) >= limit {
			break
		}
		if q == "" ||
			strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Artist), q) ||
			strings.Contains(strings.ToLower(t.AlbumName), q) {
			items = append(items, track.TrackItem(t))
		}
	}
	return items, nil
}

// Name returns the provider name.
func (m *MockCatalog) Name() string {
	return "mock"
}

func firstN(limit int) []track.Track {
	if limit <= 0 || limit > len(mockTracks) {
		limit = len(mockTracks)
	}
	return mockTracks[:limit].Clone()
}
