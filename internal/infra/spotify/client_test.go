package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/osa030/tunewave/internal/domain/track"
)

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Spotify URI format", input: "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", expected: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "Spotify URL format", input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", expected: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "Spotify URL with query params", input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123", expected: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "Locale prefix", input: "https://open.spotify.com/intl-ja/playlist/abc123/", expected: "abc123"},
		{name: "Plain playlist ID", input: "37i9dQZF1DXcBWIGoYBM5M", expected: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "Empty string", input: "", expected: ""},
		{name: "HTTP URL (not HTTPS)", input: "http://open.spotify.com/playlist/testID", expected: "testID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractPlaylistID(tt.input))
		})
	}
}

func TestExtractTrackID(t *testing.T) {
	assert.Equal(t, "0VjIjW4GlUZAMYd2vXMi3b", extractTrackID("spotify:track:0VjIjW4GlUZAMYd2vXMi3b"))
	assert.Equal(t, "0VjIjW4GlUZAMYd2vXMi3b", extractTrackID("https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b?si=x"))
	assert.Equal(t, "abc", extractTrackID("  abc "))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "api rate limit", err: spotify.Error{Status: 429, Message: "slow down"}, expected: true},
		{name: "api server error", err: spotify.Error{Status: 503, Message: "unavailable"}, expected: true},
		{name: "api not found", err: spotify.Error{Status: 404, Message: "missing"}, expected: false},
		{name: "rate limit text", err: errors.New("rate limit exceeded"), expected: true},
		{name: "server error 502", err: errors.New("502 Bad Gateway"), expected: true},
		{name: "client error 400", err: errors.New("400 Bad Request"), expected: false},
		{name: "generic error", err: errors.New("something went wrong"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryable(tt.err))
		})
	}
}

func TestCachingTokenSource(t *testing.T) {
	var fetches int
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := newCachingTokenSource(context.Background(), func(ctx context.Context) (*oauth2.Token, error) {
		fetches++
		return &oauth2.Token{AccessToken: fmt.Sprintf("token-%d", fetches), Expiry: now.Add(time.Hour)}, nil
	})
	ts.now = func() time.Time { return now }

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok.AccessToken)

	now = now.Add(58 * time.Minute)
	tok, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok.AccessToken)
	assert.Equal(t, 1, fetches)

	// Within the refresh leeway
	now = now.Add(90 * time.Second)
	tok, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "token-2", tok.AccessToken)

	ts.Invalidate()
	tok, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "token-3", tok.AccessToken)
}

func TestCachingTokenSource_Errors(t *testing.T) {
	ts := newCachingTokenSource(context.Background(), func(ctx context.Context) (*oauth2.Token, error) {
		return nil, errors.New("invalid_client")
	})
	_, err := ts.Token()
	assert.ErrorContains(t, err, "invalid_client")

	empty := newCachingTokenSource(context.Background(), func(ctx context.Context) (*oauth2.Token, error) {
		return &oauth2.Token{}, nil
	})
	_, err = empty.Token()
	assert.Error(t, err)
}

const fullTrackJSON = `{
	"type": "track",
	"id": "0VjIjW4GlUZAMYd2vXMi3b",
	"name": "Blinding Lights",
	"duration_ms": 200040,
	"popularity": 95,
	"preview_url": "https://p.scdn.co/mp3-preview/abc",
	"artists": [{"id": "a1", "name": "The Weeknd"}],
	"album": {"id": "al1", "name": "After Hours", "images": [{"url": "https://i.scdn.co/image/cover", "height": 640, "width": 640}]}
}`

func newTestServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var tokenCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"status":401,"message":"no token"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		path := strings.TrimPrefix(r.URL.Path, "/api/")
		switch {
		case strings.HasPrefix(path, "playlists/"):
			fmt.Fprintf(w, `{"items":[{"track":%s},{"track":{"type":"episode","id":"ep1","name":"Podcast"}}],"total":2,"limit":20}`, fullTrackJSON)
		case strings.HasPrefix(path, "tracks/"):
			fmt.Fprint(w, fullTrackJSON)
		case path == "search":
			fmt.Fprintf(w, `{
				"tracks": {"items": [%s]},
				"artists": {"items": [{"id": "a1", "name": "The Weeknd", "popularity": 90, "genres": ["pop"], "images": [{"url": "https://i.scdn.co/image/artist"}]}]},
				"albums": {"items": [{"id": "al1", "name": "After Hours", "release_date": "2020-03-20", "artists": [{"name": "The Weeknd"}]}]}
			}`, fullTrackJSON)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"status":404,"message":"not found"}}`)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(context.Background(), Config{
		ClientID:      "id",
		ClientSecret:  "secret",
		Market:        "US",
		TopPlaylistID: "https://open.spotify.com/playlist/top50",
		BaseURL:       srv.URL + "/api",
		TokenURL:      srv.URL + "/token",
		HTTPClient:    srv.Client(),
	})
	require.NoError(t, err)
	c.retryDelay = time.Millisecond
	return c
}

func TestConvert_ExternalURL(t *testing.T) {
	album := spotify.SimpleAlbum{ID: "al1", Name: "After Hours"}
	tests := []struct {
		name string
		got  track.Track
		want string
	}{
		{
			name: "full track",
			got:  convertTrack(&spotify.FullTrack{SimpleTrack: spotify.SimpleTrack{ID: "t1", Name: "One"}, Album: album}),
			want: "https://open.spotify.com/track/t1",
		},
		{
			name: "album track",
			got:  convertSimpleTrack(spotify.SimpleTrack{ID: "t2", Name: "Two"}, album),
			want: "https://open.spotify.com/track/t2",
		},
		{
			name: "album stand-in",
			got:  convertAlbum(album),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.ExternalURL)
		})
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{ClientID: "id"})
	assert.Error(t, err)
}

func TestClient_TopTracks(t *testing.T) {
	srv, tokenCalls := newTestServer(t)
	c := newTestClient(t, srv)

	tracks, err := c.TopTracks(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	got := tracks[0]
	assert.Equal(t, "0VjIjW4GlUZAMYd2vXMi3b", got.ID)
	assert.Equal(t, "Blinding Lights", got.Title)
	assert.Equal(t, "The Weeknd", got.Artist)
	assert.Equal(t, "3:20", got.Duration)
	assert.Equal(t, "https://i.scdn.co/image/cover", got.AlbumArt)
	assert.Equal(t, "After Hours", got.AlbumName)
	assert.Equal(t, 95, got.Popularity)
	assert.Equal(t, track.SourceSpotify, got.Source)
	assert.Equal(t, "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b", got.ExternalURL)
	assert.True(t, got.HasPreview())

	_, err = c.GetTrack(context.Background(), "spotify:track:0VjIjW4GlUZAMYd2vXMi3b")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(tokenCalls))
}

func TestClient_Search(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, srv)

	items, err := c.Search(context.Background(), "weeknd", 5)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, track.KindTrack, items[0].Kind)
	assert.Equal(t, "Blinding Lights", items[0].Track.Title)
	assert.Equal(t, track.KindArtist, items[1].Kind)
	assert.Equal(t, []string{"pop"}, items[1].Artist.Genres)
	assert.Equal(t, track.KindAlbum, items[2].Kind)
	assert.Equal(t, "2020-03-20", items[2].Album.ReleaseDate)
	for _, item := range items {
		assert.NoError(t, item.Validate())
	}

	_, err = c.Search(context.Background(), "  ", 5)
	assert.Error(t, err)
}

func TestClient_CountryChartInvalidCode(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, srv)

	_, err := c.CountryChart(context.Background(), "USA", 10)
	assert.Error(t, err)
}
