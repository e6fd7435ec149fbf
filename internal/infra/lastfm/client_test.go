package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartResponse = `{
	"tracks": {
		"track": [
			{
				"name": "Track 1",
				"duration": "200",
				"listeners": "1000",
				"url": "url1",
				"artist": {"name": "Artist 1", "mbid": "ambid1", "url": "aurl1"},
				"image": [{"#text": "small.png", "size": "small"}, {"#text": "large.png", "size": "extralarge"}]
			},
			{
				"name": "Track 2",
				"duration": "0",
				"listeners": "500",
				"url": "url2",
				"artist": {"name": "Artist 2"}
			}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{APIKey: "test_key"})
	require.NoError(t, err)
	client.baseURL = server.URL + "/"
	return client
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestGetChartTopTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chart.getTopTracks", r.URL.Query().Get("method"))
		assert.Equal(t, "test_key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartResponse)
	})

	tracks, err := client.GetChartTopTracks(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Track 1", tracks[0].Name)
	assert.Equal(t, "Artist 1", tracks[0].Artist)
	assert.Equal(t, 200, tracks[0].DurationSec)
	assert.Equal(t, 1000, tracks[0].Listeners)
	assert.Equal(t, "large.png", tracks[0].ImageURL)
	assert.Equal(t, 0, tracks[1].DurationSec)
	assert.Empty(t, tracks[1].ImageURL)
}

func TestGetGeoTopTracks_Caches(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "geo.getTopTracks", r.URL.Query().Get("method"))
		assert.Equal(t, "Japan", r.URL.Query().Get("country"))
		fmt.Fprint(w, chartResponse)
	})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	ctx := context.Background()
	first, err := client.GetGeoTopTracks(ctx, "Japan", 10)
	require.NoError(t, err)
	cached, err := client.GetGeoTopTracks(ctx, "japan", 10)
	require.NoError(t, err)
	assert.Equal(t, first, cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(geoCacheTTL + time.Second)
	_, err = client.GetGeoTopTracks(ctx, "Japan", 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSearchTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "track.search", r.URL.Query().Get("method"))
		assert.Equal(t, "believe", r.URL.Query().Get("track"))
		fmt.Fprint(w, `{"results":{"trackmatches":{"track":[{"name":"Believe","artist":"Cher","listeners":"123","url":"u"}]}}}`)
	})

	tracks, err := client.SearchTracks(context.Background(), " believe ", 0)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Cher", tracks[0].Artist)
	assert.Equal(t, 123, tracks[0].Listeners)

	_, err = client.SearchTracks(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "error envelope", status: http.StatusOK, body: `{"error":10,"message":"Invalid API key"}`, wantErr: "Invalid API key"},
		{name: "error envelope with status", status: http.StatusForbidden, body: `{"error":29,"message":"Rate limit exceeded"}`, wantErr: "Rate limit exceeded"},
		{name: "bad status", status: http.StatusBadGateway, body: `<html></html>`, wantErr: "status 502"},
		{name: "bad json", status: http.StatusOK, body: `{"tracks":`, wantErr: "failed to parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.GetChartTopTracks(context.Background(), 5)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
