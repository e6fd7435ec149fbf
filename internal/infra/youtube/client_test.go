package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), Config{
		APIKey:      "test_key",
		QuerySuffix: "official music video",
		Endpoint:    srv.URL + "/",
		HTTPClient:  srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Blinding Lights The Weeknd official music video", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "1", q.Get("maxResults"))
		assert.Equal(t, "snippet", q.Get("part"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"id":{"kind":"youtube#video","videoId":"J7p4bzqLvCw"},"snippet":{"title":"The Weeknd - Blinding Lights","thumbnails":{"high":{"url":"https://i.ytimg.com/vi/J7p4bzqLvCw/hqdefault.jpg"}}}}]}`)
	})

	v, err := c.Search(context.Background(), "Blinding Lights The Weeknd")
	require.NoError(t, err)
	assert.Equal(t, "J7p4bzqLvCw", v.ID)
	assert.Equal(t, "The Weeknd - Blinding Lights", v.Title)
	assert.Equal(t, "https://i.ytimg.com/vi/J7p4bzqLvCw/hqdefault.jpg", v.ThumbnailURL)
}

func TestClient_SearchNoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	})

	_, err := c.Search(context.Background(), "nothing here")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestClient_SearchHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quotaExceeded"}}`)
	})

	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResults)
}

func TestClient_Query(t *testing.T) {
	c := &Client{querySuffix: "official music video"}
	assert.Equal(t, "Circles Post Malone official music video", c.Query(" Circles Post Malone "))

	bare := &Client{}
	assert.Equal(t, "Circles", bare.Query("Circles"))
}
