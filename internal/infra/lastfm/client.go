// Package lastfm provides a client for the Last.fm API.
package lastfm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// geoCacheTTL bounds how long a country chart is reused.
const geoCacheTTL = 10 * time.Minute

// geoCacheEntry represents a cached country chart.
type geoCacheEntry struct {
	tracks    []TopTrack
	fetchedAt time.Time
}

// Client is a Last.fm API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// Cache for geo.getTopTracks keyed by country and limit
	geoCache map[string]*geoCacheEntry
	// Mutex for cache access
	cacheMu sync.RWMutex
	now     func() time.Time
}

// Config represents Last.fm client configuration.
type Config struct {
	APIKey string
}

// TopTrack represents a chart or search entry.
type TopTrack struct {
	Name        string
	Artist      string
	DurationSec int // 0 when unknown
	Listeners   int
	URL         string
	ImageURL    string
}

type image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type chartTrack struct {
	Name      string `json:"name"`
	Duration  string `json:"duration"`
	Listeners string `json:"listeners"`
	URL       string `json:"url"`
	Artist    struct {
		Name string `json:"name"`
	} `json:"artist"`
	Image []image `json:"image"`
}

// getTopTracksResponse is shared by chart.getTopTracks and geo.getTopTracks.
type getTopTracksResponse struct {
	Tracks struct {
		Track []chartTrack `json:"track"`
	} `json:"tracks"`
}

type searchResponse struct {
	Results struct {
		TrackMatches struct {
			Track []struct {
				Name      string  `json:"name"`
				Artist    string  `json:"artist"`
				Listeners string  `json:"listeners"`
				URL       string  `json:"url"`
				Image     []image `json:"image"`
			} `json:"track"`
		} `json:"trackmatches"`
	} `json:"results"`
}

// LastFMError represents an error response from Last.fm API.
type LastFMError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// New creates a new Last.fm client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("last.fm API key is required")
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    "https://ws.audioscrobbler.com/2.0/",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		geoCache:   make(map[string]*geoCacheEntry),
		now:        time.Now,
	}, nil
}

// GetChartTopTracks retrieves global top tracks from Last.fm charts.
// Reference: https://www.last.fm/api/show/chart.getTopTracks
func (c *Client) GetChartTopTracks(ctx context.Context, limit int) ([]TopTrack, error) {
	params := url.Values{}
	params.Set("method", "chart.getTopTracks")
	params.Set("limit", strconv.Itoa(clampLimit(limit)))

	var response getTopTracksResponse
	if err := c.call(ctx, params, &response); err != nil {
		return nil, err
	}
	return convertChart(response.Tracks.Track), nil
}

// GetGeoTopTracks retrieves the most popular tracks in a country.
// country is an ISO 3166-1 country name such as "Japan".
// Reference: https://www.last.fm/api/show/geo.getTopTracks
func (c *Client) GetGeoTopTracks(ctx context.Context, country string, limit int) ([]TopTrack, error) {
	if country == "" {
		return nil, errors.New("country is required")
	}
	limit = clampLimit(limit)

	// Check cache first
	cacheKey := strings.ToLower(country) + ":" + strconv.Itoa(limit)
	c.cacheMu.RLock()
	if entry, ok := c.geoCache[cacheKey]; ok && c.now().Sub(entry.fetchedAt) < geoCacheTTL {
		c.cacheMu.RUnlock()
		zlog.Debug().Msgf("using cached top tracks for country: %s", country)
		return entry.tracks, nil
	}
	c.cacheMu.RUnlock()

	params := url.Values{}
	params.Set("method", "geo.getTopTracks")
	params.Set("country", country)
	params.Set("limit", strconv.Itoa(limit))

	var response getTopTracksResponse
	if err := c.call(ctx, params, &response); err != nil {
		return nil, err
	}
	tracks := convertChart(response.Tracks.Track)

	// Cache the result
	c.cacheMu.Lock()
	c.geoCache[cacheKey] = &geoCacheEntry{tracks: tracks, fetchedAt: c.now()}
	c.cacheMu.Unlock()
	zlog.Debug().Msgf("cached top tracks for country: %s (count: %d)", country, len(tracks))

	return tracks, nil
}

// SearchTracks searches tracks by name.
// Reference: https://www.last.fm/api/show/track.search
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]TopTrack, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}

	params := url.Values{}
	params.Set("method", "track.search")
	params.Set("track", query)
	params.Set("limit", strconv.Itoa(clampLimit(limit)))

	var response searchResponse
	if err := c.call(ctx, params, &response); err != nil {
		return nil, err
	}

	matches := response.Results.TrackMatches.Track
	tracks := make([]TopTrack, 0, len(matches))
	for _, t := range matches {
		tracks = append(tracks, TopTrack{
			Name:      t.Name,
			Artist:    t.Artist,
			Listeners: atoi(t.Listeners),
			URL:       t.URL,
			ImageURL:  largestImage(t.Image),
		})
	}
	return tracks, nil
}

// call performs a GET request and decodes the JSON body into out.
func (c *Client) call(ctx context.Context, params url.Values, out any) error {
	method := params.Get("method")
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to send request: method=%s", method)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	// Check for Last.fm API errors
	var apiError LastFMError
	if err := json.Unmarshal(body, &apiError); err == nil && apiError.Error != 0 {
		return errors.Errorf("last.fm API error %d: %s", apiError.Error, apiError.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("last.fm API returned status %d: method=%s", resp.StatusCode, method)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}
	return nil
}

func convertChart(in []chartTrack) []TopTrack {
	tracks := make([]TopTrack, 0, len(in))
	for _, t := range in {
		tracks = append(tracks, TopTrack{
			Name:        t.Name,
			Artist:      t.Artist.Name,
			DurationSec: atoi(t.Duration),
			Listeners:   atoi(t.Listeners),
			URL:         t.URL,
			ImageURL:    largestImage(t.Image),
		})
	}
	return tracks
}

// largestImage returns the last non-empty image URL (Last.fm lists sizes ascending).
func largestImage(images []image) string {
	for i := len(images) - 1; i >= 0; i-- {
		if images[i].URL != "" {
			return images[i].URL
		}
	}
	return ""
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
