// Package spotify provides a catalog client for the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/osa030/tunewave/internal/domain/track"
)

// Client is a Spotify API client using the client-credentials flow.
type Client struct {
	client        *spotify.Client
	tokens        *cachingTokenSource
	market        string
	topPlaylistID string
	maxRetries    int
	retryDelay    time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID      string
	ClientSecret  string
	Market        string
	TopPlaylistID string

	// BaseURL and TokenURL override the API endpoints (tests).
	BaseURL    string
	TokenURL   string
	HTTPClient *http.Client
}

// New creates a new Spotify client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	tokens := newCachingTokenSource(ctx, cc.Token)
	httpClient := oauth2.NewClient(ctx, tokens)

	var opts []spotify.ClientOption
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, spotify.WithBaseURL(base))
	}

	market := cfg.Market
	if market == "" {
		market = "US"
	}

	return &Client{
		client:        spotify.New(httpClient, opts...),
		tokens:        tokens,
		market:        market,
		topPlaylistID: extractPlaylistID(cfg.TopPlaylistID),
		maxRetries:    3,
		retryDelay:    time.Second,
	}, nil
}

// TopTracks returns the items of the configured global top playlist.
func (c *Client) TopTracks(ctx context.Context, limit int) ([]track.Track, error) {
	if c.topPlaylistID == "" {
		return nil, errors.New("top playlist is not configured")
	}
	tracks, err := c.playlistTracks(ctx, c.topPlaylistID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get top tracks")
	}
	return tracks, nil
}

// NewReleases returns the first track of each newly released album.
// An album whose tracks cannot be read is returned as a track of its own.
func (c *Client) NewReleases(ctx context.Context, limit int) ([]track.Track, error) {
	limit = clampLimit(limit)

	var page *spotify.SimpleAlbumPage
	err := c.retry(ctx, func() error {
		p, err := c.client.NewReleases(ctx, spotify.Country(c.market), spotify.Limit(limit))
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get new releases")
	}

	tracks := make([]track.Track, 0, len(page.Albums))
	for _, album := range page.Albums {
		var first *spotify.SimpleTrack
		err := c.retry(ctx, func() error {
			p, err := c.client.GetAlbumTracks(ctx, album.ID, spotify.Limit(1), spotify.Market(c.market))
			if err != nil {
				return err
			}
			if len(p.Tracks) > 0 {
				first = &p.Tracks[0]
			}
			return nil
		})
		if err != nil || first == nil {
			if err != nil {
				zlog.Debug().Msgf("spotify: album tracks unavailable, using album: album=%s error=%v", album.ID, err)
			}
			tracks = append(tracks, convertAlbum(album))
			continue
		}
		tracks = append(tracks, convertSimpleTrack(*first, album))
	}
	return tracks, nil
}

// CountryChart returns the items of the first featured playlist for the country.
func (c *Client) CountryChart(ctx context.Context, countryCode string, limit int) ([]track.Track, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if len(countryCode) != 2 {
		return nil, errors.Newf("invalid country code: %q", countryCode)
	}

	var page *spotify.SimplePlaylistPage
	err := c.retry(ctx, func() error {
		_, p, err := c.client.FeaturedPlaylists(ctx, spotify.Country(countryCode), spotify.Limit(1))
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get featured playlists: country=%s", countryCode)
	}
	if page == nil || len(page.Playlists) == 0 {
		return []track.Track{}, nil
	}

	tracks, err := c.playlistTracks(ctx, string(page.Playlists[0].ID), limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get country chart: country=%s", countryCode)
	}
	return tracks, nil
}

// GetTrack retrieves track information by ID, URL, or URI.
func (c *Client) GetTrack(ctx context.Context, trackID string) (track.Track, error) {
	id := extractTrackID(trackID)
	if id == "" {
		return track.Track{}, errors.New("track id is required")
	}

	var result *spotify.FullTrack
	err := c.retry(ctx, func() error {
		t, err := c.client.GetTrack(ctx, spotify.ID(id), spotify.Market(c.market))
		if err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return track.Track{}, errors.Wrap(err, "failed to get track")
	}
	return convertTrack(result), nil
}

// Search searches tracks, artists, albums and playlists.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]track.SearchResultItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}
	limit = clampLimit(limit)

	var result *spotify.SearchResult
	err := c.retry(ctx, func() error {
		r, err := c.client.Search(ctx, query,
			spotify.SearchTypeTrack|spotify.SearchTypeArtist|spotify.SearchTypeAlbum|spotify.SearchTypePlaylist,
			spotify.Limit(limit),
			spotify.Market(c.market),
		)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search")
	}

	items := make([]track.SearchResultItem, 0)
	if result.Tracks != nil {
		for i := range result.Tracks.Tracks {
			items = append(items, track.TrackItem(convertTrack(&result.Tracks.Tracks[i])))
		}
	}
	if result.Artists != nil {
		for _, a := range result.Artists.Artists {
			items = append(items, track.ArtistItem(track.Artist{
				ID:         string(a.ID),
				Name:       a.Name,
				ImageURL:   firstImage(a.Images),
				Genres:     a.Genres,
				Popularity: int(a.Popularity),
			}))
		}
	}
	if result.Albums != nil {
		for _, a := range result.Albums.Albums {
			items = append(items, track.AlbumItem(track.Album{
				ID:          string(a.ID),
				Name:        a.Name,
				Artist:      joinArtists(a.Artists),
				ImageURL:    firstImage(a.Images),
				ReleaseDate: a.ReleaseDate,
			}))
		}
	}
	if result.Playlists != nil {
		for _, p := range result.Playlists.Playlists {
			items = append(items, track.PlaylistItem(track.PlaylistRef{
				ID:         string(p.ID),
				Name:       p.Name,
				Owner:      p.Owner.DisplayName,
				ImageURL:   firstImage(p.Images),
				TrackCount: int(p.Tracks.Total),
			}))
		}
	}
	return items, nil
}

// playlistTracks returns up to limit tracks of a playlist, skipping episodes.
func (c *Client) playlistTracks(ctx context.Context, playlistID string, limit int) ([]track.Track, error) {
	limit = clampLimit(limit)

	var page *spotify.PlaylistItemPage
	err := c.retry(ctx, func() error {
		p, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
			spotify.Limit(limit),
			spotify.Market(c.market),
		)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get playlist items")
	}

	tracks := make([]track.Track, 0, len(page.Items))
	for _, item := range page.Items {
		// Only process tracks (exclude episodes)
		if item.Track.Track != nil && item.Track.Track.ID != "" {
			tracks = append(tracks, convertTrack(item.Track.Track))
		}
	}
	return tracks, nil
}

// convertTrack converts a Spotify FullTrack to domain Track.
func convertTrack(t *spotify.FullTrack) track.Track {
	return track.Track{
		ID:          string(t.ID),
		Title:       t.Name,
		Artist:      joinArtists(t.Artists),
		AlbumArt:    firstImage(t.Album.Images),
		Duration:    track.FormatDuration(int(t.Duration)),
		AudioURL:    t.PreviewURL,
		Popularity:  int(t.Popularity),
		AlbumName:   t.Album.Name,
		ExternalURL: GetTrackURL(string(t.ID)),
		Source:      track.SourceSpotify,
	}
}

// convertSimpleTrack converts an album track using the album for artwork.
func convertSimpleTrack(t spotify.SimpleTrack, album spotify.SimpleAlbum) track.Track {
	return track.Track{
		ID:          string(t.ID),
		Title:       t.Name,
		Artist:      joinArtists(t.Artists),
		AlbumArt:    firstImage(album.Images),
		Duration:    track.FormatDuration(int(t.Duration)),
		AudioURL:    t.PreviewURL,
		AlbumName:   album.Name,
		ExternalURL: GetTrackURL(string(t.ID)),
		Source:      track.SourceSpotify,
	}
}

// convertAlbum represents an album as a track when its tracks are unavailable.
func convertAlbum(a spotify.SimpleAlbum) track.Track {
	return track.Track{
		ID:        string(a.ID),
		Title:     a.Name,
		Artist:    joinArtists(a.Artists),
		AlbumArt:  firstImage(a.Images),
		Duration:  track.FormatDuration(0),
		AlbumName: a.Name,
		Source:    track.SourceSpotify,
	}
}

func joinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func firstImage(images []spotify.Image) string {
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}

// GetTrackURL returns the Spotify URL for a track.
func GetTrackURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}

// retry retries an operation with linear backoff.
// An authorization failure drops the cached token and is retried once.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	reauthed := false
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if isUnauthorized(err) && !reauthed {
			reauthed = true
			c.tokens.Invalidate()
			continue
		}
		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "retry aborted")
			case <-time.After(c.retryDelay * time.Duration(i+1)):
			}
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

func isUnauthorized(err error) bool {
	var apiErr spotify.Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// extractPlaylistID extracts the playlist ID from a Spotify playlist URL or URI.
func extractPlaylistID(input string) string {
	return extractID(input, "playlist")
}

// extractTrackID extracts the track ID from a Spotify track URL or URI.
func extractTrackID(input string) string {
	return extractID(input, "track")
}

// extractID handles "spotify:<kind>:ID" URIs and open.spotify.com URLs,
// including locale prefixes such as /intl-ja/. Anything else is returned as is.
func extractID(input, kind string) string {
	input = strings.TrimSpace(input)
	if uri := "spotify:" + kind + ":"; strings.HasPrefix(input, uri) {
		return strings.TrimPrefix(input, uri)
	}

	segment := "/" + kind + "/"
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, segment) {
		parts := strings.Split(input, segment)
		// Remove query parameters and trailing slashes
		id := strings.Split(parts[len(parts)-1], "?")[0]
		return strings.TrimRight(id, "/")
	}

	return input
}
