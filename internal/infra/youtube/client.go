// Package youtube looks up music videos through the YouTube Data API.
package youtube

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrNoResults is returned when a search finds no video.
var ErrNoResults = errors.New("no video found")

// Video is a search hit.
type Video struct {
	ID           string
	Title        string
	ThumbnailURL string // "high" quality thumbnail
}

// Config represents YouTube client configuration.
type Config struct {
	APIKey      string
	QuerySuffix string
	MaxResults  int64

	// Endpoint and HTTPClient override the API transport (tests).
	Endpoint   string
	HTTPClient *http.Client
}

// Client is a YouTube Data API client.
type Client struct {
	svc         *youtube.Service
	querySuffix string
	maxResults  int64
}

// New creates a new YouTube client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create youtube service")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 1
	}
	return &Client{
		svc:         svc,
		querySuffix: strings.TrimSpace(cfg.QuerySuffix),
		maxResults:  maxResults,
	}, nil
}

// Query returns the search string for a lookup key.
func (c *Client) Query(key string) string {
	key = strings.TrimSpace(key)
	if c.querySuffix == "" {
		return key
	}
	return key + " " + c.querySuffix
}

// Search returns the best matching video for key.
func (c *Client) Search(ctx context.Context, key string) (Video, error) {
	if strings.TrimSpace(key) == "" {
		return Video{}, errors.New("search key is required")
	}
	q := c.Query(key)

	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(q).
		Type("video").
		MaxResults(c.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return Video{}, errors.Wrapf(err, "youtube search failed: q=%q", q)
	}

	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		v := Video{ID: item.Id.VideoId}
		if item.Snippet != nil {
			v.Title = item.Snippet.Title
			if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
				v.ThumbnailURL = item.Snippet.Thumbnails.High.Url
			}
		}
		zlog.Debug().Msgf("youtube video found: q=%q id=%s", q, v.ID)
		return v, nil
	}
	return Video{}, errors.Wrapf(ErrNoResults, "q=%q", q)
}
