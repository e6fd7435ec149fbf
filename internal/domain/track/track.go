// Package track provides the Track domain entity and track collections.
package track

import (
	"fmt"
	"strings"
)

// Source identifies where a track record came from.
type Source string

const (
	SourceSpotify Source = "spotify"
	SourceLastFM  Source = "lastfm"
	SourceMock    Source = "mock"
)

// Track represents one playable item.
// JSON names match the persisted storage layout.
type Track struct {
	ID              string `json:"id"`                        // Unique within one collection only
	Title           string `json:"title"`                     // Track title
	Artist          string `json:"artist"`                    // Display artist (comma joined)
	AlbumArt        string `json:"albumArt"`                  // Album art URL
	Duration        string `json:"duration"`                  // Pre-formatted "M:SS"
	AudioURL        string `json:"audioUrl,omitempty"`        // Preview clip URL
	YouTubeID       string `json:"youtubeId,omitempty"`       // Video ID
	YouTubeURL      string `json:"youtubeUrl,omitempty"`      // Video watch URL
	BackgroundImage string `json:"backgroundImage,omitempty"` // Video thumbnail
	Popularity      int    `json:"popularity,omitempty"`      // Popularity score (0-100)
	AlbumName       string `json:"albumName,omitempty"`       // Album name
	ExternalURL     string `json:"externalUrl,omitempty"`     // Page on the source service
	Source          Source `json:"source,omitempty"`          // Origin of the record
}

// HasPreview reports whether the track can be played inline.
func (t Track) HasPreview() bool {
	return t.AudioURL != ""
}

// HasVideo reports whether the track carries a video reference.
func (t Track) HasVideo() bool {
	return t.YouTubeID != ""
}

// IsMock reports whether the track comes from the built-in sample data.
func (t Track) IsMock() bool {
	return t.Source == SourceMock
}

// EnrichmentKey returns the lookup key used for video enrichment.
func (t Track) EnrichmentKey() string {
	return strings.TrimSpace(t.Title + " " + t.Artist)
}

// WithVideo returns a copy of the track with a video reference attached.
// An empty thumbnail falls back to the video's maxres thumbnail.
func (t Track) WithVideo(videoID, thumbnail string) Track {
	if videoID == "" {
		return t
	}
	t.YouTubeID = videoID
	t.YouTubeURL = WatchURL(videoID)
	if thumbnail == "" {
		thumbnail = ThumbnailURL(videoID, ThumbnailMaxRes)
	}
	t.BackgroundImage = thumbnail
	return t
}

// Thumbnail qualities served by the video platform.
const (
	ThumbnailHigh   = "hqdefault"
	ThumbnailMaxRes = "maxresdefault"
)

// WatchURL returns the watch page URL of a video.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// EmbedURL returns the embeddable player URL of a video.
func EmbedURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s", videoID)
}

// ThumbnailURL returns the thumbnail image URL of a video in the given quality.
func ThumbnailURL(videoID, quality string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality)
}
