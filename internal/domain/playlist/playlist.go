// Package playlist provides the Playlist domain entity.
package playlist

import (
	"time"

	"github.com/osa030/tunewave/internal/domain/track"
)

const (
	// DefaultCoverImage is used when a playlist is created without a cover.
	DefaultCoverImage = "https://picsum.photos/seed/playlist/300/300"
	// DefaultName names the playlist created implicitly by the first add.
	DefaultName = "My Playlist"
)

// Playlist represents a user-defined named collection of tracks.
type Playlist struct {
	ID          string        `json:"id"`          // Derived from the creation time
	Name        string        `json:"name"`        // Required, non-blank
	Description string        `json:"description"` // Free text
	CoverImage  string        `json:"coverImage"`  // Cover image URL
	Tracks      []track.Track `json:"tracks"`      // Ordered, unique by ID
	CreatedAt   time.Time     `json:"createdAt"`   // Immutable after creation
}

// New creates an empty playlist.
func New(id, name, description, coverImage string, createdAt time.Time) *Playlist {
	if coverImage == "" {
		coverImage = DefaultCoverImage
	}
	return &Playlist{
		ID:          id,
		Name:        name,
		Description: description,
		CoverImage:  coverImage,
		Tracks:      make([]track.Track, 0),
		CreatedAt:   createdAt,
	}
}

// TrackIDs returns all track IDs in the playlist.
func (p *Playlist) TrackIDs() []string {
	ids := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		ids[i] = t.ID
	}
	return ids
}

// HasTrack reports whether a track with the given ID is in the playlist.
func (p *Playlist) HasTrack(id string) bool {
	return track.Collection(p.Tracks).IndexOf(id) >= 0
}

// AppendTrack adds the track at the end. Returns false if its ID is already present.
func (p *Playlist) AppendTrack(t track.Track) bool {
	if p.HasTrack(t.ID) {
		return false
	}
	p.Tracks = append(p.Tracks, t)
	return true
}

// RemoveTrack removes the track with the given ID. Returns false if absent.
func (p *Playlist) RemoveTrack(id string) bool {
	i := track.Collection(p.Tracks).IndexOf(id)
	if i < 0 {
		return false
	}
	p.Tracks = append(p.Tracks[:i:i], p.Tracks[i+1:]...)
	return true
}

// Collection returns the tracks as a detached collection.
func (p *Playlist) Collection() track.Collection {
	return track.Collection(p.Tracks).Clone()
}

// Clone returns a deep copy.
func (p *Playlist) Clone() Playlist {
	c := *p
	c.Tracks = p.Collection()
	return c
}

// TotalDuration returns the total duration of all tracks in seconds.
// Tracks with an unparsable duration count as zero.
func (p *Playlist) TotalDuration() int64 {
	var total int64
	for _, t := range p.Tracks {
		d, err := track.ParseDuration(t.Duration)
		if err != nil {
			continue
		}
		total += int64(d.Seconds())
	}
	return total
}
