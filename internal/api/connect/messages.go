package connect

import (
	"github.com/osa030/tunewave/internal/app/catalog"
	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/app/library"
	"github.com/osa030/tunewave/internal/app/notification"
	"github.com/osa030/tunewave/internal/app/playback"
	"github.com/osa030/tunewave/internal/domain/playlist"
	"github.com/osa030/tunewave/internal/domain/track"
)

// Empty is the message of procedures without parameters or results.
type Empty struct{}

// LimitRequest asks for at most Limit tracks. Zero uses the server default.
type LimitRequest struct {
	Limit int `json:"limit,omitempty" validate:"gte=0,lte=50"`
}

// TracksResponse carries one collection.
type TracksResponse struct {
	Tracks   track.Collection `json:"tracks"`
	Fallback bool             `json:"fallback"`
}

// CountryChartRequest asks for the chart of one country.
type CountryChartRequest struct {
	Code  string `json:"code" validate:"required,len=2,alpha"`
	Limit int    `json:"limit,omitempty" validate:"gte=0,lte=50"`
}

// CountriesResponse lists the supported chart countries.
type CountriesResponse struct {
	Countries []catalog.Country `json:"countries"`
}

// TrackDetailsRequest names one track.
type TrackDetailsRequest struct {
	TrackID string `json:"trackId" validate:"required"`
}

// TrackDetailsResponse carries one track.
type TrackDetailsResponse struct {
	Track    track.Track `json:"track"`
	Fallback bool        `json:"fallback"`
}

// SearchRequest runs a query.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty" validate:"gte=0,lte=50"`
}

// NowPlayingRequest names the track of the now playing view. Empty shows the current track.
type NowPlayingRequest struct {
	TrackID string `json:"trackId,omitempty"`
}

// SessionResponse is the playback session state.
type SessionResponse struct {
	Session playback.Snapshot `json:"session"`
	State   string            `json:"state"`
	Moved   bool              `json:"moved"`
}

// PlayRequest plays a track of a queue. An empty queue reuses the active one.
type PlayRequest struct {
	TrackID string `json:"trackId" validate:"required"`
	Queue   string `json:"queue,omitempty"`
}

// HistoryResponse lists the listening history, most recent first.
type HistoryResponse struct {
	Entries []discovery.HistoryItem `json:"entries"`
}

// RemoveHistoryRequest names one history entry.
type RemoveHistoryRequest struct {
	TrackID string `json:"trackId" validate:"required"`
}

// RemoveHistoryResponse reports whether an entry was removed.
type RemoveHistoryResponse struct {
	Removed bool `json:"removed"`
}

// PlaylistRequest names one playlist.
type PlaylistRequest struct {
	PlaylistID string `json:"playlistId" validate:"required"`
}

// PlaylistResponse carries one playlist.
type PlaylistResponse struct {
	Playlist playlist.Playlist `json:"playlist"`
}

// CreatePlaylistRequest creates a playlist. Name is checked by the store.
type CreatePlaylistRequest struct {
	library.Draft
}

// EditPlaylistRequest merges the non-blank fields into a playlist.
type EditPlaylistRequest struct {
	PlaylistID  string `json:"playlistId" validate:"required"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
}

// AddTrackRequest adds a track to a playlist. The track is given either in full
// or by TrackID within Queue. An empty PlaylistID targets the selected playlist.
type AddTrackRequest struct {
	PlaylistID string       `json:"playlistId,omitempty"`
	Track      *track.Track `json:"track,omitempty"`
	TrackID    string       `json:"trackId,omitempty" validate:"required_without=Track"`
	Queue      string       `json:"queue,omitempty" validate:"required_with=TrackID"`
}

// AddTrackResponse reports the outcome of AddTrack.
type AddTrackResponse struct {
	Playlist playlist.Playlist `json:"playlist"`
	Added    bool              `json:"added"`
	Created  bool              `json:"created"`
	Code     string            `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// RemoveTrackRequest removes a track from a playlist.
type RemoveTrackRequest struct {
	PlaylistID string `json:"playlistId" validate:"required"`
	TrackID    string `json:"trackId" validate:"required"`
}

// RemoveTrackResponse reports whether the track was removed.
type RemoveTrackResponse struct {
	Playlist playlist.Playlist `json:"playlist"`
	Removed  bool              `json:"removed"`
}

// OpenFormRequest opens the create form, or the edit form when PlaylistID is set.
type OpenFormRequest struct {
	PlaylistID string `json:"playlistId,omitempty"`
}

// FormResponse is the playlist form state.
type FormResponse struct {
	Form library.Form `json:"form"`
}

// SubscribeRequest opens the notification stream. Recent notices up to
// RecentLimit are replayed in the initial message.
type SubscribeRequest struct {
	RecentLimit int `json:"recentLimit,omitempty" validate:"gte=0,lte=20"`
}

// Stream message types.
const (
	MessageTypeInitialState = "initial_state"
	MessageTypeNotice       = "notice"
)

// NotificationMessage is one message of the notification stream.
type NotificationMessage struct {
	Type    string                `json:"type"`
	Session *playback.Snapshot    `json:"session,omitempty"`
	Recent  []notification.Notice `json:"recent,omitempty"`
	Notice  *notification.Notice  `json:"notice,omitempty"`
}
