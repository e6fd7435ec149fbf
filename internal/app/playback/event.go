package playback

import "github.com/osa030/tunewave/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackStarted    EventType = iota // A different track became current
	EventStateChanged                     // Play/pause toggled
	EventMinimizeChanged                  // Player display toggled
	EventQueueChanged                     // Active queue replaced
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackStarted:
		return "track_started"
	case EventStateChanged:
		return "state_changed"
	case EventMinimizeChanged:
		return "minimize_changed"
	case EventQueueChanged:
		return "queue_changed"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type  EventType
	Track *track.Track // Current track (nil when none)
	State State
	Queue string // Active queue name
}
