package playback

import (
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunewave/internal/app/notification"
	"github.com/osa030/tunewave/internal/domain/track"
)

// Errors
var (
	ErrTrackNotFound = errors.New("track not found in queue")
)

// DefaultPlayFailedMessage is used when no message is configured.
const DefaultPlayFailedMessage = "Unable to play this song."

// Recorder receives every track that becomes current.
type Recorder interface {
	Record(t track.Track)
}

// ActiveQueue is the collection next/previous navigate within.
type ActiveQueue struct {
	Name       string           `json:"name"`
	Tracks     track.Collection `json:"tracks"`
	Generation uint64           `json:"generation"`
}

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	Current   *track.Track `json:"current,omitempty"`
	IsPlaying bool         `json:"isPlaying"`
	Minimized bool         `json:"minimized"`
	State     State        `json:"-"`
	Queue     ActiveQueue  `json:"queue"`
}

// Config holds session collaborators. All fields are optional.
type Config struct {
	Recorder          Recorder
	Notifier          notification.Notifier
	PlayFailedMessage string
}

// Session holds the current track, play state and the active queue.
type Session struct {
	mu sync.RWMutex

	current   *track.Track
	isPlaying bool
	minimized bool
	queue     ActiveQueue

	config  Config
	eventCh chan Event
	closed  bool
}

// NewSession creates a session with nothing playing and the player minimized.
func NewSession(config Config) *Session {
	if config.PlayFailedMessage == "" {
		config.PlayFailedMessage = DefaultPlayFailedMessage
	}
	return &Session{
		minimized: true,
		queue:     ActiveQueue{Tracks: track.Collection{}},
		config:    config,
		eventCh:   make(chan Event, 16),
	}
}

// Events returns the event channel.
func (s *Session) Events() <-chan Event {
	return s.eventCh
}

// SetActiveQueue replaces the active queue. The current track is kept even if absent from it.
func (s *Session) SetActiveQueue(name string, tracks track.Collection) ActiveQueue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setQueueLocked(name, tracks)
}

// Play installs queue as the active queue and plays trackID from it.
// Playing the current track again toggles play/pause.
// A trackID absent from queue leaves the session untouched.
func (s *Session) Play(name string, queue track.Collection, trackID string) (Snapshot, error) {
	s.mu.Lock()
	t, ok := queue.Find(trackID)
	if !ok {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		zlog.Warn().Msgf("playback: track not in queue: id=%s queue=%s", trackID, name)
		if s.config.Notifier != nil {
			s.config.Notifier.Notify(notification.Error("play_failed", s.config.PlayFailedMessage))
		}
		return snap, errors.Wrapf(ErrTrackNotFound, "id=%s", trackID)
	}
	s.setQueueLocked(name, queue)

	if s.current != nil && s.current.ID == t.ID {
		s.isPlaying = !s.isPlaying
		s.sendEventLocked(EventStateChanged)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}

	s.startLocked(t)
	s.minimized = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.record(t)
	return snap, nil
}

// TogglePlayPause flips the play state. No-op without a current track.
func (s *Session) TogglePlayPause() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.isPlaying = !s.isPlaying
		s.sendEventLocked(EventStateChanged)
	}
	return s.snapshotLocked()
}

// Next moves to the following track in the active queue.
// It reports false at the end of the queue or when the current track is not in it.
func (s *Session) Next() (Snapshot, bool) {
	return s.step(1)
}

// Previous moves to the preceding track in the active queue.
func (s *Session) Previous() (Snapshot, bool) {
	return s.step(-1)
}

// ToggleMinimize flips the display flag.
func (s *Session) ToggleMinimize() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.minimized = !s.minimized
	s.sendEventLocked(EventMinimizeChanged)
	return s.snapshotLocked()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// GetState returns the playback state.
func (s *Session) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// Close closes the event channel.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.eventCh)
	}
}

func (s *Session) step(delta int) (Snapshot, bool) {
	s.mu.Lock()
	if s.current == nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, false
	}

	idx := s.queue.Tracks.IndexOf(s.current.ID)
	target := idx + delta
	if idx < 0 || target < 0 || target >= len(s.queue.Tracks) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, false
	}

	t := s.queue.Tracks[target]
	s.startLocked(t)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.record(t)
	return snap, true
}

// startLocked makes t current and playing.
// Must be called with lock held.
func (s *Session) startLocked(t track.Track) {
	cp := t
	s.current = &cp
	s.isPlaying = true
	zlog.Info().Msgf("playback: now playing: id=%s title=%s artist=%s", t.ID, t.Title, t.Artist)
	s.sendEventLocked(EventTrackStarted)
}

func (s *Session) setQueueLocked(name string, tracks track.Collection) ActiveQueue {
	s.queue = ActiveQueue{
		Name:       name,
		Tracks:     tracks.Clone(),
		Generation: s.queue.Generation + 1,
	}
	s.sendEventLocked(EventQueueChanged)
	return s.cloneQueueLocked()
}

func (s *Session) record(t track.Track) {
	if s.config.Recorder != nil {
		s.config.Recorder.Record(t)
	}
}

func (s *Session) stateLocked() State {
	switch {
	case s.current == nil:
		return StateIdle
	case s.isPlaying:
		return StatePlaying
	default:
		return StatePaused
	}
}

func (s *Session) cloneQueueLocked() ActiveQueue {
	q := s.queue
	q.Tracks = s.queue.Tracks.Clone()
	return q
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		IsPlaying: s.isPlaying,
		Minimized: s.minimized,
		State:     s.stateLocked(),
		Queue:     s.cloneQueueLocked(),
	}
	if s.current != nil {
		cp := *s.current
		snap.Current = &cp
	}
	return snap
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (s *Session) sendEventLocked(t EventType) {
	if s.closed {
		return
	}
	e := Event{Type: t, State: s.stateLocked(), Queue: s.queue.Name}
	if s.current != nil {
		cp := *s.current
		e.Track = &cp
	}
	select {
	case s.eventCh <- e:
	default:
		// Channel full, drop event
	}
}
