package discovery

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/tunewave/internal/app/playback"
	"github.com/osa030/tunewave/internal/domain/track"
)

// Errors
var (
	ErrUnknownCountry = errors.New("unsupported country")
)

// Play plays trackID from the named queue, which becomes the active queue.
// An empty queue name reuses the active queue.
func (m *Manager) Play(trackID, queue string) (playback.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if queue == "" {
		queue = m.session.Snapshot().Queue.Name
		if queue == "" {
			return m.session.Snapshot(), errors.Wrap(ErrUnknownQueue, "no active queue")
		}
	}
	tracks, err := m.queueLocked(queue)
	if err != nil {
		return m.session.Snapshot(), err
	}
	return m.session.Play(queue, tracks, trackID)
}

// TogglePlayPause flips the play state of the current track.
func (m *Manager) TogglePlayPause() playback.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.TogglePlayPause()
}

// Next moves forward in the active queue. It reports false at the end.
func (m *Manager) Next() (playback.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Next()
}

// Previous moves backward in the active queue. It reports false at the start.
func (m *Manager) Previous() (playback.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Previous()
}

// ToggleMinimize flips the player display.
func (m *Manager) ToggleMinimize() playback.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.ToggleMinimize()
}

// Session returns the current session state.
func (m *Manager) Session() playback.Snapshot {
	return m.session.Snapshot()
}

// ResolveTrack finds a track by id within a named queue.
func (m *Manager) ResolveTrack(queue, trackID string) (track.Track, error) {
	tracks, err := m.Queue(queue)
	if err != nil {
		return track.Track{}, err
	}
	t, ok := tracks.Find(trackID)
	if !ok {
		return track.Track{}, errors.Wrapf(playback.ErrTrackNotFound, "id=%s queue=%s", trackID, queue)
	}
	return t, nil
}
