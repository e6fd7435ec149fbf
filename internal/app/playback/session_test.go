package playback

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunewave/internal/app/notification"
	"github.com/osa030/tunewave/internal/domain/track"
)

type fakeRecorder struct {
	mu     sync.Mutex
	tracks []string
}

func (r *fakeRecorder) Record(t track.Track) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracks = append(r.tracks, t.ID)
}

func (r *fakeRecorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tracks...)
}

type fakeNotifier struct {
	notices []notification.Notice
}

func (n *fakeNotifier) Notify(notice notification.Notice) {
	n.notices = append(n.notices, notice)
}

func queueOf(ids ...string) track.Collection {
	c := make(track.Collection, 0, len(ids))
	for _, id := range ids {
		c = append(c, track.Track{ID: id, Title: "Track " + id, Artist: "Artist", Duration: "3:00"})
	}
	return c
}

func newTestSession() (*Session, *fakeRecorder, *fakeNotifier) {
	rec := &fakeRecorder{}
	n := &fakeNotifier{}
	return NewSession(Config{Recorder: rec, Notifier: n}), rec, n
}

func TestSession_Initial(t *testing.T) {
	s, _, _ := newTestSession()
	snap := s.Snapshot()

	assert.Nil(t, snap.Current)
	assert.False(t, snap.IsPlaying)
	assert.True(t, snap.Minimized)
	assert.Equal(t, StateIdle, s.GetState())
	assert.Empty(t, snap.Queue.Tracks)
}

func TestSession_Play(t *testing.T) {
	s, rec, _ := newTestSession()

	snap, err := s.Play("home", queueOf("a", "b", "c"), "b")
	require.NoError(t, err)

	require.NotNil(t, snap.Current)
	assert.Equal(t, "b", snap.Current.ID)
	assert.True(t, snap.IsPlaying)
	assert.False(t, snap.Minimized)
	assert.Equal(t, "home", snap.Queue.Name)
	assert.Equal(t, []string{"a", "b", "c"}, snap.Queue.Tracks.IDs())
	assert.Equal(t, []string{"b"}, rec.ids())
	assert.Equal(t, StatePlaying, s.GetState())
}

func TestSession_PlaySameTrackToggles(t *testing.T) {
	s, rec, _ := newTestSession()
	q := queueOf("a", "b")

	_, err := s.Play("home", q, "a")
	require.NoError(t, err)

	snap, err := s.Play("home", q, "a")
	require.NoError(t, err)
	assert.False(t, snap.IsPlaying)
	assert.Equal(t, StatePaused, s.GetState())

	snap, err = s.Play("home", q, "a")
	require.NoError(t, err)
	assert.True(t, snap.IsPlaying)

	assert.Equal(t, []string{"a"}, rec.ids())
}

func TestSession_PlayNotFound(t *testing.T) {
	s, rec, n := newTestSession()
	before, err := s.Play("home", queueOf("a", "b"), "a")
	require.NoError(t, err)

	snap, err := s.Play("charts", queueOf("x", "y"), "zzz")
	assert.ErrorIs(t, err, ErrTrackNotFound)

	require.NotNil(t, snap.Current)
	assert.Equal(t, "a", snap.Current.ID)
	assert.True(t, snap.IsPlaying)
	assert.Equal(t, "home", snap.Queue.Name)
	assert.Equal(t, []string{"a", "b"}, snap.Queue.Tracks.IDs())
	assert.Equal(t, before.Queue.Generation, snap.Queue.Generation)
	assert.Equal(t, []string{"a"}, rec.ids())

	require.Len(t, n.notices, 1)
	assert.Equal(t, "play_failed", n.notices[0].Code)
	assert.Equal(t, notification.KindError, n.notices[0].Kind)
	assert.Equal(t, "Unable to play this song.", n.notices[0].Message)

	next, moved := s.Next()
	assert.True(t, moved)
	require.NotNil(t, next.Current)
	assert.Equal(t, "b", next.Current.ID)
}

func TestSession_TogglePlayPause(t *testing.T) {
	s, _, _ := newTestSession()

	snap := s.TogglePlayPause()
	assert.Nil(t, snap.Current)
	assert.False(t, snap.IsPlaying)

	_, err := s.Play("home", queueOf("a"), "a")
	require.NoError(t, err)

	assert.False(t, s.TogglePlayPause().IsPlaying)
	assert.True(t, s.TogglePlayPause().IsPlaying)
}

func TestSession_NextPrevious(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		forward  bool
		moved    bool
		expected string
	}{
		{name: "next middle", start: "b", forward: true, moved: true, expected: "c"},
		{name: "next at end", start: "c", forward: true, moved: false, expected: "c"},
		{name: "previous middle", start: "b", forward: false, moved: true, expected: "a"},
		{name: "previous at start", start: "a", forward: false, moved: false, expected: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec, _ := newTestSession()
			_, err := s.Play("home", queueOf("a", "b", "c"), tt.start)
			require.NoError(t, err)
			s.TogglePlayPause()

			var snap Snapshot
			var moved bool
			if tt.forward {
				snap, moved = s.Next()
			} else {
				snap, moved = s.Previous()
			}

			assert.Equal(t, tt.moved, moved)
			require.NotNil(t, snap.Current)
			assert.Equal(t, tt.expected, snap.Current.ID)
			if tt.moved {
				assert.True(t, snap.IsPlaying)
				assert.Equal(t, []string{tt.start, tt.expected}, rec.ids())
			} else {
				assert.False(t, snap.IsPlaying)
				assert.Equal(t, []string{tt.start}, rec.ids())
			}
		})
	}
}

func TestSession_NextWithoutCurrent(t *testing.T) {
	s, _, _ := newTestSession()
	s.SetActiveQueue("home", queueOf("a", "b"))

	snap, moved := s.Next()
	assert.False(t, moved)
	assert.Nil(t, snap.Current)
}

func TestSession_CurrentOutsideNewQueue(t *testing.T) {
	s, _, _ := newTestSession()
	_, err := s.Play("home", queueOf("a", "b"), "a")
	require.NoError(t, err)

	q := s.SetActiveQueue("search", queueOf("x", "y"))
	assert.Equal(t, "search", q.Name)

	snap, moved := s.Next()
	assert.False(t, moved)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "a", snap.Current.ID)
}

func TestSession_QueueGenerationAndIsolation(t *testing.T) {
	s, _, _ := newTestSession()
	q := queueOf("a", "b")

	first := s.SetActiveQueue("home", q)
	second := s.SetActiveQueue("home", q)
	assert.Greater(t, second.Generation, first.Generation)

	q[0].Title = "mutated"
	snap := s.Snapshot()
	assert.Equal(t, "Track a", snap.Queue.Tracks[0].Title)

	snap.Queue.Tracks[1].Title = "mutated"
	assert.Equal(t, "Track b", s.Snapshot().Queue.Tracks[1].Title)
}

func TestSession_ToggleMinimize(t *testing.T) {
	s, _, _ := newTestSession()
	assert.False(t, s.ToggleMinimize().Minimized)
	assert.True(t, s.ToggleMinimize().Minimized)
}

func TestSession_Events(t *testing.T) {
	s, _, _ := newTestSession()
	_, err := s.Play("home", queueOf("a", "b"), "a")
	require.NoError(t, err)
	s.TogglePlayPause()
	s.Close()

	var types []EventType
	for e := range s.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{EventQueueChanged, EventTrackStarted, EventStateChanged}, types)
}
