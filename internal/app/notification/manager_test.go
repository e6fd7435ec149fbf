package notification

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStream struct {
	mu      sync.Mutex
	notices []Notice
	err     error
	delay   time.Duration
}

func (s *recordingStream) Send(n Notice) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.notices = append(s.notices, n)
	return nil
}

func (s *recordingStream) received() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notice(nil), s.notices...)
}

func TestManager_BroadcastStampsSequence(t *testing.T) {
	m := NewManager()
	stream := &recordingStream{}
	id := m.Subscribe(stream)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, m.SubscriberCount())

	first := m.Broadcast(Info("history_cleared", "Listening history cleared"))
	second := m.Broadcast(Error("play_failed", "Unable to play this song."))

	assert.Equal(t, uint64(1), first.SequenceNo)
	assert.Equal(t, uint64(2), second.SequenceNo)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, "Error", second.Title)
	assert.Equal(t, uint64(2), m.LastSequenceNo())

	got := stream.received()
	require.Len(t, got, 2)
	assert.Equal(t, "history_cleared", got[0].Code)
	assert.Equal(t, KindError, got[1].Kind)
}

func TestManager_Unsubscribe(t *testing.T) {
	m := NewManager()
	stream := &recordingStream{}
	id := m.Subscribe(stream)
	m.Unsubscribe(id)

	m.Notify(Info("x", "y"))

	assert.Empty(t, stream.received())
	assert.Equal(t, 0, m.SubscriberCount())
}

func TestManager_FailingSubscriberIsDropped(t *testing.T) {
	m := NewManager()
	m.Subscribe(&recordingStream{err: errors.New("closed")})
	healthy := &recordingStream{}
	m.Subscribe(healthy)

	m.Notify(Info("a", "first"))

	assert.Equal(t, 1, m.SubscriberCount())
	assert.Len(t, healthy.received(), 1)
}

func TestManager_SlowSubscriberDoesNotBlock(t *testing.T) {
	m := NewManager()
	m.Subscribe(&recordingStream{delay: 2 * time.Second})

	start := time.Now()
	m.Notify(Info("a", "slow"))

	assert.Less(t, time.Since(start), time.Second)
}

// gatedStream blocks every send until gate is closed.
type gatedStream struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
}

func (s *gatedStream) Send(Notice) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	<-s.gate
	return nil
}

func (s *gatedStream) sendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestManager_NoSendAfterUnsubscribe(t *testing.T) {
	tests := []struct {
		name string
		stop func(m *Manager, id string)
	}{
		{name: "unsubscribe", stop: func(m *Manager, id string) { m.Unsubscribe(id) }},
		{name: "close", stop: func(m *Manager, _ string) { m.Close() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			stream := &gatedStream{gate: make(chan struct{})}
			id := m.Subscribe(stream)

			// both sends time out; the second one queues behind the first
			m.Notify(Info("a", "first"))
			m.Notify(Info("b", "second"))
			require.Equal(t, 1, stream.sendCount())

			time.AfterFunc(50*time.Millisecond, func() { close(stream.gate) })
			tt.stop(m, id)

			assert.Equal(t, 1, stream.sendCount())
			time.Sleep(50 * time.Millisecond)
			assert.Equal(t, 1, stream.sendCount())
			assert.Equal(t, 0, m.SubscriberCount())
		})
	}
}

func TestManager_Recent(t *testing.T) {
	m := NewManager()
	for i := 0; i < defaultHistorySize+5; i++ {
		m.Notify(Info("n", "message"))
	}

	all := m.Recent(0)
	require.Len(t, all, defaultHistorySize)
	assert.Equal(t, uint64(6), all[0].SequenceNo)
	assert.Equal(t, uint64(defaultHistorySize+5), all[len(all)-1].SequenceNo)

	last := m.Recent(3)
	require.Len(t, last, 3)
	assert.Equal(t, uint64(defaultHistorySize+5), last[2].SequenceNo)
}
