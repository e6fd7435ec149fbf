// Package notification provides the notification manager for broadcasting user-facing notices.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// Kind classifies a notice.
type Kind string

const (
	KindInfo  Kind = "info"
	KindError Kind = "error"
)

// Notice is a transient, non-blocking message shown to the user.
type Notice struct {
	Kind       Kind      `json:"kind"`
	Code       string    `json:"code"`
	Title      string    `json:"title,omitempty"`
	Message    string    `json:"message"`
	SequenceNo uint64    `json:"sequenceNo"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Info builds an informational notice.
func Info(code, message string) Notice {
	return Notice{Kind: KindInfo, Code: code, Message: message}
}

// Error builds an error notice.
func Error(code, message string) Notice {
	return Notice{Kind: KindError, Code: code, Title: "Error", Message: message}
}

// Notifier publishes notices.
type Notifier interface {
	Notify(n Notice)
}

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(Notice) error
}

// subscription represents a subscriber's subscription.
// Sends are serialized by sendMu and skipped once done is closed.
type subscription struct {
	id     string
	stream Stream

	sendMu   sync.Mutex
	done     chan struct{}
	stopOnce sync.Once
}

func newSubscription(id string, stream Stream) *subscription {
	return &subscription{id: id, stream: stream, done: make(chan struct{})}
}

// send delivers n unless the subscription has stopped.
func (s *subscription) send(n Notice) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	select {
	case <-s.done:
		return nil
	default:
	}
	return s.stream.Send(n)
}

// stop blocks later sends and waits for an in-flight one to return.
func (s *subscription) stop() {
	s.stopOnce.Do(func() { close(s.done) })
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
}

const (
	defaultHistorySize = 20
	sendTimeout        = 500 * time.Millisecond
)

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription

	sequenceMu sync.Mutex
	sequenceNo uint64
	recent     []Notice
	recentSize int

	now func() time.Time
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
		recent:        make([]Notice, 0, defaultHistorySize),
		recentSize:    defaultHistorySize,
		now:           time.Now,
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = newSubscription(id, stream)
	return id
}

// Unsubscribe removes a subscription. The stream is not used after it returns.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	sub, ok := m.subscriptions[subscriptionID]
	delete(m.subscriptions, subscriptionID)
	m.mu.Unlock()
	if ok {
		sub.stop()
	}
}

// Notify stamps the notice and broadcasts it. It implements Notifier.
func (m *Manager) Notify(n Notice) {
	m.Broadcast(n)
}

// Broadcast sends a notice to all subscribers and returns it as sent.
// Each stream send runs in its own goroutine with a timeout so a slow subscriber cannot block the rest.
func (m *Manager) Broadcast(n Notice) Notice {
	m.sequenceMu.Lock()
	m.sequenceNo++
	n.SequenceNo = m.sequenceNo
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.now()
	}
	if len(m.recent) == m.recentSize {
		m.recent = append(m.recent[:0:0], m.recent[1:]...)
	}
	m.recent = append(m.recent, n)
	m.sequenceMu.Unlock()

	zlog.Debug().Msgf("notice: code=%s kind=%s seq=%d message=%q", n.Code, n.Kind, n.SequenceNo, n.Message)

	m.mu.RLock()
	// Copy subscriptions to avoid holding lock during sends
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.send(n)
			}()

			select {
			case err := <-done:
				if err != nil {
					zlog.Debug().Msgf("dropping failed subscriber: id=%s error=%v", s.id, err)
					m.Unsubscribe(s.id)
				}
			case <-s.done:
			case <-ctx.Done():
				zlog.Debug().Msgf("notice send timed out: subscriber=%s", s.id)
			}
		}(sub)
	}

	wg.Wait()
	return n
}

// Recent returns up to limit of the latest notices, oldest first.
func (m *Manager) Recent(limit int) []Notice {
	m.sequenceMu.Lock()
	defer m.sequenceMu.Unlock()

	start := 0
	if limit > 0 && len(m.recent) > limit {
		start = len(m.recent) - limit
	}
	out := make([]Notice, len(m.recent)-start)
	copy(out, m.recent[start:])
	return out
}

// LastSequenceNo returns the sequence number of the latest notice.
func (m *Manager) LastSequenceNo() uint64 {
	m.sequenceMu.Lock()
	defer m.sequenceMu.Unlock()
	return m.sequenceNo
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	subs := m.subscriptions
	m.subscriptions = make(map[string]*subscription)
	m.mu.Unlock()
	for _, sub := range subs {
		sub.stop()
	}
}
