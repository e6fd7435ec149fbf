// Package discovery provides the application state shared by every API handler.
package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunewave/internal/app/catalog"
	"github.com/osa030/tunewave/internal/app/library"
	"github.com/osa030/tunewave/internal/app/notification"
	"github.com/osa030/tunewave/internal/app/playback"
	"github.com/osa030/tunewave/internal/domain/history"
	"github.com/osa030/tunewave/internal/domain/playlist"
	"github.com/osa030/tunewave/internal/domain/track"
	"github.com/osa030/tunewave/internal/infra/metrics"
)

// persistTimeout bounds one storage write.
const persistTimeout = 5 * time.Second

// Repository persists the history ledger and the playlist store.
type Repository interface {
	LoadHistory(ctx context.Context) ([]history.Entry, error)
	SaveHistory(ctx context.Context, entries []history.Entry) error
	LoadPlaylists(ctx context.Context) ([]playlist.Playlist, error)
	SavePlaylists(ctx context.Context, playlists []playlist.Playlist) error
}

// Messages resolves user-facing texts by notice code.
type Messages interface {
	GetMessage(code string) string
}

// Config holds the Manager collaborators.
type Config struct {
	Catalog       *catalog.Service
	Ledger        *history.Ledger
	Library       *library.Store
	Notifications *notification.Manager
	Repository    Repository // nil keeps state in memory only
	Messages      Messages
	Metrics       *metrics.Metrics

	PlayFailedMessage string
	DefaultLimit      int
	RelatedLimit      int
}

// Manager owns the playback session, history, playlists and fetched collections.
// Mutations are serialized by mu; catalog fetches run outside it.
type Manager struct {
	mu sync.Mutex

	session       *playback.Session
	catalog       *catalog.Service
	ledger        *history.Ledger
	library       *library.Store
	notifications *notification.Manager
	repo          Repository
	messages      Messages
	metrics       *metrics.Metrics

	feedsMu sync.Mutex
	feeds   map[string]*catalog.Feed

	lastQuery    string
	defaultLimit int
	relatedLimit int

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
	started   bool
}

// NewManager creates the application state.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("catalog service is required")
	}
	if cfg.Ledger == nil {
		cfg.Ledger = history.NewLedger(history.DefaultLimit)
	}
	if cfg.Library == nil {
		cfg.Library = library.NewStore(nil, "")
	}
	if cfg.Notifications == nil {
		cfg.Notifications = notification.NewManager()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		catalog:       cfg.Catalog,
		ledger:        cfg.Ledger,
		library:       cfg.Library,
		notifications: cfg.Notifications,
		repo:          cfg.Repository,
		messages:      cfg.Messages,
		metrics:       cfg.Metrics,
		feeds:         make(map[string]*catalog.Feed),
		defaultLimit:  cfg.DefaultLimit,
		relatedLimit:  cfg.RelatedLimit,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	m.session = playback.NewSession(playback.Config{
		Recorder:          m,
		Notifier:          m.notifications,
		PlayFailedMessage: cfg.PlayFailedMessage,
	})
	return m, nil
}

// Restore loads persisted history and playlists. Storage errors leave the state empty.
func (m *Manager) Restore(ctx context.Context) {
	if m.repo == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.repo.LoadHistory(ctx)
	if err != nil {
		zlog.Error().Msgf("failed to load listening history: %v", err)
	} else {
		m.ledger.Restore(entries)
		zlog.Info().Msgf("listening history restored: entries=%d", m.ledger.Len())
	}

	playlists, err := m.repo.LoadPlaylists(ctx)
	if err != nil {
		zlog.Error().Msgf("failed to load playlists: %v", err)
	} else {
		m.library.Restore(playlists)
		zlog.Info().Msgf("playlists restored: count=%d", len(m.library.List()))
	}
}

// Start runs the playback event loop until Close.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		m.mu.Lock()
		m.started = true
		m.mu.Unlock()
		go m.playbackLoop()
	})
}

// Close stops the event loop and the session.
func (m *Manager) Close() {
	m.cancel()
	m.session.Close()
	m.mu.Lock()
	started := m.started
	m.mu.Unlock()
	if !started {
		return
	}
	select {
	case <-m.done:
	case <-time.After(time.Second):
	}
}

// Done is closed once Close has been called.
func (m *Manager) Done() <-chan struct{} {
	return m.ctx.Done()
}

// Notifications returns the notification manager.
func (m *Manager) Notifications() *notification.Manager {
	return m.notifications
}

// Record implements playback.Recorder. It runs outside the session lock.
func (m *Manager) Record(t track.Track) {
	m.ledger.Record(t)
	m.metrics.Play()
	m.persistHistory()
}

// playbackLoop refreshes related tracks whenever a new track starts.
func (m *Manager) playbackLoop() {
	defer close(m.done)
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("playback loop panicked: %v", r)
		}
	}()

	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-m.session.Events():
			if !ok {
				return
			}
			m.handlePlaybackEvent(event)
		}
	}
}

func (m *Manager) handlePlaybackEvent(event playback.Event) {
	zlog.Debug().Msgf("playback event: type=%s queue=%s", event.Type, event.Queue)

	switch event.Type {
	case playback.EventTrackStarted:
		if event.Track != nil {
			zlog.Info().Msgf("now playing: track_id=%s title=%s queue=%s", event.Track.ID, event.Track.Title, event.Queue)
		}
		if event.Queue != QueueRelated {
			m.LoadRelated(m.ctx)
		}
	case playback.EventStateChanged:
		zlog.Info().Msgf("playback state changed: state=%s", event.State)
	}
}

func (m *Manager) persistHistory() {
	if m.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.repo.SaveHistory(ctx, m.ledger.Entries()); err != nil {
		zlog.Error().Msgf("failed to persist listening history: %v", err)
	}
}

func (m *Manager) persistPlaylists() {
	if m.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.repo.SavePlaylists(ctx, m.library.List()); err != nil {
		zlog.Error().Msgf("failed to persist playlists: %v", err)
	}
}

func (m *Manager) info(code string) {
	m.notifications.Notify(notification.Info(code, m.message(code)))
}

func (m *Manager) fail(code string) {
	m.notifications.Notify(notification.Error(code, m.message(code)))
}

func (m *Manager) message(code string) string {
	if m.messages == nil {
		return code
	}
	return m.messages.GetMessage(code)
}
