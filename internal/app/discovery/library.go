package discovery

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tunewave/internal/app/library"
	"github.com/osa030/tunewave/internal/domain/history"
	"github.com/osa030/tunewave/internal/domain/playlist"
	"github.com/osa030/tunewave/internal/domain/track"
)

// Notice codes of library operations.
const (
	CodeHistoryCleared  = "history_cleared"
	CodeHistoryRemoved  = "history_removed"
	CodePlaylistCreated = "playlist_created"
	CodePlaylistUpdated = "playlist_updated"
	CodePlaylistDeleted = "playlist_deleted"
	CodeTrackAdded      = "track_added"
	CodeTrackRemoved    = "track_removed"
	CodeNameRequired    = "name_required"
	CodeDuplicateTrack  = "duplicate_track"
)

// HistoryItem is a history entry with its relative time.
type HistoryItem struct {
	history.Entry
	TimeAgo string `json:"timeAgo"`
}

// History returns the listening history, most recent first.
func (m *Manager) History(now time.Time) []HistoryItem {
	m.mu.Lock()
	entries := m.ledger.Entries()
	m.mu.Unlock()
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{Entry: e, TimeAgo: history.TimeAgo(e.ListenedAt, now)})
	}
	return items
}

// ClearHistory empties the listening history.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ledger.Clear()
	m.persistHistory()
	m.refreshActiveQueueLocked(QueueHistory)
	m.info(CodeHistoryCleared)
}

// RemoveHistory removes one entry. It reports false when the id is absent.
func (m *Manager) RemoveHistory(trackID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ledger.Remove(trackID) {
		return false
	}
	m.persistHistory()
	m.refreshActiveQueueLocked(QueueHistory)
	m.info(CodeHistoryRemoved)
	return true
}

// PlaylistsView is the playlist page state.
type PlaylistsView struct {
	Playlists  []playlist.Playlist `json:"playlists"`
	SelectedID string              `json:"selectedId,omitempty"`
	Form       library.Form        `json:"form"`
}

// Playlists returns every playlist, the selection and the form state.
func (m *Manager) Playlists() PlaylistsView {
	view := PlaylistsView{Playlists: m.library.List(), Form: m.library.Form()}
	if p, ok := m.library.Selected(); ok {
		view.SelectedID = p.ID
	}
	return view
}

// Playlist returns one playlist.
func (m *Manager) Playlist(id string) (playlist.Playlist, error) {
	p, ok := m.library.Get(id)
	if !ok {
		return playlist.Playlist{}, errors.Wrapf(library.ErrPlaylistNotFound, "id=%s", id)
	}
	return p, nil
}

// CreatePlaylist creates and selects a playlist. A blank name yields a *library.FieldError.
func (m *Manager) CreatePlaylist(draft library.Draft) (playlist.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.library.Create(draft)
	if err != nil {
		var fieldErr *library.FieldError
		if errors.As(err, &fieldErr) {
			m.fail(CodeNameRequired)
		}
		return playlist.Playlist{}, err
	}
	m.persistPlaylists()
	m.refreshActiveQueueLocked(QueuePlaylist)
	m.info(CodePlaylistCreated)
	return p, nil
}

// EditPlaylist merges the non-blank draft fields into the playlist.
func (m *Manager) EditPlaylist(id string, draft library.Draft) (playlist.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.library.Edit(id, draft)
	if !ok {
		return playlist.Playlist{}, errors.Wrapf(library.ErrPlaylistNotFound, "id=%s", id)
	}
	m.persistPlaylists()
	m.info(CodePlaylistUpdated)
	return p, nil
}

// DeletePlaylist removes a playlist. The selection moves to the first remaining playlist.
func (m *Manager) DeletePlaylist(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.library.Delete(id) {
		return errors.Wrapf(library.ErrPlaylistNotFound, "id=%s", id)
	}
	m.persistPlaylists()
	m.refreshActiveQueueLocked(QueuePlaylist, PlaylistQueue(id))
	m.info(CodePlaylistDeleted)
	return nil
}

// SelectPlaylist makes id the selected playlist.
func (m *Manager) SelectPlaylist(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.library.Select(id); err != nil {
		return err
	}
	m.refreshActiveQueueLocked(QueuePlaylist)
	return nil
}

// AddTrack adds t to a playlist. A rejected track is reported through AddResult.Code and a notice.
func (m *Manager) AddTrack(ctx context.Context, playlistID string, t track.Track) (library.AddResult, error) {
	if t.ID == "" {
		return library.AddResult{}, errors.New("track id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.library.AddTrack(ctx, playlistID, t)
	if err != nil {
		return res, err
	}
	switch {
	case res.Added:
		m.persistPlaylists()
		m.refreshActiveQueueLocked(QueuePlaylist, PlaylistQueue(res.Playlist.ID))
		m.info(CodeTrackAdded)
	case res.Code == CodeDuplicateTrack:
		m.info(CodeDuplicateTrack)
	default:
		m.fail(res.Code)
	}
	return res, nil
}

// RemoveTrack removes a track from a playlist. Absent tracks are a no-op.
func (m *Manager) RemoveTrack(playlistID, trackID string) (playlist.Playlist, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, removed, err := m.library.RemoveTrack(playlistID, trackID)
	if err != nil || !removed {
		return p, removed, err
	}
	m.persistPlaylists()
	m.refreshActiveQueueLocked(QueuePlaylist, PlaylistQueue(playlistID))
	m.info(CodeTrackRemoved)
	return p, true, nil
}

// OpenCreateForm opens the create form.
func (m *Manager) OpenCreateForm() error {
	return m.library.OpenCreate()
}

// OpenEditForm opens the edit form of a playlist.
func (m *Manager) OpenEditForm(id string) error {
	return m.library.OpenEdit(id)
}

// CloseForm closes any open form.
func (m *Manager) CloseForm() {
	m.library.CloseForm()
}
