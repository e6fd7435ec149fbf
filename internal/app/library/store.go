// Package library provides the playlist store and its form state machine.
package library

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunewave/internal/app/filter"
	"github.com/osa030/tunewave/internal/domain/playlist"
	"github.com/osa030/tunewave/internal/domain/track"
)

// Errors
var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrFormBusy         = errors.New("another playlist form is open")
)

// FieldError is a validation failure tied to one draft field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Draft holds the user-supplied playlist fields.
type Draft struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
}

// FormMode is the playlist form state.
type FormMode int

const (
	FormBrowsing FormMode = iota // No form open
	FormCreating                 // Create form open
	FormEditing                  // Edit form open for Form.PlaylistID
)

// String returns the string representation of the mode.
func (m FormMode) String() string {
	switch m {
	case FormBrowsing:
		return "browsing"
	case FormCreating:
		return "creating"
	case FormEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode by name.
func (m FormMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *FormMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "browsing", "":
		*m = FormBrowsing
	case "creating":
		*m = FormCreating
	case "editing":
		*m = FormEditing
	default:
		return errors.Newf("unknown form mode: %s", b)
	}
	return nil
}

// Form is the current form state.
type Form struct {
	Mode       FormMode `json:"mode"`
	PlaylistID string   `json:"playlistId,omitempty"`
}

// AddResult describes the outcome of AddTrack.
type AddResult struct {
	Playlist playlist.Playlist
	Added    bool
	Created  bool   // The default playlist was created to hold the track
	Code     string // Rejection code when not added
}

// Store holds the playlists in store order, the selection and the form state.
type Store struct {
	mu sync.RWMutex

	playlists  []*playlist.Playlist
	selectedID string
	form       Form

	chain        *filter.Chain
	defaultCover string
	validate     *validator.Validate
	now          func() time.Time
}

// NewStore creates an empty store. A nil chain still rejects duplicate ids.
func NewStore(chain *filter.Chain, defaultCover string) *Store {
	if chain == nil {
		chain = filter.NewChain()
		chain.Add(filter.NewDuplicateTrackFilter())
	}
	if defaultCover == "" {
		defaultCover = playlist.DefaultCoverImage
	}
	return &Store{
		playlists:    make([]*playlist.Playlist, 0),
		chain:        chain,
		defaultCover: defaultCover,
		validate:     validator.New(),
		now:          time.Now,
	}
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Restore replaces the contents with previously persisted playlists and selects the first.
func (s *Store) Restore(playlists []playlist.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlists = make([]*playlist.Playlist, 0, len(playlists))
	seen := make(map[string]bool, len(playlists))
	for i := range playlists {
		p := playlists[i].Clone()
		if seen[p.ID] {
			zlog.Warn().Msgf("skipping duplicate playlist id: id=%s", p.ID)
			continue
		}
		seen[p.ID] = true
		s.playlists = append(s.playlists, &p)
	}
	s.selectedID = ""
	if len(s.playlists) > 0 {
		s.selectedID = s.playlists[0].ID
	}
	s.form = Form{}
}

// List returns copies of all playlists in store order.
func (s *Store) List() []playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]playlist.Playlist, len(s.playlists))
	for i, p := range s.playlists {
		out[i] = p.Clone()
	}
	return out
}

// Get returns a copy of the playlist with id.
func (s *Store) Get(id string) (playlist.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.findLocked(id)
	if p == nil {
		return playlist.Playlist{}, false
	}
	return p.Clone(), true
}

// Selected returns the selected playlist, if any.
func (s *Store) Selected() (playlist.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.findLocked(s.selectedID)
	if p == nil {
		return playlist.Playlist{}, false
	}
	return p.Clone(), true
}

// Select makes id the selected playlist.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return errors.Wrapf(ErrPlaylistNotFound, "id=%s", id)
	}
	s.selectedID = id
	return nil
}

// Form returns the current form state.
func (s *Store) Form() Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

// OpenCreate opens the create form.
func (s *Store) OpenCreate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form.Mode == FormEditing {
		return ErrFormBusy
	}
	s.form = Form{Mode: FormCreating}
	return nil
}

// OpenEdit opens the edit form for id.
func (s *Store) OpenEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return errors.Wrapf(ErrPlaylistNotFound, "id=%s", id)
	}
	if s.form.Mode == FormCreating || (s.form.Mode == FormEditing && s.form.PlaylistID != id) {
		return ErrFormBusy
	}
	s.form = Form{Mode: FormEditing, PlaylistID: id}
	return nil
}

// CloseForm returns to browsing.
func (s *Store) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = Form{}
}

// Create validates the draft and appends a new selected playlist.
// A blank name returns a *FieldError and leaves the store untouched.
func (s *Store) Create(draft Draft) (playlist.Playlist, error) {
	draft = trimDraft(draft)
	if err := s.validate.Struct(draft); err != nil {
		return playlist.Playlist{}, &FieldError{Field: "name", Message: "Playlist name is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.createLocked(draft)
	s.form = Form{}
	zlog.Info().Msgf("playlist created: id=%s name=%s", p.ID, p.Name)
	return p.Clone(), nil
}

// Edit merges the non-blank draft fields into the playlist and closes the form.
// An unknown id is a no-op reported as false.
func (s *Store) Edit(id string, draft Draft) (playlist.Playlist, bool) {
	draft = trimDraft(draft)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = Form{}
	p := s.findLocked(id)
	if p == nil {
		return playlist.Playlist{}, false
	}
	if draft.Name != "" {
		p.Name = draft.Name
	}
	if draft.Description != "" {
		p.Description = draft.Description
	}
	if draft.CoverImage != "" {
		p.CoverImage = draft.CoverImage
	}
	zlog.Info().Msgf("playlist updated: id=%s name=%s", p.ID, p.Name)
	return p.Clone(), true
}

// AddTrack appends t to the playlist after running the admission filters.
// With no playlists at all, the default playlist is created holding t.
func (s *Store) AddTrack(ctx context.Context, playlistID string, t track.Track) (AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.playlists) == 0 {
		p := s.createLocked(Draft{Name: playlist.DefaultName})
		p.AppendTrack(t)
		zlog.Info().Msgf("default playlist created for track: playlist=%s track=%s", p.ID, t.ID)
		return AddResult{Playlist: p.Clone(), Added: true, Created: true}, nil
	}

	p := s.findLocked(playlistID)
	if p == nil {
		return AddResult{}, errors.Wrapf(ErrPlaylistNotFound, "id=%s", playlistID)
	}

	if result := s.chain.Execute(ctx, p, t); !result.Accepted {
		return AddResult{Playlist: p.Clone(), Code: result.Code}, nil
	}
	if !p.AppendTrack(t) {
		return AddResult{Playlist: p.Clone(), Code: "duplicate_track"}, nil
	}
	return AddResult{Playlist: p.Clone(), Added: true}, nil
}

// RemoveTrack removes trackID from the playlist. Absent ids are a no-op reported as false.
func (s *Store) RemoveTrack(playlistID, trackID string) (playlist.Playlist, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findLocked(playlistID)
	if p == nil {
		return playlist.Playlist{}, false, errors.Wrapf(ErrPlaylistNotFound, "id=%s", playlistID)
	}
	removed := p.RemoveTrack(trackID)
	return p.Clone(), removed, nil
}

// Delete removes the playlist. A deleted selection moves to the first remaining playlist.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.playlists {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.playlists = append(s.playlists[:idx:idx], s.playlists[idx+1:]...)

	if s.selectedID == id {
		s.selectedID = ""
		if len(s.playlists) > 0 {
			s.selectedID = s.playlists[0].ID
		}
	}
	if s.form.Mode == FormEditing && s.form.PlaylistID == id {
		s.form = Form{}
	}
	zlog.Info().Msgf("playlist deleted: id=%s", id)
	return true
}

// createLocked appends and selects a new playlist.
// Must be called with lock held.
func (s *Store) createLocked(draft Draft) *playlist.Playlist {
	cover := draft.CoverImage
	if cover == "" {
		cover = s.defaultCover
	}
	createdAt := s.now()
	p := playlist.New(s.nextIDLocked(createdAt), draft.Name, draft.Description, cover, createdAt)
	s.playlists = append(s.playlists, p)
	s.selectedID = p.ID
	return p
}

// nextIDLocked derives the id from the creation time, bumping it past existing ids.
func (s *Store) nextIDLocked(at time.Time) string {
	ms := at.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if s.findLocked(id) == nil {
			return id
		}
		ms++
	}
}

func (s *Store) findLocked(id string) *playlist.Playlist {
	if id == "" {
		return nil
	}
	for _, p := range s.playlists {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func trimDraft(d Draft) Draft {
	return Draft{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		CoverImage:  strings.TrimSpace(d.CoverImage),
	}
}
