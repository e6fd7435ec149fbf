package connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/app/library"
	"github.com/osa030/tunewave/internal/domain/track"
)

// PlaylistService serves the user playlists and the playlist form.
type PlaylistService struct {
	manager  *discovery.Manager
	messages discovery.Messages
}

// NewPlaylistService creates a new PlaylistService. messages may be nil.
func NewPlaylistService(manager *discovery.Manager, messages discovery.Messages) *PlaylistService {
	return &PlaylistService{manager: manager, messages: messages}
}

// NewPlaylistServiceHandler builds the HTTP handler of a PlaylistService.
func NewPlaylistServiceHandler(svc *PlaylistService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(PlaylistListProcedure, connect.NewUnaryHandler(PlaylistListProcedure, svc.ListPlaylists, opts...))
	mux.Handle(PlaylistGetProcedure, connect.NewUnaryHandler(PlaylistGetProcedure, svc.GetPlaylist, opts...))
	mux.Handle(PlaylistCreateProcedure, connect.NewUnaryHandler(PlaylistCreateProcedure, svc.CreatePlaylist, opts...))
	mux.Handle(PlaylistEditProcedure, connect.NewUnaryHandler(PlaylistEditProcedure, svc.EditPlaylist, opts...))
	mux.Handle(PlaylistDeleteProcedure, connect.NewUnaryHandler(PlaylistDeleteProcedure, svc.DeletePlaylist, opts...))
	mux.Handle(PlaylistSelectProcedure, connect.NewUnaryHandler(PlaylistSelectProcedure, svc.SelectPlaylist, opts...))
	mux.Handle(PlaylistAddTrackProcedure, connect.NewUnaryHandler(PlaylistAddTrackProcedure, svc.AddTrack, opts...))
	mux.Handle(PlaylistRemoveTrackProcedure, connect.NewUnaryHandler(PlaylistRemoveTrackProcedure, svc.RemoveTrack, opts...))
	mux.Handle(PlaylistOpenFormProcedure, connect.NewUnaryHandler(PlaylistOpenFormProcedure, svc.OpenForm, opts...))
	mux.Handle(PlaylistCloseFormProcedure, connect.NewUnaryHandler(PlaylistCloseFormProcedure, svc.CloseForm, opts...))
	return "/" + PlaylistServiceName + "/", mux
}

// ListPlaylists returns every playlist with the selection and the form state.
func (s *PlaylistService) ListPlaylists(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[discovery.PlaylistsView], error) {
	view := s.manager.Playlists()
	return connect.NewResponse(&view), nil
}

// GetPlaylist returns one playlist.
func (s *PlaylistService) GetPlaylist(
	_ context.Context,
	req *connect.Request[PlaylistRequest],
) (*connect.Response[PlaylistResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	p, err := s.manager.Playlist(req.Msg.PlaylistID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlaylistResponse{Playlist: p}), nil
}

// CreatePlaylist creates and selects a playlist. A blank name is InvalidArgument.
func (s *PlaylistService) CreatePlaylist(
	_ context.Context,
	req *connect.Request[CreatePlaylistRequest],
) (*connect.Response[PlaylistResponse], error) {
	p, err := s.manager.CreatePlaylist(req.Msg.Draft)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlaylistResponse{Playlist: p}), nil
}

// EditPlaylist merges the non-blank fields into a playlist.
func (s *PlaylistService) EditPlaylist(
	_ context.Context,
	req *connect.Request[EditPlaylistRequest],
) (*connect.Response[PlaylistResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	p, err := s.manager.EditPlaylist(req.Msg.PlaylistID, library.Draft{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		CoverImage:  req.Msg.CoverImage,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlaylistResponse{Playlist: p}), nil
}

// DeletePlaylist removes a playlist.
func (s *PlaylistService) DeletePlaylist(
	_ context.Context,
	req *connect.Request[PlaylistRequest],
) (*connect.Response[Empty], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if err := s.manager.DeletePlaylist(req.Msg.PlaylistID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

// SelectPlaylist makes a playlist the selected one.
func (s *PlaylistService) SelectPlaylist(
	_ context.Context,
	req *connect.Request[PlaylistRequest],
) (*connect.Response[Empty], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if err := s.manager.SelectPlaylist(req.Msg.PlaylistID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

// AddTrack adds a track to a playlist. A rejection is a successful response with
// Added false and the rejection code.
func (s *PlaylistService) AddTrack(
	ctx context.Context,
	req *connect.Request[AddTrackRequest],
) (*connect.Response[AddTrackResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	var t track.Track
	if req.Msg.Track != nil {
		t = *req.Msg.Track
	} else {
		resolved, err := s.manager.ResolveTrack(req.Msg.Queue, req.Msg.TrackID)
		if err != nil {
			return nil, toConnectError(err)
		}
		t = resolved
	}
	if t.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("track id is required"))
	}

	playlistID := req.Msg.PlaylistID
	if playlistID == "" {
		playlistID = s.manager.Playlists().SelectedID
	}
	res, err := s.manager.AddTrack(ctx, playlistID, t)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := &AddTrackResponse{
		Playlist: res.Playlist,
		Added:    res.Added,
		Created:  res.Created,
		Code:     res.Code,
	}
	if res.Code != "" && s.messages != nil {
		out.Message = s.messages.GetMessage(res.Code)
	}
	return connect.NewResponse(out), nil
}

// RemoveTrack removes a track from a playlist.
func (s *PlaylistService) RemoveTrack(
	_ context.Context,
	req *connect.Request[RemoveTrackRequest],
) (*connect.Response[RemoveTrackResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	p, removed, err := s.manager.RemoveTrack(req.Msg.PlaylistID, req.Msg.TrackID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RemoveTrackResponse{Playlist: p, Removed: removed}), nil
}

// OpenForm opens the create form, or the edit form of PlaylistID.
func (s *PlaylistService) OpenForm(
	_ context.Context,
	req *connect.Request[OpenFormRequest],
) (*connect.Response[FormResponse], error) {
	var err error
	if req.Msg.PlaylistID == "" {
		err = s.manager.OpenCreateForm()
	} else {
		err = s.manager.OpenEditForm(req.Msg.PlaylistID)
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&FormResponse{Form: s.manager.Playlists().Form}), nil
}

// CloseForm closes any open form.
func (s *PlaylistService) CloseForm(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[FormResponse], error) {
	s.manager.CloseForm()
	return connect.NewResponse(&FormResponse{Form: s.manager.Playlists().Form}), nil
}
