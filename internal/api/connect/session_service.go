package connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/app/playback"
)

// SessionService serves the playback session.
type SessionService struct {
	manager *discovery.Manager
}

// NewSessionService creates a new SessionService.
func NewSessionService(manager *discovery.Manager) *SessionService {
	return &SessionService{manager: manager}
}

// NewSessionServiceHandler builds the HTTP handler of a SessionService.
func NewSessionServiceHandler(svc *SessionService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(SessionGetSessionProcedure, connect.NewUnaryHandler(SessionGetSessionProcedure, svc.GetSession, opts...))
	mux.Handle(SessionNowPlayingProcedure, connect.NewUnaryHandler(SessionNowPlayingProcedure, svc.NowPlaying, opts...))
	mux.Handle(SessionPlayProcedure, connect.NewUnaryHandler(SessionPlayProcedure, svc.Play, opts...))
	mux.Handle(SessionTogglePlayPauseProcedure, connect.NewUnaryHandler(SessionTogglePlayPauseProcedure, svc.TogglePlayPause, opts...))
	mux.Handle(SessionNextProcedure, connect.NewUnaryHandler(SessionNextProcedure, svc.Next, opts...))
	mux.Handle(SessionPreviousProcedure, connect.NewUnaryHandler(SessionPreviousProcedure, svc.Previous, opts...))
	mux.Handle(SessionToggleMinimizeProcedure, connect.NewUnaryHandler(SessionToggleMinimizeProcedure, svc.ToggleMinimize, opts...))
	return "/" + SessionServiceName + "/", mux
}

func sessionResponse(snap playback.Snapshot, moved bool) *connect.Response[SessionResponse] {
	return connect.NewResponse(&SessionResponse{Session: snap, State: snap.State.String(), Moved: moved})
}

// GetSession returns the current session state.
func (s *SessionService) GetSession(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[SessionResponse], error) {
	return sessionResponse(s.manager.Session(), false), nil
}

// NowPlaying returns a track with its related tracks.
func (s *SessionService) NowPlaying(
	ctx context.Context,
	req *connect.Request[NowPlayingRequest],
) (*connect.Response[discovery.NowPlayingView], error) {
	view, err := s.manager.NowPlaying(ctx, req.Msg.TrackID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&view), nil
}

// Play starts a track of a queue.
func (s *SessionService) Play(
	_ context.Context,
	req *connect.Request[PlayRequest],
) (*connect.Response[SessionResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	snap, err := s.manager.Play(req.Msg.TrackID, req.Msg.Queue)
	if err != nil {
		return nil, toConnectError(err)
	}
	return sessionResponse(snap, true), nil
}

// TogglePlayPause flips the play state of the current track.
func (s *SessionService) TogglePlayPause(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[SessionResponse], error) {
	return sessionResponse(s.manager.TogglePlayPause(), false), nil
}

// Next moves forward in the active queue. Moved is false at the end of the queue.
func (s *SessionService) Next(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[SessionResponse], error) {
	snap, moved := s.manager.Next()
	return sessionResponse(snap, moved), nil
}

// Previous moves backward in the active queue. Moved is false at the start of the queue.
func (s *SessionService) Previous(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[SessionResponse], error) {
	snap, moved := s.manager.Previous()
	return sessionResponse(snap, moved), nil
}

// ToggleMinimize flips the player display.
func (s *SessionService) ToggleMinimize(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[SessionResponse], error) {
	return sessionResponse(s.manager.ToggleMinimize(), false), nil
}
