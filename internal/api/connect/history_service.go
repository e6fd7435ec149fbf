package connect

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/osa030/tunewave/internal/app/discovery"
)

// HistoryService serves the listening history.
type HistoryService struct {
	manager *discovery.Manager
	now     func() time.Time
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(manager *discovery.Manager) *HistoryService {
	return &HistoryService{manager: manager, now: time.Now}
}

// NewHistoryServiceHandler builds the HTTP handler of a HistoryService.
func NewHistoryServiceHandler(svc *HistoryService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(HistoryListProcedure, connect.NewUnaryHandler(HistoryListProcedure, svc.ListHistory, opts...))
	mux.Handle(HistoryClearProcedure, connect.NewUnaryHandler(HistoryClearProcedure, svc.ClearHistory, opts...))
	mux.Handle(HistoryRemoveProcedure, connect.NewUnaryHandler(HistoryRemoveProcedure, svc.RemoveHistoryEntry, opts...))
	return "/" + HistoryServiceName + "/", mux
}

// ListHistory returns the history, most recent first.
func (s *HistoryService) ListHistory(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[HistoryResponse], error) {
	return connect.NewResponse(&HistoryResponse{Entries: s.manager.History(s.now())}), nil
}

// ClearHistory empties the history.
func (s *HistoryService) ClearHistory(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[Empty], error) {
	s.manager.ClearHistory()
	return connect.NewResponse(&Empty{}), nil
}

// RemoveHistoryEntry removes one entry. Unknown ids are reported, not failed.
func (s *HistoryService) RemoveHistoryEntry(
	_ context.Context,
	req *connect.Request[RemoveHistoryRequest],
) (*connect.Response[RemoveHistoryResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	removed := s.manager.RemoveHistory(req.Msg.TrackID)
	return connect.NewResponse(&RemoveHistoryResponse{Removed: removed}), nil
}
