// Package connect provides the Connect RPC services.
package connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/tunewave/internal/app/catalog"
	"github.com/osa030/tunewave/internal/app/discovery"
)

// CatalogService serves catalog browsing and search.
type CatalogService struct {
	manager *discovery.Manager
	catalog *catalog.Service
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(manager *discovery.Manager, svc *catalog.Service) *CatalogService {
	return &CatalogService{manager: manager, catalog: svc}
}

// NewCatalogServiceHandler builds the HTTP handler of a CatalogService.
func NewCatalogServiceHandler(svc *CatalogService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(CatalogTopTracksProcedure, connect.NewUnaryHandler(CatalogTopTracksProcedure, svc.TopTracks, opts...))
	mux.Handle(CatalogNewReleasesProcedure, connect.NewUnaryHandler(CatalogNewReleasesProcedure, svc.NewReleases, opts...))
	mux.Handle(CatalogHomeProcedure, connect.NewUnaryHandler(CatalogHomeProcedure, svc.Home, opts...))
	mux.Handle(CatalogChartsProcedure, connect.NewUnaryHandler(CatalogChartsProcedure, svc.Charts, opts...))
	mux.Handle(CatalogCountryChartProcedure, connect.NewUnaryHandler(CatalogCountryChartProcedure, svc.CountryChart, opts...))
	mux.Handle(CatalogCountriesProcedure, connect.NewUnaryHandler(CatalogCountriesProcedure, svc.Countries, opts...))
	mux.Handle(CatalogTrackDetailsProcedure, connect.NewUnaryHandler(CatalogTrackDetailsProcedure, svc.TrackDetails, opts...))
	mux.Handle(CatalogSearchProcedure, connect.NewUnaryHandler(CatalogSearchProcedure, svc.Search, opts...))
	return "/" + CatalogServiceName + "/", mux
}

// TopTracks returns trending tracks without touching the home feed.
func (s *CatalogService) TopTracks(
	ctx context.Context,
	req *connect.Request[LimitRequest],
) (*connect.Response[TracksResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	res := s.catalog.TopTracks(ctx, req.Msg.Limit)
	return connect.NewResponse(&TracksResponse{Tracks: res.Tracks, Fallback: res.Fallback}), nil
}

// NewReleases returns new release tracks without touching the home feed.
func (s *CatalogService) NewReleases(
	ctx context.Context,
	req *connect.Request[LimitRequest],
) (*connect.Response[TracksResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	res := s.catalog.NewReleases(ctx, req.Msg.Limit)
	return connect.NewResponse(&TracksResponse{Tracks: res.Tracks, Fallback: res.Fallback}), nil
}

// Home loads the home page. Its tracks become the home queue.
func (s *CatalogService) Home(
	ctx context.Context,
	req *connect.Request[LimitRequest],
) (*connect.Response[discovery.HomeView], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	view := s.manager.LoadHome(ctx, req.Msg.Limit)
	return connect.NewResponse(&view), nil
}

// Charts loads the global and US charts. Their tracks become the charts queue.
func (s *CatalogService) Charts(
	ctx context.Context,
	req *connect.Request[LimitRequest],
) (*connect.Response[discovery.ChartsView], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	view := s.manager.LoadCharts(ctx, req.Msg.Limit)
	return connect.NewResponse(&view), nil
}

// CountryChart loads the chart of one supported country.
func (s *CatalogService) CountryChart(
	ctx context.Context,
	req *connect.Request[CountryChartRequest],
) (*connect.Response[discovery.CountryView], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	view, err := s.manager.LoadCountry(ctx, req.Msg.Code, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&view), nil
}

// Countries lists the supported chart countries.
func (s *CatalogService) Countries(
	_ context.Context,
	_ *connect.Request[Empty],
) (*connect.Response[CountriesResponse], error) {
	return connect.NewResponse(&CountriesResponse{Countries: s.manager.Countries()}), nil
}

// TrackDetails resolves one track. Unknown ids fall back to a sample track.
func (s *CatalogService) TrackDetails(
	ctx context.Context,
	req *connect.Request[TrackDetailsRequest],
) (*connect.Response[TrackDetailsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	t, fallback := s.catalog.TrackDetails(ctx, req.Msg.TrackID)
	return connect.NewResponse(&TrackDetailsResponse{Track: t, Fallback: fallback}), nil
}

// Search runs a query. Its track results join the home queue.
func (s *CatalogService) Search(
	ctx context.Context,
	req *connect.Request[SearchRequest],
) (*connect.Response[discovery.SearchView], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	view := s.manager.Search(ctx, req.Msg.Query, req.Msg.Limit)
	return connect.NewResponse(&view), nil
}
