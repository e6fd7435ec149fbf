package connect

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/tunewave/internal/app/catalog"
	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/infra/metrics"
)

// Services holds the collaborators of every RPC service.
type Services struct {
	Manager  *discovery.Manager
	Catalog  *catalog.Service
	Messages discovery.Messages
	Metrics  *metrics.Metrics
}

// Mount registers every RPC service on mux with the JSON codec and the observability interceptor.
func Mount(mux *http.ServeMux, svc Services, opts ...connect.HandlerOption) {
	opts = append([]connect.HandlerOption{
		WithJSON(),
		connect.WithInterceptors(NewObservabilityInterceptor(svc.Metrics)),
	}, opts...)

	mux.Handle(NewCatalogServiceHandler(NewCatalogService(svc.Manager, svc.Catalog), opts...))
	mux.Handle(NewSessionServiceHandler(NewSessionService(svc.Manager), opts...))
	mux.Handle(NewHistoryServiceHandler(NewHistoryService(svc.Manager), opts...))
	mux.Handle(NewPlaylistServiceHandler(NewPlaylistService(svc.Manager, svc.Messages), opts...))
	mux.Handle(NewNotificationServiceHandler(NewNotificationService(svc.Manager), opts...))
}
