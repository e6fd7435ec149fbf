package connect

import (
	"context"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/app/notification"
)

// defaultRecentLimit is the number of notices replayed when a subscriber asks for none.
const defaultRecentLimit = 5

// NotificationService streams notices to subscribers.
type NotificationService struct {
	manager *discovery.Manager
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(manager *discovery.Manager) *NotificationService {
	return &NotificationService{manager: manager}
}

// NewNotificationServiceHandler builds the HTTP handler of a NotificationService.
func NewNotificationServiceHandler(svc *NotificationService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(NotificationSubscribeProcedure, connect.NewServerStreamHandler(NotificationSubscribeProcedure, svc.SubscribeNotifications, opts...))
	return "/" + NotificationServiceName + "/", mux
}

// SubscribeNotifications sends the initial state, then every notice until the
// client disconnects or the server shuts down.
func (s *NotificationService) SubscribeNotifications(
	ctx context.Context,
	req *connect.Request[SubscribeRequest],
	stream *connect.ServerStream[NotificationMessage],
) error {
	if err := validateRequest(req.Msg); err != nil {
		return err
	}
	limit := req.Msg.RecentLimit
	if limit == 0 {
		limit = defaultRecentLimit
	}

	notifications := s.manager.Notifications()
	snap := s.manager.Session()
	adapter := &notificationStreamAdapter{stream: stream}
	if err := adapter.send(&NotificationMessage{
		Type:    MessageTypeInitialState,
		Session: &snap,
		Recent:  notifications.Recent(limit),
	}); err != nil {
		return err
	}

	subscriptionID := notifications.Subscribe(adapter)
	zlog.Info().Msgf("notification subscriber joined: id=%s subscribers=%d", subscriptionID, notifications.SubscriberCount())

	select {
	case <-ctx.Done():
	case <-s.manager.Done():
	}

	notifications.Unsubscribe(subscriptionID)
	zlog.Info().Msgf("notification subscriber left: id=%s", subscriptionID)
	return nil
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
// Sends are serialized since connect streams are not safe for concurrent use.
type notificationStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[NotificationMessage]
}

func (a *notificationStreamAdapter) Send(n notification.Notice) error {
	return a.send(&NotificationMessage{Type: MessageTypeNotice, Notice: &n})
}

func (a *notificationStreamAdapter) send(msg *NotificationMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream.Send(msg)
}
