package connect

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// HealthPath serves the liveness probe.
const HealthPath = "/healthz"

// HealthHandler reports liveness.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
}

// WithRequestLogging wraps h with a request-scoped logger, a request id and an access log.
func WithRequestLogging(h http.Handler, logger zerolog.Logger) http.Handler {
	h = hlog.AccessHandler(accessLog)(h)
	h = requestIDHandler(h)
	return hlog.NewHandler(logger)(h)
}

// requestIDHandler reuses the caller's request id or assigns a new one.
func requestIDHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("req_id", id)
		})
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	event := hlog.FromRequest(r).Info()
	if r.URL.Path == HealthPath {
		event = hlog.FromRequest(r).Debug()
	}
	event.Msgf("http request: method=%s path=%s status=%d size=%d duration=%s",
		r.Method, r.URL.Path, status, size, duration)
}
