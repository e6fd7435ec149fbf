package connect

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"

	"github.com/osa030/tunewave/internal/infra/metrics"
)

// ObservabilityInterceptor logs every handled RPC and records its metrics.
type ObservabilityInterceptor struct {
	metrics *metrics.Metrics
	now     func() time.Time
}

var _ connect.Interceptor = (*ObservabilityInterceptor)(nil)

// NewObservabilityInterceptor creates an interceptor. m may be nil.
func NewObservabilityInterceptor(m *metrics.Metrics) *ObservabilityInterceptor {
	return &ObservabilityInterceptor{metrics: m, now: time.Now}
}

// WrapUnary implements connect.Interceptor.
func (i *ObservabilityInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := i.now()
		res, err := next(ctx, req)
		i.observe(ctx, req.Spec().Procedure, err, start)
		return res, err
	}
}

// WrapStreamingClient implements connect.Interceptor. Client streams pass through.
func (i *ObservabilityInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *ObservabilityInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := i.now()
		err := next(ctx, conn)
		i.observe(ctx, conn.Spec().Procedure, err, start)
		return err
	}
}

func (i *ObservabilityInterceptor) observe(ctx context.Context, procedure string, err error, start time.Time) {
	elapsed := i.now().Sub(start)
	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	i.metrics.RPC(procedure, code, elapsed)

	logger := zerolog.Ctx(ctx)
	switch {
	case err == nil:
		logger.Debug().Msgf("rpc handled: procedure=%s elapsed=%s", procedure, elapsed)
	case connect.CodeOf(err) == connect.CodeInternal:
		logger.Error().Msgf("rpc failed: procedure=%s code=%s elapsed=%s error=%v", procedure, code, elapsed, err)
	default:
		logger.Info().Msgf("rpc rejected: procedure=%s code=%s error=%v", procedure, code, err)
	}
}
