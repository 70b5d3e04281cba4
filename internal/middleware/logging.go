package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/latepizza/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and reports its latency to rec. It logs the procedure name, actor, duration,
// and any error codes/messages. Install it outermost so it sees auth failures;
// the actor is whatever identity an inner auth interceptor resolved.
func LoggingInterceptor(rec metrics.Recorder) connect.Interceptor {
	return &loggingInterceptor{metrics: rec}
}

type loggingInterceptor struct {
	metrics metrics.Recorder
}

func (l *loggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		ctx, slot := withActorSlot(ctx)
		resp, err := next(ctx, req)
		l.log(req.Spec().Procedure, slot.email, start, err)
		return resp, err
	}
}

func (l *loggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (l *loggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		ctx, slot := withActorSlot(ctx)
		err := next(ctx, conn)
		l.log(conn.Spec().Procedure, slot.email, start, err)
		return err
	}
}

func (l *loggingInterceptor) log(procedure, actor string, start time.Time, err error) {
	elapsed := time.Since(start)
	duration := elapsed.Milliseconds()

	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	l.metrics.RecordRPC(procedure, code, elapsed)

	if err == nil {
		slog.Info("RPC ok",
			"procedure", procedure,
			"actor", actor,
			"duration_ms", duration,
		)
		return
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown {
		slog.Warn("RPC error",
			"procedure", procedure,
			"code", connectErr.Code(),
			"error", connectErr.Message(),
			"actor", actor,
			"duration_ms", duration,
		)
		return
	}
	slog.Error("RPC error",
		"procedure", procedure,
		"error", err,
		"actor", actor,
		"duration_ms", duration,
	)
}
