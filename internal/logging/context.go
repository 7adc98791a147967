package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

type ipKey struct{}

// RequestIDHeader carries the request id between browser, console and backend.
const RequestIDHeader = "X-Request-ID"

// WithRequestID stores the request id for downstream calls and log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// For returns logger annotated with the request id of ctx, if any.
func For(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if id := RequestID(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}

// WithClientIP stores the caller's address for the action log.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey{}, ip)
}

// ClientIP returns the address stored by WithClientIP, or "".
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ipKey{}).(string)
	return ip
}
