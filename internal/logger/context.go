// Package logger builds zap loggers and carries request-scoped ones in a context.
package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores l in ctx.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// ForRequest derives a logger tagged with requestID and stores it in ctx.
// An empty requestID leaves base untagged.
func ForRequest(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := base
	if requestID != "" {
		l = base.With(zap.String("request_id", requestID))
	}
	return ContextWithLogger(ctx, l), l
}

// FromContextOr returns the logger stored in ctx, or fallback.
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return fallback
}
