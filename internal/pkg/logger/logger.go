package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields adds fields to the logger in context and returns new context
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction names the flow being handled. Extra fields are attached alongside.
func WithAction(ctx context.Context, action string, fields ...zap.Field) context.Context {
	return AddFields(ctx, append([]zap.Field{zap.String("action", action)}, fields...)...)
}

// WithDistrict tags every later log line with the district being served.
func WithDistrict(ctx context.Context, district string) context.Context {
	if district == "" {
		return ctx
	}
	return AddFields(ctx, zap.String("district", district))
}
