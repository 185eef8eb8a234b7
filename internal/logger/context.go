package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	gatewayKey   ctxKey = "gateway"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithGateway tags every log line emitted under ctx with the payment gateway id.
func WithGateway(ctx context.Context, gatewayID string) context.Context {
	return context.WithValue(ctx, gatewayKey, gatewayID)
}

func GatewayFrom(ctx context.Context) string {
	if v, ok := ctx.Value(gatewayKey).(string); ok {
		return v
	}
	return ""
}

// FromCtx returns logger with request_id and gateway automatically added
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if gw := GatewayFrom(ctx); gw != "" {
		l = l.With(zap.String("gateway", gw))
	}
	return l
}
