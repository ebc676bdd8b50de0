package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the request-scoped logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for the request ID
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey contextKey = "user_id"
	// StoreIDKey is the context key for the acting store ID
	StoreIDKey contextKey = "store_id"
)

// FromContext extracts the logger from the context, falling back to a no-op
// logger when none is present.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithContext stores the logger in the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithRequestID stores the request ID and enriches the context logger with it
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	logger := FromContext(ctx).With(zap.String("request_id", requestID))
	return WithContext(ctx, logger)
}

// WithUserID stores the user ID and enriches the context logger with it
func WithUserID(ctx context.Context, userID string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	logger := FromContext(ctx).With(zap.String("user_id", userID))
	return WithContext(ctx, logger)
}

// WithStoreID stores the store ID and enriches the context logger with it
func WithStoreID(ctx context.Context, storeID string) context.Context {
	ctx = context.WithValue(ctx, StoreIDKey, storeID)
	logger := FromContext(ctx).With(zap.String("store_id", storeID))
	return WithContext(ctx, logger)
}

// GetRequestID returns the request ID stored in the context, if any
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID returns the user ID stored in the context, if any
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetStoreID returns the store ID stored in the context, if any
func GetStoreID(ctx context.Context) string {
	if storeID, ok := ctx.Value(StoreIDKey).(string); ok {
		return storeID
	}
	return ""
}

// WithTraceContext enriches the context logger with the active OpenTelemetry
// trace and span IDs so log lines can be correlated with traces.
func WithTraceContext(ctx context.Context) context.Context {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ctx
	}
	logger := FromContext(ctx).With(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	)
	return WithContext(ctx, logger)
}

// ContextLogger wraps a base logger and resolves the effective logger from
// the context on every call, so request-scoped fields are always attached.
type ContextLogger struct {
	base *zap.Logger
}

// NewContextLogger creates a ContextLogger around the given base logger
func NewContextLogger(base *zap.Logger) *ContextLogger {
	return &ContextLogger{base: base}
}

// L returns the logger for the given context, preferring the context-scoped
// logger over the base one.
func (c *ContextLogger) L(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return c.base
}

func (c *ContextLogger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	c.L(ctx).Debug(msg, fields...)
}

func (c *ContextLogger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	c.L(ctx).Info(msg, fields...)
}

func (c *ContextLogger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	c.L(ctx).Warn(msg, fields...)
}

func (c *ContextLogger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	c.L(ctx).Error(msg, fields...)
}
