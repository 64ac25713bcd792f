// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for user ID
	UserIDKey contextKey = "user_id"
	// WorkspaceIDKey is the context key for the tenant workspace ID
	WorkspaceIDKey contextKey = "workspace_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with request, user and workspace values
// extracted from the context when present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	out := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		out = &Logger{Logger: out.With(slog.String("request_id", requestID))}
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		out = &Logger{Logger: out.With(slog.String("user_id", userID))}
	}
	if workspaceID, ok := ctx.Value(WorkspaceIDKey).(string); ok && workspaceID != "" {
		out = &Logger{Logger: out.With(slog.String("workspace_id", workspaceID))}
	}

	return out
}

// WithWorkspace returns a logger scoped to a tenant workspace.
func (l *Logger) WithWorkspace(workspaceID string) *Logger {
	return &Logger{Logger: l.With(slog.String("workspace_id", workspaceID))}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
