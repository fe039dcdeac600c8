package server

import (
	"context"
	"log/slog"
	"os"

	"portalserver/server/middleware"
)

// NewLogger создает структурированный JSON-логгер.
func NewLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// LogError логирует ошибку с request ID из контекста
func LogError(ctx context.Context, logger *slog.Logger, err error, msg string, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", middleware.GetRequestID(ctx))
	logger.Error(msg, attrs...)
}

// LogWarn логирует предупреждение с request ID из контекста
func LogWarn(ctx context.Context, logger *slog.Logger, msg string, attrs ...any) {
	attrs = append(attrs, "request_id", middleware.GetRequestID(ctx))
	logger.Warn(msg, attrs...)
}

// LogInfo логирует информационное сообщение с request ID из контекста
func LogInfo(ctx context.Context, logger *slog.Logger, msg string, attrs ...any) {
	attrs = append(attrs, "request_id", middleware.GetRequestID(ctx))
	logger.Info(msg, attrs...)
}
