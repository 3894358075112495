package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/minzhangphoto/portfolio/cmd/website/internal/configuration"
)

func setupLogger(config *configuration.Config, version string) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(config.LogLevel),
	})

	logger := slog.New(handler).With(
		slog.String("app", appName),
		slog.String("version", version),
	)

	slog.SetDefault(logger)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug

	case "warn", "warning":
		return slog.LevelWarn

	case "error":
		return slog.LevelError

	default:
		return slog.LevelInfo
	}
}
