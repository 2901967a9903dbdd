package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jwebster45206/science-santa/internal/config"
)

// Open returns the writer logs should go to. The console owns stdout, so
// logs are written to cfg.LogFile; "-" discards them.
func Open(cfg *config.Config) (io.WriteCloser, error) {
	if cfg.LogFile == "" || cfg.LogFile == "-" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
	}
	return f, nil
}

// Setup configures the global slog logger based on environment
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.IsProduction() {
		// JSON format for production
		handler = slog.NewJSONHandler(w, opts)
	} else {
		// Text format for development
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithTurn adds the selecting message's ID to logger context
func WithTurn(logger *slog.Logger, messageID uuid.UUID) *slog.Logger {
	return logger.With("turn_id", messageID.String())
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
