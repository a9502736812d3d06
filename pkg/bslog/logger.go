package bslog

import (
	"context"
	"io"
	"log/slog"
	"os"
)

const LevelFatal = slog.Level(12)

type Logger struct {
	slog.Logger
}

// New builds the process logger for env. Development environments get a text handler
// at debug level with caller metadata, everything else gets JSON at info level.
func New(env string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: BaseReplaceAttr,
	}

	var handler slog.Handler
	switch env {
	case "development", "dev", "DEV":
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = NewHandler(slog.NewTextHandler(w, opts), InDevMode())
	default:
		handler = NewHandler(slog.NewJSONHandler(w, opts))
	}

	return &Logger{Logger: *slog.New(handler)}
}

// Slog returns the underlying *slog.Logger for components that take one.
func (l *Logger) Slog() *slog.Logger {
	return &l.Logger
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.Log(context.Background(), LevelFatal, msg, args...)
	os.Exit(1)
}

func (l *Logger) FatalContext(ctx context.Context, msg string, args ...any) {
	l.Log(ctx, LevelFatal, msg, args...)
	os.Exit(1)
}
