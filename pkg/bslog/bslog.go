package bslog

import (
	"log/slog"
)

// ComponentKey tags every record a subsystem writes, so one process log can be split per component.
const ComponentKey = "component"

func NewHandler(base slog.Handler, opts ...handlerOption) slog.Handler {
	for _, opt := range opts {
		base = opt(base)
	}

	return base
}

// SetDefault makes l the logger behind log/slog.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Slog())
}

// Component returns a child logger whose records carry name under ComponentKey.
func (l *Logger) Component(name string) *slog.Logger {
	return l.Slog().With(slog.String(ComponentKey, name))
}
