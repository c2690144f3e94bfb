package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// InitSlog installs the default logger. Diagnostics always go to stderr so
// stdout stays reserved for the status lines the command prints.
func InitSlog(verbose bool) {
	slog.SetDefault(NewLogger(os.Stderr, verbose))
}

func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
