package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide text handler. Debug mode lowers the
// level so scrape traces show every fetched page.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
