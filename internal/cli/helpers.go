package cli

import (
	"log/slog"

	"github.com/ravegoth/obj-observe/internal/logging"
)

// createLogger builds the application logger. Debug mode surfaces the
// engine's per-change debug records.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}
