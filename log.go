package ui

import (
	"log/slog"
	"os"
)

// uiLogLevel controls the log level for the default UI logger.
// Default is LevelInfo, which suppresses Debug messages.
var uiLogLevel = new(slog.LevelVar)

// SetVerbose enables or disables debug logging for the default UI logger.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		uiLogLevel.Set(slog.LevelDebug)
	} else {
		uiLogLevel.Set(slog.LevelInfo)
	}
}

// defaultLogger is used when no logger is passed with WithLogger.
var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: uiLogLevel}))
