// Package logging wires slog handlers for console, file, OpenTelemetry and Graylog output.
package logging

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}

// BoardAttrs builds the attributes injected by the board context handler
func BoardAttrs(mode string, players, lines, zones int) []slog.Attr {
	return []slog.Attr{
		slog.String("mode", mode),
		slog.Int("players", players),
		slog.Int("lines", lines),
		slog.Int("zones", zones),
	}
}
