package ffmpeg

import (
	"bufio"
	"io"
	"strings"

	"github.com/smazurov/snapcam/internal/logging"
)

// ParseLogLevel extracts the level from a line written with
// -loglevel level+X, e.g. "[warning] message" or
// "[mp4 @ 0x55d5] [error] message". The component prefix is kept.
func ParseLogLevel(line string) (level, msg string) {
	if len(line) < 3 || line[0] != '[' {
		return "info", line
	}

	end := strings.Index(line, "] ")
	if end == -1 {
		return "info", line
	}

	if bracket := line[1:end]; isLogLevel(bracket) {
		return bracket, line[end+2:]
	}

	component, rest := line[:end+2], line[end+2:]
	if len(rest) > 2 && rest[0] == '[' {
		if next := strings.Index(rest, "] "); next != -1 && isLogLevel(rest[1:next]) {
			return rest[1:next], component + rest[next+2:]
		}
	}

	return "info", line
}

func isLogLevel(s string) bool {
	switch s {
	case "quiet", "panic", "fatal", "error", "warning", "info", "verbose", "debug", "trace":
		return true
	}
	return false
}

// logOutput forwards ffmpeg output to logger line by line at the matching
// level. It returns the last error-level line, if any.
func logOutput(logger logging.Logger, r io.Reader) string {
	var lastErr string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		level, msg := ParseLogLevel(line)
		switch level {
		case "panic", "fatal", "error":
			lastErr = msg
			logger.Error("ffmpeg", "output", msg)
		case "warning":
			logger.Warn("ffmpeg", "output", msg)
		case "info":
			logger.Info("ffmpeg", "output", msg)
		default:
			logger.Debug("ffmpeg", "output", msg)
		}
	}
	return lastErr
}
