/*package logx builds the slog loggers used by parkit. Logs always go to
stderr so that they never mix with the timing table on stdout.
*/
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultLevel is the level used when the user doesn't ask for one.
var DefaultLevel = slog.LevelInfo

// ParseLevel converts a level name ("debug", "info", "warn", "error") into
// a slog.Level. The empty string maps to DefaultLevel.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "": return DefaultLevel, nil
	case "debug": return slog.LevelDebug, nil
	case "info": return slog.LevelInfo, nil
	case "warn", "warning": return slog.LevelWarn, nil
	case "error": return slog.LevelError, nil
	}
	return DefaultLevel, fmt.Errorf("unknown log level '%s', the valid " +
		"levels are 'debug', 'info', 'warn', and 'error'", name)
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// Setup builds a stderr logger from a level name and installs it as the
// slog default.
func Setup(levelName string) (*slog.Logger, error) {
	level, err := ParseLevel(levelName)
	if err != nil { return nil, err }
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger, nil
}
