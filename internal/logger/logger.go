// Package logger holds the process-wide structured logger used by pagekit.
package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the process logger. Until Init enables it, every record is dropped
// before it is formatted.
var L = slog.New(slog.DiscardHandler)

const (
	logPrefix     = "pagekit-"
	logSuffix     = ".log"
	dateLayout    = "2006-01-02"
	retentionDays = 30
)

// Options selects where L writes.
type Options struct {
	Enabled bool       // false drops every record
	LogDir  string     // JSON log directory, default ~/.pagekit/logs
	Level   slog.Level // minimum level, LevelInfo when zero
	Stderr  bool       // text records on stderr instead of a file
}

// Init replaces L according to opts. The file sink is one JSON file per day,
// pagekit-YYYY-MM-DD.log, and files past the retention window are pruned.
func Init(opts Options) error {
	if !opts.Enabled {
		L = slog.New(slog.DiscardHandler)
		return nil
	}

	level := opts.Level
	if level == 0 {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if opts.Stderr {
		L = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
		return nil
	}

	dir := opts.LogDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, ".pagekit", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	now := time.Now()
	cleanOldLogs(dir, now)

	f, err := os.OpenFile(filepath.Join(dir, logFileName(now)), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	return nil
}

// ParseLevel maps a flag value ("debug", "info", "warn", "error") to a level.
// Unknown values yield LevelInfo.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func logFileName(t time.Time) string {
	return logPrefix + t.Format(dateLayout) + logSuffix
}

// cleanOldLogs deletes dated log files older than retentionDays. Errors are
// ignored; pruning is best-effort.
func cleanOldLogs(dir string, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		stamp, ok := strings.CutPrefix(e.Name(), logPrefix)
		if !ok {
			continue
		}
		stamp, ok = strings.CutSuffix(stamp, logSuffix)
		if !ok {
			continue
		}
		day, err := time.Parse(dateLayout, stamp)
		if err != nil || !day.Before(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, e.Name()))
	}
}

// Debug logs at debug level through L.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at info level through L.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at warn level through L.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at error level through L.
func Error(msg string, args ...any) { L.Error(msg, args...) }
