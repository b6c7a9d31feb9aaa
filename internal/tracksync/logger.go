package tracksync

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFunc receives the engine's printf-style log lines. The engine logs
// recoverable skips and pass milestones; it never logs per-row noise.
type LogFunc func(format string, args ...interface{})

// StderrLogger returns a LogFunc writing timestamped lines to stderr
func StderrLogger() LogFunc {
	return writerLogger(os.Stderr)
}

// NewRotatingLogger returns a LogFunc writing timestamped lines to a
// size-rotated log file, plus the file handle for the caller to close.
// Rotation limits can be tuned with CAREMAP_SYNC_LOG_MAX_SIZE (MB),
// CAREMAP_SYNC_LOG_MAX_BACKUPS, CAREMAP_SYNC_LOG_MAX_AGE (days) and
// CAREMAP_SYNC_LOG_COMPRESS.
func NewRotatingLogger(path string) (io.Closer, LogFunc) {
	logF := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    getEnvInt("CAREMAP_SYNC_LOG_MAX_SIZE", 10),
		MaxBackups: getEnvInt("CAREMAP_SYNC_LOG_MAX_BACKUPS", 3),
		MaxAge:     getEnvInt("CAREMAP_SYNC_LOG_MAX_AGE", 7),
		Compress:   getEnvBool("CAREMAP_SYNC_LOG_COMPRESS", true),
	}
	return logF, writerLogger(logF)
}

func writerLogger(w io.Writer) LogFunc {
	return func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		_, _ = fmt.Fprintf(w, "[%s] %s\n", timestamp, msg)
	}
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1"
	}
	return defaultValue
}
