package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"devninja-chat/internal/config"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// New builds the service logger. Console output is human readable in
// development and JSON otherwise; LOG_FILE adds a rotating JSON file.
func New(cfg *config.Config) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	var console io.Writer = os.Stderr
	if useConsoleFormat(cfg) {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	writers := []io.Writer{console}

	var fileErr error
	if logPath := strings.TrimSpace(cfg.LogFile); logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fileErr = err
		} else {
			writers = append(writers, &lumberjack.Logger{
				Filename:   logPath,
				MaxSize:    maxLogSizeMB,
				MaxBackups: maxLogBackups,
				MaxAge:     maxLogAgeDays,
				Compress:   true,
			})
		}
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("service", "devninja-chat").
		Logger()

	return log, fileErr
}

func useConsoleFormat(cfg *config.Config) bool {
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "text", "console":
		return true
	case "json":
		return false
	default:
		return cfg.IsDevelopment()
	}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
