package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"devninja-chat/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARNING": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"chatty":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_WritesRotatingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "chat.log")
	cfg := &config.Config{Env: "production", LogLevel: "info", LogFile: logPath}

	log, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	log.Info().Str("event", "probe").Msg("hello")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected log file to contain the probe entry")
	}
}

func TestUseConsoleFormat(t *testing.T) {
	if !useConsoleFormat(&config.Config{Env: "development"}) {
		t.Errorf("development should default to console output")
	}
	if useConsoleFormat(&config.Config{Env: "production"}) {
		t.Errorf("production should default to JSON output")
	}
	if useConsoleFormat(&config.Config{Env: "development", LogFormat: "json"}) {
		t.Errorf("explicit json format should win")
	}
}
