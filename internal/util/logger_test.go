package util

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerFallsBackToInfoOnUnknownLevel(t *testing.T) {
	logger, err := NewLogger("chatty", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("unknown level must fall back to info, not debug")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info must be enabled after fallback")
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "reeldaily.log")

	logger, err := NewLogger("debug", logFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("widget slot refreshed")
	_ = logger.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected the entry to reach the file sink")
	}
}
