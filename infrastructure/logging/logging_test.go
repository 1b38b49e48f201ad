package logging

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != slog.LevelInfo {
		t.Errorf("Level = %v, want Info", cfg.Level)
	}
	if cfg.Dir != "" {
		t.Errorf("Dir = %q, want empty", cfg.Dir)
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		t.Error("rotation limits should be positive")
	}
}

func TestLogFilePath(t *testing.T) {
	cfg := &Config{Dir: "/var/log/x"}
	if got := LogFilePath(cfg); got != filepath.Join("/var/log/x", "nucorrect.log") {
		t.Errorf("LogFilePath() = %q", got)
	}

	got := LogFilePath(&Config{})
	if filepath.Base(filepath.Dir(got)) != "logs" {
		t.Errorf("default log path %q should be under a logs directory", got)
	}
	if !strings.Contains(got, AppName) {
		t.Errorf("default log path %q should contain %q", got, AppName)
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := With(context.Background(), logger)
	if From(ctx) != logger {
		t.Error("From should return the logger stored by With")
	}

	ctx = WithAttrs(ctx, "run_id", "run-1")
	From(ctx).Info("hello")
	if !strings.Contains(buf.String(), "run_id=run-1") {
		t.Errorf("log output %q missing attribute", buf.String())
	}

	if From(nil) != L() {
		t.Error("From(nil) should fall back to L()")
	}
	if From(context.Background()) != L() {
		t.Error("From without a logger should fall back to L()")
	}
}
