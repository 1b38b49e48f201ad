//go:build !prod

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_Console(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		globalLogger = nil
		slog.SetDefault(prev)
	})

	var buf bytes.Buffer
	logger, closeFn, err := Setup(&Config{Level: slog.LevelWarn, Console: &buf})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer closeFn()

	if L() != logger {
		t.Error("Setup should install the global logger")
	}

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Info should be filtered at Warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("output %q should contain the warning", out)
	}
}
