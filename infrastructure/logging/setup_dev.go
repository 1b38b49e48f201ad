//go:build !prod

package logging

import (
	"log/slog"
	"os"
)

// Setup installs a console text logger.
// The returned close function is a no-op.
func Setup(cfg *Config) (*slog.Logger, func() error, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	out := cfg.Console
	if out == nil {
		out = os.Stdout
	}

	logger := slog.New(slog.NewTextHandler(out, handlerOptions(cfg)))
	setGlobal(logger)

	return logger, func() error { return nil }, nil
}
