// Package config resolves runtime settings from built-in defaults, an optional .env file
// and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"nucorrect-go/resources"
)

// Environment variables that override the defaults.
const (
	EnvTool        = "NUC_TOOL"
	EnvProcDir     = "NUC_PROC_DIR"
	EnvStageDir    = "NUC_STAGE_DIR"
	EnvPreviewName = "NUC_PREVIEW_NAME"
	EnvInput       = "NUC_INPUT"
	EnvLogLevel    = "NUC_LOG_LEVEL"
	EnvEventBuffer = "NUC_EVENT_BUFFER"
)

// DefaultEnvFile is read from the working directory if present.
const DefaultEnvFile = ".env"

// Config holds all runtime settings.
type Config struct {
	// Tool is the correction executable, looked up on PATH unless absolute.
	Tool string `yaml:"tool"`
	// ProcDir and StageDir form the output directory, ProcDir/StageDir.
	ProcDir  string `yaml:"procDir"`
	StageDir string `yaml:"stageDir"`
	// PreviewName is the image the tool leaves in the output directory.
	PreviewName string `yaml:"previewName"`
	// DefaultInput pre-fills the input field at startup.
	DefaultInput string `yaml:"defaultInput"`
	LogLevel     string `yaml:"logLevel"`
	EventBuffer  int    `yaml:"eventBuffer"`
	Window       Window `yaml:"window"`
}

// Window holds the initial main window size.
type Window struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	return Parse(resources.DefaultConfig)
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Load returns the defaults overridden by envFile (if it exists) and then by the process environment.
// Variables already set in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	fileEnv := map[string]string{}
	if envFile != "" {
		fileEnv, err = godotenv.Read(envFile)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
			fileEnv = map[string]string{}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the NUC_* variables reported by lookup.
// Blank values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str(EnvTool, &c.Tool)
	str(EnvProcDir, &c.ProcDir)
	str(EnvStageDir, &c.StageDir)
	str(EnvPreviewName, &c.PreviewName)
	str(EnvInput, &c.DefaultInput)
	str(EnvLogLevel, &c.LogLevel)

	if v, ok := lookup(EnvEventBuffer); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvEventBuffer, err)
		}
		c.EventBuffer = n
	}
	return nil
}

// Validate checks the settings that the program cannot run without.
func (c *Config) Validate() error {
	if c.Tool == "" {
		return errors.New("tool is required")
	}
	if c.PreviewName == "" {
		return errors.New("previewName is required")
	}
	if c.ProcDir == "" && c.StageDir == "" {
		return errors.New("procDir or stageDir is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// OutputDir is the directory outputs are proposed in and the preview is read from.
func (c *Config) OutputDir() string {
	return filepath.Join(c.ProcDir, c.StageDir)
}

// PreviewPath is the fixed location of the preview image produced by the tool.
func (c *Config) PreviewPath() string {
	return filepath.Join(c.OutputDir(), c.PreviewName)
}

// SlogLevel parses LogLevel. An empty level means info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
