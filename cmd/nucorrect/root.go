package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"nucorrect-go/application"
	"nucorrect-go/core/eventbus"
	"nucorrect-go/infrastructure/config"
	"nucorrect-go/infrastructure/logging"
	"nucorrect-go/infrastructure/process"
	"nucorrect-go/infrastructure/workspace"
	"nucorrect-go/presentation"
	"nucorrect-go/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	statusColor  = color.New(color.FgCyan)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// exitCodeError carries the tool's exit status out of a headless run.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// options are the flags shared by every command.
type options struct {
	envFile  string
	input    string
	tool     string
	procDir  string
	stageDir string
	logLevel string
}

func (o *options) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.envFile, "env-file", config.DefaultEnvFile, "dotenv file with NUC_* overrides")
	flags.StringVarP(&o.input, "input", "i", "", "input image file")
	flags.StringVar(&o.tool, "tool", "", "correction executable (default from config)")
	flags.StringVar(&o.procDir, "proc-dir", "", "processing root directory")
	flags.StringVar(&o.stageDir, "stage-dir", "", "stage directory under the processing root")
	flags.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// loadConfig reads the configuration and applies the flags that were set.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, err
	}

	if o.input != "" {
		cfg.DefaultInput = o.input
	}
	if o.tool != "" {
		cfg.Tool = o.tool
	}
	if o.procDir != "" {
		cfg.ProcDir = o.procDir
	}
	if o.stageDir != "" {
		cfg.StageDir = o.stageDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// services is the wiring shared by the window and the headless runner.
type services struct {
	cfg         *config.Config
	logger      *slog.Logger
	eventBus    eventbus.EventBus
	coordinator *application.Coordinator
	closeLog    func() error
}

// startServices sets up logging, creates the output directory and starts the coordinator.
// runner may be nil to execute the real tool.
func startServices(cfg *config.Config, console io.Writer, runner process.Runner) (*services, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Console = console
	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if _, err := workspace.Ensure(cfg.OutputDir(), logger); err != nil {
		closeLog()
		return nil, err
	}

	eventBus := eventbus.NewWithLogger(cfg.EventBuffer, logger)

	coordinator := application.NewCoordinator(&application.CoordinatorConfig{
		EventBus:    eventBus,
		Runner:      runner,
		Tool:        cfg.Tool,
		PreviewPath: cfg.PreviewPath(),
		Logger:      logger,
	})
	coordinator.Start()

	return &services{
		cfg:         cfg,
		logger:      logger,
		eventBus:    eventBus,
		coordinator: coordinator,
		closeLog:    closeLog,
	}, nil
}

func (s *services) close() {
	s.coordinator.Stop()
	s.eventBus.Close()
	s.closeLog()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "nucorrect",
		Short: "Non-uniformity intensity correction front end",
		Long: `Runs nu_correct -clobber <input> <output> on a chosen image and shows
the tool's output and the resulting correction field.

Without a subcommand the desktop window is opened.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return runWindow(cfg)
		},
	}

	opts.register(cmd.PersistentFlags())
	cmd.AddCommand(newRunCmd(opts))

	return cmd
}

// runWindow shows the main window and blocks until it is closed.
func runWindow(cfg *config.Config) error {
	svc, err := startServices(cfg, os.Stdout, nil)
	if err != nil {
		return err
	}
	defer svc.close()

	logger := svc.logger
	logger.Info("Starting nucorrect", "tool", cfg.Tool, "output_dir", cfg.OutputDir())

	bridge := presentation.NewUIEventBridge(&presentation.BridgeConfig{
		Coordinator: svc.coordinator,
		EventBus:    svc.eventBus,
		Logger:      logger,
	})
	defer bridge.Close()

	fyneApp := app.New()
	fyneApp.SetIcon(resources.GetAppIcon())

	mainWindow := presentation.NewMainWindow(&presentation.MainWindowConfig{
		App:    fyneApp,
		Bridge: bridge,
		Logger: logger,
		OutDir: cfg.OutputDir(),
		Input:  cfg.DefaultInput,
		Size:   fyne.NewSize(cfg.Window.Width, cfg.Window.Height),
	})
	defer mainWindow.Cleanup()

	mainWindow.Show()
	fyneApp.Run()

	// Force exit if a running tool keeps shutdown from finishing
	go func() {
		time.Sleep(10 * time.Second)
		logger.Warn("Shutdown timeout, forcing exit")
		os.Exit(0)
	}()

	logger.Info("Application shutdown complete")
	return nil
}
