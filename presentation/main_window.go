package presentation

import (
	"errors"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"nucorrect-go/application"
	"nucorrect-go/core/state"
	"nucorrect-go/domain/job"
	"nucorrect-go/infrastructure/preview"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Labels shown in the window.
const (
	labelInput         = "input file:"
	labelOutput        = "output file:"
	labelField         = "correction field:"
	labelCommand       = "command:"
	labelRunning       = "Processing running"
	labelStdout        = "output(stdout):"
	labelStderr        = "error(stderr):"
	labelChoose        = "choose file"
	labelGo            = "go"
	fieldPlaceholder   = "field"
	commandPlaceholder = "..."
	doneMarker         = ">>>>Done>>>> Done"
)

// maxPreviewSide bounds the decoded preview kept in memory.
const maxPreviewSide = 1024

// MainWindow is the single application window.
type MainWindow struct {
	window fyne.Window
	bridge *UIEventBridge
	logger *slog.Logger

	// do runs fn on the UI thread. It is fyne.Do outside tests.
	do func(fn func())

	outDir string

	// UI components
	inEntry      *widget.Entry
	inButton     *widget.Button
	outEntry     *widget.Entry
	outButton    *widget.Button
	field        *PreviewCanvas
	commandLabel *widget.Label
	commandText  *widget.Entry
	stdoutText   *widget.Entry
	stderrText   *widget.Entry
	goButton     *widget.Button

	cleanupOnce sync.Once
}

// MainWindowConfig holds configuration for MainWindow.
type MainWindowConfig struct {
	App    fyne.App
	Bridge *UIEventBridge
	Logger *slog.Logger
	// OutDir is where outputs are proposed; see SetOutDir.
	OutDir string
	// Input pre-fills the input field when non-empty.
	Input string
	// Size is the initial window size; zero means a built-in default.
	Size fyne.Size
}

// NewMainWindow creates the main window.
func NewMainWindow(cfg *MainWindowConfig) *MainWindow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Size.IsZero() {
		cfg.Size = fyne.NewSize(640, 780)
	}

	w := &MainWindow{
		window: cfg.App.NewWindow("N3 - non-uniformity correction"),
		bridge: cfg.Bridge,
		logger: cfg.Logger,
		do:     fyne.Do,
	}

	w.init()
	w.window.Resize(cfg.Size)
	w.setupEventCallbacks()

	w.SetOutDir(cfg.OutDir)
	if cfg.Input != "" {
		w.SetInput(cfg.Input)
	}

	w.window.SetOnClosed(func() {
		w.Cleanup()
		cfg.App.Quit()
	})

	return w
}

func (w *MainWindow) init() {
	w.inEntry = widget.NewEntry()
	w.inButton = widget.NewButtonWithIcon(labelChoose, theme.FolderOpenIcon(), w.chooseInput)

	w.outEntry = widget.NewEntry()
	w.outButton = widget.NewButtonWithIcon(labelChoose, theme.DocumentSaveIcon(), w.chooseOutput)

	w.field = NewPreviewCanvas(fieldPlaceholder, fyne.NewSize(256, 192))

	w.commandLabel = widget.NewLabel(labelCommand)
	w.commandText = newLogBox()
	w.commandText.SetText(commandPlaceholder)

	w.stdoutText = newLogBox()
	w.stderrText = newLogBox()

	w.goButton = widget.NewButtonWithIcon(labelGo, theme.MediaPlayIcon(), w.handleGo)
	w.goButton.Importance = widget.HighImportance

	// Layout: pickers and preview on top, three stacked log boxes, go at the bottom
	top := container.NewVBox(
		widget.NewLabel(labelInput),
		container.NewBorder(nil, nil, nil, w.inButton, w.inEntry),
		widget.NewLabel(labelOutput),
		container.NewBorder(nil, nil, nil, w.outButton, w.outEntry),
		widget.NewLabel(labelField),
		w.field,
	)

	logs := container.NewGridWithRows(3,
		container.NewBorder(w.commandLabel, nil, nil, nil, w.commandText),
		container.NewBorder(widget.NewLabel(labelStdout), nil, nil, nil, w.stdoutText),
		container.NewBorder(widget.NewLabel(labelStderr), nil, nil, nil, w.stderrText),
	)

	w.window.SetContent(container.NewBorder(top, w.goButton, nil, nil, logs))
}

// newLogBox returns a multi-line entry used as a read-only text box.
func newLogBox() *widget.Entry {
	e := widget.NewMultiLineEntry()
	e.Wrapping = fyne.TextWrapOff
	e.TextStyle = fyne.TextStyle{Monospace: true}
	e.Disable()
	return e
}

func (w *MainWindow) setupEventCallbacks() {
	if w.bridge == nil {
		return
	}

	w.bridge.SetCallbacks(&UICallbacks{
		OnRunStateChanged: func(runID string, oldState, newState state.RunState) {
			w.logger.Debug("Run state changed", "run_id", runID, "from", oldState, "to", newState)
		},
		OnRunStarted: func(runID string, args []string) {
			w.logger.Info("Run started", "run_id", runID, "command", strings.Join(args, " "))
		},
		OnStdout: func(runID, line string) {
			// UI update must run on main thread
			w.do(func() {
				appendLine(w.stdoutText, line)
			})
		},
		OnStderr: func(runID, line string) {
			w.do(func() {
				appendLine(w.stderrText, line)
			})
		},
		OnRunCompleted: func(runID string, exitCode int, err error, previewPath string) {
			w.logger.Info("Run completed", "run_id", runID, "exit_code", exitCode, "error", err)
			// Decode off the UI thread; only the swap happens there.
			img := w.loadPreview(previewPath)
			w.do(func() {
				w.onRunCompleted(img)
			})
		},
	})
}

// SetOutDir sets the directory output paths are proposed in.
func (w *MainWindow) SetOutDir(dir string) {
	w.logger.Debug("Output directory set", "dir", dir)
	w.outDir = dir
}

// SetInput sets the input path and proposes <out dir>/<base name of input> as output.
func (w *MainWindow) SetInput(path string) {
	w.logger.Debug("Input file set", "path", path)
	w.inEntry.SetText(path)
	w.outEntry.SetText(job.DefaultOutput(w.outDir, path))
}

// SetOutput sets the output path.
func (w *MainWindow) SetOutput(path string) {
	w.outEntry.SetText(path)
}

// Input returns the current input path.
func (w *MainWindow) Input() string {
	return w.inEntry.Text
}

// Output returns the current output path.
func (w *MainWindow) Output() string {
	return w.outEntry.Text
}

func (w *MainWindow) chooseInput() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		w.SetInput(reader.URI().Path())
	}, w.window)
	w.setDialogLocation(d, w.Input())
	d.Show()
}

// chooseOutput uses a save dialog so a not yet existing file can be named.
// The dialog creates the file; the tool overwrites it because of -clobber.
func (w *MainWindow) chooseOutput() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		w.SetOutput(writer.URI().Path())
	}, w.window)
	if out := w.Output(); out != "" {
		d.SetFileName(filepath.Base(out))
	}
	w.setDialogLocation(d, w.Output())
	d.Show()
}

type locatable interface {
	SetLocation(u fyne.ListableURI)
}

// setDialogLocation opens the dialog in the directory of path when it exists.
func (w *MainWindow) setDialogLocation(d locatable, path string) {
	if path == "" {
		return
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(abs))
	if err != nil {
		return
	}
	d.SetLocation(lister)
}

func (w *MainWindow) handleGo() {
	if w.bridge == nil || w.bridge.IsRunning() {
		return
	}

	input, output := w.Input(), w.Output()
	w.commandText.SetText(w.bridge.CommandLine(input, output))
	w.commandLabel.SetText(labelRunning)
	w.goButton.Disable()

	if err := w.bridge.RunCorrection(input, output); err != nil {
		w.logger.Error("Failed to start run", "error", err)
		w.commandLabel.SetText(labelCommand)
		if !errors.Is(err, application.ErrRunInProgress) {
			w.goButton.Enable()
			dialog.ShowError(err, w.window)
		}
	}
}

func (w *MainWindow) loadPreview(path string) image.Image {
	if path == "" {
		return nil
	}
	img, err := preview.Load(path)
	if err != nil {
		w.logger.Warn("Preview not available", "path", path, "error", err)
		return nil
	}
	return preview.Fit(img, maxPreviewSide, maxPreviewSide)
}

// onRunCompleted must run on the UI thread.
func (w *MainWindow) onRunCompleted(img image.Image) {
	w.commandText.Append("\n" + doneMarker)
	w.commandLabel.SetText(labelCommand)
	// Nil brings back the placeholder so a stale image is never shown.
	w.field.SetImage(img)
	w.goButton.Enable()
}

// appendLine adds one line to a log box and keeps the last line in view.
func appendLine(e *widget.Entry, line string) {
	if e.Text == "" {
		e.SetText(line)
	} else {
		e.Append("\n" + line)
	}
	e.CursorRow = strings.Count(e.Text, "\n")
	e.CursorColumn = 0
	e.Refresh()
}

// Show displays the window.
func (w *MainWindow) Show() {
	w.window.Show()
}

// Cleanup detaches the window from the bridge so no update targets a closed window.
func (w *MainWindow) Cleanup() {
	w.cleanupOnce.Do(func() {
		w.logger.Info("Starting cleanup...")

		if w.bridge != nil {
			w.bridge.SetCallbacks(nil)
		}

		w.logger.Info("Cleanup completed")
	})
}
