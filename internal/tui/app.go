package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/packet/internal/alias"
	"github.com/sant0-9/packet/internal/config"
	"github.com/sant0-9/packet/internal/document"
	"github.com/sant0-9/packet/internal/logging"
	"github.com/sant0-9/packet/internal/pipeline"
)

type view int

const (
	viewWelcome view = iota
	viewPicker
	viewDocument
	viewProcessing
	viewResult
	viewError
	viewSettings
	viewHelp
)

type App struct {
	width    int
	height   int
	view     view
	prevView view
	state    *state
	quitting bool

	program *tea.Program
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	// openFolder is swapped in tests.
	openFolder func(dir string) error
}

// NewApp creates the TUI over the merged cfg. Settings changes and the last
// input directory are saved to configPath on top of user, the config loaded
// from that file, so flag overrides in cfg are never written back.
func NewApp(cfg, user *config.Config, configPath string, logger *slog.Logger) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if user == nil {
		user = &config.Config{}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	start := cfg.LastInputDir
	if info, err := os.Stat(start); start == "" || err != nil || !info.IsDir() {
		start, _ = os.Getwd()
	}

	s := newState(cfg, user, start)
	s.configPath = configPath

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		view:       viewWelcome,
		state:      s,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		openFolder: openFolder,
	}
}

// SetProgram lets background work report progress to the running program.
func (a *App) SetProgram(p *tea.Program) {
	a.program = p
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), a.state.picker.Init())
}

type dirScannedMsg struct {
	run     *config.Run
	summary *summary
}
type scanErrorMsg struct{ error }
type progressMsg pipeline.Progress
type runDoneMsg struct{ result *pipeline.Result }
type runErrorMsg struct{ error }
type folderOpenedMsg struct {
	dir string
	err error
}
type settingsSavedMsg struct{ err error }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		from := a.view
		if cmd := a.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if a.view == viewSettings && a.state.settingsMode == "placeholder" {
			var cmd tea.Cmd
			a.state.placeholderInput, cmd = a.state.placeholderInput.Update(msg)
			cmds = append(cmds, cmd)
		}
		// Keys only reach the picker while it was already on screen.
		if from != viewPicker || a.view != viewPicker {
			return a, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.state.picker.Height = max(5, a.height-10)

	case dirScannedMsg:
		a.state.run = msg.run
		a.state.summary = msg.summary
		a.view = viewDocument
		return a, nil

	case scanErrorMsg:
		a.state.scanError = msg.error
		a.view = viewError
		return a, nil

	case progressMsg:
		p := pipeline.Progress(msg)
		a.state.pipelineProgress = &p
		return a, nil

	case runDoneMsg:
		a.state.processing = false
		a.state.result = msg.result
		a.view = viewResult
		return a, nil

	case runErrorMsg:
		a.state.processing = false
		a.state.processingError = msg.error
		a.view = viewError
		return a, nil

	case folderOpenedMsg:
		if msg.err != nil {
			a.state.openStatus = "Could not open folder: " + msg.err.Error()
		} else {
			a.state.openStatus = "Opened " + msg.dir
		}
		return a, nil

	case settingsSavedMsg:
		if msg.err != nil {
			a.state.settingsStatus = "Save failed: " + msg.err.Error()
		} else {
			a.state.settingsStatus = "Saved"
		}
		return a, nil

	case spinner.TickMsg:
		if a.state.processing {
			var cmd tea.Cmd
			a.state.spinner, cmd = a.state.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// The picker also consumes its own directory-read messages.
	if a.view == viewPicker {
		var cmd tea.Cmd
		a.state.picker, cmd = a.state.picker.Update(msg)
		cmds = append(cmds, cmd)

		if ok, dir := a.state.picker.DidSelectFile(msg); ok {
			cmds = append(cmds, a.selectDir(dir))
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.view == viewSettings && a.state.settingsMode == "placeholder" {
		return a.handlePlaceholderKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		switch a.view {
		case viewSettings:
			a.view = a.prevView
			// Settings may change what the selected folder resolves to.
			if a.state.inputDir != "" && (a.view == viewDocument || a.view == viewError) {
				return a.selectDir(a.state.inputDir)
			}
			return nil
		case viewHelp:
			a.view = a.prevView
			return nil
		case viewPicker, viewDocument, viewError:
			a.state.reset()
			a.view = viewWelcome
			return nil
		case viewProcessing:
			a.cancel()
			return nil
		}
		a.quitting = true
		a.cancel()
		return tea.Quit

	case key.Matches(msg, keys.Help) && a.view != viewProcessing && a.view != viewHelp && a.view != viewSettings:
		a.prevView = a.view
		a.view = viewHelp
		return nil
	}

	switch a.view {
	case viewWelcome:
		switch {
		case key.Matches(msg, keys.Enter):
			a.view = viewPicker
			return a.state.picker.Init()
		case key.Matches(msg, keys.Settings):
			a.openSettings()
		}

	case viewPicker:
		if key.Matches(msg, keys.Choose) {
			return a.selectDir(a.state.picker.CurrentDirectory)
		}

	case viewDocument:
		switch {
		case key.Matches(msg, keys.Enter):
			if a.state.summary.ready() {
				return a.startRun()
			}
		case key.Matches(msg, keys.New):
			a.state.reset()
			a.view = viewPicker
		case key.Matches(msg, keys.Settings):
			a.openSettings()
		}

	case viewResult:
		switch {
		case key.Matches(msg, keys.Open):
			return a.openOutput()
		case key.Matches(msg, keys.New):
			a.state.reset()
			a.view = viewPicker
		}

	case viewError:
		switch {
		case key.Matches(msg, keys.Retry):
			if a.state.inputDir != "" {
				return a.selectDir(a.state.inputDir)
			}
		case key.Matches(msg, keys.New):
			a.state.reset()
			a.view = viewPicker
		case key.Matches(msg, keys.Settings):
			a.openSettings()
		}

	case viewSettings:
		return a.handleSettingsKey(msg)
	}

	return nil
}

// selectDir resolves the run for dir and scans it without writing anything.
func (a *App) selectDir(dir string) tea.Cmd {
	a.state.reset()
	a.state.inputDir = dir
	cfg := *a.state.config

	return func() tea.Msg {
		run, err := cfg.Resolve(dir)
		if err != nil {
			return scanErrorMsg{err}
		}
		sum, err := scan(context.Background(), run)
		if err != nil {
			return scanErrorMsg{err}
		}
		return dirScannedMsg{run: run, summary: sum}
	}
}

func scan(ctx context.Context, run *config.Run) (*summary, error) {
	src := run.Source()
	paths, err := src.List(ctx)
	if err != nil {
		return nil, err
	}

	s := &summary{}
	for _, p := range paths {
		s.Documents = append(s.Documents, document.Label(p))
		if s.ReadErr != nil {
			continue
		}
		doc, err := src.Open(p)
		if err != nil {
			s.ReadErr = err
			continue
		}
		s.Bytes += doc.Metadata.FileSizeBytes
		s.Words += doc.WordCount()
	}
	aliases, err := alias.LoadFile(run.AliasFile)
	s.Aliases = aliases.Len()
	s.AliasErr = err
	return s, nil
}

func (a *App) startRun() tea.Cmd {
	run := a.state.run
	a.state.processing = true
	a.state.pipelineProgress = nil
	a.state.processingError = nil
	a.view = viewProcessing

	a.state.config.LastInputDir = run.InputDir
	a.state.user.LastInputDir = run.InputDir
	if a.state.configPath != "" {
		if err := a.state.user.SaveTo(a.state.configPath); err != nil {
			a.logger.Warn("could not remember input directory", "error", err)
		}
	}

	if a.ctx.Err() != nil {
		a.ctx, a.cancel = context.WithCancel(context.Background())
	}
	ctx := a.ctx

	work := func() tea.Msg {
		p, err := run.Pipeline(a.logger)
		if err != nil {
			return runErrorMsg{err}
		}
		p.SetProgressCallback(func(pr pipeline.Progress) {
			if a.program != nil {
				a.program.Send(progressMsg(pr))
			}
		})

		res, err := p.Run(ctx)
		if err != nil {
			a.logger.Error("run failed", "input", run.InputDir, "error", err)
			return runErrorMsg{err}
		}
		return runDoneMsg{result: res}
	}

	return tea.Batch(a.state.spinner.Tick, work)
}

func (a *App) openOutput() tea.Cmd {
	if a.state.run == nil {
		return nil
	}
	dir := a.state.run.OutputDir
	open := a.openFolder
	return func() tea.Msg {
		return folderOpenedMsg{dir: dir, err: open(dir)}
	}
}

// openFolder shows dir in the platform's file manager.
func openFolder(dir string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", dir)
	case "windows":
		cmd = exec.Command("explorer", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	return cmd.Process.Release()
}

func (a *App) openSettings() {
	a.prevView = a.view
	a.view = viewSettings
	a.state.settingsMode = ""
	a.state.settingsStatus = ""
}

func (a *App) handlePlaceholderKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		if v := a.state.placeholderInput.Value(); v != "" {
			a.state.config.Placeholder = v
		}
		a.state.settingsMode = ""
		a.state.placeholderInput.Blur()
	case tea.KeyEsc:
		a.state.settingsMode = ""
		a.state.placeholderInput.Blur()
	}
	return nil
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewWelcome:
		return a.renderWelcome()
	case viewPicker:
		return a.renderPicker()
	case viewDocument:
		return a.renderDocument()
	case viewProcessing:
		return a.renderProcessing()
	case viewResult:
		return a.renderResult()
	case viewError:
		return a.renderError()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	default:
		return a.renderWelcome()
	}
}
