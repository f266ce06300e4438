// Package main provides the packet binary entry point.
// Packet collates answers from a folder of session documents into one
// document per respondent.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sant0-9/packet/internal/config"
	"github.com/sant0-9/packet/internal/logging"
	"github.com/sant0-9/packet/internal/pipeline"
	"github.com/sant0-9/packet/internal/tui"
)

const appName = "packet"

var version = "dev"

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type flags struct {
	configPath  string
	aliases     string
	output      string
	template    string
	format      string
	include     []string
	placeholder string
	metricsFile string
	workers     int
	logLevel    string
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "packet [input-dir]",
		Short: "Collate session answers into one document per respondent",
		Long: `Packet reads a folder of session documents. Each document holds one
question, a blank line, then one "Name: answer" line per respondent.

It writes one document per respondent listing every question they
answered, in document order. Nicknames are merged through an alias file
(_names.txt by default) with lines of the form "alias::Canonical Name".

Run without an input directory to choose one interactively.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, user, err := loadConfig(cmd.Flags(), f)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return runTUI(cfg, user)
			}
			return runBatch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	fl.StringVarP(&f.aliases, "aliases", "a", "", "Alias file (default <input-dir>/_names.txt)")
	fl.StringVarP(&f.output, "output", "o", "", "Output directory (default <input-dir>/collated)")
	fl.StringVarP(&f.template, "template", "t", "", "Template .docx for reports")
	fl.StringVarP(&f.format, "format", "f", "", "Output format (docx, markdown)")
	fl.StringSliceVarP(&f.include, "include", "i", nil, "Glob patterns selecting input documents (default *.docx)")
	fl.StringVar(&f.placeholder, "placeholder", "", "Template text replaced by the respondent name (default __student__)")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus text metrics to this file")
	fl.IntVarP(&f.workers, "workers", "w", 0, "Documents parsed concurrently (default number of CPUs)")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
		},
	})

	return cmd
}

// loadConfig layers defaults, the user config, --config and flags, in that
// order of increasing precedence. The user config alone is returned too, for
// the TUI to save to.
func loadConfig(fs *pflag.FlagSet, f flags) (cfg, user *config.Config, err error) {
	cfg = config.DefaultConfig()

	user, err = config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("user config: %w", err)
	}
	if user == nil {
		user = &config.Config{}
	}
	cfg.Merge(user)

	if f.configPath != "" {
		file, err := config.LoadFile(f.configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("config %s: %w", f.configPath, err)
		}
		cfg.Merge(file)
	}

	// Paths given on the command line are relative to the working directory.
	abs := func(p string) string {
		if a, err := filepath.Abs(p); err == nil {
			return a
		}
		return p
	}

	if fs.Changed("aliases") {
		cfg.AliasFile = abs(f.aliases)
	}
	if fs.Changed("output") {
		cfg.OutputDir = abs(f.output)
	}
	if fs.Changed("template") {
		cfg.Template = abs(f.template)
	}
	if fs.Changed("metrics-file") {
		cfg.MetricsFile = abs(f.metricsFile)
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("include") {
		cfg.Include = f.include
	}
	if fs.Changed("placeholder") {
		cfg.Placeholder = f.placeholder
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	return cfg, user, nil
}

func runBatch(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, inputDir string) error {
	run, err := cfg.Resolve(inputDir)
	if err != nil {
		return err
	}

	logger := logging.New(stderr, run.LogLevel)
	slog.SetDefault(logger)

	logger.Debug("resolved configuration",
		"input", run.InputDir,
		"output", run.OutputDir,
		"aliases", run.AliasFile,
		"format", run.Format,
		"include", run.Include)

	p, err := run.Pipeline(logger)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(stdout, run, res)
	return nil
}

var styleHeader = lipgloss.NewStyle().Bold(true)

func printSummary(w io.Writer, run *config.Run, res *pipeline.Result) {
	fmt.Fprintln(w, styleHeader.Render(fmt.Sprintf("Collated %d documents into %d reports in %s",
		len(res.Labels), len(res.Reports), run.OutputDir)))
	for _, r := range res.Reports {
		fmt.Fprintf(w, "  %-30s %3d answers  %s\n", r.Respondent, len(r.Entries), filepath.Base(res.Outputs[r.Respondent]))
	}
	fmt.Fprintf(w, "Kept %d of %d answers\n", res.Stats.Kept, res.Stats.Total())
	if res.Stats.ExcludedRespondent > 0 || res.Stats.ExcludedAnswer > 0 {
		fmt.Fprintf(w, "Skipped %d answers from ignored respondents and %d empty answers\n",
			res.Stats.ExcludedRespondent, res.Stats.ExcludedAnswer)
	}
}

func runTUI(cfg, user *config.Config) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := logging.OpenFile(filepath.Dir(configPath), level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	app := tui.NewApp(cfg, user, configPath, logFile.Logger)
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	app.SetProgram(p)

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
