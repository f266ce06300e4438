package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/sant0-9/packet/internal/alias"
	"github.com/sant0-9/packet/internal/document"
	"github.com/sant0-9/packet/internal/logging"
	"github.com/sant0-9/packet/internal/pipeline"
	"github.com/sant0-9/packet/internal/writer"
)

// DefaultOutputDir is created inside the input directory unless configured.
const DefaultOutputDir = "collated"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds user settings. Relative paths are resolved against the input
// directory of a run.
type Config struct {
	OutputDir   string   `yaml:"output_dir,omitempty"`
	AliasFile   string   `yaml:"alias_file,omitempty"`
	Template    string   `yaml:"template,omitempty"`
	Format      string   `yaml:"format,omitempty"`
	Include     []string `yaml:"include,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty"`
	MetricsFile string   `yaml:"metrics_file,omitempty"`
	Workers     int      `yaml:"workers,omitempty"`
	LogLevel    string   `yaml:"log_level,omitempty"`

	// LastInputDir is remembered by the TUI between sessions.
	LastInputDir string `yaml:"last_input_dir,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		AliasFile:   alias.DefaultFile,
		Format:      string(writer.FormatDocx),
		Include:     append([]string(nil), document.DefaultInclude...),
		Placeholder: writer.DefaultPlaceholder,
		LogLevel:    "info",
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "packet"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the user config. It returns nil, nil when there is none.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return cfg, err
}

// LoadFile reads the config at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}

	return &cfg, nil
}

// Save writes c to the user config path.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes c to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Merge overlays the non-zero fields of o onto c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.AliasFile != "" {
		c.AliasFile = o.AliasFile
	}
	if o.Template != "" {
		c.Template = o.Template
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if len(o.Include) > 0 {
		c.Include = append([]string(nil), o.Include...)
	}
	if o.Placeholder != "" {
		c.Placeholder = o.Placeholder
	}
	if o.MetricsFile != "" {
		c.MetricsFile = o.MetricsFile
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LastInputDir != "" {
		c.LastInputDir = o.LastInputDir
	}
}

// Run is a validated configuration for one input directory.
type Run struct {
	InputDir    string
	OutputDir   string
	AliasFile   string
	Template    string
	Format      writer.Format
	Include     []string
	Placeholder string
	MetricsFile string
	Workers     int
	LogLevel    slog.Level
}

// Resolve validates c against inputDir and makes every path absolute.
func (c *Config) Resolve(inputDir string) (*Run, error) {
	if strings.TrimSpace(inputDir) == "" {
		return nil, fmt.Errorf("%w: no input directory", ErrInvalid)
	}
	in, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	info, err := os.Stat(in)
	if err != nil {
		return nil, fmt.Errorf("%w: input directory: %w", ErrInvalid, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalid, in)
	}

	run := &Run{
		InputDir:    in,
		OutputDir:   resolvePath(in, c.OutputDir, DefaultOutputDir),
		AliasFile:   resolvePath(in, c.AliasFile, alias.DefaultFile),
		Placeholder: c.Placeholder,
		Workers:     c.Workers,
		Include:     c.Include,
	}
	if run.OutputDir == in {
		return nil, fmt.Errorf("%w: output directory must differ from the input directory", ErrInvalid)
	}
	if run.Placeholder == "" {
		run.Placeholder = writer.DefaultPlaceholder
	}
	if len(run.Include) == 0 {
		run.Include = document.DefaultInclude
	}
	for _, p := range run.Include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: include pattern %q", ErrInvalid, p)
		}
	}
	if run.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}

	if run.Format, err = writer.ParseFormat(c.Format); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if c.Template != "" {
		run.Template = resolvePath(in, c.Template, "")
		if _, err := os.Stat(run.Template); err != nil {
			return nil, fmt.Errorf("%w: template: %w", ErrInvalid, err)
		}
	}
	if c.MetricsFile != "" {
		run.MetricsFile = resolvePath(in, c.MetricsFile, "")
	}

	if run.LogLevel, err = logging.ParseLevel(c.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return run, nil
}

func resolvePath(base, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if strings.HasPrefix(path, "~"+string(filepath.Separator)) || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path)
}

// Skip lists paths discovery must ignore.
func (r *Run) Skip() []string {
	return []string{r.AliasFile, r.OutputDir}
}

// Source returns the document source for the run.
func (r *Run) Source() *document.DirSource {
	return document.NewDirSource(r.InputDir, r.Include, r.Skip()...)
}

// Sink creates the output sink for the run.
func (r *Run) Sink() (pipeline.Sink, error) {
	return writer.New(writer.Options{
		Dir:         r.OutputDir,
		Format:      r.Format,
		Template:    r.Template,
		Placeholder: r.Placeholder,
		InputDir:    r.InputDir,
	})
}

// PipelineOptions returns the pipeline settings for the run.
func (r *Run) PipelineOptions(logger *slog.Logger) pipeline.Options {
	return pipeline.Options{
		AliasFile:   r.AliasFile,
		Workers:     r.Workers,
		MetricsFile: r.MetricsFile,
		Logger:      logger,
	}
}

// Pipeline assembles a ready-to-run pipeline.
func (r *Run) Pipeline(logger *slog.Logger) (*pipeline.Pipeline, error) {
	sink, err := r.Sink()
	if err != nil {
		return nil, err
	}
	return pipeline.New(r.PipelineOptions(logger), r.Source(), sink), nil
}
