package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/packet/internal/writer"
)

func TestLoadMissingReturnsNil(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Format = "markdown"
	cfg.Workers = 3
	cfg.LastInputDir = "/tmp/sessions"
	require.NoError(t, cfg.Save())

	path, err := ConfigPath()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [nope"), 0o644))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{Format: "markdown", Include: []string{"*.txt"}, Workers: 4})
	cfg.Merge(nil)

	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, []string{"*.txt"}, cfg.Include)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir, "zero fields leave defaults alone")
	assert.Equal(t, writer.DefaultPlaceholder, cfg.Placeholder)
}

func TestResolveDefaults(t *testing.T) {
	in := t.TempDir()

	run, err := DefaultConfig().Resolve(in)
	require.NoError(t, err)

	assert.Equal(t, in, run.InputDir)
	assert.Equal(t, filepath.Join(in, "collated"), run.OutputDir)
	assert.Equal(t, filepath.Join(in, "_names.txt"), run.AliasFile)
	assert.Equal(t, writer.FormatDocx, run.Format)
	assert.Equal(t, []string{"*.docx"}, run.Include)
	assert.Equal(t, "__student__", run.Placeholder)
	assert.Equal(t, slog.LevelInfo, run.LogLevel)
	assert.Empty(t, run.Template)
	assert.Equal(t, []string{run.AliasFile, run.OutputDir}, run.Skip())
}

func TestResolvePaths(t *testing.T) {
	in := t.TempDir()
	abs := t.TempDir()
	tmpl := filepath.Join(in, "template.docx")
	require.NoError(t, os.WriteFile(tmpl, []byte("x"), 0o644))

	cfg := &Config{
		OutputDir:   abs,
		AliasFile:   "../names.txt",
		Template:    "template.docx",
		MetricsFile: "metrics.prom",
		Format:      "md",
		LogLevel:    "debug",
	}
	run, err := cfg.Resolve(in)
	require.NoError(t, err)

	assert.Equal(t, abs, run.OutputDir)
	assert.Equal(t, filepath.Join(filepath.Dir(in), "names.txt"), run.AliasFile)
	assert.Equal(t, tmpl, run.Template)
	assert.Equal(t, filepath.Join(in, "metrics.prom"), run.MetricsFile)
	assert.Equal(t, writer.FormatMarkdown, run.Format)
	assert.Equal(t, slog.LevelDebug, run.LogLevel)
}

func TestResolveInvalid(t *testing.T) {
	in := t.TempDir()
	file := filepath.Join(in, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name  string
		input string
		cfg   Config
	}{
		{name: "empty input", input: "", cfg: Config{}},
		{name: "missing input", input: filepath.Join(in, "nope"), cfg: Config{}},
		{name: "input is a file", input: file, cfg: Config{}},
		{name: "output equals input", input: in, cfg: Config{OutputDir: "."}},
		{name: "bad format", input: in, cfg: Config{Format: "pdf"}},
		{name: "bad pattern", input: in, cfg: Config{Include: []string{"[unclosed"}}},
		{name: "negative workers", input: in, cfg: Config{Workers: -1}},
		{name: "missing template", input: in, cfg: Config{Template: "nope.docx"}},
		{name: "bad log level", input: in, cfg: Config{LogLevel: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Resolve(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestRunPipeline(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "w1.txt"), []byte("Q\n\nSam: A\n"), 0o644))

	cfg := DefaultConfig()
	cfg.Include = []string{"*.txt"}
	cfg.Format = "markdown"
	run, err := cfg.Resolve(in)
	require.NoError(t, err)

	p, err := run.Pipeline(nil)
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(in, "collated", "Sam.md"), res.Outputs["Sam"])
	m, err := writer.ReadManifest(filepath.Join(in, "collated"))
	require.NoError(t, err)
	assert.Equal(t, in, m.InputDir)
}
