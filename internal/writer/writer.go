package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sant0-9/packet/internal/pipeline"
)

// Format names an output format.
type Format string

const (
	FormatDocx     Format = "docx"
	FormatMarkdown Format = "markdown"
)

// Extension returns the file extension used for f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	default:
		return ".docx"
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatDocx, "":
		return FormatDocx, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want docx or markdown)", s)
	}
}

// Options configures a sink.
type Options struct {
	Dir    string
	Format Format
	// Template is a .docx whose styles and leading content every report
	// starts from. Empty uses the built-in template.
	Template string
	// Placeholder is replaced by the respondent's name in the template.
	Placeholder string
	// InputDir is recorded in the run manifest.
	InputDir string
}

// New creates the sink for opts.Format.
func New(opts Options) (pipeline.Sink, error) {
	switch opts.Format {
	case FormatMarkdown:
		s := NewMarkdownSink(opts.Dir)
		s.inputDir = opts.InputDir
		return s, nil
	case FormatDocx, "":
		s, err := NewDocxSink(opts.Dir, opts.Template, opts.Placeholder)
		if err != nil {
			return nil, err
		}
		s.inputDir = opts.InputDir
		return s, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// dirSink owns an output directory: it creates it on first use, hands out
// collision-free file names and writes the run manifest.
type dirSink struct {
	dir      string
	format   Format
	inputDir string

	mu   sync.Mutex
	made bool
	used map[string]bool
}

func newDirSink(dir string, format Format) dirSink {
	return dirSink{dir: dir, format: format, used: make(map[string]bool)}
}

func (s *dirSink) ensureDir() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.made {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	s.made = true
	return nil
}

// path reserves the output path for respondent. Names that collide after
// sanitising, ignoring case, get a numeric suffix.
func (s *dirSink) path(respondent string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ext := s.format.Extension()
	base := FileName(respondent)
	name := base
	for i := 2; s.used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s (%d)", base, i)
	}
	s.used[strings.ToLower(name)] = true
	return filepath.Join(s.dir, name+ext)
}

func (s *dirSink) write(ctx context.Context, respondent string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.ensureDir(); err != nil {
		return "", err
	}
	path := s.path(respondent)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Finish writes the run manifest next to the reports.
func (s *dirSink) Finish(ctx context.Context, res *pipeline.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	m := NewManifest(res, s.format)
	m.InputDir = s.inputDir
	return WriteManifest(s.dir, m)
}

// FileName turns a respondent name into a safe file name.
func FileName(respondent string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, respondent)
	name = strings.TrimRight(strings.TrimSpace(name), ".")
	if name == "" {
		return "_"
	}
	return name
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over path so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".packet-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
