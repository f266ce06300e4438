package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Reader extracts plain-text paragraphs from one document format.
// Formatting is discarded; run text inside a paragraph is concatenated.
type Reader interface {
	// Paragraphs returns the document's paragraphs in order.
	Paragraphs(content []byte) ([]string, error)

	// Format names the format, e.g. "docx".
	Format() string

	// Extensions lists the lowercase file extensions handled, with the dot.
	Extensions() []string
}

// Registry maps file extensions to readers.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]Reader
}

// NewRegistry creates a registry with the docx and plain-text readers.
func NewRegistry() *Registry {
	r := &Registry{readers: make(map[string]Reader)}
	r.Register(NewDocxReader())
	r.Register(NewTextReader())
	return r
}

// Register adds rd for every extension it handles, replacing earlier readers.
func (r *Registry) Register(rd Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range rd.Extensions() {
		r.readers[strings.ToLower(ext)] = rd
	}
}

// ForPath returns the reader for path's extension, or nil.
func (r *Registry) ForPath(path string) Reader {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readers[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open reads the document at path. Failures are reported as *ReadError.
func (r *Registry) Open(path string) (*Document, error) {
	rd := r.ForPath(path)
	if rd == nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	paragraphs, err := rd.Paragraphs(content)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	return &Document{
		Label:      Label(path),
		Paragraphs: paragraphs,
		Metadata: Metadata{
			SourcePath:    path,
			SourceFormat:  rd.Format(),
			FileSizeBytes: int64(len(content)),
		},
	}, nil
}

// Label derives a document's label from its file name minus extension.
func Label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
