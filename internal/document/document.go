package document

import (
	"errors"
	"fmt"
	"strings"
)

// Document is one questionnaire session read from disk.
type Document struct {
	// Label identifies the session, usually a date such as 2024-01-08.
	Label      string
	Paragraphs []string
	Metadata   Metadata
}

// Metadata describes where a document came from.
type Metadata struct {
	SourcePath    string
	SourceFormat  string
	FileSizeBytes int64
}

// FileSizeHuman returns human-readable file size
func (m Metadata) FileSizeHuman() string {
	bytes := m.FileSizeBytes
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}

// WordCount counts whitespace separated words across all paragraphs.
func (d *Document) WordCount() int {
	n := 0
	for _, p := range d.Paragraphs {
		n += len(strings.Fields(p))
	}
	return n
}

// ErrUnsupported is returned for files no reader handles.
var ErrUnsupported = errors.New("unsupported document format")

// ReadError wraps a failure to read a single source document.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
