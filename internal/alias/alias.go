package alias

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// Separator splits an alias from its canonical name.
	Separator = "::"
	// CommentPrefix marks a line the loader ignores.
	CommentPrefix = ";"
	// DefaultFile is the alias file looked up inside the input directory.
	DefaultFile = "_names.txt"
)

// Map resolves raw respondent names to canonical names.
// Keys are lowercased aliases; values keep the casing they were written with.
type Map map[string]string

// ParseError reports a malformed alias line.
type ParseError struct {
	Path string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "aliases"
	}
	return fmt.Sprintf("%s:%d: malformed alias entry %q (want alias%sCanonical)", where, e.Line, e.Text, Separator)
}

// Load reads alias entries from r, one per line.
func Load(r io.Reader) (Map, error) {
	m := Map{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		name, canonical, ok := strings.Cut(line, Separator)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, &ParseError{Line: lineNo, Text: line}
		}
		m[strings.ToLower(name)] = strings.TrimSpace(canonical)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile reads the alias file at path. A missing file is not an error and
// yields an empty map.
func LoadFile(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Map{}, nil
		}
		return nil, fmt.Errorf("open alias file %s: %w", path, err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
			return nil, perr
		}
		return nil, fmt.Errorf("read alias file %s: %w", path, err)
	}
	return m, nil
}

// Resolve returns the canonical name for name, or name unchanged when no
// alias matches. Lookup is case-insensitive.
func (m Map) Resolve(name string) string {
	if canonical, ok := m[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// Len returns the number of aliases.
func (m Map) Len() int {
	return len(m)
}
