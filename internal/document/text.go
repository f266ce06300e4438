package document

import "strings"

// TextReader treats every line of a plain-text file as a paragraph.
type TextReader struct{}

// NewTextReader creates a plain-text reader.
func NewTextReader() *TextReader {
	return &TextReader{}
}

func (r *TextReader) Format() string { return "text" }

func (r *TextReader) Extensions() []string { return []string{".txt", ".md"} }

// Paragraphs splits content into lines. CRLF is normalised to LF and a
// trailing newline does not produce an extra empty paragraph.
func (r *TextReader) Paragraphs(content []byte) ([]string, error) {
	s := strings.TrimPrefix(string(content), "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s == "" {
		return nil, nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n"), nil
}
