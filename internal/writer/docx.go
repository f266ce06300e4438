package writer

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/sant0-9/packet/internal/document"
	"github.com/sant0-9/packet/internal/pipeline"
)

// DefaultPlaceholder marks where a template gets the respondent's name.
const DefaultPlaceholder = "__student__"

// Paragraph styles applied to appended entries. Templates are expected to
// define them; Word falls back to Normal when they don't.
const (
	StyleQuestion = "Question"
	StyleAnswer   = "Answer"
	StyleSpace    = "Space"
)

// ErrTemplate wraps problems with the report template.
var ErrTemplate = errors.New("invalid template")

var (
	paragraphRe = regexp.MustCompile(`(?s)<w:p(?:\s(?:[^>]*[^/>])?)?>.*?</w:p>`)
	sectPrRe    = regexp.MustCompile(`<w:sectPr[\s/>]`)
	textRe      = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?/>|<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
)

// DocxSink writes one .docx per respondent, starting each from a template.
type DocxSink struct {
	dirSink
	template    []byte
	placeholder string
}

// NewDocxSink creates a sink writing into dir. An empty templatePath uses
// the built-in template.
func NewDocxSink(dir, templatePath, placeholder string) (*DocxSink, error) {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	var tmpl []byte
	if templatePath == "" {
		tmpl = DefaultTemplate(placeholder)
	} else {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
		}
		tmpl = data
	}
	if err := checkTemplate(tmpl); err != nil {
		return nil, err
	}

	return &DocxSink{
		dirSink:     newDirSink(dir, FormatDocx),
		template:    tmpl,
		placeholder: placeholder,
	}, nil
}

func checkTemplate(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	for _, f := range zr.File {
		if f.Name == document.MainPart {
			return nil
		}
	}
	return fmt.Errorf("%w: missing %s", ErrTemplate, document.MainPart)
}

// Write renders and stores r.
func (s *DocxSink) Write(ctx context.Context, r pipeline.Report) (string, error) {
	data, err := s.Render(r)
	if err != nil {
		return "", err
	}
	return s.write(ctx, r.Respondent, data)
}

// Render builds the .docx bytes for r. Every template part except the main
// document is copied through untouched.
func (s *DocxSink) Render(r pipeline.Report) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(s.template), int64(len(s.template)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range zr.File {
		if f.Name != document.MainPart {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
		}

		out, err := renderDocument(string(body), s.placeholder, r)
		if err != nil {
			return nil, err
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, out); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderDocument(doc, placeholder string, r pipeline.Report) (string, error) {
	doc = replacePlaceholder(doc, placeholder, r.Respondent)

	var b strings.Builder
	for _, e := range r.Entries {
		b.WriteString(styledParagraph(StyleQuestion, fmt.Sprintf("(%s): %s", e.Label, e.Question)))
		b.WriteString(styledParagraph(StyleAnswer, e.Answer))
		b.WriteString(styledParagraph(StyleSpace, ""))
	}

	at, err := insertionPoint(doc)
	if err != nil {
		return "", err
	}
	return doc[:at] + b.String() + doc[at:], nil
}

// insertionPoint is just before the body's final section properties, or the
// end of the body when there are none.
func insertionPoint(doc string) (int, error) {
	end := strings.LastIndex(doc, "</w:body>")
	if end < 0 {
		return 0, fmt.Errorf("%w: document has no w:body", ErrTemplate)
	}
	locs := sectPrRe.FindAllStringIndex(doc[:end], -1)
	for i := len(locs) - 1; i >= 0; i-- {
		sect := locs[i][0]
		// The previous section properties of a tracked change are not the body's.
		if inRevision(doc[:sect]) {
			continue
		}
		// A sectPr followed by more content belongs to a paragraph, not the body.
		tail := doc[sect:end]
		if strings.Contains(tail, "</w:p>") || strings.Contains(tail, "</w:tbl>") {
			return end, nil
		}
		return sect, nil
	}
	return end, nil
}

func inRevision(prefix string) bool {
	open := strings.LastIndex(prefix, "<w:sectPrChange")
	return open >= 0 && !strings.Contains(prefix[open:], "</w:sectPrChange>")
}

// replacePlaceholder rewrites the first paragraph whose text contains
// placeholder. Word often splits text across runs, so the paragraph text is
// joined, replaced, and put back into its first w:t.
func replacePlaceholder(doc, placeholder, name string) string {
	if placeholder == "" {
		return doc
	}

	loc := firstParagraphWith(doc, placeholder)
	if loc == nil {
		return doc
	}

	para := doc[loc[0]:loc[1]]
	text := strings.ReplaceAll(paragraphText(para), placeholder, name)

	first := true
	para = textRe.ReplaceAllStringFunc(para, func(string) string {
		if first {
			first = false
			return `<w:t xml:space="preserve">` + escape(text) + `</w:t>`
		}
		return "<w:t></w:t>"
	})

	return doc[:loc[0]] + para + doc[loc[1]:]
}

func firstParagraphWith(doc, placeholder string) []int {
	for _, loc := range paragraphRe.FindAllStringIndex(doc, -1) {
		if strings.Contains(paragraphText(doc[loc[0]:loc[1]]), placeholder) {
			return loc
		}
	}
	return nil
}

func paragraphText(para string) string {
	var b strings.Builder
	for _, m := range textRe.FindAllStringSubmatch(para, -1) {
		b.WriteString(html.UnescapeString(m[1]))
	}
	return b.String()
}

func styledParagraph(style, text string) string {
	var b strings.Builder
	b.WriteString(`<w:p><w:pPr><w:pStyle w:val="` + escape(style) + `"/></w:pPr>`)
	if text != "" {
		b.WriteString("<w:r>")
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				b.WriteString("<w:br/>")
			}
			for j, chunk := range strings.Split(line, "\t") {
				if j > 0 {
					b.WriteString("<w:tab/>")
				}
				if chunk != "" {
					b.WriteString(`<w:t xml:space="preserve">` + escape(chunk) + `</w:t>`)
				}
			}
		}
		b.WriteString("</w:r>")
	}
	b.WriteString("</w:p>")
	return b.String()
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
