package writer

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/packet/internal/document"
	"github.com/sant0-9/packet/internal/pipeline"
)

var samReport = pipeline.Report{
	Respondent: "Sam",
	Entries: []pipeline.Entry{
		{Label: "2024-01-08", Question: "How are you?", Answer: "Fine:thanks"},
		{Label: "2024-01-15", Question: "Favourite colour?\nWhy?", Answer: "Blue <3 & green\tmostly"},
	},
}

// buildTemplate packages the given parts into a .docx.
func buildTemplate(t *testing.T, parts map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func wordDocument(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + document.WordNamespace + `"><w:body>` + body + `</w:body></w:document>`
}

func readParagraphs(t *testing.T, data []byte) []string {
	t.Helper()
	paras, err := document.NewDocxReader().Paragraphs(data)
	require.NoError(t, err)
	return paras
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestDocxSinkDefaultTemplate(t *testing.T) {
	s, err := NewDocxSink(t.TempDir(), "", "")
	require.NoError(t, err)

	data, err := s.Render(samReport)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Sam",
		"(2024-01-08): How are you?",
		"Fine:thanks",
		"",
		"(2024-01-15): Favourite colour?\nWhy?",
		"Blue <3 & green\tmostly",
		"",
	}, readParagraphs(t, data))

	main := readPart(t, data, document.MainPart)
	assert.Contains(t, main, `<w:pStyle w:val="Question"/>`)
	assert.Contains(t, main, `<w:pStyle w:val="Answer"/>`)
	assert.Contains(t, main, `<w:pStyle w:val="Space"/>`)
	assert.Contains(t, main, "Blue &lt;3 &amp; green")
	assert.Less(t, bytes.LastIndex([]byte(main), []byte(`w:val="Space"`)),
		bytes.LastIndex([]byte(main), []byte("<w:sectPr")),
		"entries go before the final section properties")

	assert.Contains(t, readPart(t, data, "word/styles.xml"), `w:styleId="Question"`)
}

func TestDocxSinkCustomPlaceholder(t *testing.T) {
	s, err := NewDocxSink(t.TempDir(), "", "{{name}}")
	require.NoError(t, err)

	data, err := s.Render(pipeline.Report{Respondent: "Alex & Co"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex & Co"}, readParagraphs(t, data))
}

func TestDocxSinkCustomTemplate(t *testing.T) {
	styles := `<w:styles xmlns:w="` + document.WordNamespace + `"><!-- custom --></w:styles>`
	path := buildTemplate(t, map[string]string{
		document.MainPart: wordDocument(
			`<w:p><w:r><w:t>Course notes</w:t></w:r></w:p>` +
				`<w:p><w:r><w:t xml:space="preserve">Name: __stu</w:t></w:r><w:r><w:t>dent__</w:t></w:r></w:p>` +
				`<w:p><w:r><w:t>__student__ again</w:t></w:r></w:p>`),
		"word/styles.xml": styles,
	})

	s, err := NewDocxSink(t.TempDir(), path, DefaultPlaceholder)
	require.NoError(t, err)

	data, err := s.Render(pipeline.Report{
		Respondent: "Sam",
		Entries:    []pipeline.Entry{{Label: "w1", Question: "Q", Answer: "A"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Course notes",
		"Name: Sam",
		"__student__ again",
		"(w1): Q",
		"A",
		"",
	}, readParagraphs(t, data))
	assert.Equal(t, styles, readPart(t, data, "word/styles.xml"), "other parts are copied untouched")
}

func TestDocxSinkTemplateWithoutPlaceholder(t *testing.T) {
	path := buildTemplate(t, map[string]string{
		document.MainPart: wordDocument(`<w:p><w:r><w:t>Header</w:t></w:r></w:p>`),
	})

	s, err := NewDocxSink(t.TempDir(), path, "")
	require.NoError(t, err)

	data, err := s.Render(pipeline.Report{Respondent: "Sam"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Header"}, readParagraphs(t, data))
}

func TestNewDocxSinkBadTemplate(t *testing.T) {
	notZip := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.docx")},
		{name: "not a zip", path: notZip},
		{name: "no main part", path: buildTemplate(t, map[string]string{"word/styles.xml": "<w:styles/>"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocxSink(t.TempDir(), tt.path, "")
			assert.ErrorIs(t, err, ErrTemplate)
		})
	}
}

func TestInsertionPoint(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "before body sectPr",
			doc:  `<w:body><w:p></w:p><w:sectPr/></w:body>`,
			want: `<w:sectPr/></w:body>`,
		},
		{
			name: "no sectPr",
			doc:  `<w:body><w:p></w:p></w:body>`,
			want: `</w:body>`,
		},
		{
			name: "paragraph-level sectPr only",
			doc:  `<w:body><w:p><w:pPr><w:sectPr/></w:pPr></w:p><w:p></w:p></w:body>`,
			want: `</w:body>`,
		},
		{
			name: "tracked sectPr change",
			doc: `<w:body><w:p></w:p><w:sectPr><w:pgSz/>` +
				`<w:sectPrChange w:id="1"><w:sectPr><w:pgSz/></w:sectPr></w:sectPrChange>` +
				`</w:sectPr></w:body>`,
			want: `<w:sectPr><w:pgSz/>` +
				`<w:sectPrChange w:id="1"><w:sectPr><w:pgSz/></w:sectPr></w:sectPrChange>` +
				`</w:sectPr></w:body>`,
		},
		{
			name: "sectPr with attributes",
			doc:  `<w:body><w:p></w:p><w:sectPr w:rsidR="00A1"><w:pgSz/></w:sectPr></w:body>`,
			want: `<w:sectPr w:rsidR="00A1"><w:pgSz/></w:sectPr></w:body>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, err := insertionPoint(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.doc[at:])
		})
	}

	_, err := insertionPoint(`<w:document/>`)
	assert.ErrorIs(t, err, ErrTemplate)
}

func TestSelfClosingParagraph(t *testing.T) {
	empty := `<w:p w:rsidR="00A1"/>`
	named := `<w:p><w:r><w:t>__student__</w:t></w:r></w:p>`

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "self-closing before placeholder",
			doc:  empty + named,
			want: empty + `<w:p><w:r><w:t xml:space="preserve">Sam</w:t></w:r></w:p>`,
		},
		{
			name: "self-closing without attributes",
			doc:  `<w:p/>` + named,
			want: `<w:p/><w:p><w:r><w:t xml:space="preserve">Sam</w:t></w:r></w:p>`,
		},
		{
			name: "only self-closing",
			doc:  empty + `<w:p/>`,
			want: empty + `<w:p/>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replacePlaceholder(tt.doc, "__student__", "Sam"))
		})
	}

	loc := firstParagraphWith(empty+named, "__student__")
	require.NotNil(t, loc)
	assert.Equal(t, named, (empty + named)[loc[0]:loc[1]])
}

func TestStyledParagraph(t *testing.T) {
	assert.Equal(t, `<w:p><w:pPr><w:pStyle w:val="Space"/></w:pPr></w:p>`, styledParagraph(StyleSpace, ""))
	assert.Equal(t,
		`<w:p><w:pPr><w:pStyle w:val="Answer"/></w:pPr><w:r>`+
			`<w:t xml:space="preserve">a</w:t><w:br/><w:t xml:space="preserve">b</w:t><w:tab/><w:t xml:space="preserve">c</w:t>`+
			`</w:r></w:p>`,
		styledParagraph(StyleAnswer, "a\nb\tc"))
}

func TestDocxSinkWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "collated")
	s, err := NewDocxSink(dir, "", "")
	require.NoError(t, err)

	path, err := s.Write(context.Background(), samReport)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Sam.docx"), path)

	doc, err := document.NewRegistry().Open(path)
	require.NoError(t, err)
	assert.Equal(t, "Sam", doc.Paragraphs[0])
	assert.Len(t, doc.Paragraphs, 1+3*len(samReport.Entries))
}
