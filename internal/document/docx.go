package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// WordNamespace is the transitional WordprocessingML namespace.
	WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	// StrictWordNamespace is used by documents saved as ISO strict.
	StrictWordNamespace = "http://purl.oclc.org/ooxml/wordprocessingml/main"

	// MainPart is the package part holding the document body.
	MainPart = "word/document.xml"
)

// DocxReader reads the body paragraphs of a .docx package. Paragraphs inside
// tables, headers and footers are not part of the body and are skipped.
type DocxReader struct{}

// NewDocxReader creates a .docx reader.
func NewDocxReader() *DocxReader {
	return &DocxReader{}
}

func (r *DocxReader) Format() string { return "docx" }

func (r *DocxReader) Extensions() []string { return []string{".docx"} }

// Paragraphs returns the text of every body-level w:p element.
func (r *DocxReader) Paragraphs(content []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open docx package: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == MainPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, errors.New("docx package has no " + MainPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", MainPart, err)
	}
	defer rc.Close()

	return bodyParagraphs(rc)
}

func isWord(name xml.Name, local string) bool {
	return name.Local == local && (name.Space == WordNamespace || name.Space == StrictWordNamespace)
}

func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		stack      []xml.Name
		text       strings.Builder
		inPara     bool
		paraDepth  int
		inText     bool
	)

	parentIs := func(local string) bool {
		return len(stack) > 0 && isWord(stack[len(stack)-1], local)
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", MainPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case isWord(el.Name, "p") && !inPara && parentIs("body"):
				inPara = true
				paraDepth = len(stack)
				text.Reset()
			case inPara && isWord(el.Name, "t"):
				inText = true
			case inPara && isWord(el.Name, "tab") && parentIs("r"):
				text.WriteByte('\t')
			case inPara && (isWord(el.Name, "br") || isWord(el.Name, "cr")) && parentIs("r"):
				text.WriteByte('\n')
			}
			stack = append(stack, el.Name)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			switch {
			case isWord(el.Name, "t"):
				inText = false
			case isWord(el.Name, "p") && inPara && len(stack) == paraDepth:
				paragraphs = append(paragraphs, text.String())
				inPara = false
			}

		case xml.CharData:
			if inText {
				text.Write(el)
			}
		}
	}

	return paragraphs, nil
}
