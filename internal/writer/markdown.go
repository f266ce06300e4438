package writer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sant0-9/packet/internal/pipeline"
)

// MarkdownSink writes one Markdown file per respondent.
type MarkdownSink struct {
	dirSink
}

// NewMarkdownSink creates a sink writing into dir.
func NewMarkdownSink(dir string) *MarkdownSink {
	return &MarkdownSink{dirSink: newDirSink(dir, FormatMarkdown)}
}

// Write renders and stores r.
func (s *MarkdownSink) Write(ctx context.Context, r pipeline.Report) (string, error) {
	return s.write(ctx, r.Respondent, []byte(RenderMarkdown(r)))
}

// RenderMarkdown formats a report as Markdown.
func RenderMarkdown(r pipeline.Report) string {
	var b strings.Builder

	b.WriteString("# " + r.Respondent + "\n\n")

	for _, e := range r.Entries {
		first, rest, _ := strings.Cut(e.Question, "\n")
		b.WriteString(fmt.Sprintf("## (%s): %s\n\n", e.Label, first))
		if rest != "" {
			b.WriteString(strings.ReplaceAll(rest, "\n", "  \n") + "\n\n")
		}
		b.WriteString(e.Answer + "\n\n")
	}

	return b.String()
}
