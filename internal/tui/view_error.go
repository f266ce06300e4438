package tui

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/packet/internal/alias"
	"github.com/sant0-9/packet/internal/config"
	"github.com/sant0-9/packet/internal/document"
	"github.com/sant0-9/packet/internal/pipeline"
	"github.com/sant0-9/packet/internal/writer"
)

func (a *App) renderError() string {
	var b strings.Builder

	// Error icon and title
	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Error message
	err := a.state.processingError
	if err == nil {
		err = a.state.scanError
	}
	errMsg := "Unknown error"
	if err != nil {
		errMsg = err.Error()
	}

	errBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		BorderForeground(colorError).
		Render(errMsg)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	if suggestions := suggest(err); len(suggestions) > 0 {
		suggBox := styleBox.Copy().
			Width(min(60, a.width-4)).
			BorderForeground(colorMuted).
			Render("Suggestions:\n" + strings.Join(suggestions, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, suggBox))
		b.WriteString("\n\n")
	}

	// Actions
	status := styleStatusBar.Render("[r] Retry  [s] Settings  [n] New  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

// suggest offers next steps based on the kind of failure.
func suggest(err error) []string {
	var (
		aliasErr *alias.ParseError
		readErr  *document.ReadError
	)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return []string{"The run was cancelled before any report was written", "Press [r] to start again"}
	case errors.As(err, &aliasErr):
		return []string{"Each alias line needs the form  alias::Canonical Name", "Lines starting with ; are comments"}
	case errors.Is(err, pipeline.ErrDuplicateLabel):
		return []string{"Two files share a name once the extension is removed", "Rename one, or narrow the include patterns in settings"}
	case errors.Is(err, document.ErrUnsupported):
		return []string{"Only .docx, .txt and .md files can be read", "Narrow the include patterns in settings"}
	case errors.As(err, &readErr):
		return []string{"Close the document if it is open in a word processor", "Check the file is a valid .docx"}
	case errors.Is(err, writer.ErrTemplate):
		return []string{"Check the template path in settings", "The template must be a .docx file"}
	case errors.Is(err, config.ErrInvalid):
		return []string{"Check ~/.config/packet/config.yaml", "Or press [s] to open settings"}
	case errors.Is(err, os.ErrPermission):
		return []string{"Check you can write to the output folder"}
	case errors.Is(err, os.ErrNotExist):
		return []string{"Check the folder path is correct", "Make sure the folder exists and is readable"}
	}
	return nil
}
