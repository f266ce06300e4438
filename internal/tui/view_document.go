package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/packet/internal/document"
)

// maxListed caps how many document labels the summary shows.
const maxListed = 8

func (a *App) renderDocument() string {
	sum := a.state.summary
	run := a.state.run
	if sum == nil || run == nil {
		return a.renderWelcome()
	}

	var b strings.Builder

	// Folder header
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(truncateLeft(run.InputDir, 66))

	// Metadata line
	metaParts := []string{
		fmt.Sprintf("%d documents", len(sum.Documents)),
		document.Metadata{FileSizeBytes: sum.Bytes}.FileSizeHuman(),
		fmt.Sprintf("~%d words", sum.Words),
		fmt.Sprintf("%d aliases", sum.Aliases),
		strings.ToUpper(string(run.Format)),
	}
	metaLine := styleSubtitle.Render(strings.Join(metaParts, "  |  "))

	infoContent := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		metaLine,
	)
	border := colorSuccess
	if len(sum.Documents) == 0 || !sum.ready() {
		border = colorError
	}
	infoBox := styleBox.Copy().
		Width(min(70, a.width-4)).
		BorderForeground(border).
		Render(infoContent)

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, infoBox))
	b.WriteString("\n\n")

	// Preview of labels, in collation order
	var preview string
	switch {
	case len(sum.Documents) == 0:
		preview = fmt.Sprintf("No files match %s\nReadable formats: %s",
			strings.Join(run.Include, ", "),
			strings.Join(run.Source().Registry.Extensions(), " "))
	default:
		shown := sum.Documents
		if len(shown) > maxListed {
			shown = shown[:maxListed]
		}
		preview = strings.Join(shown, "\n")
		if more := len(sum.Documents) - len(shown); more > 0 {
			preview += fmt.Sprintf("\n... and %d more", more)
		}
	}

	previewLabel := styleSubtitle.Render("Documents:")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, previewLabel))
	b.WriteString("\n")

	previewBox := styleBox.Copy().
		Width(min(70, a.width-4)).
		Foreground(colorMuted).
		Render(preview)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, previewBox))
	b.WriteString("\n\n")

	if sum.ReadErr != nil {
		readBox := styleBox.Copy().
			Width(min(70, a.width-4)).
			BorderForeground(colorError).
			Render("Document problem:\n" + sum.ReadErr.Error())
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, readBox))
		b.WriteString("\n\n")
	}

	if sum.AliasErr != nil {
		aliasBox := styleBox.Copy().
			Width(min(70, a.width-4)).
			BorderForeground(colorError).
			Render("Alias file problem:\n" + sum.AliasErr.Error())
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, aliasBox))
		b.WriteString("\n\n")
	}

	output := lipgloss.NewStyle().
		Foreground(colorWhite).
		Render("Reports go to " + truncateLeft(run.OutputDir, 55))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, output))
	b.WriteString("\n\n")

	// Status bar
	statusBar := "[Enter] Collate  [n] Other folder  [s] Settings  [Esc] Back"
	switch {
	case sum.ReadErr != nil:
		statusBar = "Fix the unreadable document first  [n] Other folder  [Esc] Back"
	case sum.AliasErr != nil:
		statusBar = "Fix the alias file first  [n] Other folder  [Esc] Back"
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleStatusBar.Render(statusBar)))

	return a.centerVertically(b.String())
}
