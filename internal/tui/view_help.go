package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// How it works
	usage := []string{
		"  Each session document starts with a question,",
		"  then a blank line, then one answer per line:",
		"",
		"    What did you learn today?",
		"",
		"    Sam: Loops",
		"    Alex: Recursion",
		"",
		"  Packet writes one file per person with all of",
		"  their answers, oldest document first.",
		"",
		"  _names.txt maps nicknames:  sammy::Sam",
		"  Map a name to - to leave that person out.",
		"  An answer of - is skipped.",
	}

	usageBox := styleBox.Copy().
		Width(56).
		Render(strings.Join(usage, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, usageBox))
	b.WriteString("\n\n")

	// Keyboard shortcuts
	shortcuts := []string{
		"  Enter          Choose / confirm",
		"  c              Use the folder being browsed",
		"  s              Settings",
		"  o              Open the output folder",
		"  n              Start over with another folder",
		"  Esc            Go back / Quit",
	}

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	shortcutsBox := styleBox.Copy().
		Width(56).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	// Instructions
	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
