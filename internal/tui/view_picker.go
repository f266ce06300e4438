package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderPicker() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Choose a folder")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	current := styleSubtitle.Render(truncateLeft(a.state.picker.CurrentDirectory, 66))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, current))
	b.WriteString("\n\n")

	pickerBox := styleBox.Copy().
		Width(min(70, a.width-4)).
		BorderForeground(colorSecondary).
		Render(a.state.picker.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, pickerBox))
	b.WriteString("\n\n")

	status := styleStatusBar.Render("[Enter] Select folder  [c] Use current folder  [h/l] Up/Into  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
