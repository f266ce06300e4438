package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderResult() string {
	res := a.state.result
	if res == nil {
		return a.renderWelcome()
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorSuccess).
		Bold(true).
		Render(fmt.Sprintf("%d packets from %d documents", len(res.Reports), len(res.Labels)))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Respondents, in first-appearance order
	maxLines := max(5, a.height-16)
	var lines []string
	for i, r := range res.Reports {
		if i == maxLines-1 && len(res.Reports) > maxLines {
			lines = append(lines, styleSubtitle.Render(fmt.Sprintf("... and %d more", len(res.Reports)-i)))
			break
		}
		lines = append(lines, fmt.Sprintf("%-30s %3d answers", truncate(r.Respondent, 30), len(r.Entries)))
	}
	if len(lines) == 0 {
		lines = append(lines, styleSubtitle.Render("No answers were kept"))
	}

	resultBox := styleBox.Copy().
		Width(min(70, a.width-4)).
		BorderForeground(colorPrimary).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, resultBox))
	b.WriteString("\n\n")

	stats := styleSubtitle.Render(fmt.Sprintf("%d kept  |  %d ignored respondents  |  %d skipped answers",
		res.Stats.Kept, res.Stats.ExcludedRespondent, res.Stats.ExcludedAnswer))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, stats))
	b.WriteString("\n")

	if a.state.run != nil {
		out := styleSubtitle.Render("Written to " + truncateLeft(a.state.run.OutputDir, 55))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, out))
		b.WriteString("\n")
	}
	if a.state.openStatus != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(a.state.openStatus)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	status := styleStatusBar.Render("[o] Open folder  [n] New folder  [Esc] Quit")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
