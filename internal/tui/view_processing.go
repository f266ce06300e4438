package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/packet/internal/pipeline"
)

func (a *App) renderProcessing() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(a.state.spinner.View() + " Collating")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Folder info
	if a.state.run != nil {
		dirInfo := styleSubtitle.Render(truncateLeft(a.state.run.InputDir, 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, dirInfo))
		b.WriteString("\n\n")
	}

	// Progress stages
	currentStage := 0
	if a.state.pipelineProgress != nil {
		currentStage = a.state.pipelineProgress.StageIndex
	}

	var stageLines []string
	for i, stage := range pipeline.Stages {
		var icon string
		var style lipgloss.Style

		if i < currentStage {
			// Completed
			icon = "[x]"
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		} else if i == currentStage {
			// Current
			icon = "[>]"
			style = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
		} else {
			// Pending
			icon = "[ ]"
			style = lipgloss.NewStyle().Foreground(colorMuted)
		}

		// Progress bar for parsing and writing
		var progressBar string
		if i == currentStage && a.state.pipelineProgress != nil {
			p := a.state.pipelineProgress
			if p.TotalItems > 0 {
				progressBar = "  " + renderBar(p.ItemIndex, p.TotalItems, 24)
			}
		}

		line := style.Render(fmt.Sprintf("  %s  %-12s", icon, stage)) + progressBar
		stageLines = append(stageLines, line)
	}

	stagesBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		Render(strings.Join(stageLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, stagesBox))
	b.WriteString("\n\n")

	// Message
	if a.state.pipelineProgress != nil && a.state.pipelineProgress.Message != "" {
		msg := styleSubtitle.Render(truncate(a.state.pipelineProgress.Message, 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, msg))
		b.WriteString("\n\n")
	}

	status := styleStatusBar.Render("[Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

func renderBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := min(width, done*width/total)
	empty := width - filled
	return lipgloss.NewStyle().Foreground(colorSecondary).Render(strings.Repeat("=", filled)) +
		lipgloss.NewStyle().Foreground(colorMuted).Render(strings.Repeat("-", empty)) +
		fmt.Sprintf("  %d/%d", done, total)
}
