package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/packet/internal/config"
	"github.com/sant0-9/packet/internal/writer"
)

// setting is one row of the settings screen. Enter advances it to its next
// value; keep copies that value from the running config to the saved one.
type setting struct {
	label string
	value func(a *App) string
	next  func(a *App) tea.Cmd
	keep  func(dst, src *config.Config)
}

var (
	formatChoices  = []string{string(writer.FormatDocx), string(writer.FormatMarkdown)}
	workerChoices  = []int{0, 1, 2, 4, 8}
	levelChoices   = []string{"debug", "info", "warn", "error"}
	includeChoices = [][]string{
		{"*.docx"},
		{"**/*.docx"},
		{"*.docx", "*.txt", "*.md"},
	}
)

func cycle[T comparable](choices []T, current T) T {
	i := slices.Index(choices, current)
	return choices[(i+1)%len(choices)]
}

var settings = []setting{
	{
		label: "Output format",
		value: func(a *App) string { return a.state.config.Format },
		next: func(a *App) tea.Cmd {
			a.state.config.Format = cycle(formatChoices, a.state.config.Format)
			return nil
		},
		keep: func(dst, src *config.Config) { dst.Format = src.Format },
	},
	{
		label: "Documents",
		value: func(a *App) string { return strings.Join(a.state.config.Include, ", ") },
		next: func(a *App) tea.Cmd {
			i := slices.IndexFunc(includeChoices, func(c []string) bool {
				return slices.Equal(c, a.state.config.Include)
			})
			a.state.config.Include = slices.Clone(includeChoices[(i+1)%len(includeChoices)])
			return nil
		},
		keep: func(dst, src *config.Config) { dst.Include = slices.Clone(src.Include) },
	},
	{
		label: "Name placeholder",
		value: func(a *App) string { return a.state.config.Placeholder },
		next: func(a *App) tea.Cmd {
			a.state.settingsMode = "placeholder"
			a.state.placeholderInput.SetValue(a.state.config.Placeholder)
			a.state.placeholderInput.Focus()
			return textinput.Blink
		},
		keep: func(dst, src *config.Config) { dst.Placeholder = src.Placeholder },
	},
	{
		label: "Workers",
		value: func(a *App) string {
			if a.state.config.Workers == 0 {
				return "auto"
			}
			return fmt.Sprint(a.state.config.Workers)
		},
		next: func(a *App) tea.Cmd {
			a.state.config.Workers = cycle(workerChoices, a.state.config.Workers)
			return nil
		},
		keep: func(dst, src *config.Config) { dst.Workers = src.Workers },
	},
	{
		label: "Log level",
		value: func(a *App) string { return a.state.config.LogLevel },
		next: func(a *App) tea.Cmd {
			a.state.config.LogLevel = cycle(levelChoices, strings.ToLower(a.state.config.LogLevel))
			return nil
		},
		keep: func(dst, src *config.Config) { dst.LogLevel = src.LogLevel },
	},
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		if a.state.settingsSelected > 0 {
			a.state.settingsSelected--
		}
	case key.Matches(msg, keys.Down):
		if a.state.settingsSelected < len(settings)-1 {
			a.state.settingsSelected++
		}
	case key.Matches(msg, keys.Enter):
		a.state.settingsStatus = ""
		a.state.settingsEdited[a.state.settingsSelected] = true
		return settings[a.state.settingsSelected].next(a)
	case key.Matches(msg, keys.Save):
		return a.saveSettings()
	}
	return nil
}

func (a *App) saveSettings() tea.Cmd {
	// Only rows changed here move onto the user config.
	for i, s := range settings {
		if a.state.settingsEdited[i] {
			s.keep(a.state.user, a.state.config)
		}
	}

	cfg := *a.state.user
	path := a.state.configPath
	return func() tea.Msg {
		if path == "" {
			return settingsSavedMsg{err: fmt.Errorf("no config path")}
		}
		return settingsSavedMsg{err: cfg.SaveTo(path)}
	}
}

func (a *App) renderSettings() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var lines []string
	for i, s := range settings {
		cursor := "  "
		if i == a.state.settingsSelected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-18s %s", cursor, s.label, s.value(a))
		if i == a.state.settingsSelected {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}

	listBox := styleBox.Copy().
		Width(56).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	if a.state.settingsMode == "placeholder" {
		inputBox := styleBox.Copy().
			Width(56).
			BorderForeground(colorPrimary).
			Render(a.state.placeholderInput.View())
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
		b.WriteString("\n\n")
	}

	if a.state.settingsStatus != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(a.state.settingsStatus)))
		b.WriteString("\n\n")
	}

	// Instructions
	var instructions string
	if a.state.settingsMode == "placeholder" {
		instructions = styleStatusBar.Render("[Enter] Done  [Esc] Cancel")
	} else {
		instructions = styleStatusBar.Render("[Up/Down] Navigate  [Enter] Change  [Ctrl+S] Save  [Esc] Back")
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
