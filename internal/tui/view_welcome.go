package tui

import "github.com/charmbracelet/lipgloss"

const logo = `
 ██████╗  █████╗  ██████╗██╗  ██╗███████╗████████╗
 ██╔══██╗██╔══██╗██╔════╝██║ ██╔╝██╔════╝╚══██╔══╝
 ██████╔╝███████║██║     █████╔╝ █████╗     ██║
 ██╔═══╝ ██╔══██║██║     ██╔═██╗ ██╔══╝     ██║
 ██║     ██║  ██║╚██████╗██║  ██╗███████╗   ██║
 ╚═╝     ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚══════╝   ╚═╝
`

func (a *App) renderWelcome() string {
	// Logo
	logoRendered := styleLogo.Render(logo)

	// Subtitle
	subtitle := styleSubtitle.Render("Answers collated, one packet per person")

	// Instructions
	instructions := styleSubtitle.Render("\nPress Enter to choose a folder of session documents")

	parts := []string{logoRendered, subtitle, instructions}
	if last := a.state.config.LastInputDir; last != "" {
		parts = append(parts, styleSubtitle.Render("Last folder: "+truncateLeft(last, 50)))
	}

	// Status bar
	statusBar := styleStatusBar.Render("[Enter] Choose folder  [s] Settings  [?] Help  [Esc] Quit")

	// Combine main content
	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	// Center content on screen (leave room for status bar)
	mainArea := lipgloss.Place(
		a.width,
		a.height-2,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	// Status bar centered at bottom
	statusLine := lipgloss.PlaceHorizontal(a.width, lipgloss.Center, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, mainArea, statusLine)
}
