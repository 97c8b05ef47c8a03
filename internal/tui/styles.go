package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by all pages.
var (
	ColorWhite  = lipgloss.Color("15")
	ColorGray   = lipgloss.Color("245")
	ColorBlue   = lipgloss.Color("39")
	ColorNavy   = lipgloss.Color("17")
	ColorGreen  = lipgloss.Color("41")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	activeSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBlue).
				Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	selectedRowStyle = lipgloss.NewStyle().
				Background(ColorBlue).
				Foreground(ColorWhite)

	badgeStyle = lipgloss.NewStyle().
			Foreground(ColorNavy).
			Background(ColorGray).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	statusBarStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)
)

// renderPasteorBranding renders "Pasteor" with a blue-to-green gradient.
func renderPasteorBranding() string {
	colors := []string{
		"#00CAC7",
		"#0DC4A1",
		"#21BE7B",
		"#35B855",
		"#49B22F",
		"#5DAC09",
		"#71A600",
	}
	chars := []string{"P", "a", "s", "t", "e", "o", "r"}

	var result string
	for i, char := range chars {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Bold(true)
		result += style.Render(char)
	}
	return result
}
