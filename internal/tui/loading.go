package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerFrame picks a frame from the current time so the spinner animates
// on every re-render.
func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))]
}

// renderLoadingPlaceholder renders an animated loading indicator.
func renderLoadingPlaceholder(width, height int) string {
	frame := spinnerFrame()

	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	text := loadingStyle.Render(frame + " Loading...")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// SpinnerTickMsg triggers a re-render while a fetch is in flight.
type SpinnerTickMsg struct{}

// spinnerTick schedules the next spinner re-render.
func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}
