package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmState is a yes/no prompt overlaying a page. The zero value is
// inactive.
type confirmState struct {
	id     string
	prompt string
}

func (c *confirmState) active() bool { return c.id != "" }

// handleKey returns (confirmed, done). done without confirmed means the
// prompt was dismissed.
func (c *confirmState) handleKey(msg tea.KeyMsg) (bool, bool) {
	switch msg.String() {
	case "y", "Y", "enter":
		return true, true
	case "n", "N", "esc", "q":
		return false, true
	}
	return false, false
}

func (c *confirmState) render(width, height int) string {
	box := activeSectionStyle.
		Padding(1, 2).
		Render(warnStyle.Render(c.prompt) + "\n\n" + helpStyle.Render("y: confirm  •  n: cancel"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
