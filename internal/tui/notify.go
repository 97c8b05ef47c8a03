package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pasteor/pasteor-cli/internal/model"
)

// noticeTTL is how long a notification stays on the status line.
const noticeTTL = 6 * time.Second

// notice is a transient status-line notification. It replaces the previous
// one and auto-clears after noticeTTL.
type notice struct {
	text  string
	isErr bool
	at    time.Time
}

func (n *notice) set(text string) {
	n.text = text
	n.isErr = false
	n.at = time.Now()
}

func (n *notice) setError(text string) {
	n.text = text
	n.isErr = true
	n.at = time.Now()
}

func (n *notice) clear() {
	n.text = ""
}

// render returns the styled notification, or "" when expired or empty.
func (n *notice) render() string {
	if n.text == "" || time.Since(n.at) > noticeTTL {
		return ""
	}
	if n.isErr {
		return errorStyle.Render(n.text)
	}
	return noticeStyle.Render(n.text)
}

// renderStatusLine renders the bottom bar: page name on the left, key help
// or an active notification in the middle.
func renderStatusLine(width int, pageName, help string, n *notice) string {
	left := fmt.Sprintf("[%s]", pageName)
	center := help
	if msg := n.render(); msg != "" {
		center = msg
	}

	line := " " + left + "  " + center
	if w := lipgloss.Width(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return statusBarStyle.Render(line)
}

// formatDate renders a timestamp the way the web UI does (short month).
func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04")
}

// renderPasteRow renders one listing row: title, language badge, views,
// dates, and a preview snippet on the second line.
func renderPasteRow(p model.PasteSummary, width int, selected bool) string {
	title := p.DisplayTitle()
	meta := fmt.Sprintf("  %s  %d views  %s", p.Language, p.Views, formatDate(p.CreatedAt))
	if p.ExpiresAt != nil {
		meta += warnStyle.Render(fmt.Sprintf("  expires %s", formatDate(*p.ExpiresAt)))
	}
	if p.Author != nil {
		meta += subtitleStyle.Render("  by " + p.Author.Name)
	}

	title = truncate(title, max(10, width-lipgloss.Width(meta)-2))

	var head string
	if selected {
		head = selectedRowStyle.Render(truncate(title+meta, width))
	} else {
		head = titleStyle.Render(title) + meta
	}

	previewText := strings.ReplaceAll(p.Preview, "\n", " ")
	preview := subtitleStyle.Render("  " + truncate(previewText, width-4))

	return head + "\n" + preview
}

// truncate cuts s to at most width visible cells.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
