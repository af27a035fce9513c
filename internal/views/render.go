package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	DefaultPaneWidth = 58
	minPaneWidth     = 24
)

type AppData struct {
	Header       string
	Tabs         string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
	// Width is the terminal width; zero uses the default pane widths.
	Width int
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("14"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PaneWidth splits the terminal width between the two panes.
func PaneWidth(termWidth int) int {
	if termWidth <= 0 {
		return DefaultPaneWidth
	}
	// Two borders and two paddings per pane.
	w := termWidth/2 - 4
	if w < minPaneWidth {
		return minPaneWidth
	}
	return w
}

func RenderApp(data AppData) string {
	width := PaneWidth(data.Width)
	left := panelStyle.Width(width).Render(data.LeftPane)
	right := panelStyle.Width(width).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{headerStyle.Render(data.Header)}
	if data.Tabs != "" {
		lines = append(lines, data.Tabs)
	}
	lines = append(lines, row, status)
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(wordwrap.String(data.Footer, 2*width+8)))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md for a pane of the given width. Rendering failures
// fall back to the wrapped source text.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultPaneWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return wordwrap.String(md, width)
	}
	out, err := r.Render(md)
	if err != nil {
		return wordwrap.String(md, width)
	}
	return strings.TrimSpace(out)
}
