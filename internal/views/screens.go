package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

type CategoryTabData struct {
	ID     string
	Name   string
	Count  int
	Active bool
}

type TodoRowData struct {
	ID        string
	Title     string
	Due       string
	Priority  string
	Category  string
	Completed bool
	Overdue   bool
	Selected  bool
}

type TodoListData struct {
	Category string
	Sort     string
	Filter   string
	Rows     []TodoRowData
	// Hidden counts members removed from view by the filter.
	Hidden int
	Width  int
}

type TodoDetailData struct {
	Title       string
	Description string
	Due         string
	DueDate     string
	Priority    string
	Category    string
	Completed   bool
	Overdue     bool
	Created     time.Time
	Now         time.Time
	Width       int
}

type SearchRowData struct {
	Title    string
	Category string
	Distance int
	Selected bool
}

type SearchPanelData struct {
	Query   string
	Input   string
	Active  bool
	Results []SearchRowData
	Width   int
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderTabs(tabs []CategoryTabData) string {
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := fmt.Sprintf("%s (%d)", tab.Name, tab.Count)
		if tab.Active {
			parts = append(parts, activeTabStyle.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	return strings.Join(parts, "  ")
}

func RenderTodoList(data TodoListData) string {
	width := data.Width
	if width <= 0 {
		width = DefaultPaneWidth
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s:\n", strings.ToLower(data.Category)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("sort: %s | filter: %s", data.Sort, data.Filter)) + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("  (no todos)\n")
	}
	for _, row := range data.Rows {
		b.WriteString(renderTodoRow(row, width) + "\n")
	}
	if data.Hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d hidden by filter", data.Hidden)))
	}
	return strings.TrimSpace(b.String())
}

func renderTodoRow(row TodoRowData, width int) string {
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	check := "[ ]"
	if row.Completed {
		check = "[x]"
	}
	suffix := make([]string, 0, 3)
	if row.Priority != "" {
		suffix = append(suffix, row.Priority)
	}
	if row.Due != "" {
		suffix = append(suffix, row.Due)
	}
	if row.Category != "" {
		suffix = append(suffix, "#"+row.Category)
	}
	tail := strings.Join(suffix, " ")
	room := width - lipgloss.Width(tail) - 7
	if room < 8 {
		room = 8
	}
	title := truncate.StringWithTail(row.Title, uint(room), "…")

	style := lipgloss.NewStyle()
	switch {
	case row.Completed:
		style = doneStyle
	case row.Overdue:
		style = overdueStyle
	case row.Selected:
		style = selectedStyle
	}
	line := fmt.Sprintf("%s %s %s", cursor, check, style.Render(title))
	if tail != "" {
		line += " " + mutedStyle.Render(tail)
	}
	return line
}

func RenderTodoDetail(data TodoDetailData) string {
	if strings.TrimSpace(data.Title) == "" {
		return "details:\n(no selection)"
	}
	width := data.Width
	if width <= 0 {
		width = DefaultPaneWidth
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(wordwrap.String(data.Title, width) + "\n\n")
	status := "open"
	if data.Completed {
		status = "done"
	}
	b.WriteString(fmt.Sprintf("status: %s\n", status))
	if data.Priority != "" {
		b.WriteString(fmt.Sprintf("priority: %s\n", data.Priority))
	}
	if data.DueDate != "" {
		due := fmt.Sprintf("due: %s (%s)", data.Due, data.DueDate)
		if data.Overdue && !data.Completed {
			due = overdueStyle.Render(due + " overdue")
		}
		b.WriteString(due + "\n")
	}
	if data.Category != "" {
		b.WriteString(fmt.Sprintf("category: %s\n", data.Category))
	}
	if !data.Created.IsZero() {
		now := data.Now
		if now.IsZero() {
			now = time.Now()
		}
		b.WriteString(mutedStyle.Render("created "+humanize.RelTime(data.Created, now, "ago", "from now")) + "\n")
	}
	if md := RenderMarkdown(data.Description, width); md != "" {
		b.WriteString("\n" + md)
	}
	return strings.TrimSpace(b.String())
}

func RenderSearchPanel(data SearchPanelData) string {
	var b strings.Builder
	if data.Active {
		b.WriteString(fmt.Sprintf("search: %s\n", data.Input))
	} else {
		b.WriteString(fmt.Sprintf("search: %q\n", data.Query))
	}
	if !data.Active && len(data.Results) == 0 {
		b.WriteString("  (no matches)")
		return b.String()
	}
	for _, r := range data.Results {
		cursor := " "
		if r.Selected {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s", cursor, r.Title)
		if r.Category != "" {
			line += " #" + r.Category
		}
		if r.Distance > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" ~%d", r.Distance))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}
