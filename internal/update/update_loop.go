package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoer/internal/model"
	"github.com/sandeepkv93/todoer/internal/scheduler"
	"github.com/sandeepkv93/todoer/internal/views"
)

type SweepMsg struct {
	Tick scheduler.Tick
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func waitForTickCmd(ch <-chan scheduler.Tick) tea.Cmd {
	return func() tea.Msg {
		tick, ok := <-ch
		if !ok {
			return nil
		}
		return SweepMsg{Tick: tick}
	}
}

func matches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

func typeInto(in textinput.Model, msg tea.KeyMsg) textinput.Model {
	next, _ := in.Update(msg)
	return next
}

func (m Model) Init() tea.Cmd {
	if m.engine != nil {
		return waitForTickCmd(m.engine.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		m.Height = typed.Height
		m.detail.Width = views.PaneWidth(typed.Width)
		m.detail.Height = max(6, typed.Height-10)
		return m, nil
	case SweepMsg:
		res := m.org.Sweep()
		if res.Changed() {
			m.Status = StatusBar{Text: fmt.Sprintf("due dates refreshed: %d relabeled, %d overdue", res.Relabeled, res.Overdue)}
			m.logger.Debug("sweep", "joined", res.Joined, "left", res.Left, "relabeled", res.Relabeled, "overdue", res.Overdue, "manual", typed.Tick.Manual)
		}
		m.syncSelection()
		if m.engine != nil {
			return m, waitForTickCmd(m.engine.C())
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.events.notify("error", typed.Err.Error())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg), nil
	}
	if m.Search.Prompting {
		return m.handleSearchPromptKey(msg), nil
	}
	if m.Search.Visible {
		if next, handled := m.handleSearchResultsKey(msg); handled {
			return next, nil
		}
	}

	switch {
	case matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case matches(msg, m.Keys.Command):
		return m.openPalette(), nil
	case matches(msg, m.Keys.Search):
		return m.openSearch(), nil
	case matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case matches(msg, m.Keys.Up):
		m.moveCursor(-1)
	case matches(msg, m.Keys.Down):
		m.moveCursor(1)
	case matches(msg, m.Keys.NextCategory):
		m.cycleCategory(1)
	case matches(msg, m.Keys.PrevCategory):
		m.cycleCategory(-1)
	case matches(msg, m.Keys.Toggle):
		if t, ok := m.SelectedTodo(); ok {
			m.org.ToggleCompletedStatus(t)
			state := "open"
			if t.Completed() {
				state = "done"
			}
			m.Status = StatusBar{Text: fmt.Sprintf("%q marked %s", t.Title(), state)}
		}
	case matches(msg, m.Keys.Delete):
		if t, ok := m.SelectedTodo(); ok {
			m.org.DeleteTodo(t)
			m.Search = SearchState{}
			m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", t.Title())}
		}
	case matches(msg, m.Keys.CycleSort):
		c := m.currentCategory()
		next := m.nextSortMode(c.SortMode())
		m.org.SetSortMode(c.ID(), next)
		m.Status = StatusBar{Text: "sort: " + string(next)}
	case matches(msg, m.Keys.CycleFilter):
		c := m.currentCategory()
		next := m.nextFilterMode(c.FilterMode())
		m.org.SetFilterMode(c.ID(), next)
		m.Status = StatusBar{Text: "filter: " + string(next)}
	}
	m.syncSelection()
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	width := views.PaneWidth(m.Width)
	current := m.currentCategory()

	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
		if m.Status.IsError {
			status = "status: error: " + m.Status.Text
		}
	}

	left := views.RenderTodoList(m.todoListData(current, width))
	right := m.renderRightPane(width)
	if p := m.renderCommandPalette(); p != "" {
		right = p + "\n\n" + right
	}
	if h := m.renderHelpIfVisible(); h != "" {
		right = right + "\n\n" + h
	}

	notification := ""
	if n, ok := m.events.last(); ok {
		notification = views.RenderNotification(n.Level, n.Body)
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("todoer | %s | %d todos", current.Name(), len(m.org.Todos())),
		Tabs:         views.RenderTabs(m.tabs()),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer:       m.footer(),
		Width:        m.Width,
	})
}

func (m Model) tabs() []views.CategoryTabData {
	cats := m.org.Categories()
	out := make([]views.CategoryTabData, 0, len(cats))
	for _, c := range cats {
		out = append(out, views.CategoryTabData{
			ID:     c.ID(),
			Name:   c.Name(),
			Count:  c.Len(),
			Active: c.ID() == m.CategoryID,
		})
	}
	return out
}

func (m Model) todoListData(c model.Category, width int) views.TodoListData {
	view := c.View()
	data := views.TodoListData{
		Category: c.Name(),
		Sort:     string(c.SortMode()),
		Filter:   string(c.FilterMode()),
		Width:    width,
	}
	for _, p := range view {
		if p.FilteredOut {
			data.Hidden++
			continue
		}
		t := p.Todo
		data.Rows = append(data.Rows, views.TodoRowData{
			ID:        t.ID(),
			Title:     t.Title(),
			Due:       t.MiniDueDate(),
			Priority:  t.Priority().String(),
			Category:  t.CategoryName(),
			Completed: t.Completed(),
			Overdue:   t.Overdue(),
			Selected:  t.ID() == m.SelectedTodoID && !m.Search.Visible,
		})
	}
	return data
}

func (m Model) renderRightPane(width int) string {
	if m.Search.Prompting || m.Search.Visible {
		data := views.SearchPanelData{
			Query:  m.Search.Query,
			Input:  m.searchInput.View(),
			Active: m.Search.Prompting,
			Width:  width,
		}
		for i, r := range m.Search.Results {
			data.Results = append(data.Results, views.SearchRowData{
				Title:    r.Todo.Title(),
				Category: r.Todo.CategoryName(),
				Distance: r.Distance,
				Selected: i == m.Search.Cursor,
			})
		}
		return views.RenderSearchPanel(data)
	}

	detail := views.TodoDetailData{Width: width}
	if t, ok := m.SelectedTodo(); ok {
		detail = views.TodoDetailData{
			Title:       t.Title(),
			Description: t.Description(),
			Due:         t.MiniDueDate(),
			DueDate:     t.DueDate(),
			Priority:    t.Priority().String(),
			Category:    t.CategoryName(),
			Completed:   t.Completed(),
			Overdue:     t.Overdue(),
			Created:     t.CreationDate(),
			Now:         m.org.Now(),
			Width:       width,
		}
	}
	vp := m.detail
	vp.Width = width
	vp.SetContent(views.RenderTodoDetail(detail))
	return strings.TrimRight(vp.View(), " \n")
}
