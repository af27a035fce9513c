package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todoer/internal/config"
	"github.com/sandeepkv93/todoer/internal/logging"
	"github.com/sandeepkv93/todoer/internal/model"
	"github.com/sandeepkv93/todoer/internal/organizer"
	"github.com/sandeepkv93/todoer/internal/scheduler"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type PaletteState struct {
	Active bool
	Input  string
}

type SearchState struct {
	// Prompting is true while the query is being typed.
	Prompting bool
	// Visible keeps the results pane on screen after the query ran.
	Visible bool
	Query   string
	Results []organizer.SearchResult
	Cursor  int
}

type Model struct {
	CategoryID     string
	SelectedTodoID string
	Cursor         int
	Palette        PaletteState
	Search         SearchState
	HelpVisible    bool
	Status         StatusBar
	Keys           KeyMap
	Quitting       bool
	LastError      error
	Width          int
	Height         int

	org       *organizer.Organizer
	events    *eventLog
	engine    *scheduler.Engine
	logger    *log.Logger
	sortModes []model.SortMode
	filters   []model.FilterMode

	commandInput textinput.Model
	searchInput  textinput.Model
	helpModel    help.Model
	detail       viewport.Model
}

type Options struct {
	Organizer *organizer.Organizer
	Scheduler *scheduler.Engine
	Keys      config.Keymap
	Logger    *log.Logger
}

// NewModel wires the UI to o. The model registers itself as the organizer's
// renderer.
func NewModel(opts Options) Model {
	o := opts.Organizer
	if o == nil {
		o = organizer.New(organizer.Options{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	keys := opts.Keys
	if keys.Quit == "" {
		keys = config.Default("").Keys
	}
	events := newEventLog()
	events.title = func(id string) string {
		if t, ok := o.Todo(id); ok {
			return t.Title()
		}
		return shortID(id)
	}
	o.SetRenderer(events)

	m := Model{
		CategoryID: model.CategoryAll,
		Keys:       NewKeyMap(keys),
		org:        o,
		events:     events,
		engine:     opts.Scheduler,
		logger:     logger,
		sortModes:  model.SortModes(),
		filters:    model.FilterModes(),
	}
	m.initBubbleComponents()
	m.syncSelection()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 40

	m.helpModel = help.New()
	m.detail = viewport.New(54, 16)
}

// Organizer exposes the organizer the model drives.
func (m Model) Organizer() *organizer.Organizer {
	return m.org
}

// currentCategory falls back to "all" when the focused category is gone.
func (m *Model) currentCategory() model.Category {
	if c, ok := m.org.Category(m.CategoryID); ok {
		return c
	}
	m.CategoryID = model.CategoryAll
	c, _ := m.org.Category(model.CategoryAll)
	return c
}

// visibleTodos lists the current category's todos that are not filtered out,
// in view order.
func (m *Model) visibleTodos() []*model.Todo {
	view := m.currentCategory().View()
	out := make([]*model.Todo, 0, len(view))
	for _, p := range view {
		if !p.FilteredOut {
			out = append(out, p.Todo)
		}
	}
	return out
}

// syncSelection keeps the cursor on the selected todo when it is still
// visible and clamps it otherwise.
func (m *Model) syncSelection() {
	todos := m.visibleTodos()
	if len(todos) == 0 {
		m.Cursor = 0
		m.SelectedTodoID = ""
		return
	}
	for i, t := range todos {
		if t.ID() == m.SelectedTodoID {
			m.Cursor = i
			return
		}
	}
	m.Cursor = max(0, min(m.Cursor, len(todos)-1))
	m.SelectedTodoID = todos[m.Cursor].ID()
}

func (m *Model) moveCursor(delta int) {
	todos := m.visibleTodos()
	if len(todos) == 0 {
		return
	}
	m.Cursor = max(0, min(m.Cursor+delta, len(todos)-1))
	m.SelectedTodoID = todos[m.Cursor].ID()
}

func (m *Model) cycleCategory(delta int) {
	cats := m.org.Categories()
	idx := 0
	for i, c := range cats {
		if c.ID() == m.CategoryID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(cats)) % len(cats)
	m.Focus(cats[idx].ID())
}

// CurrentCategory, SelectedTodo, Focus and ShowResults let commands act on the
// UI selection.

func (m *Model) CurrentCategory() string {
	return m.currentCategory().ID()
}

func (m *Model) SelectedTodo() (*model.Todo, bool) {
	if m.Search.Visible && len(m.Search.Results) > 0 {
		return m.Search.Results[m.Search.Cursor].Todo, true
	}
	if m.SelectedTodoID == "" {
		return nil, false
	}
	return m.org.Todo(m.SelectedTodoID)
}

func (m *Model) Focus(categoryID string) {
	if _, ok := m.org.Category(categoryID); !ok {
		return
	}
	m.CategoryID = categoryID
	m.Cursor = 0
	m.SelectedTodoID = ""
	m.syncSelection()
}

func (m *Model) ShowResults(query string, results []organizer.SearchResult) {
	m.Search = SearchState{Visible: true, Query: query, Results: results}
}

// nextSortMode returns the mode after current in the fixed cycle.
func (m Model) nextSortMode(current model.SortMode) model.SortMode {
	for i, mode := range m.sortModes {
		if mode == current {
			return m.sortModes[(i+1)%len(m.sortModes)]
		}
	}
	return m.sortModes[0]
}

func (m Model) nextFilterMode(current model.FilterMode) model.FilterMode {
	for i, mode := range m.filters {
		if mode == current {
			return m.filters[(i+1)%len(m.filters)]
		}
	}
	return m.filters[0]
}
