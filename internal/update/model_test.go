package update

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todoer/internal/dates"
	"github.com/sandeepkv93/todoer/internal/model"
	"github.com/sandeepkv93/todoer/internal/organizer"
	"github.com/sandeepkv93/todoer/internal/scheduler"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func newTestModel(t *testing.T) (Model, *organizer.Organizer, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 2, 9, 15, 30, 0, 0, time.UTC)}
	o := organizer.New(organizer.Options{Clock: clock.Now})
	return NewModel(Options{Organizer: o}), o, clock
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, runes(string(r)))
	}
	return m
}

func runCommand(t *testing.T, m Model, input string) Model {
	t.Helper()
	m, _ = press(t, m, runes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette to open")
	}
	m = typeText(t, m, input)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func createTodo(t *testing.T, o *organizer.Organizer, in model.TodoInput) *model.Todo {
	t.Helper()
	todo, ok := o.CreateTodo(in)
	if !ok {
		t.Fatalf("create %q refused", in.Title)
	}
	return todo
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.CategoryID != model.CategoryAll {
		t.Fatalf("expected all category focused, got %q", m.CategoryID)
	}
	if m.SelectedTodoID != "" || m.Cursor != 0 {
		t.Fatal("expected empty selection")
	}
	if m.Keys.Quit.Help().Key != "q" {
		t.Fatalf("unexpected quit key %q", m.Keys.Quit.Help().Key)
	}
	view := m.View()
	for _, want := range []string{"todoer", "All (0)", "Today (0)", "(no todos)", "(no selection)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestPaletteAddCreatesAndSelectsTodo(t *testing.T) {
	m, o, _ := newTestModel(t)
	m = runCommand(t, m, "add Buy milk due:today p:1")

	if m.Palette.Active {
		t.Fatal("expected palette closed after enter")
	}
	if m.Status.IsError || m.Status.Text != `added "Buy milk"` {
		t.Fatalf("unexpected status %+v", m.Status)
	}
	todos := o.Todos()
	if len(todos) != 1 {
		t.Fatalf("expected one todo, got %d", len(todos))
	}
	todo := todos[0]
	if todo.Priority() != model.PriorityOne || todo.MiniDueDate() != "Today" {
		t.Fatalf("unexpected todo priority=%v label=%q", todo.Priority(), todo.MiniDueDate())
	}
	if m.SelectedTodoID != todo.ID() {
		t.Fatal("expected new todo selected")
	}
	today, _ := o.Category(model.CategoryToday)
	if !today.Contains(todo.ID()) {
		t.Fatal("expected todo in today")
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Fatal("expected todo in view")
	}
}

func TestPaletteErrorsSetErrorStatus(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = runCommand(t, m, "bogus")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unsupported command") {
		t.Fatalf("expected parse error status, got %+v", m.Status)
	}

	m = runCommand(t, m, "done")
	if !m.Status.IsError || m.LastError == nil {
		t.Fatalf("expected error for done without selection, got %+v", m.Status)
	}
}

func TestPaletteEscapeCloses(t *testing.T) {
	m, o, _ := newTestModel(t)
	m, _ = press(t, m, runes("/"))
	m = typeText(t, m, "add never")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active || m.Palette.Input != "" {
		t.Fatal("expected palette reset")
	}
	if len(o.Todos()) != 0 {
		t.Fatal("escape must not run the command")
	}
}

func TestToggleAndDeleteKeys(t *testing.T) {
	m, o, _ := newTestModel(t)
	todo := createTodo(t, o, model.TodoInput{Title: "Write report"})
	m.syncSelection()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !todo.Completed() {
		t.Fatal("expected todo completed")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if todo.Completed() {
		t.Fatal("expected todo reopened")
	}

	m, _ = press(t, m, runes("x"))
	if _, ok := o.Todo(todo.ID()); ok {
		t.Fatal("expected todo deleted")
	}
	if m.SelectedTodoID != "" {
		t.Fatal("expected selection cleared")
	}
}

func TestCursorNavigation(t *testing.T) {
	m, o, clock := newTestModel(t)
	createTodo(t, o, model.TodoInput{Title: "first"})
	clock.t = clock.t.Add(time.Minute)
	createTodo(t, o, model.TodoInput{Title: "second"})
	m.syncSelection()
	start := m.SelectedTodoID

	m, _ = press(t, m, runes("j"))
	if m.Cursor != 1 || m.SelectedTodoID == start {
		t.Fatalf("expected cursor to move down, got %d", m.Cursor)
	}
	m, _ = press(t, m, runes("j"))
	if m.Cursor != 1 {
		t.Fatal("cursor must stop at the last row")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 || m.SelectedTodoID != start {
		t.Fatal("expected arrow up to return to the first row")
	}
}

func TestCategoryCycling(t *testing.T) {
	m, o, _ := newTestModel(t)
	work, _ := o.CreateUserCategory("Work")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.CategoryID != model.CategoryToday {
		t.Fatalf("expected today, got %q", m.CategoryID)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.CategoryID != work.ID() {
		t.Fatalf("expected wrap to last category, got %q", m.CategoryID)
	}
}

func TestAddInsideUserCategoryFilesTodo(t *testing.T) {
	m, o, _ := newTestModel(t)
	work, _ := o.CreateUserCategory("Work")
	m.Focus(work.ID())

	m = runCommand(t, m, "add Plan sprint")
	if m.Status.IsError {
		t.Fatalf("unexpected error %q", m.Status.Text)
	}
	if work.Len() != 1 || work.Todos()[0].CategoryName() != "Work" {
		t.Fatal("expected todo filed in the focused category")
	}
}

func TestCycleSortAndFilter(t *testing.T) {
	m, o, _ := newTestModel(t)
	all, _ := o.Category(model.CategoryAll)

	m, _ = press(t, m, runes("s"))
	if all.SortMode() != model.SortName || m.Status.Text != "sort: name" {
		t.Fatalf("expected name sort, got %q", all.SortMode())
	}
	m, _ = press(t, m, runes("f"))
	if want := model.FilterModes()[1]; all.FilterMode() != want {
		t.Fatalf("expected filter %q, got %q", want, all.FilterMode())
	}
	if !strings.Contains(m.View(), "sort: name") {
		t.Fatal("expected sort mode in list header")
	}
}

func TestSearchPromptAndJump(t *testing.T) {
	m, o, _ := newTestModel(t)
	report := createTodo(t, o, model.TodoInput{Title: "Write report"})
	createTodo(t, o, model.TodoInput{Title: "Groceries"})
	m.syncSelection()

	m, _ = press(t, m, runes("?"))
	if !m.Search.Prompting {
		t.Fatal("expected search prompt")
	}
	m = typeText(t, m, "report")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Search.Visible || m.Search.Query != "report" {
		t.Fatalf("expected results for query, got %+v", m.Search)
	}
	if len(m.Search.Results) != 1 || m.Search.Results[0].Todo != report {
		t.Fatalf("unexpected results %+v", m.Search.Results)
	}
	if sel, ok := m.SelectedTodo(); !ok || sel != report {
		t.Fatal("expected search result to be the selection")
	}
	if !strings.Contains(m.View(), `search: "report"`) {
		t.Fatal("expected search panel in view")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Search.Visible || m.SelectedTodoID != report.ID() || m.CategoryID != model.CategoryAll {
		t.Fatal("expected jump to the result in all")
	}
}

func TestSweepMsgRelabelsAndNotifies(t *testing.T) {
	m, o, clock := newTestModel(t)
	todo := createTodo(t, o, model.TodoInput{Title: "Pay rent", DueDate: dates.Format(clock.Now())})

	clock.t = clock.t.AddDate(0, 0, 1)
	updated, cmd := m.Update(SweepMsg{Tick: scheduler.Tick{At: clock.Now()}})
	m = updated.(Model)
	if cmd != nil {
		t.Fatal("expected no follow-up without a scheduler")
	}
	if !todo.Overdue() || todo.MiniDueDate() != "Yesterday" {
		t.Fatalf("expected overdue yesterday, got overdue=%v label=%q", todo.Overdue(), todo.MiniDueDate())
	}
	today, _ := o.Category(model.CategoryToday)
	if today.Contains(todo.ID()) {
		t.Fatal("expected todo to leave today")
	}
	if !strings.Contains(m.Status.Text, "due dates refreshed") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
	if !strings.Contains(m.View(), `"Pay rent" is overdue`) {
		t.Fatal("expected overdue notification in view")
	}
}

func TestInitWaitsOnScheduler(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.Init() != nil {
		t.Fatal("expected nil init without scheduler")
	}

	engine, err := scheduler.NewEngine(time.Hour)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	m.engine = engine
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected wait command")
	}
	engine.Start()
	defer engine.Stop()
	engine.Trigger()
	msg, ok := cmd().(SweepMsg)
	if !ok || !msg.Tick.Manual {
		t.Fatalf("expected manual sweep message, got %#v", msg)
	}
}

func TestHelpToggleAndQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, runes("h"))
	if !m.HelpVisible || !strings.Contains(m.View(), "help:") {
		t.Fatal("expected help panel")
	}
	m, _ = press(t, m, runes("h"))
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}

	m, cmd := press(t, m, runes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestStatusAndErrorMessages(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "saved"})
	m = updated.(Model)
	if m.Status.Text != "saved" {
		t.Fatal("expected status set")
	}
	updated, _ = m.Update(ClearStatusMsg{})
	m = updated.(Model)
	if m.Status.Text != "" {
		t.Fatal("expected status cleared")
	}
	updated, _ = m.Update(AppErrorMsg{Err: errTest})
	m = updated.(Model)
	if !m.Status.IsError || m.LastError != errTest {
		t.Fatal("expected error state")
	}
	if !strings.Contains(m.View(), "[ERROR] boom") {
		t.Fatal("expected error notification")
	}
}

var errTest = testError("boom")

type testError string

func (e testError) Error() string { return string(e) }
