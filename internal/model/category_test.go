package model

import (
	"slices"
	"testing"
	"time"
)

func TestCategoryAddRemove(t *testing.T) {
	cat := NewUserCategory("Work", time.Now())
	todo := NewTodo(TodoInput{Title: "Report"}, time.Now())

	if !cat.AddTodo(todo) {
		t.Fatal("expected first add to succeed")
	}
	if cat.AddTodo(todo) {
		t.Fatal("expected duplicate add to be ignored")
	}
	if cat.Len() != 1 || !cat.Contains(todo.ID()) {
		t.Fatalf("unexpected members: %d", cat.Len())
	}
	if !cat.RemoveTodo(todo) {
		t.Fatal("expected remove to succeed")
	}
	if cat.RemoveTodo(todo) {
		t.Fatal("expected second remove to report absence")
	}
	if cat.Len() != 0 {
		t.Fatalf("expected empty category, got %d", cat.Len())
	}
}

func TestCategoryDefaultsAndVariants(t *testing.T) {
	sys := DefaultSystemCategories()
	if len(sys) != 3 || sys[0].ID() != CategoryAll || sys[1].ID() != CategoryToday || sys[2].ID() != CategoryThisWeek {
		t.Fatalf("unexpected system categories: %+v", sys)
	}
	for _, c := range sys {
		if c.Editable() || c.Kind() != KindSystem {
			t.Fatalf("system category %s must not be editable", c.ID())
		}
		if c.SortMode() != SortCreationDate || c.FilterMode() != FilterNone {
			t.Fatalf("unexpected default modes: %s %s", c.SortMode(), c.FilterMode())
		}
	}

	var cat Category = NewUserCategory("Home", time.Now())
	r, ok := cat.(Renamable)
	if !ok {
		t.Fatal("expected user category to be renamable")
	}
	r.Rename("House")
	if cat.Name() != "House" {
		t.Fatalf("rename failed: %q", cat.Name())
	}
	if _, ok := Category(sys[0]).(Renamable); ok {
		t.Fatal("system category must not be renamable")
	}
}

func TestCategorySetModeIgnoresInvalid(t *testing.T) {
	cat := NewUserCategory("Work", time.Now())
	cat.SetSortMode(SortMode("bogus"))
	cat.SetFilterMode(FilterMode("bogus"))
	if cat.SortMode() != SortCreationDate || cat.FilterMode() != FilterNone {
		t.Fatalf("invalid modes must be ignored: %s %s", cat.SortMode(), cat.FilterMode())
	}
}

func TestOrganizeIsIdempotent(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cat := NewUserCategory("Work", base)
	for _, todo := range todosAt(base,
		TodoInput{Title: "low", Priority: PriorityThree},
		TodoInput{Title: "high", Priority: PriorityOne},
		TodoInput{Title: "mid", Priority: PriorityTwo, Completed: true},
	) {
		cat.AddTodo(todo)
	}
	cat.SetSortMode(SortName)
	cat.SetFilterMode(FilterUncompleted)

	first := cat.Organize()
	second := cat.Organize()
	if !slices.Equal(first.IDs(), second.IDs()) {
		t.Fatalf("organize not idempotent: %v vs %v", first.IDs(), second.IDs())
	}
	for i := range first {
		if first[i].FilteredOut != second[i].FilteredOut || first[i].Index != i {
			t.Fatalf("placement %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first.Visible() != 2 || len(cat.FilteredOut()) != 1 {
		t.Fatalf("expected one filtered todo, visible=%d", first.Visible())
	}
	if last := first[len(first)-1]; last.Todo.Title() != "mid" || !last.FilteredOut {
		t.Fatalf("expected completed todo last, got %+v", last)
	}
	if !slices.Equal(cat.View().IDs(), first.IDs()) {
		t.Fatal("View must return the last organized view")
	}
}

func TestScenarioPriorityOneFilter(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cat := NewUserCategory("Work", base)
	todos := todosAt(base,
		TodoInput{Title: "three", Priority: PriorityThree},
		TodoInput{Title: "one", Priority: PriorityOne},
	)
	for _, todo := range todos {
		cat.AddTodo(todo)
	}
	cat.SetFilterMode(FilterPriorityOne)
	view := cat.Organize()

	if view[0].Todo.Title() != "one" || view[0].FilteredOut {
		t.Fatalf("expected priority-one todo first and visible, got %+v", view[0])
	}
	if !view[1].FilteredOut || !todos[0].FilteredOut() || todos[1].FilteredOut() {
		t.Fatalf("unexpected filtered marks: %+v", view)
	}
}

func TestCategoryRecordRoundTrip(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cat := NewUserCategory("Work", base)
	todos := todosAt(base,
		TodoInput{Title: "b", Priority: PriorityTwo},
		TodoInput{Title: "a", Priority: PriorityOne},
	)
	byID := map[string]*Todo{}
	for _, todo := range todos {
		cat.AddTodo(todo)
		byID[todo.ID()] = todo
	}
	cat.SetSortMode(SortName)
	cat.SetFilterMode(FilterPriorityTwo)
	before := cat.Organize()

	restored, err := CategoryFromRecord(cat.Record(), byID)
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	if _, ok := restored.(*UserCategory); !ok {
		t.Fatalf("expected *UserCategory, got %T", restored)
	}
	after := restored.Organize()
	if !slices.Equal(before.IDs(), after.IDs()) {
		t.Fatalf("order changed: %v vs %v", before.IDs(), after.IDs())
	}
	for i := range before {
		if before[i].FilteredOut != after[i].FilteredOut {
			t.Fatalf("filtered mark changed at %d", i)
		}
	}

	sys := NewSystemCategory(CategoryToday, "Today")
	restoredSys, err := CategoryFromRecord(sys.Record(), byID)
	if err != nil {
		t.Fatalf("system from record: %v", err)
	}
	if _, ok := restoredSys.(*SystemCategory); !ok {
		t.Fatalf("expected *SystemCategory, got %T", restoredSys)
	}

	bad := cat.Record()
	bad.CreatedAt = nil
	if _, err := CategoryFromRecord(bad, byID); err == nil {
		t.Fatal("expected error for user category without createdAt")
	}
}
