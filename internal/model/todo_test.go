package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewTodoDefaults(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	todo := NewTodo(TodoInput{Title: "Buy milk"}, now)

	if todo.ID() == "" {
		t.Fatal("expected generated id")
	}
	if !todo.CreationDate().Equal(now) {
		t.Fatalf("unexpected creation date: %s", todo.CreationDate())
	}
	if todo.Completed() || todo.Overdue() || todo.Priority() != PriorityNone {
		t.Fatalf("unexpected defaults: %+v", todo.Record())
	}
	if todo.HasAdditionalInfo() {
		t.Fatal("expected no additional info")
	}

	other := NewTodo(TodoInput{Title: "Buy milk"}, now)
	if other.ID() == todo.ID() {
		t.Fatalf("expected unique ids, both %q", todo.ID())
	}
}

func TestTodoSetIgnoresImmutableFields(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	todo := NewTodo(TodoInput{Title: "Report"}, now)
	id := todo.ID()

	if err := todo.Set(FieldID, "other"); err != nil {
		t.Fatalf("set id: %v", err)
	}
	if err := todo.Set(FieldCreationDate, now.Add(time.Hour)); err != nil {
		t.Fatalf("set creation date: %v", err)
	}
	if todo.ID() != id || !todo.CreationDate().Equal(now) {
		t.Fatalf("immutable fields changed: id=%q created=%s", todo.ID(), todo.CreationDate())
	}
}

func TestTodoSetAndGet(t *testing.T) {
	todo := NewTodo(TodoInput{Title: "Report"}, time.Now())

	if err := todo.Set(FieldTitle, "Quarterly report"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if err := todo.Set(FieldPriority, 2); err != nil {
		t.Fatalf("set priority: %v", err)
	}
	if err := todo.Set(FieldDueDate, "2026-02-10"); err != nil {
		t.Fatalf("set due date: %v", err)
	}
	if got := todo.Get(FieldTitle); got != "Quarterly report" {
		t.Fatalf("unexpected title: %v", got)
	}
	if got := todo.Get(FieldPriority); got != PriorityTwo {
		t.Fatalf("unexpected priority: %v", got)
	}
	if !todo.HasAdditionalInfo() {
		t.Fatal("expected additional info after setting due date")
	}
	if todo.Get(Field("nope")) != nil {
		t.Fatal("expected nil for unknown field")
	}
}

func TestTodoSetRejectsMisuse(t *testing.T) {
	todo := NewTodo(TodoInput{Title: "Report"}, time.Now())

	if err := todo.Set(Field("color"), "red"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := todo.Set(FieldTitle, 42); !errors.Is(err, ErrFieldType) {
		t.Fatalf("expected ErrFieldType, got %v", err)
	}
	if err := todo.Set(FieldPriority, 7); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestToggleCompletedStatus(t *testing.T) {
	todo := NewTodo(TodoInput{Title: "Report"}, time.Now())
	todo.ToggleCompletedStatus()
	if !todo.Completed() {
		t.Fatal("expected completed after first toggle")
	}
	todo.ToggleCompletedStatus()
	if todo.Completed() {
		t.Fatal("expected uncompleted after second toggle")
	}
}

func TestTodoRecordRoundTrip(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	todo := NewTodo(TodoInput{
		Title:        "Report",
		Description:  "numbers",
		Priority:     PriorityOne,
		DueDate:      "2026-02-11",
		CategoryID:   "cat-1",
		CategoryName: "Work",
	}, now)

	back, err := TodoFromRecord(todo.Record())
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	if back.Record() != todo.Record() {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back.Record(), todo.Record())
	}

	if _, err := TodoFromRecord(TodoRecord{ID: "x", CreationDate: now}); err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestTodoRecordOmitsPlacement(t *testing.T) {
	todo := NewTodo(TodoInput{Title: "Report"}, time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC))
	if err := todo.Set(FieldFilteredOut, true); err != nil {
		t.Fatalf("set filteredOut: %v", err)
	}
	if err := todo.Set(FieldIndex, 4); err != nil {
		t.Fatalf("set index: %v", err)
	}

	raw, err := json.Marshal(todo.Record())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "filteredOut") || strings.Contains(string(raw), `"index"`) {
		t.Fatalf("placement state must not be stored: %s", raw)
	}
	back, err := TodoFromRecord(todo.Record())
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	if back.FilteredOut() || back.Index() != 0 {
		t.Fatalf("expected fresh placement, got filteredOut=%v index=%d", back.FilteredOut(), back.Index())
	}
}
