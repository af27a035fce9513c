package model

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func todosAt(base time.Time, inputs ...TodoInput) []*Todo {
	out := make([]*Todo, 0, len(inputs))
	for i, in := range inputs {
		out = append(out, NewTodo(in, base.Add(time.Duration(i)*time.Minute)))
	}
	return out
}

func titles(todos []*Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Title())
	}
	return out
}

func TestApplySortModes(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		mode SortMode
		want []string
	}{
		{SortCreationDate, []string{"charlie", "Alpha", "bravo", "delta"}},
		{SortName, []string{"Alpha", "bravo", "charlie", "delta"}},
		{SortDueDate, []string{"bravo", "charlie", "Alpha", "delta"}},
		{SortPriority, []string{"Alpha", "delta", "charlie", "bravo"}},
	}
	for _, tc := range cases {
		todos := todosAt(base,
			TodoInput{Title: "charlie", DueDate: "2026-02-12", Priority: PriorityThree},
			TodoInput{Title: "Alpha", DueDate: "2026-03-01", Priority: PriorityOne},
			TodoInput{Title: "bravo", DueDate: "2026-02-10"},
			TodoInput{Title: "delta", Priority: PriorityTwo},
		)
		ApplySort(todos, tc.mode)
		if got := titles(todos); !slices.Equal(got, tc.want) {
			t.Fatalf("sort %s got %v want %v", tc.mode, got, tc.want)
		}
		for i, todo := range todos {
			if todo.Index() != i {
				t.Fatalf("sort %s: %s index %d, want %d", tc.mode, todo.Title(), todo.Index(), i)
			}
		}
	}
}

func TestFilteredOutAlwaysTrails(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	for _, mode := range SortModes() {
		todos := todosAt(base,
			TodoInput{Title: "a", Priority: PriorityThree, DueDate: "2026-02-10"},
			TodoInput{Title: "b", Priority: PriorityOne, DueDate: "2026-02-20"},
			TodoInput{Title: "c", Priority: PriorityThree, DueDate: "2026-02-11"},
		)
		ApplyFilter(todos, FilterPriorityOne)
		ApplySort(todos, mode)
		if todos[0].Title() != "b" {
			t.Fatalf("sort %s: expected unfiltered todo first, got %v", mode, titles(todos))
		}
		for _, todo := range todos[1:] {
			if !todo.FilteredOut() {
				t.Fatalf("sort %s: expected %s filtered out", mode, todo.Title())
			}
		}
	}
}

func TestApplyFilterModes(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	todos := todosAt(base,
		TodoInput{Title: "p1", Priority: PriorityOne},
		TodoInput{Title: "p2", Priority: PriorityTwo, Completed: true},
		TodoInput{Title: "p3", Priority: PriorityThree},
		TodoInput{Title: "none"},
	)
	cases := []struct {
		mode FilterMode
		want []string
	}{
		{FilterNone, []string{}},
		{FilterPriorityOne, []string{"p2", "p3", "none"}},
		{FilterPriorityTwo, []string{"p1", "p3", "none"}},
		{FilterPriorityThree, []string{"p1", "p2", "none"}},
		{FilterCompleted, []string{"p1", "p3", "none"}},
		{FilterUncompleted, []string{"p2"}},
	}
	for _, tc := range cases {
		out := ApplyFilter(todos, tc.mode)
		if got := titles(out); !slices.Equal(got, tc.want) {
			t.Fatalf("filter %s got %v want %v", tc.mode, got, tc.want)
		}
		for _, todo := range todos {
			if todo.FilteredOut() != slices.Contains(tc.want, todo.Title()) {
				t.Fatalf("filter %s: %s filteredOut=%v", tc.mode, todo.Title(), todo.FilteredOut())
			}
		}
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseSortMode(" Due-Date "); err != nil || m != SortDueDate {
		t.Fatalf("parse sort: %q %v", m, err)
	}
	if _, err := ParseSortMode("random"); !errors.Is(err, ErrInvalidSortMode) {
		t.Fatalf("expected ErrInvalidSortMode, got %v", err)
	}
	if m, err := ParseFilterMode("completed"); err != nil || m != FilterCompleted {
		t.Fatalf("parse filter: %q %v", m, err)
	}
	if _, err := ParseFilterMode("priority-four"); !errors.Is(err, ErrInvalidFilterMode) {
		t.Fatalf("expected ErrInvalidFilterMode, got %v", err)
	}
}
