package model

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrInvalidSortMode   = errors.New("model: invalid sort mode")
	ErrInvalidFilterMode = errors.New("model: invalid filter mode")
)

type SortMode string

const (
	SortCreationDate SortMode = "creation-date"
	SortName         SortMode = "name"
	SortDueDate      SortMode = "due-date"
	SortPriority     SortMode = "priority"
)

func SortModes() []SortMode {
	return []SortMode{SortCreationDate, SortName, SortDueDate, SortPriority}
}

func (m SortMode) IsValid() bool {
	switch m {
	case SortCreationDate, SortName, SortDueDate, SortPriority:
		return true
	default:
		return false
	}
}

func ParseSortMode(raw string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(raw)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortMode, raw)
	}
	return m, nil
}

type FilterMode string

const (
	FilterNone          FilterMode = "no-filter"
	FilterPriorityOne   FilterMode = "priority-one"
	FilterPriorityTwo   FilterMode = "priority-two"
	FilterPriorityThree FilterMode = "priority-three"
	FilterCompleted     FilterMode = "completed"
	FilterUncompleted   FilterMode = "uncompleted"
)

func FilterModes() []FilterMode {
	return []FilterMode{FilterNone, FilterPriorityOne, FilterPriorityTwo, FilterPriorityThree, FilterCompleted, FilterUncompleted}
}

func (m FilterMode) IsValid() bool {
	switch m {
	case FilterNone, FilterPriorityOne, FilterPriorityTwo, FilterPriorityThree, FilterCompleted, FilterUncompleted:
		return true
	default:
		return false
	}
}

func ParseFilterMode(raw string) (FilterMode, error) {
	m := FilterMode(strings.ToLower(strings.TrimSpace(raw)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilterMode, raw)
	}
	return m, nil
}

// Comparator returns the ordering for mode. Todos that are filtered out always
// sort after the ones that are not; the mode only breaks ties.
func Comparator(mode SortMode) func(a, b *Todo) int {
	byMode := modeComparator(mode)
	return func(a, b *Todo) int {
		if a.filteredOut != b.filteredOut {
			if a.filteredOut {
				return 1
			}
			return -1
		}
		return byMode(a, b)
	}
}

func modeComparator(mode SortMode) func(a, b *Todo) int {
	switch mode {
	case SortName:
		collator := collate.New(language.Und, collate.IgnoreCase)
		return func(a, b *Todo) int {
			return collator.CompareString(a.title, b.title)
		}
	case SortDueDate:
		return func(a, b *Todo) int {
			return compareMissingLast(a.dueDate == "", b.dueDate == "", func() int {
				return strings.Compare(a.dueDate, b.dueDate)
			})
		}
	case SortPriority:
		return func(a, b *Todo) int {
			return compareMissingLast(a.priority == PriorityNone, b.priority == PriorityNone, func() int {
				return cmp.Compare(a.priority, b.priority)
			})
		}
	default:
		return func(a, b *Todo) int {
			return a.creationDate.Compare(b.creationDate)
		}
	}
}

func compareMissingLast(aMissing, bMissing bool, both func() int) int {
	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return 1
	case bMissing:
		return -1
	default:
		return both()
	}
}

// Predicate reports whether a todo is filtered out under mode.
func Predicate(mode FilterMode) func(*Todo) bool {
	switch mode {
	case FilterPriorityOne:
		return priorityIsNot(PriorityOne)
	case FilterPriorityTwo:
		return priorityIsNot(PriorityTwo)
	case FilterPriorityThree:
		return priorityIsNot(PriorityThree)
	case FilterCompleted:
		return func(t *Todo) bool { return !t.completed }
	case FilterUncompleted:
		return func(t *Todo) bool { return t.completed }
	default:
		return func(*Todo) bool { return false }
	}
}

func priorityIsNot(p Priority) func(*Todo) bool {
	return func(t *Todo) bool { return t.priority != p }
}

// ApplyFilter resets every todo's filtered-out mark, marks the ones matched by
// mode and returns them in their current order.
func ApplyFilter(todos []*Todo, mode FilterMode) []*Todo {
	match := Predicate(mode)
	out := make([]*Todo, 0)
	for _, t := range todos {
		t.setFilteredOut(false)
	}
	for _, t := range todos {
		if match(t) {
			t.setFilteredOut(true)
			out = append(out, t)
		}
	}
	return out
}

// ApplySort stably sorts todos in place and refreshes their indexes.
func ApplySort(todos []*Todo, mode SortMode) {
	slices.SortStableFunc(todos, Comparator(mode))
	for i, t := range todos {
		t.setIndex(i)
	}
}
