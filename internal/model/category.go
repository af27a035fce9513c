package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidCategoryKind = errors.New("model: invalid category kind")

// System category ids. They never change and are never deleted.
const (
	CategoryAll      = "all"
	CategoryToday    = "today"
	CategoryThisWeek = "this-week"
)

type CategoryKind string

const (
	KindSystem CategoryKind = "system"
	KindUser   CategoryKind = "user"
)

func (k CategoryKind) IsValid() bool {
	switch k {
	case KindSystem, KindUser:
		return true
	default:
		return false
	}
}

// Category is the capability set shared by system and user categories.
type Category interface {
	ID() string
	Name() string
	Kind() CategoryKind
	Editable() bool

	Todos() []*Todo
	Len() int
	Contains(todoID string) bool
	AddTodo(t *Todo) bool
	RemoveTodo(t *Todo) bool

	SortMode() SortMode
	SetSortMode(SortMode)
	FilterMode() FilterMode
	SetFilterMode(FilterMode)
	FilteredOut() []*Todo

	// Organize applies the filter then the sort and returns the resulting view.
	Organize() View
	// View returns the view computed by the last Organize call.
	View() View

	Record() CategoryRecord
}

// Renamable is implemented by categories the user owns.
type Renamable interface {
	Category
	Rename(name string)
	CreatedAt() time.Time
}

// Placement is a todo's position in an organized category.
type Placement struct {
	Todo        *Todo
	Index       int
	FilteredOut bool
}

type View []Placement

// IDs returns the todo ids in view order.
func (v View) IDs() []string {
	out := make([]string, 0, len(v))
	for _, p := range v {
		out = append(out, p.Todo.ID())
	}
	return out
}

// Visible returns the number of placements that are not filtered out.
func (v View) Visible() int {
	n := 0
	for _, p := range v {
		if !p.FilteredOut {
			n++
		}
	}
	return n
}

type categoryState struct {
	id          string
	name        string
	todos       []*Todo
	filteredOut []*Todo
	sortMode    SortMode
	filterMode  FilterMode
	view        View
}

func newCategoryState(id, name string) categoryState {
	return categoryState{
		id:         id,
		name:       name,
		todos:      make([]*Todo, 0),
		sortMode:   SortCreationDate,
		filterMode: FilterNone,
	}
}

func (c *categoryState) ID() string   { return c.id }
func (c *categoryState) Name() string { return c.name }
func (c *categoryState) Len() int     { return len(c.todos) }

func (c *categoryState) Todos() []*Todo {
	return slices.Clone(c.todos)
}

func (c *categoryState) Contains(todoID string) bool {
	return c.indexOf(todoID) >= 0
}

func (c *categoryState) indexOf(todoID string) int {
	return slices.IndexFunc(c.todos, func(t *Todo) bool { return t.id == todoID })
}

// AddTodo appends t unless it is already a member.
func (c *categoryState) AddTodo(t *Todo) bool {
	if t == nil || c.Contains(t.id) {
		return false
	}
	c.todos = append(c.todos, t)
	return true
}

func (c *categoryState) RemoveTodo(t *Todo) bool {
	if t == nil {
		return false
	}
	i := c.indexOf(t.id)
	if i < 0 {
		return false
	}
	c.todos = slices.Delete(c.todos, i, i+1)
	c.filteredOut = slices.DeleteFunc(c.filteredOut, func(m *Todo) bool { return m.id == t.id })
	return true
}

func (c *categoryState) SortMode() SortMode     { return c.sortMode }
func (c *categoryState) FilterMode() FilterMode { return c.filterMode }

func (c *categoryState) SetSortMode(m SortMode) {
	if m.IsValid() {
		c.sortMode = m
	}
}

func (c *categoryState) SetFilterMode(m FilterMode) {
	if m.IsValid() {
		c.filterMode = m
	}
}

func (c *categoryState) FilteredOut() []*Todo {
	return slices.Clone(c.filteredOut)
}

func (c *categoryState) Organize() View {
	c.filteredOut = ApplyFilter(c.todos, c.filterMode)
	ApplySort(c.todos, c.sortMode)
	view := make(View, 0, len(c.todos))
	for i, t := range c.todos {
		view = append(view, Placement{Todo: t, Index: i, FilteredOut: t.filteredOut})
	}
	c.view = view
	return slices.Clone(view)
}

func (c *categoryState) View() View {
	return slices.Clone(c.view)
}

func (c *categoryState) record(kind CategoryKind, editable bool) CategoryRecord {
	ids := make([]string, 0, len(c.todos))
	for _, t := range c.todos {
		ids = append(ids, t.id)
	}
	return CategoryRecord{
		ID:         c.id,
		Kind:       kind,
		Name:       c.name,
		Editable:   editable,
		TodoIDs:    ids,
		SortMode:   c.sortMode,
		FilterMode: c.filterMode,
	}
}

// SystemCategory has its membership computed from todo attributes.
type SystemCategory struct {
	categoryState
}

func NewSystemCategory(id, name string) *SystemCategory {
	return &SystemCategory{categoryState: newCategoryState(id, name)}
}

// DefaultSystemCategories returns fresh "all", "today" and "this-week"
// categories in display order.
func DefaultSystemCategories() []*SystemCategory {
	return []*SystemCategory{
		NewSystemCategory(CategoryAll, "All"),
		NewSystemCategory(CategoryToday, "Today"),
		NewSystemCategory(CategoryThisWeek, "Next 7 days"),
	}
}

func (c *SystemCategory) Kind() CategoryKind { return KindSystem }
func (c *SystemCategory) Editable() bool     { return false }

func (c *SystemCategory) Record() CategoryRecord {
	return c.record(KindSystem, false)
}

// UserCategory is created, renamed and deleted by the user.
type UserCategory struct {
	categoryState
	createdAt time.Time
}

func NewUserCategory(name string, now time.Time) *UserCategory {
	return &UserCategory{
		categoryState: newCategoryState(uuid.NewString(), name),
		createdAt:     now,
	}
}

func (c *UserCategory) Kind() CategoryKind   { return KindUser }
func (c *UserCategory) Editable() bool       { return true }
func (c *UserCategory) CreatedAt() time.Time { return c.createdAt }

func (c *UserCategory) Rename(name string) {
	c.name = name
}

func (c *UserCategory) Record() CategoryRecord {
	rec := c.record(KindUser, true)
	created := c.createdAt
	rec.CreatedAt = &created
	return rec
}

// CategoryRecord is the plain-data form of a category. Members are kept as
// todo ids.
type CategoryRecord struct {
	ID         string       `json:"id"`
	Kind       CategoryKind `json:"kind"`
	Name       string       `json:"name"`
	Editable   bool         `json:"editable"`
	TodoIDs    []string     `json:"todoIds"`
	SortMode   SortMode     `json:"sortMode"`
	FilterMode FilterMode   `json:"filterMode"`
	CreatedAt  *time.Time   `json:"createdAt,omitempty"`
}

func (r CategoryRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: category id is required")
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategoryKind, r.Kind)
	}
	if r.Kind == KindUser && (r.CreatedAt == nil || r.CreatedAt.IsZero()) {
		return errors.New("model: user category createdAt is required")
	}
	return nil
}

// CategoryFromRecord rebuilds the variant named by the record's kind and
// attaches the members found in todos. Unknown member ids are skipped.
func CategoryFromRecord(r CategoryRecord, todos map[string]*Todo) (Category, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	state := newCategoryState(r.ID, r.Name)
	state.SetSortMode(r.SortMode)
	state.SetFilterMode(r.FilterMode)
	for _, id := range r.TodoIDs {
		if t, ok := todos[id]; ok {
			state.AddTodo(t)
		}
	}
	if r.Kind == KindSystem {
		return &SystemCategory{categoryState: state}, nil
	}
	return &UserCategory{categoryState: state, createdAt: *r.CreatedAt}, nil
}
