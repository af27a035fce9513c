// Package organizer owns the category registry and keeps todo membership,
// ordering and storage in step with every change.
//
// An Organizer is single-threaded: every operation runs to completion on the
// caller's goroutine and none of them block. Callers that receive events from
// other goroutines (timers, the UI loop) must serialize their calls.
package organizer

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todoer/internal/dates"
	"github.com/sandeepkv93/todoer/internal/logging"
	"github.com/sandeepkv93/todoer/internal/model"
	"github.com/sandeepkv93/todoer/internal/storage"
)

// Persister mirrors organizer state to durable storage. Implementations
// swallow their own failures.
type Persister interface {
	SaveTodo(t *model.Todo)
	DeleteTodo(id string)
	SaveCategory(c model.Category)
	DeleteCategory(c model.Category, detached []*model.Todo)
	MarkReturningUser()
	Load() (storage.Snapshot, error)
}

// Clock returns the current time.
type Clock func() time.Time

type Options struct {
	Persister Persister
	Renderer  Renderer
	Clock     Clock
	Logger    *log.Logger
	// Modes given to newly created user categories.
	DefaultSort   model.SortMode
	DefaultFilter model.FilterMode
}

type Organizer struct {
	system    []*model.SystemCategory
	user      []*model.UserCategory
	persist   Persister
	render    Renderer
	now       Clock
	logger    *log.Logger
	defSort   model.SortMode
	defFilter model.FilterMode
}

func New(opts Options) *Organizer {
	o := &Organizer{
		system:    model.DefaultSystemCategories(),
		user:      make([]*model.UserCategory, 0),
		persist:   opts.Persister,
		render:    opts.Renderer,
		now:       opts.Clock,
		logger:    opts.Logger,
		defSort:   opts.DefaultSort,
		defFilter: opts.DefaultFilter,
	}
	if o.persist == nil {
		o.persist = memoryOnly{}
	}
	if o.render == nil {
		o.render = NopRenderer{}
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	if !o.defSort.IsValid() {
		o.defSort = model.SortCreationDate
	}
	if !o.defFilter.IsValid() {
		o.defFilter = model.FilterNone
	}
	return o
}

// SetRenderer replaces the renderer; nil installs a no-op one.
func (o *Organizer) SetRenderer(r Renderer) {
	if r == nil {
		r = NopRenderer{}
	}
	o.render = r
}

func (o *Organizer) Now() time.Time {
	return o.now()
}

// Category looks up a system or user category by id.
func (o *Organizer) Category(id string) (model.Category, bool) {
	for _, c := range o.system {
		if c.ID() == id {
			return c, true
		}
	}
	if c, ok := o.UserCategory(id); ok {
		return c, true
	}
	return nil, false
}

func (o *Organizer) UserCategory(id string) (*model.UserCategory, bool) {
	for _, c := range o.user {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// UserCategoryByName finds a user category by case-insensitive name.
func (o *Organizer) UserCategoryByName(name string) (*model.UserCategory, bool) {
	name = strings.TrimSpace(name)
	for _, c := range o.user {
		if strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

// Categories returns system categories followed by user categories in
// creation order.
func (o *Organizer) Categories() []model.Category {
	out := make([]model.Category, 0, len(o.system)+len(o.user))
	for _, c := range o.system {
		out = append(out, c)
	}
	for _, c := range o.user {
		out = append(out, c)
	}
	return out
}

func (o *Organizer) SystemCategories() []*model.SystemCategory {
	return slices.Clone(o.system)
}

func (o *Organizer) UserCategories() []*model.UserCategory {
	return slices.Clone(o.user)
}

func (o *Organizer) all() *model.SystemCategory {
	return o.system[0]
}

// Todo finds a todo by id in the "all" category.
func (o *Organizer) Todo(id string) (*model.Todo, bool) {
	for _, t := range o.all().Todos() {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}

// Todos returns every todo in the system.
func (o *Organizer) Todos() []*model.Todo {
	return o.all().Todos()
}

// AddTodo appends todo to the category and mirrors both to storage. It reports
// whether the todo was added.
func (o *Organizer) AddTodo(todo *model.Todo, categoryID string) bool {
	c, ok := o.Category(categoryID)
	if !ok || todo == nil {
		return false
	}
	if !c.AddTodo(todo) {
		return false
	}
	o.persist.SaveTodo(todo)
	o.persist.SaveCategory(c)
	o.render.TodoAdded(c.ID(), todo.ID())
	o.logger.Debug("todo added", "todo", todo.ID(), "category", c.ID())
	return true
}

// RemoveTodo removes todo from the category. Removal from a user category
// first clears the todo's category reference. A todo no longer present in the
// "all" category is destroyed and its record purged.
func (o *Organizer) RemoveTodo(todo *model.Todo, categoryID string) bool {
	c, ok := o.Category(categoryID)
	if !ok || todo == nil || !c.Contains(todo.ID()) {
		return false
	}
	if c.Kind() == model.KindUser && todo.CategoryID() == c.ID() {
		todo.ClearCategory()
		o.persist.SaveTodo(todo)
	}
	c.RemoveTodo(todo)
	o.persist.SaveCategory(c)
	o.render.TodoRemoved(c.ID(), todo.ID())
	if !o.all().Contains(todo.ID()) {
		o.persist.DeleteTodo(todo.ID())
		o.render.TodoDeleted(todo.ID())
		o.logger.Debug("todo destroyed", "todo", todo.ID())
	}
	return true
}

// Organize re-applies the category's filter and sort. It must run after every
// membership change and every sort or filter mode change. The category is
// saved again when its member order changed, so storage always holds the
// organized order.
func (o *Organizer) Organize(categoryID string) (model.View, bool) {
	c, ok := o.Category(categoryID)
	if !ok {
		return nil, false
	}
	before := make([]string, 0, c.Len())
	for _, t := range c.Todos() {
		before = append(before, t.ID())
	}
	view := c.Organize()
	if !slices.Equal(before, view.IDs()) {
		o.persist.SaveCategory(c)
	}
	o.render.CategoryOrganized(c.ID(), view.IDs(), len(view)-view.Visible())
	return view, true
}

func (o *Organizer) organizeAll(ids map[string]bool) {
	for _, c := range o.Categories() {
		if ids[c.ID()] {
			o.Organize(c.ID())
		}
	}
}

func (o *Organizer) SetSortMode(categoryID string, mode model.SortMode) bool {
	c, ok := o.Category(categoryID)
	if !ok || !mode.IsValid() {
		return false
	}
	c.SetSortMode(mode)
	o.persist.SaveCategory(c)
	o.Organize(c.ID())
	return true
}

func (o *Organizer) SetFilterMode(categoryID string, mode model.FilterMode) bool {
	c, ok := o.Category(categoryID)
	if !ok || !mode.IsValid() {
		return false
	}
	c.SetFilterMode(mode)
	o.persist.SaveCategory(c)
	o.Organize(c.ID())
	return true
}

// CreateUserCategory registers a new user category. Blank names are refused.
func (o *Organizer) CreateUserCategory(name string) (*model.UserCategory, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	c := model.NewUserCategory(name, o.now())
	c.SetSortMode(o.defSort)
	c.SetFilterMode(o.defFilter)
	o.insertUserCategory(c)
	o.persist.SaveCategory(c)
	o.render.CategoryAdded(c.ID(), c.Name())
	o.logger.Debug("category created", "category", c.ID(), "name", c.Name())
	return c, true
}

func (o *Organizer) insertUserCategory(c *model.UserCategory) {
	i, _ := slices.BinarySearchFunc(o.user, c, func(a, b *model.UserCategory) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	for i < len(o.user) && !o.user[i].CreatedAt().After(c.CreatedAt()) {
		i++
	}
	o.user = slices.Insert(o.user, i, c)
}

// ChangeUserCategoryName renames the category and every member's cached
// category name. Non-editable or unknown categories are left alone.
func (o *Organizer) ChangeUserCategoryName(id, name string) bool {
	c, ok := o.Category(id)
	if !ok || !c.Editable() {
		return false
	}
	r, ok := c.(model.Renamable)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return false
	}
	r.Rename(name)
	for _, t := range c.Todos() {
		t.SetCategory(c.ID(), name)
		o.persist.SaveTodo(t)
		o.render.TodoChanged(t.ID())
	}
	o.persist.SaveCategory(c)
	o.render.CategoryRenamed(c.ID(), name)
	return true
}

// DeleteCategory detaches every member todo and removes the user category.
// System categories cannot be deleted.
func (o *Organizer) DeleteCategory(id string) bool {
	c, ok := o.UserCategory(id)
	if !ok {
		return false
	}
	detached := c.Todos()
	for _, t := range detached {
		t.ClearCategory()
		c.RemoveTodo(t)
		o.render.TodoRemoved(c.ID(), t.ID())
		o.render.TodoChanged(t.ID())
	}
	o.user = slices.DeleteFunc(o.user, func(u *model.UserCategory) bool { return u.ID() == id })
	o.persist.DeleteCategory(c, detached)
	o.render.CategoryDeleted(id)
	o.logger.Debug("category deleted", "category", id, "detached", len(detached))
	return true
}

func (o *Organizer) ToggleCompletedStatus(todo *model.Todo) {
	if todo == nil {
		return
	}
	todo.ToggleCompletedStatus()
	o.persist.SaveTodo(todo)
	o.render.CompletedToggled(todo.ID(), todo.Completed())
	o.organizeMembersOf(todo)
}

// organizeMembersOf re-organizes every category holding todo.
func (o *Organizer) organizeMembersOf(todo *model.Todo) {
	for _, c := range o.Categories() {
		if c.Contains(todo.ID()) {
			o.Organize(c.ID())
		}
	}
}

// ScanTodo calls fn once for every category todo belongs in right now:
// "today" when due today, "this-week" when due within the week, its user
// category when it has one and "all" always.
func (o *Organizer) ScanTodo(todo *model.Todo, fn func(todo *model.Todo, categoryID string)) {
	if todo == nil || fn == nil {
		return
	}
	now := o.now()
	if dates.InInterval(dates.IntervalToday, todo.DueDate(), now) {
		fn(todo, model.CategoryToday)
	}
	if dates.InInterval(dates.IntervalThisWeek, todo.DueDate(), now) {
		fn(todo, model.CategoryThisWeek)
	}
	if id := todo.CategoryID(); id != "" {
		if _, ok := o.UserCategory(id); ok {
			fn(todo, id)
		}
	}
	fn(todo, model.CategoryAll)
}
