package organizer

import (
	"strings"

	"github.com/sandeepkv93/todoer/internal/dates"
	"github.com/sandeepkv93/todoer/internal/model"
)

// TodoPatch lists the fields an edit changes. Nil fields are left alone.
// An empty CategoryID detaches the todo from its user category and an empty
// DueDate clears the due date.
type TodoPatch struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	DueDate     *string
	CategoryID  *string
}

// CreateTodo builds a todo from in and places it in every category it belongs
// to. A blank title, invalid priority or unparsable due date is refused. An
// unknown category id is dropped.
func (o *Organizer) CreateTodo(in model.TodoInput) (*model.Todo, bool) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || !in.Priority.IsValid() || !o.validDue(in.DueDate) {
		return nil, false
	}
	in.CategoryName = ""
	if c, ok := o.UserCategory(in.CategoryID); ok {
		in.CategoryName = c.Name()
	} else {
		in.CategoryID = ""
	}

	now := o.now()
	in.MiniDueDate = dates.FormatDue(in.DueDate, now)
	in.Overdue = dates.InInterval(dates.IntervalOverdue, in.DueDate, now)
	todo := model.NewTodo(in, now)

	touched := make(map[string]bool)
	o.ScanTodo(todo, func(t *model.Todo, categoryID string) {
		if o.AddTodo(t, categoryID) {
			touched[categoryID] = true
		}
	})
	o.organizeAll(touched)
	o.logger.Info("todo created", "todo", todo.ID(), "categories", len(touched))
	return todo, true
}

func (o *Organizer) validDue(due string) bool {
	if strings.TrimSpace(due) == "" {
		return true
	}
	_, err := dates.Parse(due, o.now().Location())
	return err == nil
}

// EditTodo applies patch to todo. When the due date or category changes, stale
// memberships are dropped and new ones added. The due label and overdue flag
// are recomputed from the new due date. Invalid patches change nothing.
func (o *Organizer) EditTodo(todo *model.Todo, patch TodoPatch) bool {
	if todo == nil || !o.all().Contains(todo.ID()) {
		return false
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return false
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return false
	}
	if patch.DueDate != nil && !o.validDue(*patch.DueDate) {
		return false
	}
	var target *model.UserCategory
	if patch.CategoryID != nil && *patch.CategoryID != "" {
		c, ok := o.UserCategory(*patch.CategoryID)
		if !ok {
			return false
		}
		target = c
	}

	if patch.Title != nil {
		todo.SetTitle(strings.TrimSpace(*patch.Title))
	}
	if patch.Description != nil {
		todo.SetDescription(*patch.Description)
	}
	if patch.Priority != nil {
		todo.SetPriority(*patch.Priority)
	}
	if patch.DueDate != nil {
		now := o.now()
		due := strings.TrimSpace(*patch.DueDate)
		todo.SetDueDate(due)
		todo.SetMiniDueDate(dates.FormatDue(due, now))
		todo.SetOverdue(dates.InInterval(dates.IntervalOverdue, due, now))
	}
	if patch.CategoryID != nil {
		if target != nil {
			todo.SetCategory(target.ID(), target.Name())
		} else {
			todo.ClearCategory()
		}
	}
	o.persist.SaveTodo(todo)
	o.render.TodoChanged(todo.ID())

	touched := o.rescan(todo)
	for _, c := range o.Categories() {
		if c.Contains(todo.ID()) {
			touched[c.ID()] = true
		}
	}
	o.organizeAll(touched)
	return true
}

// rescan brings todo's memberships in line with ScanTodo and returns the ids
// of categories it joined or left.
func (o *Organizer) rescan(todo *model.Todo) map[string]bool {
	want := make(map[string]bool)
	o.ScanTodo(todo, func(_ *model.Todo, categoryID string) {
		want[categoryID] = true
	})
	touched := make(map[string]bool)
	for _, c := range o.Categories() {
		if c.Contains(todo.ID()) && !want[c.ID()] && o.RemoveTodo(todo, c.ID()) {
			touched[c.ID()] = true
		}
	}
	for id := range want {
		if o.AddTodo(todo, id) {
			touched[id] = true
		}
	}
	return touched
}

// DeleteTodo removes todo from every category, "all" last, which destroys it.
func (o *Organizer) DeleteTodo(todo *model.Todo) bool {
	if todo == nil || !o.all().Contains(todo.ID()) {
		return false
	}
	touched := make(map[string]bool)
	for _, c := range o.Categories() {
		if c.ID() != model.CategoryAll && o.RemoveTodo(todo, c.ID()) {
			touched[c.ID()] = true
		}
	}
	o.RemoveTodo(todo, model.CategoryAll)
	touched[model.CategoryAll] = true
	o.organizeAll(touched)
	o.logger.Info("todo deleted", "todo", todo.ID())
	return true
}
