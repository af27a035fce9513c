package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/todoer/internal/dates"
	"github.com/sandeepkv93/todoer/internal/model"
	"github.com/sandeepkv93/todoer/internal/organizer"
)

// Selection is the controller state commands act on.
type Selection interface {
	CurrentCategory() string
	SelectedTodo() (*model.Todo, bool)
	Focus(categoryID string)
	ShowResults(query string, results []organizer.SearchResult)
}

// OrganizerHandlers binds every command to organizer operations.
func OrganizerHandlers(o *organizer.Organizer, sel Selection) Handlers {
	b := binder{o: o, sel: sel}
	return Handlers{
		Add:      b.add,
		Done:     b.done,
		Delete:   b.delete,
		Edit:     b.edit,
		Sort:     b.sort,
		Filter:   b.filter,
		Search:   b.search,
		Category: b.category,
		Goto:     b.gotoCategory,
	}
}

type binder struct {
	o   *organizer.Organizer
	sel Selection
}

func notFound(format string, args ...any) error {
	return &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func rejected(format string, args ...any) error {
	return &CommandError{Code: ErrCodeRejected, Message: fmt.Sprintf(format, args...)}
}

func (b binder) selected() (*model.Todo, error) {
	t, ok := b.sel.SelectedTodo()
	if !ok {
		return nil, notFound("no todo selected")
	}
	return t, nil
}

// resolveCategory maps a name to a user category id. The empty name and
// "none" mean no category.
func (b binder) resolveCategory(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "none") {
		return "", nil
	}
	c, ok := b.o.UserCategoryByName(name)
	if !ok {
		return "", notFound("no category named %q", name)
	}
	return c.ID(), nil
}

func (b binder) add(args AddArgs) (Result, error) {
	due, err := dates.ParseRelative(args.Due, b.o.Now())
	if err != nil {
		return Result{}, invalid("%v", err)
	}
	catID, err := b.resolveCategory(args.Category)
	if err != nil {
		return Result{}, err
	}
	// Adding from inside a user category files the todo there.
	if catID == "" && args.Category == "" {
		if c, ok := b.o.UserCategory(b.sel.CurrentCategory()); ok {
			catID = c.ID()
		}
	}
	todo, ok := b.o.CreateTodo(model.TodoInput{
		Title:      args.Title,
		Priority:   args.Priority,
		DueDate:    due,
		CategoryID: catID,
	})
	if !ok {
		return Result{}, rejected("todo %q not created", args.Title)
	}
	return Result{Message: fmt.Sprintf("added %q", todo.Title())}, nil
}

func (b binder) done() (Result, error) {
	t, err := b.selected()
	if err != nil {
		return Result{}, err
	}
	b.o.ToggleCompletedStatus(t)
	if t.Completed() {
		return Result{Message: fmt.Sprintf("completed %q", t.Title())}, nil
	}
	return Result{Message: fmt.Sprintf("reopened %q", t.Title())}, nil
}

func (b binder) delete() (Result, error) {
	t, err := b.selected()
	if err != nil {
		return Result{}, err
	}
	b.o.DeleteTodo(t)
	return Result{Message: fmt.Sprintf("deleted %q", t.Title())}, nil
}

func (b binder) edit(args EditArgs) (Result, error) {
	t, err := b.selected()
	if err != nil {
		return Result{}, err
	}
	var patch organizer.TodoPatch
	switch args.Field {
	case EditTitle:
		patch.Title = &args.Value
	case EditDescription:
		patch.Description = &args.Value
	case EditPriority:
		patch.Priority = &args.Priority
	case EditDue:
		due, err := dates.ParseRelative(args.Value, b.o.Now())
		if err != nil {
			return Result{}, invalid("%v", err)
		}
		patch.DueDate = &due
	case EditCategory:
		id, err := b.resolveCategory(args.Value)
		if err != nil {
			return Result{}, err
		}
		patch.CategoryID = &id
	default:
		return Result{}, invalid("unknown field %q", args.Field)
	}
	if !b.o.EditTodo(t, patch) {
		return Result{}, rejected("edit of %s refused", args.Field)
	}
	return Result{Message: fmt.Sprintf("updated %s of %q", args.Field, t.Title())}, nil
}

func (b binder) sort(args SortArgs) (Result, error) {
	id := b.sel.CurrentCategory()
	if !b.o.SetSortMode(id, args.Mode) {
		return Result{}, notFound("no category %q", id)
	}
	return Result{Message: "sorted by " + string(args.Mode)}, nil
}

func (b binder) filter(args FilterArgs) (Result, error) {
	id := b.sel.CurrentCategory()
	if !b.o.SetFilterMode(id, args.Mode) {
		return Result{}, notFound("no category %q", id)
	}
	return Result{Message: "filter " + string(args.Mode)}, nil
}

func (b binder) search(args SearchArgs) (Result, error) {
	results := b.o.Search(args.Query)
	b.sel.ShowResults(args.Query, results)
	return Result{Message: fmt.Sprintf("%d match(es) for %q", len(results), args.Query)}, nil
}

func (b binder) category(args CategoryArgs) (Result, error) {
	switch args.Action {
	case CategoryNew:
		c, ok := b.o.CreateUserCategory(args.Name)
		if !ok {
			return Result{}, rejected("category %q not created", args.Name)
		}
		b.sel.Focus(c.ID())
		return Result{Message: fmt.Sprintf("created category %q", c.Name())}, nil
	case CategoryRename:
		id := b.sel.CurrentCategory()
		if !b.o.ChangeUserCategoryName(id, args.Name) {
			return Result{}, rejected("current category cannot be renamed")
		}
		return Result{Message: fmt.Sprintf("renamed category to %q", args.Name)}, nil
	case CategoryDelete:
		id := b.sel.CurrentCategory()
		if args.Name != "" {
			c, ok := b.o.UserCategoryByName(args.Name)
			if !ok {
				return Result{}, notFound("no category named %q", args.Name)
			}
			id = c.ID()
		}
		if !b.o.DeleteCategory(id) {
			return Result{}, rejected("category cannot be deleted")
		}
		if b.sel.CurrentCategory() == id {
			b.sel.Focus(model.CategoryAll)
		}
		return Result{Message: "category deleted"}, nil
	default:
		return Result{}, invalid("unknown cat action %q", args.Action)
	}
}

func (b binder) gotoCategory(args GotoArgs) (Result, error) {
	name := strings.TrimSpace(args.Category)
	for _, c := range b.o.Categories() {
		if strings.EqualFold(c.ID(), name) || strings.EqualFold(c.Name(), name) {
			b.sel.Focus(c.ID())
			return Result{Message: "showing " + c.Name()}, nil
		}
	}
	return Result{}, notFound("no category %q", name)
}
