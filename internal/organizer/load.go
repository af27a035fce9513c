package organizer

import (
	"github.com/sandeepkv93/todoer/internal/dates"
	"github.com/sandeepkv93/todoer/internal/model"
)

const (
	sampleCategoryName = "Personal"
	sampleTodoTitle    = "Try todoer"
	sampleTodoBody     = "Press `/` and type `add Buy milk due:tomorrow p:1` to add a todo.\n\n" +
		"Use `cat new <name>` for categories and `sort`/`filter` to arrange them."
)

// Load replaces the organizer state with what the persister holds. On first
// run it seeds a sample category and todo and records the returning-user
// marker. Rehydrated membership is repaired so every todo sits in "all"
// exactly once and in its user category, and a sweep brings the date
// categories up to date.
//
// When the stored state cannot be read the organizer starts empty and stops
// persisting, so nothing it does afterwards can overwrite what is stored.
func (o *Organizer) Load() error {
	snap, err := o.persist.Load()

	o.system = model.DefaultSystemCategories()
	o.user = make([]*model.UserCategory, 0)

	if err != nil {
		o.logger.Error("load stored state, continuing in memory", "err", err)
		o.persist = memoryOnly{}
		o.organizeEverything()
		return err
	}

	if !snap.ReturningUser {
		o.seed()
		o.persist.MarkReturningUser()
		o.Sweep()
		o.organizeEverything()
		return nil
	}

	for i, c := range o.system {
		if stored, ok := snap.System[c.ID()]; ok {
			o.system[i] = stored
		}
	}
	for _, c := range snap.User {
		o.insertUserCategory(c)
	}
	o.repair(snap.Todos)
	o.Sweep()
	o.organizeEverything()
	o.logger.Info("state loaded", "todos", o.all().Len(), "userCategories", len(o.user))
	return nil
}

func (o *Organizer) seed() {
	c, _ := o.CreateUserCategory(sampleCategoryName)
	o.CreateTodo(model.TodoInput{
		Title:       sampleTodoTitle,
		Description: sampleTodoBody,
		Priority:    model.PriorityOne,
		DueDate:     dates.Format(o.now()),
		CategoryID:  c.ID(),
	})
	o.logger.Info("seeded first-run sample")
}

// repair reconciles stored membership with the todos' own fields.
func (o *Organizer) repair(todos []*model.Todo) {
	all := o.all()
	for _, t := range todos {
		if all.AddTodo(t) {
			o.persist.SaveCategory(all)
		}
		if id := t.CategoryID(); id != "" {
			c, ok := o.UserCategory(id)
			if !ok {
				t.ClearCategory()
				o.persist.SaveTodo(t)
				continue
			}
			if t.CategoryName() != c.Name() {
				t.SetCategory(c.ID(), c.Name())
				o.persist.SaveTodo(t)
			}
			if c.AddTodo(t) {
				o.persist.SaveCategory(c)
			}
		}
	}
	for _, c := range o.user {
		for _, t := range c.Todos() {
			if t.CategoryID() != c.ID() {
				c.RemoveTodo(t)
				o.persist.SaveCategory(c)
			}
		}
	}
}

func (o *Organizer) organizeEverything() {
	ids := make(map[string]bool)
	for _, c := range o.Categories() {
		ids[c.ID()] = true
	}
	o.organizeAll(ids)
}
