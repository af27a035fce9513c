package organizer

import (
	"github.com/sandeepkv93/todoer/internal/dates"
	"github.com/sandeepkv93/todoer/internal/model"
)

// SweepResult counts what one sweep changed.
type SweepResult struct {
	Joined    int
	Left      int
	Relabeled int
	Overdue   int
}

func (r SweepResult) Changed() bool {
	return r.Joined+r.Left+r.Relabeled+r.Overdue > 0
}

// Sweep re-evaluates every todo against the current day. Todos move in and out
// of "today" and "this-week" as time passes, stale due labels are refreshed
// and overdue flags are raised. Overdue is only ever set here, never cleared.
func (o *Organizer) Sweep() SweepResult {
	now := o.now()
	var res SweepResult
	touched := make(map[string]bool)

	for _, todo := range o.all().Todos() {
		for _, window := range []struct {
			interval   dates.Interval
			categoryID string
		}{
			{dates.IntervalToday, model.CategoryToday},
			{dates.IntervalThisWeek, model.CategoryThisWeek},
		} {
			c, _ := o.Category(window.categoryID)
			in := dates.InInterval(window.interval, todo.DueDate(), now)
			switch {
			case in && !c.Contains(todo.ID()):
				if o.AddTodo(todo, c.ID()) {
					touched[c.ID()] = true
					res.Joined++
				}
			case !in && c.Contains(todo.ID()):
				if o.RemoveTodo(todo, c.ID()) {
					touched[c.ID()] = true
					res.Left++
				}
			}
		}

		changed := false
		if label := dates.FormatDue(todo.DueDate(), now); label != todo.MiniDueDate() {
			todo.SetMiniDueDate(label)
			o.render.DueLabelChanged(todo.ID(), label)
			res.Relabeled++
			changed = true
		}
		if !todo.Overdue() && dates.InInterval(dates.IntervalOverdue, todo.DueDate(), now) {
			todo.SetOverdue(true)
			o.render.OverdueMarked(todo.ID())
			res.Overdue++
			changed = true
		}
		if changed {
			o.persist.SaveTodo(todo)
		}
	}

	o.organizeAll(touched)
	if res.Changed() {
		o.logger.Debug("sweep", "joined", res.Joined, "left", res.Left, "relabeled", res.Relabeled, "overdue", res.Overdue)
	}
	return res
}
