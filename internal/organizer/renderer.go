package organizer

import (
	"github.com/sandeepkv93/todoer/internal/model"
	"github.com/sandeepkv93/todoer/internal/storage"
)

// Renderer is told about every state change using plain values. It is never
// asked for decisions.
type Renderer interface {
	TodoAdded(categoryID, todoID string)
	TodoRemoved(categoryID, todoID string)
	TodoDeleted(todoID string)
	TodoChanged(todoID string)
	CompletedToggled(todoID string, completed bool)
	DueLabelChanged(todoID, label string)
	OverdueMarked(todoID string)
	CategoryAdded(categoryID, name string)
	CategoryRenamed(categoryID, name string)
	CategoryDeleted(categoryID string)
	CategoryOrganized(categoryID string, order []string, filteredOut int)
}

// NopRenderer ignores every notification.
type NopRenderer struct{}

func (NopRenderer) TodoAdded(string, string)                {}
func (NopRenderer) TodoRemoved(string, string)              {}
func (NopRenderer) TodoDeleted(string)                      {}
func (NopRenderer) TodoChanged(string)                      {}
func (NopRenderer) CompletedToggled(string, bool)           {}
func (NopRenderer) DueLabelChanged(string, string)          {}
func (NopRenderer) OverdueMarked(string)                    {}
func (NopRenderer) CategoryAdded(string, string)            {}
func (NopRenderer) CategoryRenamed(string, string)          {}
func (NopRenderer) CategoryDeleted(string)                  {}
func (NopRenderer) CategoryOrganized(string, []string, int) {}

// memoryOnly is the persister used when none is configured.
type memoryOnly struct{}

func (memoryOnly) SaveTodo(*model.Todo)                         {}
func (memoryOnly) DeleteTodo(string)                            {}
func (memoryOnly) SaveCategory(model.Category)                  {}
func (memoryOnly) DeleteCategory(model.Category, []*model.Todo) {}
func (memoryOnly) MarkReturningUser()                           {}

func (memoryOnly) Load() (storage.Snapshot, error) {
	return storage.Snapshot{System: map[string]*model.SystemCategory{}}, nil
}
