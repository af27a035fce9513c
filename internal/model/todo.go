package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownField    = errors.New("model: unknown todo field")
	ErrFieldType       = errors.New("model: wrong value type for todo field")
	ErrInvalidPriority = errors.New("model: invalid todo priority")
)

type Priority int

const (
	PriorityNone  Priority = 0
	PriorityOne   Priority = 1
	PriorityTwo   Priority = 2
	PriorityThree Priority = 3
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityOne, PriorityTwo, PriorityThree:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	if p == PriorityNone {
		return ""
	}
	return fmt.Sprintf("P%d", int(p))
}

type Field string

const (
	FieldID           Field = "id"
	FieldTitle        Field = "title"
	FieldDescription  Field = "description"
	FieldPriority     Field = "priority"
	FieldDueDate      Field = "dueDate"
	FieldMiniDueDate  Field = "miniDueDate"
	FieldCategoryID   Field = "categoryId"
	FieldCategoryName Field = "categoryName"
	FieldCompleted    Field = "completedStatus"
	FieldCreationDate Field = "creationDate"
	FieldOverdue      Field = "overdueStatus"
	FieldFilteredOut  Field = "filteredOut"
	FieldIndex        Field = "index"
)

// TodoInput carries the user-supplied values of a new todo. Zero values mean
// "not set".
type TodoInput struct {
	Title        string
	Description  string
	Priority     Priority
	DueDate      string
	MiniDueDate  string
	CategoryID   string
	CategoryName string
	Completed    bool
	Overdue      bool
}

// Todo is a single todo item. It is not safe for concurrent use.
type Todo struct {
	id           string
	title        string
	description  string
	priority     Priority
	dueDate      string
	miniDueDate  string
	categoryID   string
	categoryName string
	completed    bool
	creationDate time.Time
	overdue      bool

	// Transient, owned by the category that last organized this todo.
	filteredOut bool
	index       int
}

func NewTodo(in TodoInput, now time.Time) *Todo {
	return &Todo{
		id:           uuid.NewString(),
		title:        in.Title,
		description:  in.Description,
		priority:     in.Priority,
		dueDate:      in.DueDate,
		miniDueDate:  in.MiniDueDate,
		categoryID:   in.CategoryID,
		categoryName: in.CategoryName,
		completed:    in.Completed,
		creationDate: now,
		overdue:      in.Overdue,
	}
}

func (t *Todo) ID() string              { return t.id }
func (t *Todo) Title() string           { return t.title }
func (t *Todo) Description() string     { return t.description }
func (t *Todo) Priority() Priority      { return t.priority }
func (t *Todo) DueDate() string         { return t.dueDate }
func (t *Todo) MiniDueDate() string     { return t.miniDueDate }
func (t *Todo) CategoryID() string      { return t.categoryID }
func (t *Todo) CategoryName() string    { return t.categoryName }
func (t *Todo) Completed() bool         { return t.completed }
func (t *Todo) CreationDate() time.Time { return t.creationDate }
func (t *Todo) Overdue() bool           { return t.overdue }
func (t *Todo) FilteredOut() bool       { return t.filteredOut }
func (t *Todo) Index() int              { return t.index }

func (t *Todo) SetTitle(v string)        { t.title = v }
func (t *Todo) SetDescription(v string)  { t.description = v }
func (t *Todo) SetPriority(v Priority)   { t.priority = v }
func (t *Todo) SetDueDate(v string)      { t.dueDate = v }
func (t *Todo) SetMiniDueDate(v string)  { t.miniDueDate = v }
func (t *Todo) SetCompleted(v bool)      { t.completed = v }
func (t *Todo) SetOverdue(v bool)        { t.overdue = v }
func (t *Todo) setFilteredOut(v bool)    { t.filteredOut = v }
func (t *Todo) setIndex(v int)           { t.index = v }
func (t *Todo) SetCategory(id, name string) {
	t.categoryID = id
	t.categoryName = name
}

// ClearCategory detaches the todo from its user category.
func (t *Todo) ClearCategory() {
	t.categoryID = ""
	t.categoryName = ""
}

func (t *Todo) ToggleCompletedStatus() {
	t.completed = !t.completed
}

// HasAdditionalInfo reports whether anything beyond the title is set.
func (t *Todo) HasAdditionalInfo() bool {
	return strings.TrimSpace(t.description) != "" ||
		t.priority != PriorityNone ||
		t.dueDate != "" ||
		t.categoryID != ""
}

// Get returns the current value of field, or nil for an unknown field.
func (t *Todo) Get(field Field) any {
	switch field {
	case FieldID:
		return t.id
	case FieldTitle:
		return t.title
	case FieldDescription:
		return t.description
	case FieldPriority:
		return t.priority
	case FieldDueDate:
		return t.dueDate
	case FieldMiniDueDate:
		return t.miniDueDate
	case FieldCategoryID:
		return t.categoryID
	case FieldCategoryName:
		return t.categoryName
	case FieldCompleted:
		return t.completed
	case FieldCreationDate:
		return t.creationDate
	case FieldOverdue:
		return t.overdue
	case FieldFilteredOut:
		return t.filteredOut
	case FieldIndex:
		return t.index
	default:
		return nil
	}
}

// Set overwrites field with value. The id and creation date are immutable and
// setting them is a no-op. An unknown field or a value of the wrong type is an
// error.
func (t *Todo) Set(field Field, value any) error {
	switch field {
	case FieldID, FieldCreationDate:
		return nil
	case FieldTitle:
		return setString(field, value, &t.title)
	case FieldDescription:
		return setString(field, value, &t.description)
	case FieldDueDate:
		return setString(field, value, &t.dueDate)
	case FieldMiniDueDate:
		return setString(field, value, &t.miniDueDate)
	case FieldCategoryID:
		return setString(field, value, &t.categoryID)
	case FieldCategoryName:
		return setString(field, value, &t.categoryName)
	case FieldCompleted:
		return setBool(field, value, &t.completed)
	case FieldOverdue:
		return setBool(field, value, &t.overdue)
	case FieldFilteredOut:
		return setBool(field, value, &t.filteredOut)
	case FieldPriority:
		var p Priority
		switch v := value.(type) {
		case Priority:
			p = v
		case int:
			p = Priority(v)
		default:
			return fmt.Errorf("%w: %s got %T", ErrFieldType, field, value)
		}
		if !p.IsValid() {
			return fmt.Errorf("%w: %d", ErrInvalidPriority, p)
		}
		t.priority = p
		return nil
	case FieldIndex:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: %s got %T", ErrFieldType, field, value)
		}
		t.index = v
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

func setString(field Field, value any, dst *string) error {
	v, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %s got %T", ErrFieldType, field, value)
	}
	*dst = v
	return nil
}

func setBool(field Field, value any, dst *bool) error {
	v, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%w: %s got %T", ErrFieldType, field, value)
	}
	*dst = v
	return nil
}

// TodoRecord is the plain-data form of a Todo. The filtered-out mark and the
// index depend on the last organize pass and are not recorded.
type TodoRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Priority     Priority  `json:"priority"`
	DueDate      string    `json:"dueDate"`
	MiniDueDate  string    `json:"miniDueDate"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Completed    bool      `json:"completedStatus"`
	CreationDate time.Time `json:"creationDate"`
	Overdue      bool      `json:"overdueStatus"`
}

func (t *Todo) Record() TodoRecord {
	return TodoRecord{
		ID:           t.id,
		Title:        t.title,
		Description:  t.description,
		Priority:     t.priority,
		DueDate:      t.dueDate,
		MiniDueDate:  t.miniDueDate,
		CategoryID:   t.categoryID,
		CategoryName: t.categoryName,
		Completed:    t.completed,
		CreationDate: t.creationDate,
		Overdue:      t.overdue,
	}
}

func (r TodoRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: todo id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("model: todo title is required")
	}
	if !r.Priority.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, r.Priority)
	}
	if r.CreationDate.IsZero() {
		return errors.New("model: todo creationDate is required")
	}
	return nil
}

// TodoFromRecord rebuilds a Todo, keeping the recorded id and creation date.
func TodoFromRecord(r TodoRecord) (*Todo, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Todo{
		id:           r.ID,
		title:        r.Title,
		description:  r.Description,
		priority:     r.Priority,
		dueDate:      r.DueDate,
		miniDueDate:  r.MiniDueDate,
		categoryID:   r.CategoryID,
		categoryName: r.CategoryName,
		completed:    r.Completed,
		creationDate: r.CreationDate,
		overdue:      r.Overdue,
	}, nil
}
