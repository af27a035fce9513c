package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/todoer/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeDelete   Type = "delete"
	TypeEdit     Type = "edit"
	TypeSort     Type = "sort"
	TypeFilter   Type = "filter"
	TypeSearch   Type = "search"
	TypeCategory Type = "cat"
	TypeGoto     Type = "goto"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeNotFound        ErrorCode = "not_found"
	ErrCodeRejected        ErrorCode = "rejected"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs carries the raw due expression; it is resolved against the clock by
// the handler.
type AddArgs struct {
	Title    string
	Due      string
	Priority model.Priority
	Category string
}

type EditField string

const (
	EditTitle       EditField = "title"
	EditDescription EditField = "desc"
	EditDue         EditField = "due"
	EditPriority    EditField = "p"
	EditCategory    EditField = "cat"
)

var editAliases = map[string]EditField{
	"title":       EditTitle,
	"desc":        EditDescription,
	"description": EditDescription,
	"due":         EditDue,
	"p":           EditPriority,
	"priority":    EditPriority,
	"cat":         EditCategory,
	"category":    EditCategory,
}

type EditArgs struct {
	Field EditField
	Value string
	// Priority is set when Field is EditPriority.
	Priority model.Priority
}

type SortArgs struct {
	Mode model.SortMode
}

type FilterArgs struct {
	Mode model.FilterMode
}

type SearchArgs struct {
	Query string
}

type CategoryAction string

const (
	CategoryNew    CategoryAction = "new"
	CategoryRename CategoryAction = "rename"
	CategoryDelete CategoryAction = "delete"
)

type CategoryArgs struct {
	Action CategoryAction
	Name   string
}

type GotoArgs struct {
	Category string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Edit     *EditArgs
	Sort     *SortArgs
	Filter   *FilterArgs
	Search   *SearchArgs
	Category *CategoryArgs
	Goto     *GotoArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeDelete:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeEdit:
		return parseEdit(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeCategory:
		return parseCategory(input, args)
	case TypeGoto:
		if len(args) == 0 {
			return Command{}, invalid("goto requires a category")
		}
		return Command{Type: TypeGoto, Raw: input, Goto: &GotoArgs{Category: strings.Join(args, " ")}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "add <title words> [due:<when>] [p:<1-3>] [cat:<name>]".
// Options may appear anywhere after the command.
func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	title := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		switch strings.ToLower(key) {
		case "due":
			if ok {
				out.Due = value
				continue
			}
		case "p":
			if ok {
				p, err := parsePriority(value)
				if err != nil {
					return Command{}, err
				}
				out.Priority = p
				continue
			}
		case "cat":
			if ok {
				out.Category = value
				continue
			}
		}
		title = append(title, arg)
	}
	out.Title = strings.TrimSpace(strings.Join(title, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parsePriority(value string) (model.Priority, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" || v == "none" || v == "-" {
		return model.PriorityNone, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(v, "p"))
	if err != nil || !model.Priority(n).IsValid() {
		return model.PriorityNone, invalid("priority must be 1, 2, 3 or none: %q", value)
	}
	return model.Priority(n), nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("edit requires a field: title, desc, due, p or cat")
	}
	field, ok := editAliases[strings.ToLower(args[0])]
	if !ok {
		return Command{}, invalid("unknown field %q", args[0])
	}
	out := EditArgs{Field: field, Value: strings.TrimSpace(strings.Join(args[1:], " "))}
	switch field {
	case EditTitle:
		if out.Value == "" {
			return Command{}, invalid("title cannot be empty")
		}
	case EditPriority:
		p, err := parsePriority(out.Value)
		if err != nil {
			return Command{}, err
		}
		out.Priority = p
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &out}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("sort requires one of %v", model.SortModes())
	}
	mode, err := model.ParseSortMode(args[0])
	if err != nil {
		return Command{}, invalid("%v", err)
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Mode: mode}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("filter requires one of %v", model.FilterModes())
	}
	mode, err := model.ParseFilterMode(args[0])
	if err != nil {
		return Command{}, invalid("%v", err)
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Mode: mode}}, nil
}

func parseCategory(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("cat requires new, rename or delete")
	}
	action := CategoryAction(strings.ToLower(args[0]))
	name := strings.TrimSpace(strings.Join(args[1:], " "))
	switch action {
	case CategoryNew, CategoryRename:
		if name == "" {
			return Command{}, invalid("cat %s requires a name", action)
		}
	case CategoryDelete:
	default:
		return Command{}, invalid("unknown cat action %q", args[0])
	}
	return Command{Type: TypeCategory, Raw: raw, Category: &CategoryArgs{Action: action, Name: name}}, nil
}
