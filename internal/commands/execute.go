package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func() (Result, error)
	Delete   func() (Result, error)
	Edit     func(EditArgs) (Result, error)
	Sort     func(SortArgs) (Result, error)
	Filter   func(FilterArgs) (Result, error)
	Search   func(SearchArgs) (Result, error)
	Category func(CategoryArgs) (Result, error)
	Goto     func(GotoArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing("done")
		}
		return handlers.Done()
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing("delete")
		}
		return handlers.Delete()
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, missing("edit")
		}
		return handlers.Edit(*cmd.Edit)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, missing("sort")
		}
		return handlers.Sort(*cmd.Sort)
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missing("filter")
		}
		return handlers.Filter(*cmd.Filter)
	case TypeSearch:
		if handlers.Search == nil {
			return Result{}, missing("search")
		}
		return handlers.Search(*cmd.Search)
	case TypeCategory:
		if handlers.Category == nil {
			return Result{}, missing("cat")
		}
		return handlers.Category(*cmd.Category)
	case TypeGoto:
		if handlers.Goto == nil {
			return Result{}, missing("goto")
		}
		return handlers.Goto(*cmd.Goto)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
