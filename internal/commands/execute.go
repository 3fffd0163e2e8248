package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Done    func(PositionArgs) (Result, error)
	Remove  func(PositionArgs) (Result, error)
	Move    func(MoveArgs) (Result, error)
	New     func(NameArgs) (Result, error)
	Switch  func(NameArgs) (Result, error)
	Suggest func(SuggestArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Done)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remove(*cmd.Remove)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Move(*cmd.Move)
	case TypeNew:
		if handlers.New == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.New(*cmd.New)
	case TypeSwitch:
		if handlers.Switch == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Switch(*cmd.Switch)
	case TypeSuggest:
		if handlers.Suggest == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Suggest(*cmd.Suggest)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
