// Package commands parses and dispatches the TUI command palette.
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/chronos/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeRemove  Type = "rm"
	TypeMove    Type = "move"
	TypeNew     Type = "new"
	TypeSwitch  Type = "switch"
	TypeSuggest Type = "suggest"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeNotFound        ErrorCode = "not_found"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs is "add <title> <HH:MM>-<HH:MM>".
type AddArgs struct {
	Draft model.TaskDraft
}

// PositionArgs addresses a task by its 1-based position in the list.
type PositionArgs struct {
	Position int
}

type MoveArgs struct {
	From int
	To   int
}

type NameArgs struct {
	Name string
}

type SuggestArgs struct {
	Activity string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Done    *PositionArgs
	Remove  *PositionArgs
	Move    *MoveArgs
	New     *NameArgs
	Switch  *NameArgs
	Suggest *SuggestArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		pos, err := parsePosition(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDone, Raw: input, Done: &pos}, nil
	case TypeRemove:
		pos, err := parsePosition(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeRemove, Raw: input, Remove: &pos}, nil
	case TypeMove:
		return parseMove(input, args)
	case TypeNew:
		name, err := joinRequired(head, "a schedule name", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeNew, Raw: input, New: &NameArgs{Name: name}}, nil
	case TypeSwitch:
		name, err := joinRequired(head, "a schedule name", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeSwitch, Raw: input, Switch: &NameArgs{Name: name}}, nil
	case TypeSuggest:
		activity, err := joinRequired(head, "an activity description", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeSuggest, Raw: input, Suggest: &SuggestArgs{Activity: activity}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title and HH:MM-HH:MM"}
	}
	span := args[len(args)-1]
	start, end, ok := strings.Cut(span, "-")
	if !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid time range %q, want HH:MM-HH:MM", span)}
	}
	draft := model.TaskDraft{
		Title:     strings.Join(args[:len(args)-1], " "),
		StartTime: start,
		EndTime:   end,
	}
	if err := draft.Validate(); err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Draft: draft}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires <from> <to>"}
	}
	from, err := parseIndex("move", args[0])
	if err != nil {
		return Command{}, err
	}
	to, err := parseIndex("move", args[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{From: from, To: to}}, nil
}

func parsePosition(head string, args []string) (PositionArgs, error) {
	if len(args) != 1 {
		return PositionArgs{}, &CommandError{Code: ErrCodeInvalidArgument, Message: head + " requires a task number"}
	}
	n, err := parseIndex(head, args[0])
	if err != nil {
		return PositionArgs{}, err
	}
	return PositionArgs{Position: n}, nil
}

func parseIndex(head, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s: %q is not a task number", head, raw)}
	}
	return n, nil
}

func joinRequired(head, what string, args []string) (string, error) {
	joined := strings.TrimSpace(strings.Join(args, " "))
	if joined == "" {
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires %s", head, what)}
	}
	return joined, nil
}
