package tools

import (
	"errors"
	"fmt"
)

// Sentinel errors for the tool registry and dispatcher.
var (
	ErrUnknownTool       = errors.New("unknown tool")
	ErrMissingArgument   = errors.New("missing required argument")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrEmptyName         = errors.New("tool name is empty")
	ErrAlreadyRegistered = errors.New("tool already registered")
)

// UnknownToolError is returned by Call when no tool with the requested name is registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

func (e *UnknownToolError) Unwrap() error {
	return ErrUnknownTool
}

// ArgumentError describes a tool argument that failed validation.
// Err is ErrMissingArgument or ErrInvalidArgument.
type ArgumentError struct {
	Tool     string
	Argument string
	Err      error
	Detail   string
}

func (e *ArgumentError) Error() string {
	msg := fmt.Sprintf("tool %s: %v: %s", e.Tool, e.Err, e.Argument)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// IsArgumentError reports whether err was caused by bad tool input.
func IsArgumentError(err error) bool {
	return errors.Is(err, ErrMissingArgument) || errors.Is(err, ErrInvalidArgument)
}
