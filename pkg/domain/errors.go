package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ToolError.
type ErrorKind string

const (
	// KindValidation marks arguments that do not satisfy the tool's input schema.
	KindValidation ErrorKind = "validation"
	// KindBackend marks failures reported by, or while reaching, the backend service.
	KindBackend ErrorKind = "backend"
	// KindUnknownTool marks calls naming a tool that is not registered.
	KindUnknownTool ErrorKind = "unknown_tool"
	// KindInternal marks anything else, including recovered panics.
	KindInternal ErrorKind = "internal"
)

// ToolError is a recoverable fault raised while handling a single tool call.
// The dispatcher converts it into an error-flagged result.
type ToolError struct {
	Tool    string
	Kind    ErrorKind
	Message string
	Err     error
}

// NewToolError builds a ToolError. The message is what the caller sees.
func NewToolError(tool string, kind ErrorKind, message string, err error) *ToolError {
	return &ToolError{Tool: tool, Kind: kind, Message: message, Err: err}
}

func (e *ToolError) Error() string {
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// AsToolError converts any error into a ToolError for the given tool.
// Errors that already are ToolErrors are returned as-is.
func AsToolError(tool string, err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	return NewToolError(tool, KindInternal, err.Error(), err)
}

// StartupError is an unrecoverable fault raised while the process boots
// (missing credentials, unusable configuration, transport binding).
type StartupError struct {
	Stage string
	Err   error
}

// NewStartupError wraps err as a fatal fault raised during the given stage.
func NewStartupError(stage string, err error) *StartupError {
	return &StartupError{Stage: stage, Err: err}
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed (%s): %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// IsStartupError reports whether err carries a StartupError.
func IsStartupError(err error) bool {
	var se *StartupError
	return errors.As(err, &se)
}
