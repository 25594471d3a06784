// Package errutil defines the structured error type shared by all tools.
// Tool errors are designed to be folded back into the model conversation as
// data, so they carry a stable machine code, a human message, actionable
// suggestions, and a context map for diagnostics.
package errutil

import "fmt"

// Code is a stable machine-readable error code.
type Code string

const (
	CodeFileNotFound     Code = "file_not_found"
	CodePermissionDenied Code = "permission_denied"
	CodeInvalidPath      Code = "invalid_path"
	CodeFileTooLarge     Code = "file_too_large"
	CodeInvalidRegex     Code = "invalid_regex"
	CodeGitError         Code = "git_error"
	CodeSubprocessError  Code = "subprocess_error"
	CodeUnknownFunction  Code = "function_not_found"
	CodeMaxIterations    Code = "max_iterations_reached"

	// CodeToolExecution marks unclassified failures caught at the dispatch
	// boundary, folded back with bounded diagnostic detail.
	CodeToolExecution Code = "tool_execution_error"
)

// ToolError is the structured error returned by tool operations.
type ToolError struct {
	Code        Code
	Message     string
	Suggestions []string
	Context     map[string]any
}

// New creates a ToolError with the given code and message.
func New(code Code, message string) *ToolError {
	return &ToolError{Code: code, Message: message}
}

// WithSuggestions attaches actionable suggestions and returns the error.
func (e *ToolError) WithSuggestions(suggestions ...string) *ToolError {
	e.Suggestions = suggestions
	return e
}

// WithContext attaches a diagnostic key/value pair and returns the error.
func (e *ToolError) WithContext(key string, value any) *ToolError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Map serialises the error for model consumption. The key names form the
// wire contract for folded tool errors and must stay stable.
func (e *ToolError) Map() map[string]any {
	suggestions := e.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	context := e.Context
	if context == nil {
		context = map[string]any{}
	}
	return map[string]any{
		"error_code":  string(e.Code),
		"message":     e.Message,
		"suggestions": suggestions,
		"context":     context,
	}
}
