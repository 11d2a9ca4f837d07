package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rulestack/rulestack/internal/rule"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Reported domain failure (rule conflict, malformed documents)
	ExitCommandError = 2 // Command error (bad paths, unreachable remote, config errors)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// WrapKindError picks the exit code from the error's rule kind:
// unreachable remotes are command errors (transient, re-invoke), every
// other kind is a reported domain failure.
func WrapKindError(message string, err error) *ExitError {
	code := ExitFailure
	if rule.IsUnavailable(err) {
		code = ExitCommandError
	}
	return WrapExitError(code, message, err)
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
}

// Response is the standard JSON response format for CLI output.
type Response struct {
	Status string     `json:"status"`          // "ok" or "error"
	Data   any        `json:"data,omitempty"`  // success payload
	Error  *KindError `json:"error,omitempty"` // error details
}

// KindError is the error structure for CLI responses: the rule kind plus
// the offending identifier(s).
type KindError struct {
	Kind        string   `json:"kind"`
	Message     string   `json:"message"`
	Identifiers []string `json:"identifiers,omitempty"`
}

// Success outputs a successful result in the configured format.
// textRender produces the human-readable form; when nil, Data is printed
// with fmt.
func (f *OutputFormatter) Success(data any, textRender func(io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	if textRender != nil {
		textRender(f.Writer)
		return nil
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(err error) error {
	ke := toKindError(err)
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "error", Error: ke})
	}
	if len(ke.Identifiers) > 0 {
		fmt.Fprintf(f.Writer, "Error [%s]: %s (%s)\n", ke.Kind, ke.Message, strings.Join(ke.Identifiers, ", "))
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", ke.Kind, ke.Message)
	}
	return nil
}

// toKindError flattens any error into the response error shape.
func toKindError(err error) *KindError {
	var re *rule.Error
	if errors.As(err, &re) {
		ids := make([]string, 0, 1+len(re.Conflicting))
		if re.Identifier != "" {
			ids = append(ids, re.Identifier)
		}
		ids = append(ids, re.Conflicting...)
		return &KindError{
			Kind:        string(re.Kind),
			Message:     re.Message,
			Identifiers: ids,
		}
	}
	return &KindError{Kind: "ERROR", Message: err.Error()}
}
