package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // processing failure (signature mismatch, aborted banks)
	ExitCommandError = 2 // command error (bad dump, unwritable output, bad flags)
)

// Error codes used in JSON error envelopes.
const (
	ErrCodeGeneric     = "E001" // unclassified error
	ErrCodeLoad        = "E101" // dump unreadable or schema-invalid
	ErrCodeConfig      = "E102" // thresholds config unreadable or malformed
	ErrCodeProtocol    = "E201" // strict-mode decoder mismatch
	ErrCodeReconstruct = "E301" // bank aborted during reconstruction
	ErrCodeVerify      = "E401" // signature mismatch
	ErrCodeWrite       = "E501" // output file could not be written
	ErrCodeCatalog     = "E601" // catalog database error
)

// ExitError carries a process exit code alongside the error message.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Non-ExitError values
// map to ExitFailure, nil to ExitSuccess.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the envelope for all JSON command output.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error half of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter renders command results as text or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer

	// ErrWriter receives verbose diagnostics so JSON output stays clean.
	// Falls back to Writer when nil.
	ErrWriter io.Writer
	Verbose   bool
}

// JSON encodes data inside an ok envelope with two-space indentation.
func (f *OutputFormatter) JSON(data any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(CLIResponse{Status: "ok", Data: data})
}

// JSONError encodes an error envelope. Data may carry a partial payload
// alongside the error, e.g. per-bank results when some banks failed.
func (f *OutputFormatter) JSONError(code, message string, data any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(CLIResponse{
		Status: "error",
		Data:   data,
		Error:  &CLIError{Code: code, Message: message},
	})
}

// TextError prints an error in the text format.
func (f *OutputFormatter) TextError(code, message string) {
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
}

// VerboseLog prints a diagnostic line when verbose mode is on.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
