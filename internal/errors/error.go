package errors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryTemplate  Category = "template"
	CategoryLifecycle Category = "lifecycle"
	CategoryConfig    Category = "config"
	CategoryData      Category = "data"
	CategoryProtocol  Category = "protocol"
)

// Location represents a source location inside a template or config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line == 0 {
		return l.File
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// BindError is a structured error with a code, source location and hint.
type BindError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source location where the error occurred.
	Location *Location

	// Context contains surrounding source lines, starting at line
	// ContextStart.
	Context      []string
	ContextStart int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BindError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *BindError by code.
func (e *BindError) Is(target error) bool {
	t, ok := target.(*BindError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithLocation adds a file location and reads the surrounding lines.
func (e *BindError) WithLocation(file string, line, column int) *BindError {
	e.Location = &Location{File: file, Line: line, Column: column}
	if f, err := os.Open(file); err == nil {
		e.Context, e.ContextStart = contextLines(f, line, contextRadius)
		f.Close()
	}
	return e
}

// WithSourceLocation adds a location inside in-memory source text. offset is
// a byte offset into src.
func (e *BindError) WithSourceLocation(name, src string, offset int) *BindError {
	line, col := 1, 1
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	e.Location = &Location{File: name, Line: line, Column: col}
	e.Context, e.ContextStart = contextLines(strings.NewReader(src), line, contextRadius)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *BindError) WithSuggestion(s string) *BindError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *BindError) WithDetail(d string) *BindError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *BindError) WithDetailf(format string, args ...any) *BindError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *BindError) Wrap(err error) *BindError {
	e.Wrapped = err
	return e
}

// contextRadius is the number of lines shown on each side of a location.
const contextRadius = 2

// contextLines returns the lines of r within radius of target and the
// number of the first one.
func contextLines(r io.Reader, target, radius int) ([]string, int) {
	start := max(target-radius, 1)
	end := target + radius

	var lines []string
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan() && n <= end; n++ {
		if n >= start {
			lines = append(lines, scanner.Text())
		}
	}
	if len(lines) == 0 {
		return nil, 0
	}
	return lines, start
}

// New creates a BindError from a registered error code.
func New(code string) *BindError {
	template, ok := registry[code]
	if !ok {
		return &BindError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &BindError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new BindError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BindError {
	return &BindError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BindError.
func FromError(err error, code string) *BindError {
	if err == nil {
		return nil
	}
	if be, ok := err.(*BindError); ok {
		return be
	}
	return New(code).Wrap(err)
}
