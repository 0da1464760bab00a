package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes a script execution failure.
type Kind string

const (
	KindCompile    Kind = "compile"    // parse/compile failure
	KindRuntime    Kind = "runtime"    // uncaught thrown value
	KindTerminated Kind = "terminated" // aborted via TerminateExecution
)

// TerminatedMessage is the fixed sentinel message reported when execution is
// aborted by a termination request. Callers match on it to distinguish
// cancellation from a script-level throw.
const TerminatedMessage = "ExecutionTerminated: script execution has been terminated"

// Error is the structured error record returned by RunScript.
type Error struct {
	Cause    error
	Location *string
	Stack    *string
	Message  string
	Kind     Kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteString("] ")
	b.WriteString(e.Message)

	if e.Location != nil {
		b.WriteString(" at ")
		b.WriteString(*e.Location)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when their
// kinds are equal, so errors.Is(err, &Error{Kind: KindTerminated}) detects
// cancellation regardless of the rest of the record.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// HasLocation reports whether a source location was attached.
func (e *Error) HasLocation() bool { return e.Location != nil }

// HasStack reports whether a stack trace was attached.
func (e *Error) HasStack() bool { return e.Stack != nil }

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder for the given kind.
func New(kind Kind) *Builder {
	return &Builder{
		err: Error{
			Kind: kind,
		},
	}
}

// Message sets the error message.
func (b *Builder) Message(msg string) *Builder {
	b.err.Message = msg
	return b
}

// Messagef sets the error message from a format string.
func (b *Builder) Messagef(format string, args ...any) *Builder {
	b.err.Message = fmt.Sprintf(format, args...)
	return b
}

// Location attaches a source location. An empty string is still "present";
// callers that have no location simply never call Location.
func (b *Builder) Location(loc string) *Builder {
	b.err.Location = &loc
	return b
}

// Stack attaches a formatted stack trace.
func (b *Builder) Stack(trace string) *Builder {
	b.err.Stack = &trace
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the three failure kinds.

// Compile creates a compile-failure error. loc may be empty, in which case
// no location is attached. Compile errors never carry a stack trace.
func Compile(message, loc string) *Error {
	err := &Error{
		Kind:    KindCompile,
		Message: message,
	}
	if loc != "" {
		err.Location = &loc
	}
	return err
}

// Runtime creates an uncaught-exception error.
func Runtime(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Terminated creates the cancellation error. Its message is exactly
// TerminatedMessage; location and stack are always absent.
func Terminated() *Error {
	return &Error{
		Kind:    KindTerminated,
		Message: TerminatedMessage,
	}
}

// IsTerminated reports whether err represents aborted execution.
func IsTerminated(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindTerminated
}

// FormatLocation renders a source position as "resource:line:column".
// Line and column are 1-based; a non-positive piece is omitted rather than
// rendered as zero, so a failure with no column yields "resource:line" and
// one with neither yields just the resource name.
func FormatLocation(resource string, line, column int) string {
	var b strings.Builder
	b.WriteString(resource)
	if line > 0 {
		fmt.Fprintf(&b, ":%d", line)
		if column > 0 {
			fmt.Fprintf(&b, ":%d", column)
		}
	}
	return b.String()
}
