package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse  Phase = "parse"  // wasm object decoding
	PhaseLink   Phase = "link"   // symbol resolution and merging
	PhaseEmit   Phase = "emit"   // output encoding and writing
	PhaseVerify Phase = "verify" // post-link validation
	PhaseFlags  Phase = "flags"  // module-flag handling
	PhaseInit   Phase = "init"   // backend initialization
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData      Kind = "invalid_data"
	KindUnsupported      Kind = "unsupported"
	KindDuplicateSymbol  Kind = "duplicate_symbol"
	KindUnresolvedImport Kind = "unresolved_import"
	KindConflict         Kind = "conflict"
	KindNotFound         Kind = "not_found"
	KindUsage            Kind = "usage"
	KindIO               Kind = "io"
	KindRegistration     Kind = "registration"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Object string // input file or module the error belongs to, if any
	Symbol string // symbol or flag key the error belongs to, if any
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Object != "" {
		b.WriteString(" in ")
		b.WriteString(e.Object)
	}

	if e.Symbol != "" {
		b.WriteString(": ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// InvalidData creates an invalid data error
func InvalidData(phase Phase, object, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Object: object,
		Detail: detail,
	}
}

// Unsupported creates an unsupported feature error
func Unsupported(phase Phase, object, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Object: object,
		Detail: what,
	}
}

// DuplicateSymbol creates a duplicate symbol definition error
func DuplicateSymbol(symbol, firstObject, secondObject string) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindDuplicateSymbol,
		Object: secondObject,
		Symbol: symbol,
		Detail: fmt.Sprintf("already defined in %s", firstObject),
	}
}

// UnresolvedImport creates an unresolved import error
func UnresolvedImport(object, module, name string) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindUnresolvedImport,
		Object: object,
		Symbol: module + "." + name,
		Detail: "no input defines this symbol",
	}
}

// Conflict creates a merge conflict error
func Conflict(phase Phase, symbol, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConflict,
		Symbol: symbol,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Usage creates a command-line usage error
func Usage(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindUsage,
		Detail: detail,
	}
}

// IO wraps a filesystem error
func IO(phase Phase, object string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Object: object,
		Cause:  cause,
	}
}

// Registration creates a backend registration error
func Registration(name, detail string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindRegistration,
		Symbol: name,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
