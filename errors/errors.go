package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse   Phase = "parse"   // template text to syntax tree
	PhaseResolve Phase = "resolve" // name resolution
	PhaseBind    Phase = "bind"    // import binding and rewriting
	PhaseRules   Phase = "rules"   // rule-set loading
)

// Kind categorizes the error
type Kind string

const (
	KindSyntax           Kind = "syntax"
	KindUnresolved       Kind = "unresolved_reference"
	KindAmbiguousDynamic Kind = "ambiguous_dynamic_value"
	KindInvalidRule      Kind = "invalid_rule"
	KindInternal         Kind = "internal"
)

// Error is the structured error type used throughout the linker
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	File   string
	Name   string // the unresolvable or offending name
	Detail string
	Line   int
	Col    int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d, col %d", e.Line, e.Col)
	}

	if e.Name != "" {
		b.WriteString(": ")
		fmt.Fprintf(&b, "%q", e.Name)
	}

	if e.Detail != "" {
		if e.Name != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// File sets the template file the error occurred in
func (b *Builder) File(file string) *Builder {
	b.err.File = file
	return b
}

// At sets the source location
func (b *Builder) At(line, col int) *Builder {
	b.err.Line = line
	b.err.Col = col
	return b
}

// Name sets the offending name
func (b *Builder) Name(name string) *Builder {
	b.err.Name = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unresolved creates an unresolvable-reference error
func Unresolved(file, name, siteKind string, line, col int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnresolved,
		File:   file,
		Name:   name,
		Line:   line,
		Col:    col,
		Detail: fmt.Sprintf("no module implements this %s", siteKind),
	}
}

// AmbiguousDynamic creates an error for a dynamic value that the
// configuration requires to be statically known
func AmbiguousDynamic(file, valueKind string, line, col int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindAmbiguousDynamic,
		File:   file,
		Line:   line,
		Col:    col,
		Detail: fmt.Sprintf("%s value cannot be statically resolved", valueKind),
	}
}

// InvalidRule creates a rule-set loading error
func InvalidRule(name, detail string) *Error {
	return &Error{
		Phase:  PhaseRules,
		Kind:   KindInvalidRule,
		Name:   name,
		Detail: detail,
	}
}

// Internal creates an internal-consistency error
func Internal(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindInternal,
		Detail: fmt.Sprintf(detail, args...),
	}
}
