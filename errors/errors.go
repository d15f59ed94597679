package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDeclare Phase = "declare" // field declaration parsing
	PhaseBind    Phase = "bind"    // pointer field binding
	PhaseResolve Phase = "resolve" // forward reference resolution
	PhaseCompile Phase = "compile" // layout compilation
	PhaseAccess  Phase = "access"  // instance field access
	PhaseQuery   Phase = "query"   // offset queries
	PhaseLoad    Phase = "load"    // schema loading
	PhaseFormat  Phase = "format"  // value formatting
	PhaseMemory  Phase = "memory"  // linear memory operations
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidDeclaration Kind = "invalid_declaration"
	KindUnresolvedTarget   Kind = "unresolved_target"
	KindTypeMismatch       Kind = "type_mismatch"
	KindAlreadyResolved    Kind = "already_resolved"
	KindFieldNotFound      Kind = "field_not_found"
	KindDanglingForward    Kind = "dangling_forward"
	KindUnknownPlaceholder Kind = "unknown_placeholder"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindAllocation         Kind = "allocation"
	KindOverflow           Kind = "overflow"
	KindNilPointer         Kind = "nil_pointer"
	KindInvalidEnum        Kind = "invalid_enum"
	KindInvalidData        Kind = "invalid_data"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Record   string
	Expected string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Record != "" || e.Expected != "" {
		b.WriteString(": ")
		if e.Record != "" && e.Expected != "" {
			b.WriteString("record ")
			b.WriteString(e.Record)
			b.WriteString(", expected ")
			b.WriteString(e.Expected)
		} else if e.Record != "" {
			b.WriteString("record ")
			b.WriteString(e.Record)
		} else {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
		}
	}

	if e.Detail != "" {
		if e.Record != "" || e.Expected != "" {
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

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Record sets the record type name
func (b *Builder) Record(name string) *Builder {
	b.err.Record = name
	return b
}

// Expected sets the expected type name
func (b *Builder) Expected(name string) *Builder {
	b.err.Expected = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// Kind sentinels for errors.Is checks that do not care about the phase.
var (
	ErrInvalidDeclaration = &Error{Kind: KindInvalidDeclaration}
	ErrUnresolvedTarget   = &Error{Kind: KindUnresolvedTarget}
	ErrTypeMismatch       = &Error{Kind: KindTypeMismatch}
	ErrAlreadyResolved    = &Error{Kind: KindAlreadyResolved}
	ErrFieldNotFound      = &Error{Kind: KindFieldNotFound}
	ErrDanglingForward    = &Error{Kind: KindDanglingForward}
)

// Convenience constructors for common error patterns

// InvalidDeclaration creates a malformed declaration error
func InvalidDeclaration(record string, path []string, detail string, args ...any) *Error {
	return New(PhaseDeclare, KindInvalidDeclaration).
		Record(record).
		Path(path...).
		Detail(detail, args...).
		Build()
}

// UnresolvedTarget creates an error for a pointer whose placeholder is still pending
func UnresolvedTarget(record, field, placeholder string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindUnresolvedTarget,
		Record: record,
		Path:   []string{field},
		Detail: fmt.Sprintf("forward reference %q is not resolved", placeholder),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, expected string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		Record:   got,
		Expected: expected,
	}
}

// AlreadyResolved creates an error for a second resolution of a placeholder
func AlreadyResolved(placeholder, target string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindAlreadyResolved,
		Record: target,
		Detail: fmt.Sprintf("forward reference %q already resolved", placeholder),
	}
}

// FieldNotFound creates a missing field error
func FieldNotFound(phase Phase, record, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldNotFound,
		Record: record,
		Detail: fmt.Sprintf("field %q not found", fieldName),
		Value:  fieldName,
	}
}

// DanglingForward creates an error listing placeholders never resolved
func DanglingForward(names []string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindDanglingForward,
		Detail: fmt.Sprintf("unresolved forward references: %s", strings.Join(names, ", ")),
		Value:  names,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, addr, size uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("address %#x (size %d) out of bounds", addr, size),
		Value:  addr,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		Path:     path,
		Expected: target,
		Detail:   fmt.Sprintf("value %v overflows %s", value, target),
		Value:    value,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Detail: "nil " + what,
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, value any, enumType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidEnum,
		Expected: enumType,
		Detail:   fmt.Sprintf("invalid enum value %v for %s", value, enumType),
		Value:    value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
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
