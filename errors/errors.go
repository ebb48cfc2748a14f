package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // container bytes to document
	PhaseEncode   Phase = "encode"   // document to container bytes
	PhaseMetadata Phase = "metadata" // transform metadata resolution
	PhaseTree     Phase = "tree"     // transform tree construction
	PhaseMerge    Phase = "merge"    // component re-indexing and attach
	PhaseCombine  Phase = "combine"  // driver orchestration
	PhaseStorage  Phase = "storage"  // component file retrieval
)

// Kind categorizes the error
type Kind string

const (
	KindFormat         Kind = "format"          // malformed binary container
	KindMetadataFormat Kind = "metadata_format" // unparseable transform metadata
	KindGraphIntegrity Kind = "graph_integrity" // broken graph or document references
	KindValidation     Kind = "validation"      // invalid combine input
	KindNotFound       Kind = "not_found"       // missing storage object
	KindInternal       Kind = "internal"        // invariant violation
)

// Error is the structured error type used throughout the engine
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Key    string
	Detail string
	Path   []string
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

	if e.Key != "" {
		b.WriteString(": key ")
		b.WriteString(e.Key)
	}

	if e.Detail != "" {
		if e.Key != "" {
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Key sets the storage key the error relates to
func (b *Builder) Key(key string) *Builder {
	b.err.Key = key
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

// Convenience constructors for common error patterns

// Format creates a malformed-container error for the given storage key
func Format(phase Phase, key string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindFormat,
		Key:   key,
		Cause: cause,
	}
}

// MetadataFormat creates an unparseable transform metadata error
func MetadataFormat(path []string, detail string, value any) *Error {
	return &Error{
		Phase:  PhaseMetadata,
		Kind:   KindMetadataFormat,
		Path:   path,
		Detail: detail,
		Value:  value,
	}
}

// GraphIntegrity creates a broken-reference error
func GraphIntegrity(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindGraphIntegrity,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Validation creates an invalid-input error
func Validation(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseCombine,
		Kind:   KindValidation,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// NotFound creates a missing-storage-object error
func NotFound(key string, cause error) *Error {
	return &Error{
		Phase: PhaseStorage,
		Kind:  KindNotFound,
		Key:   key,
		Cause: cause,
	}
}

// OutOfBounds creates a reference-out-of-range error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindGraphIntegrity,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Internal creates an invariant-violation error
func Internal(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Kind predicates for callers that only care about the category.

// IsFormat reports whether err is a malformed-container error.
func IsFormat(err error) bool { return isKind(err, KindFormat) }

// IsMetadataFormat reports whether err is a transform metadata error.
func IsMetadataFormat(err error) bool { return isKind(err, KindMetadataFormat) }

// IsGraphIntegrity reports whether err is a broken-reference error.
func IsGraphIntegrity(err error) bool { return isKind(err, KindGraphIntegrity) }

// IsValidation reports whether err is an invalid-input error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotFound reports whether err is a missing-storage-object error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

func isKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
