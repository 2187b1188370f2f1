package schema

import (
	"errors"
	"fmt"
)

// ErrKind categorises a schema validation failure. Every error returned by
// this package carries exactly one kind; callers inspect it through the Is*
// predicates rather than matching message text.
type ErrKind int

const (
	ErrKindUnknown ErrKind = iota

	// Identifier violations.
	ErrKindNotAString          // a name was not a string value
	ErrKindMustStartWithLetter // empty name, or first character not a letter
	ErrKindInvalidCharacters   // a character outside [A-Za-z0-9_]
	ErrKindDuplicateName       // name already taken in its scope

	// Foreign-key integrity violations.
	ErrKindSelfReferencingForeignKey // column references its own table
	ErrKindUnknownForeignKeyTarget   // column references a table not in the schema

	// Type and input-shape violations.
	ErrKindUnsupportedColumnType // neither a primitive nor a table reference
	ErrKindNotIterable           // the table-definition input cannot be traversed
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotAString:
		return "not_a_string"
	case ErrKindMustStartWithLetter:
		return "must_start_with_letter"
	case ErrKindInvalidCharacters:
		return "invalid_characters"
	case ErrKindDuplicateName:
		return "duplicate_name"
	case ErrKindSelfReferencingForeignKey:
		return "self_referencing_foreign_key"
	case ErrKindUnknownForeignKeyTarget:
		return "unknown_foreign_key_target"
	case ErrKindUnsupportedColumnType:
		return "unsupported_column_type"
	case ErrKindNotIterable:
		return "not_iterable"
	default:
		return "unknown"
	}
}

// SchemaError is the single error type returned by schema validation and
// construction. The message always names the offending table/column so the
// caller can fix the input.
type SchemaError struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// --- Constructor helpers ---

func newError(kind ErrKind, format string, args ...any) *SchemaError {
	return &SchemaError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// withContext rewraps err with a message that adds positional context
// (which table, which column) while preserving the kind. The original
// error stays reachable through Unwrap.
func withContext(err error, format string, args ...any) error {
	return &SchemaError{
		Kind:    kindOf(err),
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// --- Public predicates ---

// IsNotAString reports whether err means a name was not string-typed.
func IsNotAString(err error) bool { return kindOf(err) == ErrKindNotAString }

// IsMustStartWithLetter reports whether err means a name was empty or did
// not begin with a letter.
func IsMustStartWithLetter(err error) bool { return kindOf(err) == ErrKindMustStartWithLetter }

// IsInvalidCharacters reports whether err means a name contained a character
// outside letters, digits, and underscore.
func IsInvalidCharacters(err error) bool { return kindOf(err) == ErrKindInvalidCharacters }

// IsDuplicateName reports whether err means a table or column name collided
// with one already accepted in its scope.
func IsDuplicateName(err error) bool { return kindOf(err) == ErrKindDuplicateName }

// IsSelfReferencingForeignKey reports whether err means a column referenced
// its own table.
func IsSelfReferencingForeignKey(err error) bool {
	return kindOf(err) == ErrKindSelfReferencingForeignKey
}

// IsUnknownForeignKeyTarget reports whether err means a column referenced a
// table that is not in the schema.
func IsUnknownForeignKeyTarget(err error) bool {
	return kindOf(err) == ErrKindUnknownForeignKeyTarget
}

// IsUnsupportedColumnType reports whether err means a column type was
// neither a primitive nor a resolvable table reference.
func IsUnsupportedColumnType(err error) bool {
	return kindOf(err) == ErrKindUnsupportedColumnType
}

// IsNotIterable reports whether err means the top-level table-definition
// input could not be traversed.
func IsNotIterable(err error) bool { return kindOf(err) == ErrKindNotIterable }

// IsIntegrity reports whether err is a foreign-key integrity violation,
// as opposed to a plain value error.
func IsIntegrity(err error) bool {
	k := kindOf(err)
	return k == ErrKindSelfReferencingForeignKey || k == ErrKindUnknownForeignKeyTarget
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *SchemaError
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
