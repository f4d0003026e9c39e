package udsv

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidEscape indicates a backslash followed by a character outside
	// the escape table.
	ErrInvalidEscape = errors.New("invalid escape")

	// ErrMalformedMapItem indicates a map item without exactly one
	// unescaped equals sign.
	ErrMalformedMapItem = errors.New("malformed map item")

	// ErrInvalidBoolean indicates scalar text other than "true" or "false"
	// decoded into a bool.
	ErrInvalidBoolean = errors.New("invalid boolean")

	// ErrInvalidNumber indicates scalar text that does not parse as, or
	// overflows, the target numeric type.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrUnknownVariant indicates a union tag that matches no declared variant.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrArityMismatch indicates a record or list whose length differs from
	// the fixed arity the target type demands.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrUnsupportedNesting indicates a composite value nested inside
	// another composite beyond the single field level the format allows.
	ErrUnsupportedNesting = errors.New("unsupported nesting")

	// ErrUnsupportedType indicates a Go type the format cannot carry.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnexpectedTrailingData indicates record text left over after the
	// target value was fully decoded.
	ErrUnexpectedTrailingData = errors.New("unexpected trailing data")

	// ErrDuplicateKey indicates a map field containing the same key twice.
	ErrDuplicateKey = errors.New("duplicate map key")

	// ErrNoVariant indicates a union value with no variant set on encode.
	ErrNoVariant = errors.New("no union variant set")

	// ErrAmbiguousVariant indicates a union value with more than one
	// variant set on encode.
	ErrAmbiguousVariant = errors.New("multiple union variants set")

	// ErrInvalidTag indicates a udsv struct tag with an invalid format or
	// a union declaration that does not satisfy the variant rules.
	ErrInvalidTag = errors.New("invalid tag")
)

// SyntaxError represents malformed input detected by the grammar or escape
// layer. It wraps a sentinel error with the offending input fragment and its
// byte offset within the record.
type SyntaxError struct {
	Err      error  // Underlying sentinel error (ErrInvalidEscape, etc.)
	Fragment string // Offending input fragment
	Offset   int    // Byte offset of the fragment within the record
}

func (e *SyntaxError) Error() string {
	if e.Fragment != "" {
		return fmt.Sprintf("%s at offset %d: %q", e.Err.Error(), e.Offset, e.Fragment)
	}
	return fmt.Sprintf("%s at offset %d", e.Err.Error(), e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// TypeError represents a mismatch between a Go type and the value shapes the
// format supports. It wraps a sentinel error with the type and field involved.
type TypeError struct {
	Err   error  // Underlying sentinel error (ErrUnsupportedNesting, etc.)
	Type  string // Go type that triggered the error
	Field string // Field or variant name, if any
}

func (e *TypeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: type %s, field %s", e.Err.Error(), e.Type, e.Field)
	}
	return fmt.Sprintf("%s: type %s", e.Err.Error(), e.Type)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// newSyntaxError creates a SyntaxError for malformed record text.
func newSyntaxError(sentinel error, fragment string, offset int) error {
	return &SyntaxError{
		Err:      sentinel,
		Fragment: fragment,
		Offset:   offset,
	}
}

// newTypeError creates a TypeError for unsupported value shapes.
func newTypeError(sentinel error, typ, field string) error {
	return &TypeError{
		Err:   sentinel,
		Type:  typ,
		Field: field,
	}
}

// fieldErr fills in the field name on a TypeError that does not carry one,
// so errors surfacing from nested plans name the struct field involved.
func fieldErr(err error, name string) error {
	var te *TypeError
	if errors.As(err, &te) && te.Field == "" {
		te.Field = name
	}
	return err
}
