// Package udsv implements a bidirectional codec for UNIX Delimiter Separated
// Values, the colon-delimited, backslash-escaped text format used by files
// such as passwd, shadow, group, and inittab.
//
// # Format
//
// A record is one line of text: colon-delimited fields, each field either a
// bare scalar, a comma-separated list, or a comma-separated sequence of
// key=value pairs:
//
//	root:x:0:0:root:/root:/bin/bash
//	wheel:x:10:alice,bob
//
// The format is not self-describing. A bare string, a one-element list, and
// a one-pair map can be textually identical; the Go type supplied to Marshal
// and Unmarshal decides how every field is read. There is no shape inference
// from text.
//
// # Escaping
//
// A literal delimiter inside a scalar is escaped with a backslash, and the
// set of characters needing escapes depends on where the scalar sits: ':' is
// always special, ',' only inside lists and maps, '=' only inside maps.
// Control characters use the usual single-letter escapes (\n, \r, \t), and a
// backslash before a literal newline continues the record onto the next
// line. A backslash before any other character is an error.
//
// # Type Mapping
//
//	string, numbers       scalar
//	bool                  scalar "true" / "false"
//	pointer               option: nil encodes as the empty scalar
//	slice                 list
//	array                 tuple: list encoding with fixed arity
//	map                   key=value pairs (sorted by key on encode)
//	struct                whole record: fields in declaration order, no tags
//	struct embedding Union externally tagged enum (see Union)
//
// Composites do not nest: a list of lists, a map inside a list, or a struct
// inside a field fails with ErrUnsupportedNesting. This mirrors the single
// delimiter level the grammar has.
//
// # Tag Syntax
//
// Field behavior is declared via udsv struct tags:
//
//	udsv:"-"        - Skip the field
//	udsv:"Name"     - Rename: the variant tag of a union field, and the
//	                  name used in error messages elsewhere
//
// Field names are never written to the wire; records are purely positional.
//
// # Lossy Encodings
//
// The empty scalar is overloaded: an absent option, an empty string, an
// empty list, and an empty map all encode to empty text. Decode resolves
// the ambiguity in favor of the target type's absent value, so a pointer to
// "" does not round-trip (it comes back nil), and empty slices and maps
// come back as their nil forms.
//
// # Errors
//
// All errors wrap a sentinel (ErrInvalidEscape, ErrMalformedMapItem, ...)
// for errors.Is checks. Grammar and escape problems come back as
// *SyntaxError carrying the offending fragment and its byte offset;
// type-shape problems come back as *TypeError naming the type and field.
// Decoding is fail-fast: there is no partial record and no silent coercion.
//
// # Basic Usage
//
//	type PasswdEntry struct {
//	    User     string
//	    Password string
//	    UID      uint32
//	    GID      uint32
//	    Gecos    string
//	    Home     string
//	    Shell    string
//	}
//
//	var e PasswdEntry
//	_ = udsv.Unmarshal([]byte("root:x:0:0:root:/root:/bin/bash"), &e)
//
//	out, _ := udsv.Marshal(e)
package udsv

// Override interfaces allow types to bypass reflection-based scalar
// handling. The codec applies position-sensitive escaping around them, so
// implementations work with raw unescaped text and never see backslashes.

// Marshaler is implemented by types that produce their own scalar text.
type Marshaler interface {
	// MarshalUDSV returns the raw scalar text for the value. The codec
	// escapes the result for the grammar position it lands in.
	MarshalUDSV() (string, error)
}

// Unmarshaler is implemented by types that parse their own scalar text.
type Unmarshaler interface {
	// UnmarshalUDSV parses raw scalar text into the receiver. The text is
	// already unescaped.
	UnmarshalUDSV(text string) error
}
