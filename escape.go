package udsv

import "strings"

// Position identifies the grammar position of a scalar. The position
// determines which delimiter characters are active separators and therefore
// must be escaped when they appear literally in the scalar's content.
type Position uint8

const (
	// PositionField is a bare colon-delimited field. Only ':' separates.
	PositionField Position = iota

	// PositionListItem is a comma-separated list item. ':' and ',' separate.
	PositionListItem

	// PositionMapKey is the key of a map item. ':', ',' and '=' separate.
	PositionMapKey

	// PositionMapValue is the value of a map item. ':', ',' and '=' separate.
	PositionMapValue
)

// String returns the position name.
func (p Position) String() string {
	switch p {
	case PositionField:
		return "field"
	case PositionListItem:
		return "list-item"
	case PositionMapKey:
		return "map-key"
	case PositionMapValue:
		return "map-value"
	default:
		return "unknown"
	}
}

// Escape returns s with a backslash escape inserted for every character that
// is special at the given position. Backslash, LF, CR and TAB are escaped in
// every position; ',' only when the scalar is a list or map component; '='
// only inside a map item. Delimiters and backslash are ASCII, so the
// byte-wise walk never splits a multi-byte UTF-8 sequence.
func Escape(s string, pos Position) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case ':':
			b.WriteString(`\:`)
		case ',':
			if pos == PositionField {
				b.WriteByte(c)
			} else {
				b.WriteString(`\,`)
			}
		case '=':
			if pos == PositionMapKey || pos == PositionMapValue {
				b.WriteString(`\=`)
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape resolves backslash escapes in s and returns the raw scalar text.
// A backslash before LF is consumed entirely (record continuation). A
// backslash before any character outside the escape table fails with
// ErrInvalidEscape.
func Unescape(s string) (string, error) {
	return unescapeAt(s, 0)
}

// unescapeAt is Unescape with the byte offset of s within the enclosing
// record, so errors point at the original input.
func unescapeAt(s string, offset int) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(s) {
			return "", newSyntaxError(ErrInvalidEscape, `\`, offset+i-1)
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case ':':
			b.WriteByte(':')
		case ',':
			b.WriteByte(',')
		case '=':
			b.WriteByte('=')
		case '\n':
			// Escaped newline is record continuation: elided entirely.
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", newSyntaxError(ErrInvalidEscape, s[i-1:i+1], offset+i-1)
		}
	}
	return b.String(), nil
}
