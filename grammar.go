package udsv

import "strings"

// The grammar layer splits and joins escaped record text on unescaped
// delimiters. Splitting never unescapes: the raw substrings keep their
// escapes so the caller can pick the right Position before interpreting
// each piece.

// splitUnescaped splits text on every occurrence of delim not preceded by an
// unconsumed backslash. The walk tracks an escaped flag that is set by a
// backslash and cleared after the following byte, so "\\:" splits on the
// colon while "\:" does not.
func splitUnescaped(text string, delim byte) []string {
	var parts []string
	start := 0
	escaped := false
	for i := 0; i < len(text); i++ {
		switch {
		case escaped:
			escaped = false
		case text[i] == '\\':
			escaped = true
		case text[i] == delim:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// indexUnescaped returns the index of the first unescaped occurrence of
// delim in text, or -1 if there is none.
func indexUnescaped(text string, delim byte) int {
	escaped := false
	for i := 0; i < len(text); i++ {
		switch {
		case escaped:
			escaped = false
		case text[i] == '\\':
			escaped = true
		case text[i] == delim:
			return i
		}
	}
	return -1
}

// splitRecord splits record text into raw field substrings on unescaped ':'.
func splitRecord(text string) []string {
	return splitUnescaped(text, ':')
}

// splitList splits field text into raw item substrings on unescaped ','.
// Empty field text is an empty list, not a one-item list of the empty
// scalar; the two are textually identical and the empty list wins.
func splitList(text string) []string {
	if text == "" {
		return nil
	}
	return splitUnescaped(text, ',')
}

// mapItem is one raw key/value pair of a map field. Both halves still carry
// their escapes.
type mapItem struct {
	rawKey   string
	rawValue string
	offset   int // byte offset of the item within the record
}

// splitMap splits field text into raw key/value pairs: unescaped ',' between
// items, exactly one unescaped '=' inside each item. offset is the byte
// position of the field within the record, used for error reporting.
func splitMap(text string, offset int) ([]mapItem, error) {
	if text == "" {
		return nil, nil
	}
	raw := splitUnescaped(text, ',')
	items := make([]mapItem, 0, len(raw))
	pos := offset
	for _, item := range raw {
		eq := indexUnescaped(item, '=')
		if eq < 0 {
			return nil, newSyntaxError(ErrMalformedMapItem, item, pos)
		}
		if indexUnescaped(item[eq+1:], '=') >= 0 {
			return nil, newSyntaxError(ErrMalformedMapItem, item, pos)
		}
		items = append(items, mapItem{
			rawKey:   item[:eq],
			rawValue: item[eq+1:],
			offset:   pos,
		})
		pos += len(item) + 1
	}
	return items, nil
}

// joinEscaped concatenates already-escaped substrings with the literal
// delimiter character. Inverse of the split operations.
func joinEscaped(items []string, delim byte) string {
	return strings.Join(items, string(delim))
}
