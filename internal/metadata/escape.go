package metadata

import "strings"

// escapeString prepares a free-form value for a double-quoted document
// field: newlines become the two characters `\n`, backslash and double
// quote are backslash-prefixed, everything else passes through.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeEnumLabel escapes an enumeration mapping label. Only backslash and
// double quote are escaped; newlines pass through unchanged. The asymmetry
// with escapeString is deliberate: existing readers depend on the exact
// bytes both routines have always produced.
func escapeEnumLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// sanitizeIdentifier rewrites the characters instrumentation languages may
// inject into symbol names but the document grammar cannot carry.
func sanitizeIdentifier(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '.', '$', ':':
			b.WriteByte('_')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
