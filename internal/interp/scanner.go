package interp

import (
	"strings"
	"unicode"
)

// NextLine returns the line that starts at pos and the offset just past its
// newline. At or past the end of src it returns "" and len(src).
func NextLine(src string, pos int) (line string, next int) {
	if pos >= len(src) {
		return "", len(src)
	}
	pos = max(pos, 0)
	end := strings.IndexByte(src[pos:], '\n')
	if end < 0 {
		return src[pos:], len(src)
	}
	return src[pos : pos+end], pos + end + 1
}

// PrevLine returns the line that ends just before pos, never reaching below
// boundary, together with the new cursor: the offset of the newline that
// precedes the line, or boundary when none does. Repeated calls walk the
// source backwards until the cursor reaches boundary.
func PrevLine(src string, pos, boundary int) (line string, start int) {
	pos = min(pos, len(src))
	boundary = max(boundary, 0)
	if pos <= boundary {
		return "", boundary
	}
	nl := strings.LastIndexByte(src[boundary:pos], '\n')
	if nl < 0 {
		return src[boundary:pos], boundary
	}
	nl += boundary
	return src[nl+1 : pos], nl
}

// isSeparator reports whether r splits tokens.
func isSeparator(r rune) bool {
	switch r {
	case '[', ']', '(', ')', ',', ';':
		return true
	}
	return unicode.IsSpace(r)
}

// stripComment drops a trailing // comment.
func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

// Tokenize splits a line on whitespace and the punctuation [ ] ( ) , ;
// after removing any // comment. Empty tokens are dropped.
func Tokenize(line string) []string {
	return strings.FieldsFunc(stripComment(line), isSeparator)
}
