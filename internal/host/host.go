// Package host declares the editor surface a completion session observes
// and edits, plus an in-memory reference buffer used by tests and the
// demo binary.
//
// The interface is deliberately narrow. The engine never sees buffer
// internals, only byte offsets, syntax classification, identifier
// boundaries, and line/column mapping. Real editors adapt their buffer
// type to Buffer; hosts whose insertion mechanism understands tab-stop
// snippets additionally implement SnippetInserter.
package host

// Syntax classifies a buffer position for context computation.
type Syntax struct {
	InString  bool
	InComment bool
}

// Buffer is the editor collaborator a completion session works against.
// All offsets are byte offsets; offset n sits between bytes n-1 and n.
type Buffer interface {
	// CursorOffset returns the current cursor position.
	CursorOffset() int

	// SyntaxAt classifies the given position.
	SyntaxAt(offset int) Syntax

	// IdentifierAt returns the boundaries of the identifier-like token
	// at the given position. Trailing whitespace and newlines are
	// skipped backward before scanning; identifier bytes are ASCII
	// letters, digits, and underscore. A token that would start with a
	// digit collapses both boundaries to the given position; when no
	// identifier precedes it, both boundaries collapse to the position
	// after the whitespace skip.
	IdentifierAt(offset int) (start, end int)

	// LineCol converts an offset to a 1-based line number and a 1-based
	// byte column within that line. Columns count bytes, not runes, so
	// the mapping stays stable under multi-byte text.
	LineCol(offset int) (line, col int)

	// HasOperatorBefore reports whether the text immediately preceding
	// offset ends with one of the given operators, anchored with no
	// intervening characters.
	HasOperatorBefore(offset int, operators []string) bool

	// InsertText inserts at the cursor and leaves the cursor after the
	// inserted text.
	InsertText(text string) error
}

// SnippetInserter is the optional upgrade for hosts whose insertion
// mechanism understands the tab-stop snippets the snippet package
// produces. Hosts without it receive the literal fallback prefix via
// InsertText instead.
type SnippetInserter interface {
	Buffer
	InsertSnippet(snippet string) error
}
